package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/CodexForgeBR/mock-interviewer/internal/logging"
	"github.com/CodexForgeBR/mock-interviewer/internal/phases"
	"github.com/CodexForgeBR/mock-interviewer/internal/state"
	"github.com/CodexForgeBR/mock-interviewer/internal/store"
)

// CreateRequest is the body of POST /v1/sessions.
type CreateRequest struct {
	Name   string `json:"name"`
	Agreed bool   `json:"agreed"`
}

// AnswerRequest is the body of the answer and follow-up endpoints.
type AnswerRequest struct {
	Answer string `json:"answer"`
}

// ViolationRequest is the body of POST /v1/sessions/{id}/violations. It may be empty.
type ViolationRequest struct {
	Kind string `json:"kind"`
}

// QuestionResponse tells the UI what to show next.
type QuestionResponse struct {
	Done     bool            `json:"done"`
	Phase    state.Phase     `json:"phase"`
	Intro    string          `json:"intro,omitempty"`
	Question *state.Question `json:"question,omitempty"`
	Followup string          `json:"followup,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeFailure maps controller and store errors onto status codes.
func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, state.ErrCorruptSession):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":   "session could not be resumed",
			"restart": true,
		})
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, phases.ErrAgreementRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, phases.ErrAlreadyStarted),
		errors.Is(err, phases.ErrNotStarted),
		errors.Is(err, phases.ErrSessionDone),
		errors.Is(err, phases.ErrFollowupPending),
		errors.Is(err, phases.ErrNoFollowupPending),
		errors.Is(err, phases.ErrNoCurrentQuestion),
		errors.Is(err, phases.ErrNotFinished):
		writeError(w, http.StatusConflict, err.Error())
	default:
		logging.Error(fmt.Sprintf("request failed: %v", err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decode reads a JSON body into v. An empty body is accepted when optional is set.
func decode(r *http.Request, v any, optional bool) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if optional && errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// createSession handles POST /v1/sessions
func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := s.newController()
	if err != nil {
		writeFailure(w, err)
		return
	}
	if err := c.Start(r.Context(), req.Name, req.Agreed); err != nil {
		writeFailure(w, err)
		return
	}
	s.register(c)
	s.persist(r.Context(), c)
	writeJSON(w, http.StatusCreated, c.Snapshot())
}

// getSession handles GET /v1/sessions/{id}
func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	c, err := s.lookup(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c.Snapshot())
}

// getQuestion handles GET /v1/sessions/{id}/question. It issues a question when
// none is outstanding and reports a pending follow-up or the end of the session.
func (s *Server) getQuestion(w http.ResponseWriter, r *http.Request) {
	c, err := s.lookup(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeFailure(w, err)
		return
	}

	snap := c.Snapshot()
	switch {
	case snap.Phase == state.PhaseDone:
		writeJSON(w, http.StatusOK, QuestionResponse{Done: true, Phase: snap.Phase})
		return
	case snap.HasPendingFollowup():
		writeJSON(w, http.StatusOK, QuestionResponse{Phase: snap.Phase, Followup: snap.PendingFollowup})
		return
	}

	q, err := c.NextQuestion(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	resp := QuestionResponse{Phase: c.Phase(), Question: &q}
	if intro, ok := c.PendingIntro(); ok {
		resp.Intro = intro
		c.AcknowledgeIntro()
	}
	s.persist(r.Context(), c)
	writeJSON(w, http.StatusOK, resp)
}

// submitAnswer handles POST /v1/sessions/{id}/answers
func (s *Server) submitAnswer(w http.ResponseWriter, r *http.Request) {
	s.answer(w, r, (*phases.Controller).SubmitAnswer)
}

// submitFollowup handles POST /v1/sessions/{id}/followup
func (s *Server) submitFollowup(w http.ResponseWriter, r *http.Request) {
	s.answer(w, r, (*phases.Controller).SubmitFollowupAnswer)
}

type submitFunc func(*phases.Controller, context.Context, string) (phases.Outcome, error)

func (s *Server) answer(w http.ResponseWriter, r *http.Request, submit submitFunc) {
	c, err := s.lookup(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeFailure(w, err)
		return
	}
	var req AnswerRequest
	if err := decode(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	out, err := submit(c, r.Context(), req.Answer)
	if err != nil {
		writeFailure(w, err)
		return
	}
	s.persist(r.Context(), c)
	writeJSON(w, http.StatusOK, out)
}

// recordViolation handles POST /v1/sessions/{id}/violations
func (s *Server) recordViolation(w http.ResponseWriter, r *http.Request) {
	c, err := s.lookup(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeFailure(w, err)
		return
	}
	var req ViolationRequest
	if err := decode(r, &req, true); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	n, err := c.RecordTabViolation(req.Kind)
	if err != nil {
		writeFailure(w, err)
		return
	}
	s.persist(r.Context(), c)
	writeJSON(w, http.StatusOK, map[string]int{"tab_violations": n})
}

// getScorecard handles GET /v1/sessions/{id}/scorecard
func (s *Server) getScorecard(w http.ResponseWriter, r *http.Request) {
	c, err := s.lookup(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeFailure(w, err)
		return
	}
	card, err := c.Scorecard()
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// restart handles POST /v1/sessions/{id}/restart. The old id stops resolving
// to this controller; the fresh idle session is registered under its new id.
func (s *Server) restart(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	c, err := s.lookup(r.Context(), id)
	if err != nil && !errors.Is(err, state.ErrCorruptSession) {
		writeFailure(w, err)
		return
	}
	if c == nil {
		// A corrupt session is replaced by a fresh controller.
		if c, err = s.newController(); err != nil {
			writeFailure(w, err)
			return
		}
	} else {
		c.Restart()
	}
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	s.register(c)
	s.persist(r.Context(), c)
	writeJSON(w, http.StatusOK, c.Snapshot())
}
