// Package server exposes interview sessions over an HTTP/JSON API for a browser UI.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/CodexForgeBR/mock-interviewer/internal/logging"
	"github.com/CodexForgeBR/mock-interviewer/internal/notification"
	"github.com/CodexForgeBR/mock-interviewer/internal/phases"
	"github.com/CodexForgeBR/mock-interviewer/internal/scorecard"
	"github.com/CodexForgeBR/mock-interviewer/internal/state"
	"github.com/CodexForgeBR/mock-interviewer/internal/store"
)

// Config wires a Server to its collaborators.
type Config struct {
	Options phases.Options
	// NewDeps returns the collaborators for one controller. Each session gets its
	// own set so per-session state such as a seeded gate is not shared.
	NewDeps     func() phases.Deps
	Store       store.Store
	Webhook     string
	CORSOrigins []string
}

// Server routes API calls to a registry of live controllers. Sessions that
// are not in memory are resumed from the store on first access.
type Server struct {
	cfg Config

	mu       sync.Mutex
	sessions map[string]*phases.Controller
}

// New returns a Server. A nil store keeps sessions in memory only.
func New(cfg Config) *Server {
	if cfg.NewDeps == nil {
		cfg.NewDeps = func() phases.Deps { return phases.Deps{} }
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore()
	}
	return &Server{cfg: cfg, sessions: make(map[string]*phases.Controller)}
}

// Handler returns the routed, instrumented HTTP handler.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(logRequests)
	r.Use(cors(s.cfg.CORSOrigins))

	r.HandleFunc("/health", s.health).Methods("GET")

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/sessions", s.createSession).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}", s.getSession).Methods("GET", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/question", s.getQuestion).Methods("GET", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/answers", s.submitAnswer).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/followup", s.submitFollowup).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/violations", s.recordViolation).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/scorecard", s.getScorecard).Methods("GET", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/restart", s.restart).Methods("POST", "OPTIONS")

	return otelhttp.NewHandler(r, "interviewer.api")
}

// ListenAndServe serves the API on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	logging.Info(fmt.Sprintf("API listening on %s", addr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) newController() (*phases.Controller, error) {
	return phases.New(s.cfg.Options, s.deps())
}

func (s *Server) deps() phases.Deps {
	d := s.cfg.NewDeps()
	inner := d.OnDone
	webhook := s.cfg.Webhook
	d.OnDone = func(st state.SessionState, card scorecard.Scorecard) {
		if inner != nil {
			inner(st, card)
		}
		logging.Success(fmt.Sprintf("session %s finished with overall score %.2f", st.ID, card.OverallScore))
		if webhook != "" {
			go notification.SendNotification(webhook, notification.Completed(card))
		}
	}
	return d
}

func (s *Server) register(c *phases.Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[c.ID()] = c
}

// lookup returns the live controller for id, resuming it from the store if needed.
func (s *Server) lookup(ctx context.Context, id string) (*phases.Controller, error) {
	s.mu.Lock()
	c, ok := s.sessions[id]
	s.mu.Unlock()
	if ok {
		return c, nil
	}

	saved, err := s.cfg.Store.LoadSession(ctx, id)
	if err != nil {
		return nil, err
	}
	c, err = phases.Resume(saved, s.cfg.Options, s.deps())
	if err != nil {
		logging.Warn(fmt.Sprintf("session %s could not be resumed: %v", id, err))
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another request may have resumed it first.
	if existing, ok := s.sessions[id]; ok {
		return existing, nil
	}
	s.sessions[id] = c
	return c, nil
}

// persist saves the session and, once it is finished, its scorecard.
// Storage failures are logged and do not fail the request.
func (s *Server) persist(ctx context.Context, c *phases.Controller) {
	snap := c.Snapshot()
	if err := s.cfg.Store.SaveSession(ctx, snap); err != nil {
		logging.Warn(fmt.Sprintf("session %s not saved: %v", snap.ID, err))
	}
	if snap.Phase != state.PhaseDone {
		return
	}
	card, err := c.Scorecard()
	if err != nil {
		return
	}
	if err := s.cfg.Store.SaveScorecard(ctx, card); err != nil {
		logging.Warn(fmt.Sprintf("scorecard %s not saved: %v", snap.ID, err))
	}
}

func allowedOrigin(origins []string, origin string) string {
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o == "*" {
			return "*"
		}
		if origin != "" && strings.EqualFold(o, origin) {
			return origin
		}
	}
	return ""
}
