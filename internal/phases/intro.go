package phases

import (
	"fmt"
	"strings"

	"github.com/CodexForgeBR/mock-interviewer/internal/state"
)

// PhaseIntro returns the text shown to the candidate on entering p.
// Phases without an intro return "".
func PhaseIntro(p state.Phase, candidate string) string {
	switch p {
	case state.PhaseBasic:
		name := strings.TrimSpace(candidate)
		if name == "" {
			name = "candidate"
		}
		return fmt.Sprintf("Hello %s. We'll start with the basic round to check core Excel skills.", name)
	case state.PhaseIntermediate:
		return "Next, we will move into intermediate-level Excel skills focusing on data cleaning and lookups."
	case state.PhaseAdvanced:
		return "Now moving into advanced Excel topics like pivot tables and reporting."
	}
	return ""
}

// PendingIntro returns the intro for the current phase if it has not been acknowledged yet.
func (c *Controller) PendingIntro() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.s.Phase.Questioning() || c.s.IntroShown == c.s.Phase {
		return "", false
	}
	return PhaseIntro(c.s.Phase, c.s.Candidate), true
}

// AcknowledgeIntro marks the current phase's intro as shown.
func (c *Controller) AcknowledgeIntro() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.s.Phase.Questioning() {
		c.s.IntroShown = c.s.Phase
	}
}
