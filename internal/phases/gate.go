package phases

import (
	"math/rand"
	"sync"
	"time"
)

// Gate decides whether an eligible follow-up is actually asked.
type Gate interface {
	Fire() bool
}

// GateFunc adapts a plain function to Gate.
type GateFunc func() bool

// Fire calls f.
func (f GateFunc) Fire() bool { return f() }

// Always and Never are deterministic gates for tests and for disabling sampling.
var (
	Always Gate = GateFunc(func() bool { return true })
	Never  Gate = GateFunc(func() bool { return false })
)

// RandomGate fires with a fixed probability using a seedable source.
type RandomGate struct {
	mu          sync.Mutex
	rng         *rand.Rand
	probability float64
}

// NewRandomGate returns a gate firing with the given probability.
// A zero seed seeds from the wall clock.
func NewRandomGate(probability float64, seed int64) *RandomGate {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomGate{
		rng:         rand.New(rand.NewSource(seed)),
		probability: probability,
	}
}

// Fire draws once from the source.
func (g *RandomGate) Fire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Float64() < g.probability
}
