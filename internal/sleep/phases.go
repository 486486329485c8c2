package sleep

import (
	"math/rand"

	"github.com/somnus-app/somnus/internal/domain"
)

// CycleMinutes is the length of one full sleep cycle.
const CycleMinutes = 90

// Per-cycle phase allocations in minutes. The first cycle is
// deep-sleep-heavy, the last REM-heavy.
var (
	firstCycle  = domain.SleepPhases{Light: 15, Deep: 50, REM: 15}
	middleCycle = domain.SleepPhases{Light: 20, Deep: 35, REM: 25}
	lastCycle   = domain.SleepPhases{Light: 25, Deep: 20, REM: 35}
)

// microAwakeningChance is the per-cycle probability of adding a short
// awake interval of 1-3 minutes.
const microAwakeningChance = 0.3

// PhaseGenerator synthesizes a phase breakdown for a session duration.
// The micro-awakening randomness is the one stochastic element in the
// calculation core; it is confined here so tests can seed it.
type PhaseGenerator struct {
	rng *rand.Rand
}

// NewPhaseGenerator creates a generator backed by the given source.
func NewPhaseGenerator(src rand.Source) *PhaseGenerator {
	return &PhaseGenerator{rng: rand.New(src)}
}

// Generate partitions durationMin into 90-minute cycles and sums the
// per-cycle phase allocations. Zero or sub-cycle durations yield
// all-zero phases.
func (g *PhaseGenerator) Generate(durationMin int) domain.SleepPhases {
	cycles := durationMin / CycleMinutes

	var phases domain.SleepPhases
	for i := 0; i < cycles; i++ {
		var alloc domain.SleepPhases
		switch {
		case i == 0:
			alloc = firstCycle
		case i == cycles-1:
			alloc = lastCycle
		default:
			alloc = middleCycle
		}
		phases.Light += alloc.Light
		phases.Deep += alloc.Deep
		phases.REM += alloc.REM

		if g.rng.Float64() < microAwakeningChance {
			phases.Awake += g.rng.Intn(3) + 1
		}
	}

	return phases
}
