package sleep

import (
	"math/rand"
	"testing"

	"github.com/somnus-app/somnus/internal/domain"
)

func TestPhaseGenerator_Generate(t *testing.T) {
	tests := []struct {
		name        string
		durationMin int
	}{
		{"zero duration", 0},
		{"below one cycle", 89},
		{"exactly one cycle", 90},
		{"typical night", 480},
		{"long night", 600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := NewPhaseGenerator(rand.NewSource(1))
			phases := gen.Generate(tt.durationMin)

			if phases.Light < 0 || phases.Deep < 0 || phases.REM < 0 || phases.Awake < 0 {
				t.Errorf("Generate(%d) produced negative phase minutes: %+v", tt.durationMin, phases)
			}

			// Each cycle allocates 80 of its 90 minutes plus at most 3
			// awake minutes, so the total never exceeds the duration.
			if phases.Total() > tt.durationMin {
				t.Errorf("Generate(%d) total = %d, want <= duration", tt.durationMin, phases.Total())
			}
		})
	}
}

func TestPhaseGenerator_ZeroDurationIsAllZero(t *testing.T) {
	gen := NewPhaseGenerator(rand.NewSource(1))
	if phases := gen.Generate(0); phases != (domain.SleepPhases{}) {
		t.Errorf("Generate(0) = %+v, want all zero", phases)
	}
}

func TestPhaseGenerator_Deterministic(t *testing.T) {
	a := NewPhaseGenerator(rand.NewSource(42)).Generate(480)
	b := NewPhaseGenerator(rand.NewSource(42)).Generate(480)
	if a != b {
		t.Errorf("same seed produced different phases: %+v vs %+v", a, b)
	}
}

func TestPhaseGenerator_CycleAllocations(t *testing.T) {
	// Five cycles: first (15/50/15) + three middle (20/35/25) + last
	// (25/20/35), before any stochastic awake minutes.
	gen := NewPhaseGenerator(rand.NewSource(7))
	phases := gen.Generate(450)

	if want := 15 + 3*20 + 25; phases.Light != want {
		t.Errorf("light = %d, want %d", phases.Light, want)
	}
	if want := 50 + 3*35 + 20; phases.Deep != want {
		t.Errorf("deep = %d, want %d", phases.Deep, want)
	}
	if want := 15 + 3*25 + 35; phases.REM != want {
		t.Errorf("rem = %d, want %d", phases.REM, want)
	}
	if phases.Awake > 15 {
		t.Errorf("awake = %d, want at most 3 per cycle", phases.Awake)
	}
}
