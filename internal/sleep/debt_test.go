package sleep

import (
	"testing"
	"time"

	"github.com/somnus-app/somnus/internal/domain"
)

func TestCalculateDebt(t *testing.T) {
	base := time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)

	sessionsOf := func(durations ...int) []domain.SleepSession {
		var sessions []domain.SleepSession
		for i, d := range durations {
			sessions = append(sessions, completedSession(base.AddDate(0, 0, i), d))
		}
		return sessions
	}

	tests := []struct {
		name     string
		sessions []domain.SleepSession
		goalMin  int
		want     int
	}{
		{"empty history", nil, 480, 0},
		{"all sessions meet goal", sessionsOf(480, 480, 480), 480, 0},
		{"one hour short per night", sessionsOf(420, 420, 420), 480, 180},
		{"surplus goes negative", sessionsOf(540, 540), 480, -120},
		{"debt clamped at 600", sessionsOf(60, 60, 60, 60, 60, 60, 60), 480, 600},
		{"surplus clamped at -600", sessionsOf(840, 840, 840, 840, 840, 840, 840), 240, -600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateDebt(tt.sessions, tt.goalMin); got != tt.want {
				t.Errorf("CalculateDebt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCalculateDebt_UsesLastSevenCompletedEntries(t *testing.T) {
	base := time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)

	// Ten completed entries: seven on-goal nights followed by three
	// one-hour-short nights. Only the last seven entries count, so the
	// debt is 3x60 regardless of the earlier history.
	var sessions []domain.SleepSession
	for i := 0; i < 7; i++ {
		sessions = append(sessions, completedSession(base.AddDate(0, 0, i), 480))
	}
	for i := 7; i < 10; i++ {
		sessions = append(sessions, completedSession(base.AddDate(0, 0, i), 420))
	}

	if got := CalculateDebt(sessions, 480); got != 180 {
		t.Errorf("CalculateDebt() = %d, want 180 (last 7 entries only)", got)
	}
}

func TestCalculateDebt_SkipsActiveSessions(t *testing.T) {
	base := time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)

	sessions := []domain.SleepSession{
		completedSession(base, 420),
		{StartAt: base.AddDate(0, 0, 1)}, // in progress
	}

	if got := CalculateDebt(sessions, 480); got != 60 {
		t.Errorf("CalculateDebt() = %d, want 60", got)
	}
}
