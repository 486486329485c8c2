package sleep

import "github.com/somnus-app/somnus/internal/domain"

// MaxDebtMin caps accumulated sleep debt (and surplus) at 10 hours.
const MaxDebtMin = 600

// CalculateDebt sums (goal - duration) over the last 7 completed
// sessions and clamps the total to [-MaxDebtMin, MaxDebtMin]. Positive
// means the user slept less than the goal.
//
// "Last 7" is positional over the completed entries in storage order,
// not a calendar-week window; changing that would change the numbers.
func CalculateDebt(sessions []domain.SleepSession, goalMin int) int {
	recent := lastCompleted(sessions, 7)

	total := 0
	for _, s := range recent {
		total += goalMin - s.DurationMin
	}

	if total > MaxDebtMin {
		return MaxDebtMin
	}
	if total < -MaxDebtMin {
		return -MaxDebtMin
	}
	return total
}
