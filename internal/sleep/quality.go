// Package sleep holds the pure sleep-domain calculations: session
// quality scoring, phase synthesis, rolling sleep debt and display
// banding. Nothing in this package performs I/O or mutates its inputs.
package sleep

import (
	"math"

	"github.com/somnus-app/somnus/internal/domain"
)

// Quality sub-score weights.
const (
	weightDuration      = 0.30
	weightEfficiency    = 0.25
	weightInterruptions = 0.20
	weightPhases        = 0.15
	weightConsistency   = 0.10
)

// consistencyMinSamples is the minimum completed-session count before
// schedule regularity is scored; below it new users get a perfect score.
const consistencyMinSamples = 3

// CalculateQuality scores a completed session on a 0-100 scale from a
// weighted sum of duration, efficiency, interruption, phase-balance and
// schedule-consistency sub-scores. recentSessions is the history used
// for the consistency component; only its completed entries count.
func CalculateQuality(session *domain.SleepSession, recentSessions []domain.SleepSession) int {
	durationScore := durationScore(session.DurationMin)

	// Efficiency is a documented placeholder: held at 100 until a real
	// time-in-bed signal exists to derive it from.
	efficiencyScore := 100.0

	interruptionScore := math.Max(0, 100-float64(session.Interruptions)*10)

	phaseScore := phaseScore(session.Phases)

	consistencyScore := consistencyScore(recentSessions)

	quality := durationScore*weightDuration +
		efficiencyScore*weightEfficiency +
		interruptionScore*weightInterruptions +
		phaseScore*weightPhases +
		consistencyScore*weightConsistency

	return int(math.Round(quality))
}

func durationScore(minutes int) float64 {
	hours := float64(minutes) / 60
	switch {
	case hours >= 7 && hours <= 9:
		return 100
	case hours >= 6 && hours < 7:
		return 80
	case hours > 9 && hours <= 10:
		return 80
	case hours >= 5 && hours < 6:
		return 60
	default:
		return 40
	}
}

// phaseScore rates how close the phase split is to the ideal
// 50% light / 30% deep / 20% REM distribution.
func phaseScore(phases domain.SleepPhases) float64 {
	total := float64(phases.Total())
	if total == 0 {
		return 100
	}

	lightDiff := math.Abs(float64(phases.Light)/total*100 - 50)
	deepDiff := math.Abs(float64(phases.Deep)/total*100 - 30)
	remDiff := math.Abs(float64(phases.REM)/total*100 - 20)

	avgDiff := (lightDiff + deepDiff + remDiff) / 3
	return math.Max(0, 100-avgDiff*2)
}

// consistencyScore rates schedule regularity over the last 7 completed
// sessions: 0h average bedtime/wake deviation scores 100, 2h or more
// scores 0, linear in between.
func consistencyScore(sessions []domain.SleepSession) float64 {
	completed := lastCompleted(sessions, 7)
	if len(completed) < consistencyMinSamples {
		return 100
	}

	bedtimes := make([]float64, len(completed))
	wakeTimes := make([]float64, len(completed))
	for i, s := range completed {
		bedtimes[i] = decimalHour(s.StartAt.Hour(), s.StartAt.Minute())
		wakeTimes[i] = decimalHour(s.EndAt.Hour(), s.EndAt.Minute())
	}

	avgStdDev := (stdDev(bedtimes) + stdDev(wakeTimes)) / 2

	score := math.Max(0, math.Min(100, 100-(avgStdDev/2)*100))
	return math.Round(score)
}

// lastCompleted returns the last n completed sessions in storage order.
func lastCompleted(sessions []domain.SleepSession, n int) []domain.SleepSession {
	var completed []domain.SleepSession
	for _, s := range sessions {
		if s.Completed() {
			completed = append(completed, s)
		}
	}
	if len(completed) > n {
		completed = completed[len(completed)-n:]
	}
	return completed
}

func decimalHour(hour, minute int) float64 {
	return float64(hour) + float64(minute)/60
}

// stdDev is the population standard deviation.
func stdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	sumSquares := 0.0
	for _, v := range values {
		diff := v - mean
		sumSquares += diff * diff
	}

	return math.Sqrt(sumSquares / float64(len(values)))
}
