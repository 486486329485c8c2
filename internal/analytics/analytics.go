// Package analytics derives trends, correlations, weekday patterns and
// recommendations from session and note history. Every function is
// pure: history and the reference instant are passed in, nothing is
// mutated, and empty inputs produce neutral results.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/somnus-app/somnus/internal/domain"
)

// DefaultTrendWindowDays is the window used when the caller does not
// specify one.
const DefaultTrendWindowDays = 30

// recommendationWindowDays is the lookback for recommendation checks.
const recommendationWindowDays = 7

// maxRecommendations caps the emitted suggestions.
const maxRecommendations = 5

// SessionsInRange returns the completed sessions that started on or
// after now minus the given number of days, sorted ascending by start.
func SessionsInRange(sessions []domain.SleepSession, days int, now time.Time) []domain.SleepSession {
	cutoff := now.AddDate(0, 0, -days)

	var ranged []domain.SleepSession
	for _, s := range sessions {
		if s.Completed() && !s.StartAt.Before(cutoff) {
			ranged = append(ranged, s)
		}
	}

	sort.Slice(ranged, func(i, j int) bool {
		return ranged[i].StartAt.Before(ranged[j].StartAt)
	})

	return ranged
}

// QualityTrend maps the ranged sessions to dated quality points.
func QualityTrend(sessions []domain.SleepSession, days int, now time.Time) []domain.TrendPoint {
	ranged := SessionsInRange(sessions, days, now)

	points := make([]domain.TrendPoint, len(ranged))
	for i, s := range ranged {
		points[i] = domain.TrendPoint{
			Date:  s.StartAt.Format("Jan 2"),
			Value: float64(s.Quality),
			Label: fmt.Sprintf("%d%%", s.Quality),
		}
	}
	return points
}

// DurationTrend maps the ranged sessions to dated duration points in
// hours.
func DurationTrend(sessions []domain.SleepSession, days int, now time.Time) []domain.TrendPoint {
	ranged := SessionsInRange(sessions, days, now)

	points := make([]domain.TrendPoint, len(ranged))
	for i, s := range ranged {
		hours := float64(s.DurationMin) / 60
		points[i] = domain.TrendPoint{
			Date:  s.StartAt.Format("Jan 2"),
			Value: hours,
			Label: fmt.Sprintf("%.1fh", hours),
		}
	}
	return points
}

// AveragePhaseDistribution averages per-phase minutes across completed
// sessions and reports each phase's share of the combined total. With
// no data it returns zeroed rows rather than failing.
func AveragePhaseDistribution(sessions []domain.SleepSession) []domain.PhaseDistributionRow {
	var completed []domain.SleepSession
	for _, s := range sessions {
		if s.Completed() {
			completed = append(completed, s)
		}
	}

	names := []string{"Light", "Deep", "REM", "Awake"}
	if len(completed) == 0 {
		rows := make([]domain.PhaseDistributionRow, len(names))
		for i, name := range names {
			rows[i] = domain.PhaseDistributionRow{Name: name}
		}
		return rows
	}

	var totals domain.SleepPhases
	for _, s := range completed {
		totals.Light += s.Phases.Light
		totals.Deep += s.Phases.Deep
		totals.REM += s.Phases.REM
		totals.Awake += s.Phases.Awake
	}

	grand := totals.Total()
	row := func(name string, total int) domain.PhaseDistributionRow {
		r := domain.PhaseDistributionRow{
			Name:  name,
			Value: roundDiv(total, len(completed)),
		}
		if grand > 0 {
			r.Percentage = int(math.Round(float64(total) / float64(grand) * 100))
		}
		return r
	}

	return []domain.PhaseDistributionRow{
		row("Light", totals.Light),
		row("Deep", totals.Deep),
		row("REM", totals.REM),
		row("Awake", totals.Awake),
	}
}

// sessionNote pairs a completed session with the note logged for the
// same calendar day.
type sessionNote struct {
	session domain.SleepSession
	note    domain.SleepNote
}

// pairSessionsWithNotes matches each completed session to the first
// note sharing its start date.
func pairSessionsWithNotes(sessions []domain.SleepSession, notes []domain.SleepNote) []sessionNote {
	var pairs []sessionNote
	for _, s := range sessions {
		if !s.Completed() {
			continue
		}
		for _, n := range notes {
			if sameDay(s.StartAt, n.Date) {
				pairs = append(pairs, sessionNote{session: s, note: n})
				break
			}
		}
	}
	return pairs
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// ActivityCorrelations mines quality impacts of caffeine, exercise,
// stress and screen time from day-paired sessions and notes. Fewer
// than 3 pairs yields no insights; only impacts beyond 5 points are
// reported, sorted by descending absolute impact.
func ActivityCorrelations(sessions []domain.SleepSession, notes []domain.SleepNote) []domain.CorrelationInsight {
	pairs := pairSessionsWithNotes(sessions, notes)
	if len(pairs) < 3 {
		return []domain.CorrelationInsight{}
	}

	confidence := domain.ConfidenceLow
	if len(pairs) > 10 {
		confidence = domain.ConfidenceHigh
	} else if len(pairs) > 5 {
		confidence = domain.ConfidenceMedium
	}

	insights := []domain.CorrelationInsight{}

	addInsight := func(activity string, with, without []sessionNote, negativeDesc, positiveDesc string) {
		if len(with) == 0 || len(without) == 0 {
			return
		}
		impact := int(math.Round(meanQuality(with) - meanQuality(without)))
		if impact >= -5 && impact <= 5 {
			return
		}
		desc := positiveDesc
		if impact < 0 {
			desc = negativeDesc
		}
		insights = append(insights, domain.CorrelationInsight{
			Activity:    activity,
			Impact:      impact,
			Description: fmt.Sprintf(desc, abs(impact)),
			Confidence:  confidence,
		})
	}

	withCaffeine, withoutCaffeine := partition(pairs, func(sn sessionNote) bool {
		return len(sn.note.Activities.Caffeine) > 0
	})
	addInsight("Caffeine", withCaffeine, withoutCaffeine,
		"Caffeine consumption reduces your sleep quality by %d%%",
		"Caffeine consumption improves your sleep quality by %d%%")

	withExercise, withoutExercise := partition(pairs, func(sn sessionNote) bool {
		return sn.note.Activities.Exercise != nil
	})
	addInsight("Exercise", withExercise, withoutExercise,
		"Exercise reduces your sleep quality by %d%%",
		"Exercise improves your sleep quality by %d%%")

	highStress, _ := partition(pairs, func(sn sessionNote) bool {
		return sn.note.Activities.Stress >= 4
	})
	lowStress, _ := partition(pairs, func(sn sessionNote) bool {
		return sn.note.Activities.Stress <= 2
	})
	if len(highStress) > 0 && len(lowStress) > 0 {
		addInsight("High Stress", highStress, lowStress,
			"High stress levels reduce your sleep quality by %d%%",
			"High stress levels improve your sleep quality by %d%%")
	}

	highScreen, _ := partition(pairs, func(sn sessionNote) bool {
		return sn.note.Activities.ScreenTimeMin > 120
	})
	lowScreen, _ := partition(pairs, func(sn sessionNote) bool {
		return sn.note.Activities.ScreenTimeMin < 60
	})
	if len(highScreen) > 0 && len(lowScreen) > 0 {
		addInsight("Screen Time", highScreen, lowScreen,
			"High screen time (>2h) reduces your sleep quality by %d%%",
			"High screen time improves your sleep quality by %d%%")
	}

	sort.SliceStable(insights, func(i, j int) bool {
		return abs(insights[i].Impact) > abs(insights[j].Impact)
	})

	return insights
}

// weekdayNames is indexed Sunday(0) through Saturday(6).
var weekdayNames = []string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// WeekdayPatterns averages quality and duration of completed sessions
// per weekday. Weekdays without sessions report zeroed averages with a
// zero count.
func WeekdayPatterns(sessions []domain.SleepSession) []domain.WeekdayPattern {
	patterns := make([]domain.WeekdayPattern, 7)

	for day := 0; day < 7; day++ {
		var qualitySum, durationSum, count int
		for _, s := range sessions {
			if s.Completed() && int(s.StartAt.Weekday()) == day {
				qualitySum += s.Quality
				durationSum += s.DurationMin
				count++
			}
		}

		pattern := domain.WeekdayPattern{Day: weekdayNames[day], Count: count}
		if count > 0 {
			pattern.AverageQuality = roundDiv(qualitySum, count)
			pattern.AverageDuration = roundDiv(durationSum, count)
		}
		patterns[day] = pattern
	}

	return patterns
}

// Recommendations synthesizes up to 5 priority-tagged suggestions from
// the last 7 days of sessions, the note correlations and weekday
// patterns. Empty history yields none.
func Recommendations(sessions []domain.SleepSession, notes []domain.SleepNote, goalMin int, now time.Time) []domain.Recommendation {
	recommendations := []domain.Recommendation{}

	if len(sessions) == 0 {
		return recommendations
	}

	recent := SessionsInRange(sessions, recommendationWindowDays, now)
	if len(recent) == 0 {
		return recommendations
	}

	var durationSum, qualitySum, interruptionSum int
	for _, s := range recent {
		durationSum += s.DurationMin
		qualitySum += s.Quality
		interruptionSum += s.Interruptions
	}
	avgDuration := float64(durationSum) / float64(len(recent))
	avgQuality := float64(qualitySum) / float64(len(recent))
	avgInterruptions := float64(interruptionSum) / float64(len(recent))

	if avgDuration < float64(goalMin-60) {
		shortfallHours := int(math.Round((float64(goalMin) - avgDuration) / 60))
		recommendations = append(recommendations, domain.Recommendation{
			Title: "Increase Sleep Duration",
			Description: fmt.Sprintf(
				"You're sleeping %d hours less than your goal. Try going to bed 30 minutes earlier.",
				shortfallHours),
			Priority: domain.PriorityHigh,
			Category: domain.CategoryDuration,
		})
	}

	if avgQuality < 70 {
		recommendations = append(recommendations, domain.Recommendation{
			Title:       "Improve Sleep Quality",
			Description: "Your sleep quality is below optimal. Consider reviewing your bedtime routine and sleep environment.",
			Priority:    domain.PriorityHigh,
			Category:    domain.CategoryQuality,
		})
	}

	if avgInterruptions > 5 {
		recommendations = append(recommendations, domain.Recommendation{
			Title: "Reduce Sleep Interruptions",
			Description: fmt.Sprintf(
				"You average %d interruptions per night. Try reducing noise and light in your bedroom.",
				int(math.Round(avgInterruptions))),
			Priority: domain.PriorityMedium,
			Category: domain.CategoryQuality,
		})
	}

	for _, insight := range ActivityCorrelations(sessions, notes) {
		if insight.Impact >= -10 || insight.Confidence == domain.ConfidenceLow {
			continue
		}
		switch insight.Activity {
		case "Caffeine":
			recommendations = append(recommendations, domain.Recommendation{
				Title:       "Reduce Late Caffeine",
				Description: "Caffeine is negatively impacting your sleep. Try avoiding it after 2 PM.",
				Priority:    domain.PriorityMedium,
				Category:    domain.CategoryActivities,
			})
		case "High Stress":
			recommendations = append(recommendations, domain.Recommendation{
				Title:       "Manage Stress Levels",
				Description: "High stress is affecting your sleep. Consider meditation or relaxation techniques.",
				Priority:    domain.PriorityHigh,
				Category:    domain.CategoryActivities,
			})
		case "Screen Time":
			recommendations = append(recommendations, domain.Recommendation{
				Title:       "Reduce Evening Screen Time",
				Description: "Excessive screen time before bed is hurting your sleep quality. Try a digital curfew 1 hour before bed.",
				Priority:    domain.PriorityMedium,
				Category:    domain.CategoryActivities,
			})
		}
	}

	if worst, ok := worstWeekday(recent); ok && float64(worst.AverageQuality) < avgQuality-10 {
		recommendations = append(recommendations, domain.Recommendation{
			Title: fmt.Sprintf("Improve %s Sleep", worst.Day),
			Description: fmt.Sprintf(
				"Your sleep quality on %ss is %d%% below average. Review what's different on those days.",
				worst.Day, int(math.Round(avgQuality-float64(worst.AverageQuality)))),
			Priority: domain.PriorityLow,
			Category: domain.CategoryTiming,
		})
	}

	if len(recommendations) > maxRecommendations {
		recommendations = recommendations[:maxRecommendations]
	}
	return recommendations
}

// worstWeekday finds the weekday with the lowest average quality among
// weekdays that have sessions.
func worstWeekday(sessions []domain.SleepSession) (domain.WeekdayPattern, bool) {
	var worst domain.WeekdayPattern
	found := false
	for _, p := range WeekdayPatterns(sessions) {
		if p.Count == 0 {
			continue
		}
		if !found || p.AverageQuality < worst.AverageQuality {
			worst = p
			found = true
		}
	}
	return worst, found
}

func partition(pairs []sessionNote, pred func(sessionNote) bool) (with, without []sessionNote) {
	for _, sn := range pairs {
		if pred(sn) {
			with = append(with, sn)
		} else {
			without = append(without, sn)
		}
	}
	return with, without
}

func meanQuality(pairs []sessionNote) float64 {
	if len(pairs) == 0 {
		return 0
	}
	sum := 0
	for _, sn := range pairs {
		sum += sn.session.Quality
	}
	return float64(sum) / float64(len(pairs))
}

func roundDiv(total, n int) int {
	return int(math.Round(float64(total) / float64(n)))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
