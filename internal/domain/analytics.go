package domain

// TrendPoint is one sample in a quality or duration trend series.
// @Description One dated sample in a trend chart.
type TrendPoint struct {
	// Short date label, e.g. "Jan 15"
	Date string `json:"date" example:"Jan 15"`
	// Quality percent or duration hours depending on the series
	Value float64 `json:"value" example:"7.5"`
	Label string  `json:"label" example:"7.5h"`
}

// PhaseDistributionRow is the averaged share of one sleep phase.
// @Description Average minutes and percentage share for one phase.
type PhaseDistributionRow struct {
	Name string `json:"name" example:"Deep"`
	// Average minutes per completed session
	Value int `json:"value" example:"110"`
	// Share of the combined phase total, percent
	Percentage int `json:"percentage" example:"27"`
}

// Confidence grades a correlation insight by sample size.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// CorrelationInsight links an activity to a measured quality impact.
// @Description Activity/quality correlation mined from notes.
type CorrelationInsight struct {
	Activity string `json:"activity" example:"Caffeine"`
	// Mean quality difference, with-group minus without-group
	Impact      int        `json:"impact" example:"-12"`
	Description string     `json:"description"`
	Confidence  Confidence `json:"confidence" example:"medium"`
}

// WeekdayPattern aggregates completed sessions for one weekday.
// @Description Per-weekday quality and duration averages.
type WeekdayPattern struct {
	Day            string `json:"day" example:"Monday"`
	AverageQuality int    `json:"average_quality" example:"74"`
	// Average duration in minutes
	AverageDuration int `json:"average_duration" example:"432"`
	// Number of sessions; distinguishes empty weekdays from 0% quality
	Count int `json:"count" example:"4"`
}

// Priority ranks a recommendation.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// RecommendationCategory groups recommendations by theme.
type RecommendationCategory string

const (
	CategoryDuration   RecommendationCategory = "duration"
	CategoryTiming     RecommendationCategory = "timing"
	CategoryQuality    RecommendationCategory = "quality"
	CategoryActivities RecommendationCategory = "activities"
)

// Recommendation is one actionable suggestion derived from history.
// @Description Priority-tagged sleep improvement suggestion.
type Recommendation struct {
	Title       string                 `json:"title" example:"Increase Sleep Duration"`
	Description string                 `json:"description"`
	Priority    Priority               `json:"priority" example:"high"`
	Category    RecommendationCategory `json:"category" example:"duration"`
}

// TrendsResponse bundles both trend series for one window.
// @Description Quality and duration trends over the requested window.
type TrendsResponse struct {
	WindowDays int          `json:"window_days" example:"30"`
	Quality    []TrendPoint `json:"quality"`
	Duration   []TrendPoint `json:"duration"`
}

// SleepDebtResponse reports the rolling sleep debt.
// @Description Rolling debt against the configured goal.
type SleepDebtResponse struct {
	// Positive = debt, negative = surplus; clamped to +/-600
	DebtMin      int    `json:"debt_min" example:"130"`
	GoalMin      int    `json:"goal_min" example:"480"`
	Band         string `json:"band" example:"medium"`
	FormattedAbs string `json:"formatted_abs" example:"2h 10m"`
}
