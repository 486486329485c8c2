package domain

// InsightsContext is the aggregated payload handed to the LLM.
type InsightsContext struct {
	WindowDays      int                    `json:"window_days"`
	GoalMin         int                    `json:"goal_min"`
	DebtMin         int                    `json:"debt_min"`
	QualityTrend    []TrendPoint           `json:"quality_trend"`
	DurationTrend   []TrendPoint           `json:"duration_trend"`
	Phases          []PhaseDistributionRow `json:"phases"`
	Correlations    []CorrelationInsight   `json:"correlations"`
	WeekdayPatterns []WeekdayPattern       `json:"weekday_patterns"`
	Recommendations []Recommendation       `json:"recommendations"`
}

// LLMInsightsOutput is the strict-JSON shape the model must return.
// @Description Model-generated narrative over the computed analytics.
type LLMInsightsOutput struct {
	// 2-3 sentence summary of the recent sleep picture
	Summary string `json:"summary"`
	// Bullet points about patterns in the data
	Observations []string `json:"observations"`
	// Concrete non-medical suggestions
	Guidance []string `json:"guidance"`
}

// InsightsResponse is the response body for the insights endpoint.
// @Description Computed analytics plus the LLM narrative.
type InsightsResponse struct {
	Insights        LLMInsightsOutput    `json:"insights"`
	Debt            SleepDebtResponse    `json:"debt"`
	Correlations    []CorrelationInsight `json:"correlations"`
	Recommendations []Recommendation     `json:"recommendations"`
	// Trace ID of this generation, for referencing it later
	TraceID string `json:"trace_id,omitempty"`
}
