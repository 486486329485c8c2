package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/somnus-app/somnus/internal/service"
	"github.com/somnus-app/somnus/pkg/problem"
)

type AnalyticsHandler struct {
	service service.AnalyticsService
}

func NewAnalyticsHandler(service service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// GetTrends handles GET /v1/analytics/trends
// @Summary Get quality and duration trends
// @Tags analytics
// @Produce json
// @Param window_days query integer false "Number of days to analyze" default(30) minimum(1) maximum(365)
// @Success 200 {object} domain.TrendsResponse "Daily trend series"
// @Failure 400 {object} problem.Problem "Invalid query parameters"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /analytics/trends [get]
func (h *AnalyticsHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	windowDays, ok := parseWindowDays(w, r)
	if !ok {
		return
	}

	response, err := h.service.Trends(r.Context(), windowDays)
	if err != nil {
		problem.InternalError("Failed to compute trends").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GetPhases handles GET /v1/analytics/phases
// @Summary Get average phase distribution
// @Tags analytics
// @Produce json
// @Param window_days query integer false "Number of days to analyze" default(30) minimum(1) maximum(365)
// @Success 200 {array} domain.PhaseDistributionRow "Average minutes and share per phase"
// @Failure 400 {object} problem.Problem "Invalid query parameters"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /analytics/phases [get]
func (h *AnalyticsHandler) GetPhases(w http.ResponseWriter, r *http.Request) {
	windowDays, ok := parseWindowDays(w, r)
	if !ok {
		return
	}

	rows, err := h.service.PhaseDistribution(r.Context(), windowDays)
	if err != nil {
		problem.InternalError("Failed to compute phase distribution").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rows)
}

// GetCorrelations handles GET /v1/analytics/correlations
// @Summary Get activity/quality correlations
// @Description Mine note activities against measured quality. Requires at least 3 session/note pairs.
// @Tags analytics
// @Produce json
// @Param window_days query integer false "Number of days to analyze" default(30) minimum(1) maximum(365)
// @Success 200 {array} domain.CorrelationInsight "Correlations sorted by impact"
// @Failure 400 {object} problem.Problem "Invalid query parameters"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /analytics/correlations [get]
func (h *AnalyticsHandler) GetCorrelations(w http.ResponseWriter, r *http.Request) {
	windowDays, ok := parseWindowDays(w, r)
	if !ok {
		return
	}

	insights, err := h.service.Correlations(r.Context(), windowDays)
	if err != nil {
		problem.InternalError("Failed to compute correlations").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(insights)
}

// GetWeekdays handles GET /v1/analytics/weekdays
// @Summary Get per-weekday averages
// @Tags analytics
// @Produce json
// @Param window_days query integer false "Number of days to analyze" default(30) minimum(1) maximum(365)
// @Success 200 {array} domain.WeekdayPattern "Seven rows, Sunday through Saturday"
// @Failure 400 {object} problem.Problem "Invalid query parameters"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /analytics/weekdays [get]
func (h *AnalyticsHandler) GetWeekdays(w http.ResponseWriter, r *http.Request) {
	windowDays, ok := parseWindowDays(w, r)
	if !ok {
		return
	}

	patterns, err := h.service.WeekdayPatterns(r.Context(), windowDays)
	if err != nil {
		problem.InternalError("Failed to compute weekday patterns").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(patterns)
}

// GetRecommendations handles GET /v1/analytics/recommendations
// @Summary Get sleep recommendations
// @Description Rule-based suggestions derived from the recent week, correlations and weekday patterns. At most 5, highest priority first.
// @Tags analytics
// @Produce json
// @Success 200 {array} domain.Recommendation "Prioritized recommendations"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /analytics/recommendations [get]
func (h *AnalyticsHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	recommendations, err := h.service.Recommendations(r.Context())
	if err != nil {
		problem.InternalError("Failed to compute recommendations").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(recommendations)
}

// GetDebt handles GET /v1/analytics/debt
// @Summary Get sleep debt
// @Description Rolling debt over the last 7 completed sessions against the configured goal.
// @Tags analytics
// @Produce json
// @Success 200 {object} domain.SleepDebtResponse "Signed debt with display band"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /analytics/debt [get]
func (h *AnalyticsHandler) GetDebt(w http.ResponseWriter, r *http.Request) {
	debt, err := h.service.Debt(r.Context())
	if err != nil {
		problem.InternalError("Failed to compute sleep debt").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(debt)
}

// parseWindowDays validates the optional window_days query parameter,
// writing a problem response and returning false when out of range.
func parseWindowDays(w http.ResponseWriter, r *http.Request) (int, bool) {
	windowDays := parseIntParam(r, "window_days", service.DefaultAnalyticsWindowDays)
	if windowDays < 1 || windowDays > service.MaxAnalyticsWindowDays {
		problem.BadRequest("window_days must be between 1 and 365").Write(w)
		return 0, false
	}
	return windowDays, true
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultValue int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}
