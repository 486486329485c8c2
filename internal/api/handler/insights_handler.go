package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/somnus-app/somnus/internal/llm"
	"github.com/somnus-app/somnus/internal/service"
	"github.com/somnus-app/somnus/pkg/problem"
	"go.opentelemetry.io/otel/trace"
)

// InsightsHandler handles the LLM-backed insights endpoint.
type InsightsHandler struct {
	service service.InsightsService
}

// NewInsightsHandler creates a new InsightsHandler.
func NewInsightsHandler(service service.InsightsService) *InsightsHandler {
	return &InsightsHandler{service: service}
}

// GetInsights handles GET /v1/insights
// @Summary Get LLM-powered sleep insights
// @Description Generate a narrative over the computed analytics: trends, phases, debt, correlations and recommendations.
// @Tags insights
// @Produce json
// @Success 200 {object} domain.InsightsResponse "Insights with LLM narrative"
// @Failure 500 {object} problem.Problem "Server error"
// @Failure 502 {object} problem.Problem "LLM request or response error"
// @Failure 503 {object} problem.Problem "LLM service not configured"
// @Router /insights [get]
func (h *InsightsHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Generate(r.Context())
	if err != nil {
		if errors.Is(err, llm.ErrOpenAIUnavailable) {
			problem.Unavailable("OpenAI service is not configured").Write(w)
			return
		}
		if errors.Is(err, llm.ErrOpenAIRequest) || errors.Is(err, llm.ErrOpenAIResponse) {
			problem.BadGateway("Failed to generate insights from LLM").Write(w)
			return
		}
		problem.InternalError("Failed to generate insights").Write(w)
		return
	}

	// Attach OTEL trace ID (if present) so clients can reference this
	// generation.
	span := trace.SpanFromContext(r.Context())
	if span.SpanContext().IsValid() {
		result.TraceID = span.SpanContext().TraceID().String()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
