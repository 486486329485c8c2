package service

import (
	"context"

	"github.com/somnus-app/somnus/internal/domain"
	"github.com/somnus-app/somnus/internal/llm"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// InsightsService generates the LLM narrative over computed analytics.
type InsightsService interface {
	Generate(ctx context.Context) (*domain.InsightsResponse, error)
}

type insightsService struct {
	analytics AnalyticsService
	llmClient llm.InsightsLLM
}

// NewInsightsService creates a new InsightsService. llmClient may be a
// nil *llm.OpenAIClient, in which case Generate reports unavailability.
func NewInsightsService(analytics AnalyticsService, llmClient llm.InsightsLLM) InsightsService {
	return &insightsService{
		analytics: analytics,
		llmClient: llmClient,
	}
}

func (s *insightsService) Generate(ctx context.Context) (*domain.InsightsResponse, error) {
	tracer := otel.Tracer("somnus-api/insights")
	ctx, span := tracer.Start(ctx, "InsightsService.Generate",
		trace.WithAttributes(attribute.Int("window.days", DefaultAnalyticsWindowDays)),
	)
	defer span.End()

	trends, err := s.analytics.Trends(ctx, DefaultAnalyticsWindowDays)
	if err != nil {
		return nil, err
	}

	phases, err := s.analytics.PhaseDistribution(ctx, DefaultAnalyticsWindowDays)
	if err != nil {
		return nil, err
	}

	correlations, err := s.analytics.Correlations(ctx, DefaultAnalyticsWindowDays)
	if err != nil {
		return nil, err
	}

	patterns, err := s.analytics.WeekdayPatterns(ctx, DefaultAnalyticsWindowDays)
	if err != nil {
		return nil, err
	}

	recommendations, err := s.analytics.Recommendations(ctx)
	if err != nil {
		return nil, err
	}

	debt, err := s.analytics.Debt(ctx)
	if err != nil {
		return nil, err
	}

	insightsCtx := &domain.InsightsContext{
		WindowDays:      DefaultAnalyticsWindowDays,
		GoalMin:         debt.GoalMin,
		DebtMin:         debt.DebtMin,
		QualityTrend:    trends.Quality,
		DurationTrend:   trends.Duration,
		Phases:          phases,
		Correlations:    correlations,
		WeekdayPatterns: patterns,
		Recommendations: recommendations,
	}

	llmOutput, err := s.llmClient.GenerateInsights(ctx, insightsCtx)
	if err != nil {
		return nil, err
	}

	return &domain.InsightsResponse{
		Insights:        *llmOutput,
		Debt:            *debt,
		Correlations:    correlations,
		Recommendations: recommendations,
	}, nil
}
