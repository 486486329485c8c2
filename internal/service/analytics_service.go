package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/somnus-app/somnus/internal/analytics"
	"github.com/somnus-app/somnus/internal/domain"
	"github.com/somnus-app/somnus/internal/repository"
	"github.com/somnus-app/somnus/internal/sleep"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultAnalyticsWindowDays is the default trend/correlation window.
	DefaultAnalyticsWindowDays = 30

	// MaxAnalyticsWindowDays bounds client-supplied windows.
	MaxAnalyticsWindowDays = 365
)

// AnalyticsService computes trends, correlations, patterns and
// recommendations over the session history.
type AnalyticsService interface {
	Trends(ctx context.Context, windowDays int) (*domain.TrendsResponse, error)
	PhaseDistribution(ctx context.Context, windowDays int) ([]domain.PhaseDistributionRow, error)
	Correlations(ctx context.Context, windowDays int) ([]domain.CorrelationInsight, error)
	WeekdayPatterns(ctx context.Context, windowDays int) ([]domain.WeekdayPattern, error)
	Recommendations(ctx context.Context) ([]domain.Recommendation, error)
	Debt(ctx context.Context) (*domain.SleepDebtResponse, error)
}

type analyticsService struct {
	sessionRepo  repository.SessionRepository
	noteRepo     repository.NoteRepository
	settingsRepo repository.SettingsRepository
	now          func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(sessionRepo repository.SessionRepository, noteRepo repository.NoteRepository, settingsRepo repository.SettingsRepository) AnalyticsService {
	return &analyticsService{
		sessionRepo:  sessionRepo,
		noteRepo:     noteRepo,
		settingsRepo: settingsRepo,
		now:          time.Now,
	}
}

func normalizeWindow(windowDays int) int {
	if windowDays <= 0 {
		return DefaultAnalyticsWindowDays
	}
	if windowDays > MaxAnalyticsWindowDays {
		return MaxAnalyticsWindowDays
	}
	return windowDays
}

// sessionsInWindow fetches completed sessions for the last windowDays,
// oldest first.
func (s *analyticsService) sessionsInWindow(ctx context.Context, windowDays int, now time.Time) ([]domain.SleepSession, error) {
	since := now.AddDate(0, 0, -windowDays)
	return s.sessionRepo.ListCompletedSince(ctx, since)
}

func (s *analyticsService) Trends(ctx context.Context, windowDays int) (*domain.TrendsResponse, error) {
	tracer := otel.Tracer("somnus-api/analytics")
	ctx, span := tracer.Start(ctx, "AnalyticsService.Trends",
		trace.WithAttributes(attribute.Int("window.days", windowDays)),
	)
	defer span.End()

	windowDays = normalizeWindow(windowDays)
	now := s.now().UTC()

	sessions, err := s.sessionsInWindow(ctx, windowDays, now)
	if err != nil {
		return nil, err
	}

	response := &domain.TrendsResponse{
		WindowDays: windowDays,
		Quality:    analytics.QualityTrend(sessions, windowDays, now),
		Duration:   analytics.DurationTrend(sessions, windowDays, now),
	}

	if outputJSON, err := json.Marshal(response); err == nil {
		span.SetAttributes(attribute.String("langfuse.observation.output", string(outputJSON)))
	}

	return response, nil
}

func (s *analyticsService) PhaseDistribution(ctx context.Context, windowDays int) ([]domain.PhaseDistributionRow, error) {
	windowDays = normalizeWindow(windowDays)
	now := s.now().UTC()

	sessions, err := s.sessionsInWindow(ctx, windowDays, now)
	if err != nil {
		return nil, err
	}

	return analytics.AveragePhaseDistribution(sessions), nil
}

func (s *analyticsService) Correlations(ctx context.Context, windowDays int) ([]domain.CorrelationInsight, error) {
	tracer := otel.Tracer("somnus-api/analytics")
	ctx, span := tracer.Start(ctx, "AnalyticsService.Correlations",
		trace.WithAttributes(attribute.Int("window.days", windowDays)),
	)
	defer span.End()

	windowDays = normalizeWindow(windowDays)
	now := s.now().UTC()

	sessions, err := s.sessionsInWindow(ctx, windowDays, now)
	if err != nil {
		return nil, err
	}

	notes, err := s.noteRepo.ListSince(ctx, now.AddDate(0, 0, -windowDays))
	if err != nil {
		return nil, err
	}

	insights := analytics.ActivityCorrelations(sessions, notes)
	span.SetAttributes(attribute.Int("correlations.count", len(insights)))

	return insights, nil
}

func (s *analyticsService) WeekdayPatterns(ctx context.Context, windowDays int) ([]domain.WeekdayPattern, error) {
	windowDays = normalizeWindow(windowDays)
	now := s.now().UTC()

	sessions, err := s.sessionsInWindow(ctx, windowDays, now)
	if err != nil {
		return nil, err
	}

	return analytics.WeekdayPatterns(sessions), nil
}

func (s *analyticsService) Recommendations(ctx context.Context) ([]domain.Recommendation, error) {
	tracer := otel.Tracer("somnus-api/analytics")
	ctx, span := tracer.Start(ctx, "AnalyticsService.Recommendations")
	defer span.End()

	now := s.now().UTC()

	sessions, err := s.sessionsInWindow(ctx, DefaultAnalyticsWindowDays, now)
	if err != nil {
		return nil, err
	}

	notes, err := s.noteRepo.ListSince(ctx, now.AddDate(0, 0, -DefaultAnalyticsWindowDays))
	if err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	recs := analytics.Recommendations(sessions, notes, settings.SleepGoalMin, now)
	span.SetAttributes(attribute.Int("recommendations.count", len(recs)))

	return recs, nil
}

func (s *analyticsService) Debt(ctx context.Context) (*domain.SleepDebtResponse, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	// Debt is defined over the last 7 completed sessions; the sum is
	// order-insensitive so DESC retrieval is fine.
	recent, err := s.sessionRepo.ListRecentCompleted(ctx, 7)
	if err != nil {
		return nil, err
	}

	debt := sleep.CalculateDebt(recent, settings.SleepGoalMin)

	return &domain.SleepDebtResponse{
		DebtMin:      debt,
		GoalMin:      settings.SleepGoalMin,
		Band:         sleep.DebtBand(debt),
		FormattedAbs: sleep.FormatDuration(absInt(debt)),
	}, nil
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
