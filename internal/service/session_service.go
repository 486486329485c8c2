package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/somnus-app/somnus/internal/domain"
	"github.com/somnus-app/somnus/internal/repository"
	"github.com/somnus-app/somnus/internal/sleep"
	"github.com/somnus-app/somnus/pkg/pagination"
)

// consistencyWindow is how many recent completed sessions feed the
// quality consistency component.
const consistencyWindow = 7

type SessionService interface {
	Start(ctx context.Context) (*domain.SleepSession, error)
	Stop(ctx context.Context, req *domain.StopSessionRequest) (*domain.SleepSession, error)
	GetActive(ctx context.Context) (*domain.SleepSession, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SleepSession, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter domain.SessionFilter) (*domain.SessionListResponse, error)
}

type sessionService struct {
	repo   repository.SessionRepository
	phases *sleep.PhaseGenerator
	now    func() time.Time
	// onActiveChange is notified with the active session after Start and
	// with nil after Stop, keeping the alarm scheduler's smart-wake
	// alignment current. May be nil.
	onActiveChange func(*domain.SleepSession)
}

func NewSessionService(repo repository.SessionRepository, phases *sleep.PhaseGenerator, onActiveChange func(*domain.SleepSession)) SessionService {
	return &sessionService{
		repo:           repo,
		phases:         phases,
		now:            time.Now,
		onActiveChange: onActiveChange,
	}
}

// Start begins tracking a new sleep session. At most one session may be
// active; starting while one is running is a conflict.
func (s *sessionService) Start(ctx context.Context) (*domain.SleepSession, error) {
	active, err := s.repo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, domain.ErrSessionActive
	}

	session := &domain.SleepSession{
		ID:      uuid.New(),
		StartAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}

	if s.onActiveChange != nil {
		s.onActiveChange(session)
	}

	return session, nil
}

// Stop completes the active session: it fixes the duration, synthesizes
// the phase breakdown and scores quality against recent history.
func (s *sessionService) Stop(ctx context.Context, req *domain.StopSessionRequest) (*domain.SleepSession, error) {
	session, err := s.repo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNoActiveSession
	}

	endAt := s.now().UTC()
	duration := int(endAt.Sub(session.StartAt).Minutes())
	if duration < 0 {
		duration = 0
	}

	session.EndAt = &endAt
	session.DurationMin = duration
	session.Phases = s.phases.Generate(duration)
	session.Interruptions = req.Interruptions
	session.NoiseLevel = req.NoiseLevel

	recent, err := s.repo.ListRecentCompleted(ctx, consistencyWindow)
	if err != nil {
		return nil, err
	}
	session.Quality = sleep.CalculateQuality(session, recent)

	if err := s.repo.Update(ctx, session); err != nil {
		return nil, err
	}

	if s.onActiveChange != nil {
		s.onActiveChange(nil)
	}

	return session, nil
}

// GetActive returns the running session, or ErrNoActiveSession.
func (s *sessionService) GetActive(ctx context.Context) (*domain.SleepSession, error) {
	session, err := s.repo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNoActiveSession
	}
	return session, nil
}

func (s *sessionService) GetByID(ctx context.Context, id uuid.UUID) (*domain.SleepSession, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *sessionService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *sessionService) List(ctx context.Context, filter domain.SessionFilter) (*domain.SessionListResponse, error) {
	sessions, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	limit := pagination.NormalizeLimit(filter.Limit)
	hasMore := len(sessions) > limit

	// Trim the extra row fetched to detect further pages.
	if hasMore {
		sessions = sessions[:limit]
	}

	response := &domain.SessionListResponse{
		Data: make([]domain.SessionResponse, len(sessions)),
		Pagination: domain.PaginationResponse{
			HasMore: hasMore,
		},
	}

	for i, session := range sessions {
		response.Data[i] = session.ToResponse()
	}

	if hasMore && len(sessions) > 0 {
		last := sessions[len(sessions)-1]
		cursor := &pagination.Cursor{
			ID:      last.ID,
			StartAt: last.StartAt,
		}
		response.Pagination.NextCursor = cursor.Encode()
	}

	return response, nil
}
