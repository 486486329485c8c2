package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/somnus-app/somnus/internal/alarm"
	"github.com/somnus-app/somnus/internal/domain"
	"github.com/somnus-app/somnus/internal/repository"
)

// AlarmService manages alarm configuration and bridges it to the
// running scheduler: every mutation pushes a fresh enabled-alarm
// snapshot so the next tick sees current state.
type AlarmService interface {
	Create(ctx context.Context, req *domain.CreateAlarmRequest) (*domain.Alarm, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Alarm, error)
	Update(ctx context.Context, id uuid.UUID, req *domain.UpdateAlarmRequest) (*domain.Alarm, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]domain.Alarm, error)
	Snooze(ctx context.Context, id uuid.UUID) error
	Dismiss(ctx context.Context, id uuid.UUID) error
	Active(ctx context.Context) []alarm.ActiveAlarm
}

type alarmService struct {
	repo      repository.AlarmRepository
	scheduler *alarm.Scheduler
}

func NewAlarmService(repo repository.AlarmRepository, scheduler *alarm.Scheduler) AlarmService {
	return &alarmService{
		repo:      repo,
		scheduler: scheduler,
	}
}

func (s *alarmService) Create(ctx context.Context, req *domain.CreateAlarmRequest) (*domain.Alarm, error) {
	a := &domain.Alarm{
		ID:                uuid.New(),
		Time:              req.Time,
		Label:             req.Label,
		Days:              req.Days,
		Enabled:           req.Enabled,
		SmartWake:         req.SmartWake,
		WakeWindowMin:     req.WakeWindowMin,
		SnoozeDurationMin: req.SnoozeDurationMin,
		SnoozeMaxCount:    req.SnoozeMaxCount,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	if err := s.syncScheduler(ctx); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *alarmService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Alarm, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *alarmService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateAlarmRequest) (*domain.Alarm, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Time != nil {
		a.Time = *req.Time
	}
	if req.Label != nil {
		a.Label = *req.Label
	}
	if req.Days != nil {
		a.Days = *req.Days
	}
	if req.Enabled != nil {
		a.Enabled = *req.Enabled
	}
	if req.SmartWake != nil {
		a.SmartWake = *req.SmartWake
	}
	if req.WakeWindowMin != nil {
		a.WakeWindowMin = *req.WakeWindowMin
	}
	if req.SnoozeDurationMin != nil {
		a.SnoozeDurationMin = *req.SnoozeDurationMin
	}
	if req.SnoozeMaxCount != nil {
		a.SnoozeMaxCount = *req.SnoozeMaxCount
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	// Disabling or rescheduling an alarm also silences it if ringing.
	if req.Enabled != nil && !*req.Enabled {
		s.scheduler.Dismiss(id)
	}

	if err := s.syncScheduler(ctx); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *alarmService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.scheduler.Dismiss(id)

	return s.syncScheduler(ctx)
}

func (s *alarmService) List(ctx context.Context) ([]domain.Alarm, error) {
	return s.repo.List(ctx)
}

// Snooze suppresses a ringing alarm for its snooze duration.
func (s *alarmService) Snooze(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	s.scheduler.Snooze(id)
	return nil
}

// Dismiss silences a ringing alarm.
func (s *alarmService) Dismiss(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	s.scheduler.Dismiss(id)
	return nil
}

// Active returns the currently ringing alarms.
func (s *alarmService) Active(_ context.Context) []alarm.ActiveAlarm {
	return s.scheduler.ActiveAlarms()
}

func (s *alarmService) syncScheduler(ctx context.Context) error {
	enabled, err := s.repo.ListEnabled(ctx)
	if err != nil {
		return err
	}
	s.scheduler.UpdateAlarms(enabled)
	return nil
}
