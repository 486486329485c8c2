package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/somnus-app/somnus/internal/alarm"
	"github.com/somnus-app/somnus/internal/domain"
)

// MockSessionService is a mock implementation of service.SessionService
type MockSessionService struct {
	session    *domain.SleepSession
	listResult *domain.SessionListResponse
	err        error
}

func (m *MockSessionService) Start(ctx context.Context) (*domain.SleepSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

func (m *MockSessionService) Stop(ctx context.Context, req *domain.StopSessionRequest) (*domain.SleepSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

func (m *MockSessionService) GetActive(ctx context.Context) (*domain.SleepSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

func (m *MockSessionService) GetByID(ctx context.Context, id uuid.UUID) (*domain.SleepSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

func (m *MockSessionService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.err
}

func (m *MockSessionService) List(ctx context.Context, filter domain.SessionFilter) (*domain.SessionListResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.listResult, nil
}

// MockAlarmService is a mock implementation of service.AlarmService
type MockAlarmService struct {
	alarm  *domain.Alarm
	alarms []domain.Alarm
	active []alarm.ActiveAlarm
	err    error
}

func (m *MockAlarmService) Create(ctx context.Context, req *domain.CreateAlarmRequest) (*domain.Alarm, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.alarm, nil
}

func (m *MockAlarmService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Alarm, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.alarm, nil
}

func (m *MockAlarmService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateAlarmRequest) (*domain.Alarm, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.alarm, nil
}

func (m *MockAlarmService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.err
}

func (m *MockAlarmService) List(ctx context.Context) ([]domain.Alarm, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.alarms, nil
}

func (m *MockAlarmService) Snooze(ctx context.Context, id uuid.UUID) error {
	return m.err
}

func (m *MockAlarmService) Dismiss(ctx context.Context, id uuid.UUID) error {
	return m.err
}

func (m *MockAlarmService) Active(ctx context.Context) []alarm.ActiveAlarm {
	return m.active
}

// MockInsightsService is a mock implementation of service.InsightsService
type MockInsightsService struct {
	response *domain.InsightsResponse
	err      error
}

func (m *MockInsightsService) Generate(ctx context.Context) (*domain.InsightsResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}
