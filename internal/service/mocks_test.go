package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/somnus-app/somnus/internal/domain"
)

// MockSessionRepository is a mock implementation of SessionRepository
type MockSessionRepository struct {
	sessions   map[uuid.UUID]*domain.SleepSession
	listResult []domain.SleepSession
	err        error
}

func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{
		sessions: make(map[uuid.UUID]*domain.SleepSession),
	}
}

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.SleepSession) error {
	if m.err != nil {
		return m.err
	}
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	session.CreatedAt = time.Now()
	m.sessions[session.ID] = session
	return nil
}

func (m *MockSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SleepSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	session, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return session, nil
}

func (m *MockSessionRepository) GetActive(ctx context.Context) (*domain.SleepSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, session := range m.sessions {
		if !session.Completed() {
			return session, nil
		}
	}
	return nil, nil
}

func (m *MockSessionRepository) Update(ctx context.Context, session *domain.SleepSession) error {
	if m.err != nil {
		return m.err
	}
	m.sessions[session.ID] = session
	return nil
}

func (m *MockSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.sessions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionRepository) List(ctx context.Context, filter domain.SessionFilter) ([]domain.SleepSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.listResult != nil {
		result := make([]domain.SleepSession, len(m.listResult))
		copy(result, m.listResult)
		return result, nil
	}
	var result []domain.SleepSession
	for _, session := range m.sessions {
		result = append(result, *session)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartAt.After(result[j].StartAt)
	})
	return result, nil
}

func (m *MockSessionRepository) ListRecentCompleted(ctx context.Context, limit int) ([]domain.SleepSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []domain.SleepSession
	for _, session := range m.sessions {
		if session.Completed() {
			result = append(result, *session)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartAt.After(result[j].StartAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *MockSessionRepository) ListCompletedSince(ctx context.Context, since time.Time) ([]domain.SleepSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []domain.SleepSession
	for _, session := range m.sessions {
		if session.Completed() && !session.StartAt.Before(since) {
			result = append(result, *session)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartAt.Before(result[j].StartAt)
	})
	return result, nil
}

// MockNoteRepository is a mock implementation of NoteRepository
type MockNoteRepository struct {
	notes map[uuid.UUID]*domain.SleepNote
	err   error
}

func NewMockNoteRepository() *MockNoteRepository {
	return &MockNoteRepository{
		notes: make(map[uuid.UUID]*domain.SleepNote),
	}
}

func (m *MockNoteRepository) Create(ctx context.Context, note *domain.SleepNote) error {
	if m.err != nil {
		return m.err
	}
	if note.ID == uuid.Nil {
		note.ID = uuid.New()
	}
	note.CreatedAt = time.Now()
	m.notes[note.ID] = note
	return nil
}

func (m *MockNoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SleepNote, error) {
	if m.err != nil {
		return nil, m.err
	}
	note, ok := m.notes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return note, nil
}

func (m *MockNoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.notes[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.notes, id)
	return nil
}

func (m *MockNoteRepository) ListSince(ctx context.Context, since time.Time) ([]domain.SleepNote, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []domain.SleepNote
	for _, note := range m.notes {
		if !note.Date.Before(since) {
			result = append(result, *note)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

// MockSettingsRepository is a mock implementation of SettingsRepository
type MockSettingsRepository struct {
	settings *domain.UserSettings
	err      error
}

func NewMockSettingsRepository() *MockSettingsRepository {
	return &MockSettingsRepository{}
}

func (m *MockSettingsRepository) Get(ctx context.Context) (*domain.UserSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.settings == nil {
		return domain.DefaultSettings(), nil
	}
	return m.settings, nil
}

func (m *MockSettingsRepository) Save(ctx context.Context, settings *domain.UserSettings) error {
	if m.err != nil {
		return m.err
	}
	m.settings = settings
	return nil
}

// MockAlarmRepository is a mock implementation of AlarmRepository
type MockAlarmRepository struct {
	alarms map[uuid.UUID]*domain.Alarm
	err    error
}

func NewMockAlarmRepository() *MockAlarmRepository {
	return &MockAlarmRepository{
		alarms: make(map[uuid.UUID]*domain.Alarm),
	}
}

func (m *MockAlarmRepository) Create(ctx context.Context, alarm *domain.Alarm) error {
	if m.err != nil {
		return m.err
	}
	if alarm.ID == uuid.Nil {
		alarm.ID = uuid.New()
	}
	alarm.CreatedAt = time.Now()
	m.alarms[alarm.ID] = alarm
	return nil
}

func (m *MockAlarmRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Alarm, error) {
	if m.err != nil {
		return nil, m.err
	}
	alarm, ok := m.alarms[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return alarm, nil
}

func (m *MockAlarmRepository) Update(ctx context.Context, alarm *domain.Alarm) error {
	if m.err != nil {
		return m.err
	}
	m.alarms[alarm.ID] = alarm
	return nil
}

func (m *MockAlarmRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.alarms[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.alarms, id)
	return nil
}

func (m *MockAlarmRepository) List(ctx context.Context) ([]domain.Alarm, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []domain.Alarm
	for _, alarm := range m.alarms {
		result = append(result, *alarm)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Time < result[j].Time
	})
	return result, nil
}

func (m *MockAlarmRepository) ListEnabled(ctx context.Context) ([]domain.Alarm, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []domain.Alarm
	for _, alarm := range m.alarms {
		if alarm.Enabled {
			result = append(result, *alarm)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Time < result[j].Time
	})
	return result, nil
}

// MockInsightsLLM is a mock implementation of llm.InsightsLLM
type MockInsightsLLM struct {
	output *domain.LLMInsightsOutput
	err    error
}

func (m *MockInsightsLLM) GenerateInsights(ctx context.Context, insightsCtx *domain.InsightsContext) (*domain.LLMInsightsOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.output, nil
}

// Helper functions
func strPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

func boolPtr(b bool) *bool {
	return &b
}

func timePtr(t time.Time) *time.Time {
	return &t
}
