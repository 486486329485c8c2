package domain

import (
	"time"

	"github.com/google/uuid"
)

// SleepPhases holds the synthesized minute allocation of one session.
// @Description Minutes spent in each sleep phase.
type SleepPhases struct {
	Awake int `gorm:"column:phase_awake;not null;default:0" json:"awake" example:"10"`
	Light int `gorm:"column:phase_light;not null;default:0" json:"light" example:"240"`
	Deep  int `gorm:"column:phase_deep;not null;default:0" json:"deep" example:"144"`
	REM   int `gorm:"column:phase_rem;not null;default:0" json:"rem" example:"96"`
}

// Total returns the combined minutes across all four phases.
func (p SleepPhases) Total() int {
	return p.Awake + p.Light + p.Deep + p.REM
}

// SleepSession is one recorded sleep attempt. It is created in the
// active state (EndAt nil) and transitions exactly once to completed,
// at which point duration, phases and quality are populated.
type SleepSession struct {
	ID            uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	StartAt       time.Time   `gorm:"not null;index:idx_sessions_start,sort:desc" json:"start_at"`
	EndAt         *time.Time  `gorm:"index" json:"end_at,omitempty"`
	DurationMin   int         `gorm:"not null;default:0" json:"duration_min"`
	Quality       int         `gorm:"type:smallint;not null;default:0" json:"quality"`
	Phases        SleepPhases `gorm:"embedded" json:"phases"`
	Interruptions int         `gorm:"not null;default:0" json:"interruptions"`
	NoiseLevel    float64     `gorm:"not null;default:0" json:"noise_level"`
	CreatedAt     time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

func (SleepSession) TableName() string {
	return "sleep_sessions"
}

// Completed reports whether the session has been stopped.
func (s *SleepSession) Completed() bool {
	return s.EndAt != nil
}

// StopSessionRequest is the request body for stopping the active session.
// @Description Observations recorded while the session was running.
type StopSessionRequest struct {
	// Number of wake events observed during the session
	Interruptions int `json:"interruptions" validate:"min=0" example:"1"`
	// Ambient noise proxy value (non-negative)
	NoiseLevel float64 `json:"noise_level" validate:"min=0" example:"12.5"`
}

// SessionResponse is the response body for session endpoints.
// @Description Sleep session record, active or completed.
type SessionResponse struct {
	ID            uuid.UUID   `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	StartAt       time.Time   `json:"start_at" example:"2024-01-15T23:00:00Z"`
	EndAt         *time.Time  `json:"end_at,omitempty" example:"2024-01-16T07:00:00Z"`
	DurationMin   int         `json:"duration_min" example:"480"`
	Quality       int         `json:"quality" example:"84"`
	Phases        SleepPhases `json:"phases"`
	Interruptions int         `json:"interruptions" example:"1"`
	NoiseLevel    float64     `json:"noise_level" example:"12.5"`
	CreatedAt     time.Time   `json:"created_at" example:"2024-01-16T07:05:00Z"`
}

func (s *SleepSession) ToResponse() SessionResponse {
	return SessionResponse{
		ID:            s.ID,
		StartAt:       s.StartAt,
		EndAt:         s.EndAt,
		DurationMin:   s.DurationMin,
		Quality:       s.Quality,
		Phases:        s.Phases,
		Interruptions: s.Interruptions,
		NoiseLevel:    s.NoiseLevel,
		CreatedAt:     s.CreatedAt,
	}
}

// SessionListResponse is the response body for listing sessions.
// @Description Paginated list of sleep sessions.
type SessionListResponse struct {
	Data       []SessionResponse  `json:"data"`
	Pagination PaginationResponse `json:"pagination"`
}

// PaginationResponse contains pagination metadata.
// @Description Cursor-based pagination info.
type PaginationResponse struct {
	// Cursor for fetching the next page (empty if no more pages)
	NextCursor string `json:"next_cursor,omitempty"`
	// True if more results are available
	HasMore bool `json:"has_more" example:"true"`
}

// SessionFilter contains filter parameters for listing sessions.
type SessionFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Cursor string
}
