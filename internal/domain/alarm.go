package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Weekdays is a 7-day schedule indexed Sunday(0) through Saturday(6).
// Stored as a JSON array in a single column.
type Weekdays [7]bool

// Value implements driver.Valuer.
func (w Weekdays) Value() (driver.Value, error) {
	return json.Marshal(w)
}

// Scan implements sql.Scanner.
func (w *Weekdays) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, w)
	case string:
		return json.Unmarshal([]byte(v), w)
	case nil:
		*w = Weekdays{}
		return nil
	default:
		return fmt.Errorf("unsupported weekdays column type %T", value)
	}
}

// On reports whether the schedule includes the given weekday.
func (w Weekdays) On(day time.Weekday) bool {
	return w[int(day)]
}

// Alarm is a recurring wake configuration. The scheduler reads alarms
// but never mutates them; runtime ringing state lives in the scheduler.
type Alarm struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Time      string    `gorm:"type:varchar(5);not null" json:"time"`
	Label     string    `gorm:"type:varchar(255);not null;default:''" json:"label"`
	Days      Weekdays  `gorm:"type:jsonb;not null" json:"days"`
	Enabled   bool      `gorm:"not null;default:true" json:"enabled"`
	SmartWake bool      `gorm:"not null;default:false" json:"smart_wake"`
	// WakeWindowMin only has effect when SmartWake is true.
	WakeWindowMin     int       `gorm:"not null;default:0" json:"wake_window_min"`
	SnoozeDurationMin int       `gorm:"not null;default:9" json:"snooze_duration_min"`
	SnoozeMaxCount    int       `gorm:"not null;default:3" json:"snooze_max_count"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Alarm) TableName() string {
	return "alarms"
}

// AtTime returns the alarm's HH:mm anchored to the calendar day of ref.
func (a *Alarm) AtTime(ref time.Time) (time.Time, error) {
	parsed, err := time.Parse("15:04", a.Time)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid alarm time %q: %w", a.Time, err)
	}
	return time.Date(ref.Year(), ref.Month(), ref.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, ref.Location()), nil
}

// CreateAlarmRequest is the request body for creating an alarm.
// @Description Recurring wake configuration.
type CreateAlarmRequest struct {
	// Wake time in 24-hour HH:mm format
	Time string `json:"time" validate:"required,alarmtime" example:"07:30"`
	// Display label
	Label string `json:"label" validate:"max=255" example:"Workday"`
	// Schedule indexed Sunday(0) through Saturday(6)
	Days [7]bool `json:"days"`
	// Master on/off switch
	Enabled bool `json:"enabled" example:"true"`
	// Smart wake mode: may fire early within the wake window
	SmartWake bool `json:"smart_wake" example:"true"`
	// Minutes the alarm may fire early (0-60); ignored unless smart wake
	WakeWindowMin int `json:"wake_window_min" validate:"min=0,max=60" example:"15"`
	// Minutes added per snooze
	SnoozeDurationMin int `json:"snooze_duration_min" validate:"min=1,max=60" example:"9"`
	// Maximum allowed snoozes before forced dismissal
	SnoozeMaxCount int `json:"snooze_max_count" validate:"min=0,max=10" example:"3"`
}

// UpdateAlarmRequest is the request body for editing an alarm.
// @Description Partial alarm update; omitted fields are unchanged.
type UpdateAlarmRequest struct {
	Time              *string  `json:"time,omitempty" validate:"omitempty,alarmtime"`
	Label             *string  `json:"label,omitempty" validate:"omitempty,max=255"`
	Days              *[7]bool `json:"days,omitempty"`
	Enabled           *bool    `json:"enabled,omitempty"`
	SmartWake         *bool    `json:"smart_wake,omitempty"`
	WakeWindowMin     *int     `json:"wake_window_min,omitempty" validate:"omitempty,min=0,max=60"`
	SnoozeDurationMin *int     `json:"snooze_duration_min,omitempty" validate:"omitempty,min=1,max=60"`
	SnoozeMaxCount    *int     `json:"snooze_max_count,omitempty" validate:"omitempty,min=0,max=10"`
}

// AlarmResponse is the response body for alarm endpoints.
// @Description Alarm configuration record.
type AlarmResponse struct {
	ID                uuid.UUID `json:"id"`
	Time              string    `json:"time" example:"07:30"`
	Label             string    `json:"label" example:"Workday"`
	Days              [7]bool   `json:"days"`
	Enabled           bool      `json:"enabled"`
	SmartWake         bool      `json:"smart_wake"`
	WakeWindowMin     int       `json:"wake_window_min"`
	SnoozeDurationMin int       `json:"snooze_duration_min"`
	SnoozeMaxCount    int       `json:"snooze_max_count"`
	CreatedAt         time.Time `json:"created_at"`
}

func (a *Alarm) ToResponse() AlarmResponse {
	return AlarmResponse{
		ID:                a.ID,
		Time:              a.Time,
		Label:             a.Label,
		Days:              a.Days,
		Enabled:           a.Enabled,
		SmartWake:         a.SmartWake,
		WakeWindowMin:     a.WakeWindowMin,
		SnoozeDurationMin: a.SnoozeDurationMin,
		SnoozeMaxCount:    a.SnoozeMaxCount,
		CreatedAt:         a.CreatedAt,
	}
}

// ActiveAlarmResponse describes a currently-ringing alarm.
// @Description Runtime state of a triggered alarm; never persisted.
type ActiveAlarmResponse struct {
	Alarm        AlarmResponse `json:"alarm"`
	TriggeredAt  time.Time     `json:"triggered_at"`
	SnoozeCount  int           `json:"snooze_count" example:"1"`
	SnoozedUntil *time.Time    `json:"snoozed_until,omitempty"`
}
