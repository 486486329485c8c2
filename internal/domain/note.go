package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StringList is a list of short strings stored as a JSON array.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	case nil:
		*l = StringList{}
		return nil
	default:
		return fmt.Errorf("unsupported string list column type %T", value)
	}
}

// NoteActivities captures the behavioral factors logged for one day.
// Used as correlation input only; the core never mutates notes.
type NoteActivities struct {
	// Exercise time slot: morning, afternoon, evening, or nil for none
	Exercise      *string    `gorm:"column:activity_exercise;type:varchar(16)" json:"exercise,omitempty"`
	Caffeine      StringList `gorm:"column:activity_caffeine;type:jsonb;not null" json:"caffeine"`
	Alcohol       bool       `gorm:"column:activity_alcohol;not null;default:false" json:"alcohol"`
	HeavyMeal     bool       `gorm:"column:activity_heavy_meal;not null;default:false" json:"heavy_meal"`
	Stress        int        `gorm:"column:activity_stress;type:smallint;not null;default:3" json:"stress"`
	ScreenTimeMin int        `gorm:"column:activity_screen_time_min;not null;default:0" json:"screen_time_min"`
	Nap           bool       `gorm:"column:activity_nap;not null;default:false" json:"nap"`
}

// SleepNote is a free-text plus structured-tags journal entry for one
// calendar day.
type SleepNote struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Date       time.Time      `gorm:"not null;index" json:"date"`
	Text       string         `gorm:"type:text;not null;default:''" json:"text"`
	Tags       StringList     `gorm:"type:jsonb;not null" json:"tags"`
	Activities NoteActivities `gorm:"embedded" json:"activities"`
	MoodBefore int            `gorm:"type:smallint;not null;default:3" json:"mood_before"`
	MoodAfter  int            `gorm:"type:smallint;not null;default:3" json:"mood_after"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (SleepNote) TableName() string {
	return "sleep_notes"
}

// CreateNoteRequest is the request body for creating a sleep note.
// @Description Journal entry with behavioral factors for one day.
type CreateNoteRequest struct {
	// Calendar day the note describes (RFC3339; time-of-day is ignored)
	Date time.Time `json:"date" validate:"required" example:"2024-01-15T00:00:00Z"`
	Text string    `json:"text" validate:"max=4000"`
	Tags []string  `json:"tags" validate:"max=20,dive,max=64"`
	// Exercise time slot: morning, afternoon or evening
	Exercise      *string  `json:"exercise,omitempty" validate:"omitempty,oneof=morning afternoon evening"`
	Caffeine      []string `json:"caffeine" validate:"max=20,dive,max=64"`
	Alcohol       bool     `json:"alcohol"`
	HeavyMeal     bool     `json:"heavy_meal"`
	Stress        int      `json:"stress" validate:"min=1,max=5" example:"3"`
	ScreenTimeMin int      `json:"screen_time_min" validate:"min=0" example:"90"`
	Nap           bool     `json:"nap"`
	MoodBefore    int      `json:"mood_before" validate:"min=1,max=5" example:"3"`
	MoodAfter     int      `json:"mood_after" validate:"min=1,max=5" example:"4"`
}

// NoteResponse is the response body for note endpoints.
type NoteResponse struct {
	ID         uuid.UUID      `json:"id"`
	Date       time.Time      `json:"date"`
	Text       string         `json:"text"`
	Tags       []string       `json:"tags"`
	Activities NoteActivities `json:"activities"`
	MoodBefore int            `json:"mood_before"`
	MoodAfter  int            `json:"mood_after"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (n *SleepNote) ToResponse() NoteResponse {
	tags := n.Tags
	if tags == nil {
		tags = StringList{}
	}
	return NoteResponse{
		ID:         n.ID,
		Date:       n.Date,
		Text:       n.Text,
		Tags:       tags,
		Activities: n.Activities,
		MoodBefore: n.MoodBefore,
		MoodAfter:  n.MoodAfter,
		CreatedAt:  n.CreatedAt,
	}
}
