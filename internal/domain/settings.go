package domain

import "time"

// DefaultSleepGoalMin is the daily sleep target applied until the user
// configures one (8 hours).
const DefaultSleepGoalMin = 480

// SettingsID is the primary key of the singleton settings row.
const SettingsID = 1

// UserSettings is a singleton configuration row. The core reads the
// sleep goal; it never writes settings.
type UserSettings struct {
	ID            int       `gorm:"primaryKey" json:"-"`
	SleepGoalMin  int       `gorm:"not null;default:480" json:"sleep_goal_min"`
	IdealBedtime  string    `gorm:"type:varchar(5);not null;default:'23:00'" json:"ideal_bedtime"`
	IdealWakeTime string    `gorm:"type:varchar(5);not null;default:'07:00'" json:"ideal_wake_time"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserSettings) TableName() string {
	return "user_settings"
}

// DefaultSettings returns the settings applied on first run.
func DefaultSettings() *UserSettings {
	return &UserSettings{
		ID:            SettingsID,
		SleepGoalMin:  DefaultSleepGoalMin,
		IdealBedtime:  "23:00",
		IdealWakeTime: "07:00",
	}
}

// UpdateSettingsRequest is the request body for updating settings.
// @Description Partial settings update; omitted fields are unchanged.
type UpdateSettingsRequest struct {
	// Target sleep minutes per night (4h-14h)
	SleepGoalMin  *int    `json:"sleep_goal_min,omitempty" validate:"omitempty,min=240,max=840" example:"480"`
	IdealBedtime  *string `json:"ideal_bedtime,omitempty" validate:"omitempty,alarmtime" example:"23:00"`
	IdealWakeTime *string `json:"ideal_wake_time,omitempty" validate:"omitempty,alarmtime" example:"07:00"`
}
