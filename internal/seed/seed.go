package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/somnus-app/somnus/internal/domain"
	"github.com/somnus-app/somnus/internal/sleep"
	"gorm.io/gorm"
)

const seededDays = 40

// Run seeds the database with sample sessions, notes, alarms and
// settings. Safe to call multiple times.
func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.SleepSession{}, &domain.Alarm{}, &domain.SleepNote{}, &domain.UserSettings{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	if err := seedSessions(db, rng); err != nil {
		return err
	}
	if err := seedNotes(db, rng); err != nil {
		return err
	}
	if err := seedAlarms(db); err != nil {
		return err
	}

	settings := domain.DefaultSettings()
	if err := db.Where("id = ?", settings.ID).FirstOrCreate(settings).Error; err != nil {
		return fmt.Errorf("failed to create settings: %w", err)
	}

	log.Println("Seed completed")
	return nil
}

func seedSessions(db *gorm.DB, rng *rand.Rand) error {
	gen := sleep.NewPhaseGenerator(rand.NewSource(rng.Int63()))
	now := time.Now().UTC()

	var history []domain.SleepSession
	for i := seededDays; i >= 1; i-- {
		date := now.AddDate(0, 0, -i)
		bedtime := time.Date(date.Year(), date.Month(), date.Day(), 22+rng.Intn(2), rng.Intn(60), 0, 0, time.UTC)
		wakeup := bedtime.Add(time.Duration(360+rng.Intn(180)) * time.Minute)
		duration := int(wakeup.Sub(bedtime).Minutes())

		session := domain.SleepSession{
			ID:            uuid.New(),
			StartAt:       bedtime,
			EndAt:         &wakeup,
			DurationMin:   duration,
			Phases:        gen.Generate(duration),
			Interruptions: rng.Intn(4),
			NoiseLevel:    rng.Float64() * 30,
		}
		session.Quality = sleep.CalculateQuality(&session, history)

		if err := db.Where("start_at = ?", session.StartAt).FirstOrCreate(&session).Error; err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
		history = append(history, session)
	}
	return nil
}

func seedNotes(db *gorm.DB, rng *rand.Rand) error {
	slots := []string{"morning", "afternoon", "evening"}
	now := time.Now().UTC()

	for i := seededDays; i >= 1; i-- {
		// Journal entries for roughly two thirds of the days.
		if rng.Float32() < 0.34 {
			continue
		}

		date := now.AddDate(0, 0, -i)
		day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

		var exercise *string
		if rng.Float32() < 0.5 {
			slot := slots[rng.Intn(len(slots))]
			exercise = &slot
		}

		caffeine := domain.StringList{}
		if rng.Float32() < 0.6 {
			caffeine = append(caffeine, "coffee")
		}

		note := domain.SleepNote{
			ID:   uuid.New(),
			Date: day,
			Text: "seeded journal entry",
			Tags: domain.StringList{"seed"},
			Activities: domain.NoteActivities{
				Exercise:      exercise,
				Caffeine:      caffeine,
				Alcohol:       rng.Float32() < 0.2,
				HeavyMeal:     rng.Float32() < 0.3,
				Stress:        1 + rng.Intn(5),
				ScreenTimeMin: rng.Intn(180),
				Nap:           rng.Float32() < 0.25,
			},
			MoodBefore: 1 + rng.Intn(5),
			MoodAfter:  1 + rng.Intn(5),
		}

		if err := db.Where("date = ?", note.Date).FirstOrCreate(&note).Error; err != nil {
			return fmt.Errorf("failed to create note: %w", err)
		}
	}
	return nil
}

func seedAlarms(db *gorm.DB) error {
	alarms := []domain.Alarm{
		{
			ID:                uuid.MustParse("11111111-1111-1111-1111-111111111111"),
			Time:              "07:00",
			Label:             "Workday",
			Days:              domain.Weekdays{false, true, true, true, true, true, false},
			Enabled:           true,
			SmartWake:         true,
			WakeWindowMin:     20,
			SnoozeDurationMin: 9,
			SnoozeMaxCount:    3,
		},
		{
			ID:                uuid.MustParse("22222222-2222-2222-2222-222222222222"),
			Time:              "09:00",
			Label:             "Weekend",
			Days:              domain.Weekdays{true, false, false, false, false, false, true},
			Enabled:           false,
			SnoozeDurationMin: 15,
			SnoozeMaxCount:    2,
		},
	}

	for _, alarm := range alarms {
		if err := db.Where("id = ?", alarm.ID).FirstOrCreate(&alarm).Error; err != nil {
			return fmt.Errorf("failed to create alarm %s: %w", alarm.ID, err)
		}
	}
	return nil
}
