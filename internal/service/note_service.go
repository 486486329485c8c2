package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/somnus-app/somnus/internal/domain"
	"github.com/somnus-app/somnus/internal/repository"
)

type NoteService interface {
	Create(ctx context.Context, req *domain.CreateNoteRequest) (*domain.SleepNote, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SleepNote, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListSince(ctx context.Context, days int) ([]domain.SleepNote, error)
}

type noteService struct {
	repo repository.NoteRepository
	now  func() time.Time
}

func NewNoteService(repo repository.NoteRepository) NoteService {
	return &noteService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *noteService) Create(ctx context.Context, req *domain.CreateNoteRequest) (*domain.SleepNote, error) {
	// Normalize to midnight UTC; a note describes a calendar day.
	day := req.Date.UTC()
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	note := &domain.SleepNote{
		ID:   uuid.New(),
		Date: day,
		Text: req.Text,
		Tags: req.Tags,
		Activities: domain.NoteActivities{
			Exercise:      req.Exercise,
			Caffeine:      req.Caffeine,
			Alcohol:       req.Alcohol,
			HeavyMeal:     req.HeavyMeal,
			Stress:        req.Stress,
			ScreenTimeMin: req.ScreenTimeMin,
			Nap:           req.Nap,
		},
		MoodBefore: req.MoodBefore,
		MoodAfter:  req.MoodAfter,
	}

	if err := s.repo.Create(ctx, note); err != nil {
		return nil, err
	}

	return note, nil
}

func (s *noteService) GetByID(ctx context.Context, id uuid.UUID) (*domain.SleepNote, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *noteService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *noteService) ListSince(ctx context.Context, days int) ([]domain.SleepNote, error) {
	if days <= 0 {
		days = DefaultAnalyticsWindowDays
	}
	since := s.now().UTC().AddDate(0, 0, -days)
	return s.repo.ListSince(ctx, since)
}
