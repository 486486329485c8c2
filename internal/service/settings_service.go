package service

import (
	"context"

	"github.com/somnus-app/somnus/internal/domain"
	"github.com/somnus-app/somnus/internal/repository"
)

type SettingsService interface {
	Get(ctx context.Context) (*domain.UserSettings, error)
	Update(ctx context.Context, req *domain.UpdateSettingsRequest) (*domain.UserSettings, error)
}

type settingsService struct {
	repo repository.SettingsRepository
}

func NewSettingsService(repo repository.SettingsRepository) SettingsService {
	return &settingsService{repo: repo}
}

func (s *settingsService) Get(ctx context.Context) (*domain.UserSettings, error) {
	return s.repo.Get(ctx)
}

func (s *settingsService) Update(ctx context.Context, req *domain.UpdateSettingsRequest) (*domain.UserSettings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if req.SleepGoalMin != nil {
		settings.SleepGoalMin = *req.SleepGoalMin
	}
	if req.IdealBedtime != nil {
		settings.IdealBedtime = *req.IdealBedtime
	}
	if req.IdealWakeTime != nil {
		settings.IdealWakeTime = *req.IdealWakeTime
	}

	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, err
	}

	return settings, nil
}
