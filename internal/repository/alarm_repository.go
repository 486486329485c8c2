package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/somnus-app/somnus/internal/domain"
	"gorm.io/gorm"
)

type AlarmRepository interface {
	Create(ctx context.Context, alarm *domain.Alarm) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Alarm, error)
	Update(ctx context.Context, alarm *domain.Alarm) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]domain.Alarm, error)
	ListEnabled(ctx context.Context) ([]domain.Alarm, error)
}

type alarmRepository struct {
	db *gorm.DB
}

func NewAlarmRepository(db *gorm.DB) AlarmRepository {
	return &alarmRepository{db: db}
}

func (r *alarmRepository) Create(ctx context.Context, alarm *domain.Alarm) error {
	return r.db.WithContext(ctx).Create(alarm).Error
}

func (r *alarmRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Alarm, error) {
	var alarm domain.Alarm
	err := r.db.WithContext(ctx).First(&alarm, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &alarm, nil
}

func (r *alarmRepository) Update(ctx context.Context, alarm *domain.Alarm) error {
	return r.db.WithContext(ctx).Save(alarm).Error
}

func (r *alarmRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.Alarm{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *alarmRepository) List(ctx context.Context) ([]domain.Alarm, error) {
	var alarms []domain.Alarm
	err := r.db.WithContext(ctx).Order("time ASC").Find(&alarms).Error
	if err != nil {
		return nil, err
	}
	return alarms, nil
}

// ListEnabled returns only alarms the scheduler should evaluate.
func (r *alarmRepository) ListEnabled(ctx context.Context) ([]domain.Alarm, error) {
	var alarms []domain.Alarm
	err := r.db.WithContext(ctx).
		Where("enabled = ?", true).
		Order("time ASC").
		Find(&alarms).Error
	if err != nil {
		return nil, err
	}
	return alarms, nil
}
