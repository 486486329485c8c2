package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/somnus-app/somnus/internal/domain"
	"github.com/somnus-app/somnus/pkg/pagination"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(ctx context.Context, session *domain.SleepSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SleepSession, error)
	GetActive(ctx context.Context) (*domain.SleepSession, error)
	Update(ctx context.Context, session *domain.SleepSession) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter domain.SessionFilter) ([]domain.SleepSession, error)
	ListRecentCompleted(ctx context.Context, limit int) ([]domain.SleepSession, error)
	ListCompletedSince(ctx context.Context, since time.Time) ([]domain.SleepSession, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.SleepSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SleepSession, error) {
	var session domain.SleepSession
	err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// GetActive returns the in-progress session, or nil when sleep is not
// being tracked. At most one session may be active at a time.
func (r *sessionRepository) GetActive(ctx context.Context) (*domain.SleepSession, error) {
	var session domain.SleepSession
	err := r.db.WithContext(ctx).
		Where("end_at IS NULL").
		Order("start_at DESC").
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Update(ctx context.Context, session *domain.SleepSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *sessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.SleepSession{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *sessionRepository) List(ctx context.Context, filter domain.SessionFilter) ([]domain.SleepSession, error) {
	query := r.db.WithContext(ctx).Order("start_at DESC")

	if filter.From != nil {
		query = query.Where("start_at >= ?", filter.From)
	}
	if filter.To != nil {
		query = query.Where("start_at <= ?", filter.To)
	}

	if filter.Cursor != "" {
		cursor, err := pagination.DecodeCursor(filter.Cursor)
		if err == nil && cursor != nil {
			// For DESC order: records strictly after the cursor position.
			query = query.Where(
				"(start_at < ?) OR (start_at = ? AND id < ?)",
				cursor.StartAt, cursor.StartAt, cursor.ID,
			)
		}
	}

	// Fetch one extra to determine if there are more results.
	limit := pagination.NormalizeLimit(filter.Limit)
	query = query.Limit(limit + 1)

	var sessions []domain.SleepSession
	if err := query.Find(&sessions).Error; err != nil {
		return nil, err
	}

	return sessions, nil
}

// ListCompletedSince returns every completed session starting on or
// after the given instant, oldest first. Analytics windows feed on this.
func (r *sessionRepository) ListCompletedSince(ctx context.Context, since time.Time) ([]domain.SleepSession, error) {
	var sessions []domain.SleepSession
	err := r.db.WithContext(ctx).
		Where("end_at IS NOT NULL").
		Where("start_at >= ?", since).
		Order("start_at ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListRecentCompleted returns the newest completed sessions, most
// recent first. The quality and debt calculations feed on this.
func (r *sessionRepository) ListRecentCompleted(ctx context.Context, limit int) ([]domain.SleepSession, error) {
	var sessions []domain.SleepSession
	err := r.db.WithContext(ctx).
		Where("end_at IS NOT NULL").
		Order("start_at DESC").
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}
