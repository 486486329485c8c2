package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/somnus-app/somnus/internal/domain"
	"gorm.io/gorm"
)

type NoteRepository interface {
	Create(ctx context.Context, note *domain.SleepNote) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SleepNote, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListSince(ctx context.Context, since time.Time) ([]domain.SleepNote, error)
}

type noteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, note *domain.SleepNote) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *noteRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SleepNote, error) {
	var note domain.SleepNote
	err := r.db.WithContext(ctx).First(&note, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &note, nil
}

func (r *noteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.SleepNote{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListSince returns notes dated on or after the given instant, oldest
// first, for pairing against sessions in the analytics window.
func (r *noteRepository) ListSince(ctx context.Context, since time.Time) ([]domain.SleepNote, error) {
	var notes []domain.SleepNote
	err := r.db.WithContext(ctx).
		Where("date >= ?", since).
		Order("date ASC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}
