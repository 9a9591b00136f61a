package repositories

import (
	"context"
	"errors"

	"github.com/prepiq/prepiq-service/internal/models"
	"gorm.io/gorm"
)

// AttemptRepository persists submitted quiz attempts.
type AttemptRepository interface {
	Create(ctx context.Context, attempt *models.QuizAttempt) error
	GetByUser(ctx context.Context, userID string, limit int) ([]*models.QuizAttempt, error)
}

// BookmarkRepository persists bookmarked questions.
type BookmarkRepository interface {
	Create(ctx context.Context, bookmark *models.Bookmark) error
	GetByUser(ctx context.Context, userID string, limit int) ([]*models.Bookmark, error)
}

// SubjectRepository manages a user's study subjects.
type SubjectRepository interface {
	Create(ctx context.Context, subject *models.Subject) error
	GetByID(ctx context.Context, id uint) (*models.Subject, error)
	GetByUser(ctx context.Context, userID string) ([]*models.Subject, error)
	Delete(ctx context.Context, id uint) error
}

// ScheduleRepository manages weekly time slots. ReplaceForUser implements the
// full-replace semantics of schedule generation; the slot methods serve
// incremental user edits.
type ScheduleRepository interface {
	ReplaceForUser(ctx context.Context, userID string, slots []models.TimeSlot) error
	GetByUser(ctx context.Context, userID string) ([]*models.TimeSlot, error)
	CreateSlot(ctx context.Context, slot *models.TimeSlot) error
	GetSlot(ctx context.Context, id uint) (*models.TimeSlot, error)
	UpdateSlot(ctx context.Context, slot *models.TimeSlot) error
	DeleteSlot(ctx context.Context, id uint) error
}

// GoalsRepository manages the single study-goals row per user.
type GoalsRepository interface {
	Upsert(ctx context.Context, goals *models.StudyGoals) error
	GetByUser(ctx context.Context, userID string) (*models.StudyGoals, error)
}

// Repository aggregates all repositories behind one dependency.
type Repository interface {
	Attempt() AttemptRepository
	Bookmark() BookmarkRepository
	Subject() SubjectRepository
	Schedule() ScheduleRepository
	Goals() GoalsRepository
}

// IsNotFoundError reports whether err is the persistence layer's not-found.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
