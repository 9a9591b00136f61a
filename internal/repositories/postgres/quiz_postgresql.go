package postgres

import (
	"context"

	"github.com/prepiq/prepiq-service/internal/models"
	"github.com/prepiq/prepiq-service/internal/repositories"
	"gorm.io/gorm"
)

type AttemptPostgreSQL struct {
	db *gorm.DB
}

func NewAttemptPostgreSQL(db *gorm.DB) repositories.AttemptRepository {
	return &AttemptPostgreSQL{db: db}
}

func (a *AttemptPostgreSQL) Create(ctx context.Context, attempt *models.QuizAttempt) error {
	return a.db.WithContext(ctx).Create(attempt).Error
}

func (a *AttemptPostgreSQL) GetByUser(ctx context.Context, userID string, limit int) ([]*models.QuizAttempt, error) {
	var attempts []*models.QuizAttempt
	query := a.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

type BookmarkPostgreSQL struct {
	db *gorm.DB
}

func NewBookmarkPostgreSQL(db *gorm.DB) repositories.BookmarkRepository {
	return &BookmarkPostgreSQL{db: db}
}

func (b *BookmarkPostgreSQL) Create(ctx context.Context, bookmark *models.Bookmark) error {
	return b.db.WithContext(ctx).Create(bookmark).Error
}

func (b *BookmarkPostgreSQL) GetByUser(ctx context.Context, userID string, limit int) ([]*models.Bookmark, error) {
	var bookmarks []*models.Bookmark
	query := b.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&bookmarks).Error; err != nil {
		return nil, err
	}
	return bookmarks, nil
}
