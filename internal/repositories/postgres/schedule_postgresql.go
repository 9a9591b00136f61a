package postgres

import (
	"context"

	"github.com/prepiq/prepiq-service/internal/models"
	"github.com/prepiq/prepiq-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubjectPostgreSQL struct {
	db *gorm.DB
}

func NewSubjectPostgreSQL(db *gorm.DB) repositories.SubjectRepository {
	return &SubjectPostgreSQL{db: db}
}

func (s *SubjectPostgreSQL) Create(ctx context.Context, subject *models.Subject) error {
	return s.db.WithContext(ctx).Create(subject).Error
}

func (s *SubjectPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Subject, error) {
	var subject models.Subject
	if err := s.db.WithContext(ctx).First(&subject, id).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

func (s *SubjectPostgreSQL) GetByUser(ctx context.Context, userID string) ([]*models.Subject, error) {
	var subjects []*models.Subject
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

func (s *SubjectPostgreSQL) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.Subject{}, id).Error
}

type SchedulePostgreSQL struct {
	db *gorm.DB
}

func NewSchedulePostgreSQL(db *gorm.DB) repositories.ScheduleRepository {
	return &SchedulePostgreSQL{db: db}
}

// ReplaceForUser deletes all prior slots for the user and inserts the new
// batch in one transaction.
func (s *SchedulePostgreSQL) ReplaceForUser(ctx context.Context, userID string, slots []models.TimeSlot) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.TimeSlot{}).Error; err != nil {
			return err
		}
		if len(slots) == 0 {
			return nil
		}
		return tx.Create(&slots).Error
	})
}

func (s *SchedulePostgreSQL) GetByUser(ctx context.Context, userID string) ([]*models.TimeSlot, error) {
	var slots []*models.TimeSlot
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (s *SchedulePostgreSQL) CreateSlot(ctx context.Context, slot *models.TimeSlot) error {
	return s.db.WithContext(ctx).Create(slot).Error
}

func (s *SchedulePostgreSQL) GetSlot(ctx context.Context, id uint) (*models.TimeSlot, error) {
	var slot models.TimeSlot
	if err := s.db.WithContext(ctx).First(&slot, id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (s *SchedulePostgreSQL) UpdateSlot(ctx context.Context, slot *models.TimeSlot) error {
	return s.db.WithContext(ctx).Save(slot).Error
}

func (s *SchedulePostgreSQL) DeleteSlot(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.TimeSlot{}, id).Error
}

type GoalsPostgreSQL struct {
	db *gorm.DB
}

func NewGoalsPostgreSQL(db *gorm.DB) repositories.GoalsRepository {
	return &GoalsPostgreSQL{db: db}
}

func (g *GoalsPostgreSQL) Upsert(ctx context.Context, goals *models.StudyGoals) error {
	return g.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"target_hours_per_day", "preferred_study_time", "break_duration_minutes", "updated_at",
			}),
		}).
		Create(goals).Error
}

func (g *GoalsPostgreSQL) GetByUser(ctx context.Context, userID string) (*models.StudyGoals, error) {
	var goals models.StudyGoals
	if err := g.db.WithContext(ctx).Where("user_id = ?", userID).First(&goals).Error; err != nil {
		return nil, err
	}
	return &goals, nil
}
