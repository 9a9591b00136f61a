package postgres

import (
	"github.com/prepiq/prepiq-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	attempt  repositories.AttemptRepository
	bookmark repositories.BookmarkRepository
	subject  repositories.SubjectRepository
	schedule repositories.ScheduleRepository
	goals    repositories.GoalsRepository
}

// NewRepository wires all PostgreSQL repositories over one gorm.DB.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		attempt:  NewAttemptPostgreSQL(db),
		bookmark: NewBookmarkPostgreSQL(db),
		subject:  NewSubjectPostgreSQL(db),
		schedule: NewSchedulePostgreSQL(db),
		goals:    NewGoalsPostgreSQL(db),
	}
}

func (r *repository) Attempt() repositories.AttemptRepository   { return r.attempt }
func (r *repository) Bookmark() repositories.BookmarkRepository { return r.bookmark }
func (r *repository) Subject() repositories.SubjectRepository   { return r.subject }
func (r *repository) Schedule() repositories.ScheduleRepository { return r.schedule }
func (r *repository) Goals() repositories.GoalsRepository       { return r.goals }
