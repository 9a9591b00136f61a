package services

import (
	"context"
	"fmt"

	"github.com/prepiq/prepiq-service/internal/events"
	"github.com/prepiq/prepiq-service/internal/models"
	"github.com/prepiq/prepiq-service/internal/repositories"
	"github.com/prepiq/prepiq-service/internal/schedule"
	"github.com/prepiq/prepiq-service/internal/utils"
	"github.com/prepiq/prepiq-service/internal/validator"
)

type CreateSubjectRequest struct {
	UserID       string                 `json:"user_id" validate:"required"`
	Name         string                 `json:"name" validate:"required,min=1,max=100"`
	Priority     models.SubjectPriority `json:"priority" validate:"required,subject_priority"`
	HoursPerWeek float64                `json:"hours_per_week" validate:"min=0,max=168"`
	Color        string                 `json:"color" validate:"max=20"`
}

type SetGoalsRequest struct {
	UserID               string                    `json:"user_id" validate:"required"`
	TargetHoursPerDay    float64                   `json:"target_hours_per_day" validate:"required,gt=0"`
	PreferredStudyTime   models.PreferredStudyTime `json:"preferred_study_time" validate:"required,preferred_study_time"`
	BreakDurationMinutes int                       `json:"break_duration_minutes" validate:"required,gt=0"`
}

type UpsertSlotRequest struct {
	UserID    string          `json:"user_id" validate:"required"`
	Day       string          `json:"day" validate:"required,weekday"`
	StartTime string          `json:"start_time" validate:"required"`
	EndTime   string          `json:"end_time" validate:"required"`
	SubjectID *uint           `json:"subject_id"`
	Type      models.SlotType `json:"type" validate:"required,slot_type"`
}

// ScheduleService manages subjects, study goals and the weekly timetable.
type ScheduleService interface {
	CreateSubject(ctx context.Context, req CreateSubjectRequest) (*models.Subject, error)
	GetSubjects(ctx context.Context, userID string) ([]*models.Subject, error)
	DeleteSubject(ctx context.Context, userID string, id uint) error

	SetGoals(ctx context.Context, req SetGoalsRequest) (*models.StudyGoals, error)
	GetGoals(ctx context.Context, userID string) (*models.StudyGoals, error)

	GenerateSchedule(ctx context.Context, userID string) ([]*models.TimeSlot, error)
	GetSchedule(ctx context.Context, userID string) ([]*models.TimeSlot, error)
	CreateSlot(ctx context.Context, req UpsertSlotRequest) (*models.TimeSlot, error)
	UpdateSlot(ctx context.Context, userID string, id uint, req UpsertSlotRequest) (*models.TimeSlot, error)
	DeleteSlot(ctx context.Context, userID string, id uint) error
}

type scheduleService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	validator *validator.Validator
	logger    utils.Logger
}

func NewScheduleService(
	repo repositories.Repository,
	publisher events.EventPublisher,
	v *validator.Validator,
	logger utils.Logger,
) ScheduleService {
	return &scheduleService{
		repo:      repo,
		publisher: publisher,
		validator: v,
		logger:    logger,
	}
}

// ===== SUBJECTS =====

func (s *scheduleService) CreateSubject(ctx context.Context, req CreateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	subject := &models.Subject{
		UserID:       req.UserID,
		Name:         req.Name,
		Priority:     req.Priority,
		HoursPerWeek: req.HoursPerWeek,
		Color:        req.Color,
	}
	if err := s.repo.Subject().Create(ctx, subject); err != nil {
		return nil, fmt.Errorf("failed to create subject: %w", err)
	}
	return subject, nil
}

func (s *scheduleService) GetSubjects(ctx context.Context, userID string) ([]*models.Subject, error) {
	subjects, err := s.repo.Subject().GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subjects: %w", err)
	}
	return subjects, nil
}

func (s *scheduleService) DeleteSubject(ctx context.Context, userID string, id uint) error {
	subject, err := s.repo.Subject().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSubjectNotFound
		}
		return fmt.Errorf("failed to load subject: %w", err)
	}
	if subject.UserID != userID {
		return ErrSubjectNotFound
	}
	return s.repo.Subject().Delete(ctx, id)
}

// ===== GOALS =====

func (s *scheduleService) SetGoals(ctx context.Context, req SetGoalsRequest) (*models.StudyGoals, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	goals := &models.StudyGoals{
		UserID:               req.UserID,
		TargetHoursPerDay:    req.TargetHoursPerDay,
		PreferredStudyTime:   req.PreferredStudyTime,
		BreakDurationMinutes: req.BreakDurationMinutes,
	}
	if err := s.repo.Goals().Upsert(ctx, goals); err != nil {
		return nil, fmt.Errorf("failed to save study goals: %w", err)
	}
	return goals, nil
}

func (s *scheduleService) GetGoals(ctx context.Context, userID string) (*models.StudyGoals, error) {
	goals, err := s.repo.Goals().GetByUser(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrGoalsNotFound
		}
		return nil, fmt.Errorf("failed to load study goals: %w", err)
	}
	return goals, nil
}

// ===== SCHEDULE =====

// GenerateSchedule builds a fresh weekly timetable from the user's subjects
// and goals and replaces any previously stored schedule with it.
func (s *scheduleService) GenerateSchedule(ctx context.Context, userID string) ([]*models.TimeSlot, error) {
	subjects, err := s.repo.Subject().GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subjects: %w", err)
	}
	if len(subjects) == 0 {
		return nil, ErrNoSubjects
	}
	goals, err := s.GetGoals(ctx, userID)
	if err != nil {
		return nil, err
	}

	plain := make([]models.Subject, len(subjects))
	for i, sub := range subjects {
		plain[i] = *sub
	}
	slots := schedule.GenerateWeek(plain, *goals)
	for i := range slots {
		slots[i].UserID = userID
	}

	if err := s.repo.Schedule().ReplaceForUser(ctx, userID, slots); err != nil {
		return nil, fmt.Errorf("failed to store schedule: %w", err)
	}

	studyCount, breakCount := 0, 0
	for _, slot := range slots {
		switch slot.Type {
		case models.SlotStudy:
			studyCount++
		case models.SlotBreak:
			breakCount++
		}
	}
	event := events.NewScheduleGeneratedEvent(userID, len(slots), studyCount, breakCount)
	if err := s.publisher.PublishStudyEvent(ctx, event); err != nil {
		s.logger.LogError(err, "Failed to publish schedule event", "user_id", userID)
	}

	s.logger.Info("Generated weekly schedule",
		"user_id", userID,
		"slots", len(slots),
		"study_slots", studyCount,
		"break_slots", breakCount)

	return s.repo.Schedule().GetByUser(ctx, userID)
}

func (s *scheduleService) GetSchedule(ctx context.Context, userID string) ([]*models.TimeSlot, error) {
	slots, err := s.repo.Schedule().GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	return slots, nil
}

func (s *scheduleService) CreateSlot(ctx context.Context, req UpsertSlotRequest) (*models.TimeSlot, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	slot := &models.TimeSlot{
		UserID:    req.UserID,
		Day:       req.Day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		SubjectID: req.SubjectID,
		Type:      req.Type,
	}
	if err := s.repo.Schedule().CreateSlot(ctx, slot); err != nil {
		return nil, fmt.Errorf("failed to create time slot: %w", err)
	}
	return slot, nil
}

func (s *scheduleService) UpdateSlot(ctx context.Context, userID string, id uint, req UpsertSlotRequest) (*models.TimeSlot, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	slot, err := s.repo.Schedule().GetSlot(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("failed to load time slot: %w", err)
	}
	if slot.UserID != userID {
		return nil, ErrSlotNotFound
	}

	slot.Day = req.Day
	slot.StartTime = req.StartTime
	slot.EndTime = req.EndTime
	slot.SubjectID = req.SubjectID
	slot.Type = req.Type
	if err := s.repo.Schedule().UpdateSlot(ctx, slot); err != nil {
		return nil, fmt.Errorf("failed to update time slot: %w", err)
	}
	return slot, nil
}

func (s *scheduleService) DeleteSlot(ctx context.Context, userID string, id uint) error {
	slot, err := s.repo.Schedule().GetSlot(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSlotNotFound
		}
		return fmt.Errorf("failed to load time slot: %w", err)
	}
	if slot.UserID != userID {
		return ErrSlotNotFound
	}
	return s.repo.Schedule().DeleteSlot(ctx, id)
}
