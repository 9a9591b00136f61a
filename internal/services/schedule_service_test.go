package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/prepiq/prepiq-service/internal/events"
	"github.com/prepiq/prepiq-service/internal/models"
	"github.com/prepiq/prepiq-service/internal/utils"
	"github.com/prepiq/prepiq-service/internal/validator"
)

func newScheduleServiceForTest(repo *mockRepository) (ScheduleService, *events.MockEventPublisher) {
	logger := utils.NewDevelopmentLogger()
	publisher := events.NewMockEventPublisher(utils.ToSlogLogger(logger))
	svc := NewScheduleService(repo, publisher, validator.New(), logger)
	return svc, publisher
}

func TestCreateSubjectValidatesPriority(t *testing.T) {
	repo := newMockRepository()
	svc, _ := newScheduleServiceForTest(repo)

	_, err := svc.CreateSubject(context.Background(), CreateSubjectRequest{
		UserID:       "user-1",
		Name:         "Physics",
		Priority:     "urgent",
		HoursPerWeek: 5,
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestDeleteSubjectChecksOwnership(t *testing.T) {
	repo := newMockRepository()
	svc, _ := newScheduleServiceForTest(repo)

	repo.subject.On("GetByID", mock.Anything, uint(7)).
		Return(&models.Subject{ID: 7, UserID: "someone-else"}, nil)

	err := svc.DeleteSubject(context.Background(), "user-1", 7)
	assert.ErrorIs(t, err, ErrSubjectNotFound)
	repo.subject.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestGetGoalsNotFound(t *testing.T) {
	repo := newMockRepository()
	svc, _ := newScheduleServiceForTest(repo)

	repo.goals.On("GetByUser", mock.Anything, "user-1").
		Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GetGoals(context.Background(), "user-1")
	assert.ErrorIs(t, err, ErrGoalsNotFound)
}

func TestGenerateScheduleReplacesAndPublishes(t *testing.T) {
	repo := newMockRepository()
	svc, publisher := newScheduleServiceForTest(repo)
	ctx := context.Background()

	subjects := []*models.Subject{
		{ID: 1, UserID: "user-1", Name: "Physics", Priority: models.PriorityHigh, HoursPerWeek: 7},
	}
	goals := &models.StudyGoals{
		UserID:               "user-1",
		TargetHoursPerDay:    2,
		PreferredStudyTime:   models.StudyTimeMorning,
		BreakDurationMinutes: 15,
	}

	repo.subject.On("GetByUser", mock.Anything, "user-1").Return(subjects, nil)
	repo.goals.On("GetByUser", mock.Anything, "user-1").Return(goals, nil)

	var replaced []models.TimeSlot
	repo.schedule.On("ReplaceForUser", mock.Anything, "user-1", mock.AnythingOfType("[]models.TimeSlot")).
		Run(func(args mock.Arguments) {
			replaced = args.Get(2).([]models.TimeSlot)
		}).
		Return(nil)
	repo.schedule.On("GetByUser", mock.Anything, "user-1").Return([]*models.TimeSlot{}, nil)

	_, err := svc.GenerateSchedule(ctx, "user-1")
	require.NoError(t, err)

	require.NotEmpty(t, replaced)
	for _, slot := range replaced {
		assert.Equal(t, "user-1", slot.UserID)
	}

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventScheduleGenerated, published[0].Type)
	data := published[0].Data.(events.ScheduleGeneratedEvent)
	assert.Equal(t, len(replaced), data.SlotCount)
}

func TestGenerateScheduleRequiresSubjects(t *testing.T) {
	repo := newMockRepository()
	svc, _ := newScheduleServiceForTest(repo)

	repo.subject.On("GetByUser", mock.Anything, "user-1").
		Return([]*models.Subject{}, nil)

	_, err := svc.GenerateSchedule(context.Background(), "user-1")
	assert.ErrorIs(t, err, ErrNoSubjects)
}

func TestUpdateSlotChecksOwnership(t *testing.T) {
	repo := newMockRepository()
	svc, _ := newScheduleServiceForTest(repo)

	repo.schedule.On("GetSlot", mock.Anything, uint(3)).
		Return(&models.TimeSlot{ID: 3, UserID: "someone-else"}, nil)

	_, err := svc.UpdateSlot(context.Background(), "user-1", 3, UpsertSlotRequest{
		UserID:    "user-1",
		Day:       "Monday",
		StartTime: "08:00",
		EndTime:   "09:00",
		Type:      models.SlotStudy,
	})
	assert.ErrorIs(t, err, ErrSlotNotFound)
}
