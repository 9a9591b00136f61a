package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/prepiq/prepiq-service/internal/models"
	"github.com/prepiq/prepiq-service/internal/repositories"
)

// MockAttemptRepository is a mock implementation of AttemptRepository
type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) Create(ctx context.Context, attempt *models.QuizAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockAttemptRepository) GetByUser(ctx context.Context, userID string, limit int) ([]*models.QuizAttempt, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.QuizAttempt), args.Error(1)
}

// MockBookmarkRepository is a mock implementation of BookmarkRepository
type MockBookmarkRepository struct {
	mock.Mock
}

func (m *MockBookmarkRepository) Create(ctx context.Context, bookmark *models.Bookmark) error {
	args := m.Called(ctx, bookmark)
	return args.Error(0)
}

func (m *MockBookmarkRepository) GetByUser(ctx context.Context, userID string, limit int) ([]*models.Bookmark, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bookmark), args.Error(1)
}

// MockSubjectRepository is a mock implementation of SubjectRepository
type MockSubjectRepository struct {
	mock.Mock
}

func (m *MockSubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	args := m.Called(ctx, subject)
	return args.Error(0)
}

func (m *MockSubjectRepository) GetByID(ctx context.Context, id uint) (*models.Subject, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subject), args.Error(1)
}

func (m *MockSubjectRepository) GetByUser(ctx context.Context, userID string) ([]*models.Subject, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subject), args.Error(1)
}

func (m *MockSubjectRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockScheduleRepository is a mock implementation of ScheduleRepository
type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) ReplaceForUser(ctx context.Context, userID string, slots []models.TimeSlot) error {
	args := m.Called(ctx, userID, slots)
	return args.Error(0)
}

func (m *MockScheduleRepository) GetByUser(ctx context.Context, userID string) ([]*models.TimeSlot, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TimeSlot), args.Error(1)
}

func (m *MockScheduleRepository) CreateSlot(ctx context.Context, slot *models.TimeSlot) error {
	args := m.Called(ctx, slot)
	return args.Error(0)
}

func (m *MockScheduleRepository) GetSlot(ctx context.Context, id uint) (*models.TimeSlot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TimeSlot), args.Error(1)
}

func (m *MockScheduleRepository) UpdateSlot(ctx context.Context, slot *models.TimeSlot) error {
	args := m.Called(ctx, slot)
	return args.Error(0)
}

func (m *MockScheduleRepository) DeleteSlot(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockGoalsRepository is a mock implementation of GoalsRepository
type MockGoalsRepository struct {
	mock.Mock
}

func (m *MockGoalsRepository) Upsert(ctx context.Context, goals *models.StudyGoals) error {
	args := m.Called(ctx, goals)
	return args.Error(0)
}

func (m *MockGoalsRepository) GetByUser(ctx context.Context, userID string) (*models.StudyGoals, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StudyGoals), args.Error(1)
}

// mockRepository bundles the repository mocks behind the aggregate interface
type mockRepository struct {
	attempt  *MockAttemptRepository
	bookmark *MockBookmarkRepository
	subject  *MockSubjectRepository
	schedule *MockScheduleRepository
	goals    *MockGoalsRepository
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		attempt:  new(MockAttemptRepository),
		bookmark: new(MockBookmarkRepository),
		subject:  new(MockSubjectRepository),
		schedule: new(MockScheduleRepository),
		goals:    new(MockGoalsRepository),
	}
}

func (r *mockRepository) Attempt() repositories.AttemptRepository   { return r.attempt }
func (r *mockRepository) Bookmark() repositories.BookmarkRepository { return r.bookmark }
func (r *mockRepository) Subject() repositories.SubjectRepository   { return r.subject }
func (r *mockRepository) Schedule() repositories.ScheduleRepository { return r.schedule }
func (r *mockRepository) Goals() repositories.GoalsRepository       { return r.goals }
