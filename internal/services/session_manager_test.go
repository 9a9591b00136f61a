package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/prepiq/prepiq-service/internal/events"
	"github.com/prepiq/prepiq-service/internal/llm"
	"github.com/prepiq/prepiq-service/internal/models"
	"github.com/prepiq/prepiq-service/internal/session"
	"github.com/prepiq/prepiq-service/internal/utils"
	"github.com/prepiq/prepiq-service/internal/validator"
)

type managerFixture struct {
	repo      *mockRepository
	quizzes   QuizService
	manager   SessionManager
	publisher *events.MockEventPublisher
}

func newManagerFixture(t *testing.T) *managerFixture {
	t.Helper()
	repo := newMockRepository()
	logger := utils.NewDevelopmentLogger()
	publisher := events.NewMockEventPublisher(utils.ToSlogLogger(logger))
	quizzes := NewQuizService(repo, llm.NewBankGenerator(), publisher, nil, validator.New(), logger)
	manager := NewSessionManager(quizzes, session.NewMemoryStore(), publisher, logger)
	t.Cleanup(manager.Close)
	return &managerFixture{
		repo:      repo,
		quizzes:   quizzes,
		manager:   manager,
		publisher: publisher,
	}
}

func (f *managerFixture) generateQuiz(t *testing.T, questions int) *models.QuizConfig {
	t.Helper()
	cfg, err := f.quizzes.Generate(context.Background(), "user-1", GenerateQuizRequest{
		Subject:      "Physics",
		Module:       "Mechanics",
		ExamFormat:   models.FormatGeneralPractice,
		Difficulty:   models.DifficultyMedium,
		NumQuestions: questions,
	})
	require.NoError(t, err)
	return cfg
}

func TestStartSessionUnknownQuiz(t *testing.T) {
	f := newManagerFixture(t)

	_, err := f.manager.Start(context.Background(), "missing", "user-1")
	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestStartSessionReattachesForSameUser(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	cfg := f.generateQuiz(t, 3)

	first, err := f.manager.Start(ctx, cfg.QuizID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, session.StatusInProgress, first.Status)
	assert.Equal(t, cfg.TimeLimitMinutes*60, first.TimeLeftSeconds)

	_, err = f.manager.SelectAnswer(ctx, cfg.QuizID, "user-1", 0, "F = ma")
	require.NoError(t, err)

	again, err := f.manager.Start(ctx, cfg.QuizID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, again.AttemptedCount)

	_, err = f.manager.Start(ctx, cfg.QuizID, "user-2")
	assert.ErrorIs(t, err, ErrSessionAlreadyExists)
}

func TestSessionCommandsUpdateState(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	cfg := f.generateQuiz(t, 4)

	_, err := f.manager.Start(ctx, cfg.QuizID, "user-1")
	require.NoError(t, err)

	state, err := f.manager.SelectAnswer(ctx, cfg.QuizID, "user-1", 0, "answer")
	require.NoError(t, err)
	assert.Equal(t, session.QuestionAttempted, state.QuestionStatuses[0])

	state, err = f.manager.MarkForReview(ctx, cfg.QuizID, "user-1", 1)
	require.NoError(t, err)
	assert.Equal(t, session.QuestionMarked, state.QuestionStatuses[1])
	assert.Equal(t, 2, state.AttemptedCount)

	state, err = f.manager.ToggleBookmark(ctx, cfg.QuizID, "user-1", 2)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, state.BookmarkedQuestions)

	state, err = f.manager.Navigate(cfg.QuizID, "user-1", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, state.CurrentIndex)
}

func TestSessionNotificationsDrainedOnce(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	cfg := f.generateQuiz(t, 3)

	_, err := f.manager.Start(ctx, cfg.QuizID, "user-1")
	require.NoError(t, err)

	state, err := f.manager.ToggleBookmark(ctx, cfg.QuizID, "user-1", 0)
	require.NoError(t, err)
	require.Len(t, state.Notifications, 1)
	assert.Equal(t, session.NoteBookmarked, state.Notifications[0].Kind)

	state, err = f.manager.Get(cfg.QuizID, "user-1")
	require.NoError(t, err)
	assert.Empty(t, state.Notifications)
}

func TestSubmitRequiresConfirmation(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	cfg := f.generateQuiz(t, 3)

	_, err := f.manager.Start(ctx, cfg.QuizID, "user-1")
	require.NoError(t, err)
	_, err = f.manager.SelectAnswer(ctx, cfg.QuizID, "user-1", 0, "x")
	require.NoError(t, err)

	_, err = f.manager.Submit(ctx, cfg.QuizID, "user-1", false)
	var unattempted *session.UnattemptedRemainingError
	require.ErrorAs(t, err, &unattempted)
	assert.Equal(t, 2, unattempted.Count)

	// the gate left the session usable
	state, err := f.manager.Get(cfg.QuizID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, session.StatusInProgress, state.Status)
}

func TestSubmitPersistsAttemptAndBookmarks(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	cfg := f.generateQuiz(t, 2)

	f.repo.attempt.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.repo.bookmark.On("Create", mock.Anything, mock.AnythingOfType("*models.Bookmark")).Return(nil)

	_, err := f.manager.Start(ctx, cfg.QuizID, "user-1")
	require.NoError(t, err)
	_, err = f.manager.SelectAnswer(ctx, cfg.QuizID, "user-1", 0, cfg.Questions[0].Answer)
	require.NoError(t, err)
	_, err = f.manager.ToggleBookmark(ctx, cfg.QuizID, "user-1", 1)
	require.NoError(t, err)

	result, err := f.manager.Submit(ctx, cfg.QuizID, "user-1", true)
	require.NoError(t, err)
	assert.Equal(t, session.StatusSubmittedManually, result.State.Status)
	assert.Equal(t, 1, result.Attempt.CorrectCount)

	f.repo.attempt.AssertNumberOfCalls(t, "Create", 1)
	f.repo.bookmark.AssertNumberOfCalls(t, "Create", 1)

	// the terminal session rejects further commands
	_, err = f.manager.SelectAnswer(ctx, cfg.QuizID, "user-1", 0, "y")
	assert.ErrorIs(t, err, session.ErrSessionNotActive)
}

func TestSubmitFailureKeepsSessionAlive(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	cfg := f.generateQuiz(t, 1)

	f.repo.attempt.On("Create", mock.Anything, mock.Anything).Return(assert.AnError).Once()
	f.repo.attempt.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := f.manager.Start(ctx, cfg.QuizID, "user-1")
	require.NoError(t, err)
	_, err = f.manager.SelectAnswer(ctx, cfg.QuizID, "user-1", 0, "x")
	require.NoError(t, err)

	_, err = f.manager.Submit(ctx, cfg.QuizID, "user-1", true)
	require.Error(t, err)

	state, err := f.manager.Get(cfg.QuizID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, session.StatusInProgress, state.Status)

	// the retry succeeds
	result, err := f.manager.Submit(ctx, cfg.QuizID, "user-1", true)
	require.NoError(t, err)
	assert.Equal(t, session.StatusSubmittedManually, result.State.Status)
}

// gatedQuizService holds every GetQuiz call until the gate closes, so tests
// can overlap session starts with the config load still in flight.
type gatedQuizService struct {
	QuizService
	gate  chan struct{}
	calls atomic.Int32
}

func (g *gatedQuizService) GetQuiz(ctx context.Context, quizID string) (*models.QuizConfig, error) {
	g.calls.Add(1)
	<-g.gate
	return g.QuizService.GetQuiz(ctx, quizID)
}

func TestConcurrentStartsShareOneSession(t *testing.T) {
	repo := newMockRepository()
	logger := utils.NewDevelopmentLogger()
	publisher := events.NewMockEventPublisher(utils.ToSlogLogger(logger))
	quizzes := NewQuizService(repo, llm.NewBankGenerator(), publisher, nil, validator.New(), logger)
	gated := &gatedQuizService{QuizService: quizzes, gate: make(chan struct{})}
	manager := NewSessionManager(gated, session.NewMemoryStore(), publisher, logger)
	t.Cleanup(manager.Close)

	ctx := context.Background()
	cfg, err := quizzes.Generate(ctx, "user-1", GenerateQuizRequest{
		Subject:      "Physics",
		Module:       "Mechanics",
		ExamFormat:   models.FormatGeneralPractice,
		Difficulty:   models.DifficultyMedium,
		NumQuestions: 2,
	})
	require.NoError(t, err)
	repo.attempt.On("Create", mock.Anything, mock.Anything).Return(nil)

	states := make([]*SessionState, 2)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			states[i], errs[i] = manager.Start(ctx, cfg.QuizID, "user-1")
		}(i)
	}

	// the second start must block on the reserved slot, not load the
	// config a second time
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), gated.calls.Load())

	close(gated.gate)
	wg.Wait()

	for i := 0; i < 2; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, session.StatusInProgress, states[i].Status)
	}
	assert.Equal(t, int32(1), gated.calls.Load())

	_, err = manager.SelectAnswer(ctx, cfg.QuizID, "user-1", 0, "x")
	require.NoError(t, err)
	_, err = manager.Submit(ctx, cfg.QuizID, "user-1", true)
	require.NoError(t, err)
	repo.attempt.AssertNumberOfCalls(t, "Create", 1)
}

func TestCountdownResumesAfterFailedSubmit(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	cfg := f.generateQuiz(t, 2)

	f.repo.attempt.On("Create", mock.Anything, mock.Anything).Return(assert.AnError).Once()

	_, err := f.manager.Start(ctx, cfg.QuizID, "user-1")
	require.NoError(t, err)
	_, err = f.manager.SelectAnswer(ctx, cfg.QuizID, "user-1", 0, "x")
	require.NoError(t, err)
	_, err = f.manager.SelectAnswer(ctx, cfg.QuizID, "user-1", 1, "y")
	require.NoError(t, err)

	_, err = f.manager.Submit(ctx, cfg.QuizID, "user-1", true)
	require.Error(t, err)

	// the clock was restarted alongside the failed submission
	time.Sleep(2200 * time.Millisecond)
	state, err := f.manager.Get(cfg.QuizID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, session.StatusInProgress, state.Status)
	assert.LessOrEqual(t, state.TimeLeftSeconds, cfg.TimeLimitMinutes*60-2)
}

func TestLookupScopedToUser(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()
	cfg := f.generateQuiz(t, 2)

	_, err := f.manager.Start(ctx, cfg.QuizID, "user-1")
	require.NoError(t, err)

	_, err = f.manager.Get(cfg.QuizID, "intruder")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
