package session

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepiq/prepiq-service/internal/models"
)

func testConfig(questions int, limitMinutes int) *models.QuizConfig {
	qs := make([]models.QuizQuestion, questions)
	for i := range qs {
		qs[i] = models.QuizQuestion{
			Question: fmt.Sprintf("Question %d", i+1),
			Options:  []string{"A", "B", "C", "D"},
			Answer:   "A",
		}
	}
	return &models.QuizConfig{
		QuizID:           "quiz-1",
		Subject:          "Physics",
		Module:           "Mechanics",
		ExamFormat:       models.FormatGeneralPractice,
		Difficulty:       models.DifficultyMedium,
		TimeLimitMinutes: limitMinutes,
		Questions:        qs,
	}
}

func newTestSession(t *testing.T, questions, limitMinutes int, notify Notifier) *ExamSession {
	t.Helper()
	return New(context.Background(), testConfig(questions, limitMinutes), "user-1", nil, notify, slog.Default())
}

func TestTickDecrementsMonotonically(t *testing.T) {
	s := newTestSession(t, 3, 1, nil)

	prev := s.TimeLeftSeconds()
	for i := 0; i < 30; i++ {
		s.Tick()
		assert.Equal(t, prev-1, s.TimeLeftSeconds())
		prev = s.TimeLeftSeconds()
	}
}

func TestTickStopsAtZeroAndReportsExpiry(t *testing.T) {
	s := newTestSession(t, 3, 1, nil) // 60 seconds

	expired := false
	for i := 0; i < 59; i++ {
		expired = s.Tick()
		assert.False(t, expired)
	}
	expired = s.Tick()
	assert.True(t, expired)
	assert.Equal(t, 0, s.TimeLeftSeconds())
}

func TestTimeWarningFiresExactlyOnce(t *testing.T) {
	var notes []Notification
	// 301 seconds of runway: limit is rounded to whole minutes, so start from
	// 360 and tick down through the threshold.
	s := newTestSession(t, 3, 6, func(n Notification) { notes = append(notes, n) })

	for i := 0; i < 70; i++ {
		s.Tick()
	}
	require.Less(t, s.TimeLeftSeconds(), 300)

	warnings := 0
	for _, n := range notes {
		if n.Kind == NoteTimeWarning {
			warnings++
		}
	}
	assert.Equal(t, 1, warnings)
}

func TestStatusDerivation(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, 4, 10, nil)

	assert.Equal(t, QuestionUnattempted, s.StatusOf(0))

	require.NoError(t, s.SelectAnswer(ctx, 0, "A"))
	assert.Equal(t, QuestionAttempted, s.StatusOf(0))

	// clearing reverts to unattempted
	require.NoError(t, s.SelectAnswer(ctx, 0, ""))
	assert.Equal(t, QuestionUnattempted, s.StatusOf(0))

	// marked wins over attempted
	require.NoError(t, s.SelectAnswer(ctx, 1, "B"))
	require.NoError(t, s.MarkForReview(ctx, 1))
	assert.Equal(t, QuestionMarked, s.StatusOf(1))

	// the mark is sticky against answer clearing
	require.NoError(t, s.SelectAnswer(ctx, 1, ""))
	assert.Equal(t, QuestionMarked, s.StatusOf(1))
}

func TestAttemptedCountIncludesMarked(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, 5, 10, nil)

	require.NoError(t, s.SelectAnswer(ctx, 0, "A"))
	require.NoError(t, s.MarkForReview(ctx, 1))

	assert.Equal(t, 2, s.AttemptedCount())
	assert.Equal(t, 3, s.UnattemptedCount())
}

func TestBookmarkToggleEmitsNotifications(t *testing.T) {
	ctx := context.Background()
	var notes []Notification
	s := newTestSession(t, 3, 10, func(n Notification) { notes = append(notes, n) })

	require.NoError(t, s.ToggleBookmark(ctx, 2))
	assert.True(t, s.IsBookmarked(2))
	require.NoError(t, s.ToggleBookmark(ctx, 2))
	assert.False(t, s.IsBookmarked(2))

	require.Len(t, notes, 2)
	assert.Equal(t, NoteBookmarked, notes[0].Kind)
	assert.Equal(t, 3, notes[0].QuestionNumber)
	assert.Equal(t, NoteBookmarkRemoved, notes[1].Kind)
}

func TestManualSubmitRequiresConfirmationWhenUnattempted(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, 3, 10, nil)
	require.NoError(t, s.SelectAnswer(ctx, 0, "A"))

	_, err := s.BeginSubmit(true, false)
	var unattempted *UnattemptedRemainingError
	require.ErrorAs(t, err, &unattempted)
	assert.Equal(t, 2, unattempted.Count)

	// the failed gate left the session untouched
	assert.Equal(t, StatusInProgress, s.Status())
	require.NoError(t, s.SelectAnswer(ctx, 1, "B"))

	sub, err := s.BeginSubmit(true, true)
	require.NoError(t, err)
	assert.True(t, sub.Manual)
}

func TestSubmissionPayloadIsOneIndexed(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, 3, 10, nil)
	require.NoError(t, s.SelectAnswer(ctx, 0, "A"))
	require.NoError(t, s.SelectAnswer(ctx, 2, "C"))
	require.NoError(t, s.ToggleBookmark(ctx, 1))

	sub, err := s.BeginSubmit(true, true)
	require.NoError(t, err)

	assert.Equal(t, map[int]string{1: "A", 3: "C"}, sub.Answers)
	assert.Equal(t, []int{2}, sub.BookmarkedQuestions)
	assert.Equal(t, "A", sub.CorrectAnswers[1])
	assert.Equal(t, 3, sub.TotalQuestions)
}

func TestTimeTakenFrozenDuringSubmit(t *testing.T) {
	s := newTestSession(t, 2, 10, nil)
	for i := 0; i < 40; i++ {
		s.Tick()
	}

	sub, err := s.BeginSubmit(true, true)
	require.NoError(t, err)
	assert.Equal(t, 40, sub.TimeTakenSeconds)

	// ticks while submitting do not move the frozen value or the clock
	left := s.TimeLeftSeconds()
	s.Tick()
	assert.Equal(t, left, s.TimeLeftSeconds())
	assert.Equal(t, 40, s.TimeTakenSeconds())
}

func TestMutationsBlockedWhileSubmitInFlight(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, 3, 10, nil)

	_, err := s.BeginSubmit(true, true)
	require.NoError(t, err)

	assert.ErrorIs(t, s.SelectAnswer(ctx, 0, "A"), ErrSubmitInFlight)
	assert.ErrorIs(t, s.MarkForReview(ctx, 0), ErrSubmitInFlight)
	assert.ErrorIs(t, s.ToggleBookmark(ctx, 0), ErrSubmitInFlight)

	// navigation stays allowed
	assert.NoError(t, s.Navigate(2))
	assert.Equal(t, 2, s.CurrentIndex())
}

func TestFailSubmitKeepsSessionInProgress(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, 2, 10, nil)
	require.NoError(t, s.SelectAnswer(ctx, 0, "A"))

	_, err := s.BeginSubmit(true, true)
	require.NoError(t, err)

	s.FailSubmit()
	assert.Equal(t, StatusInProgress, s.Status())

	// entered answers survive and the submit can be repeated
	sub, err := s.BeginSubmit(true, true)
	require.NoError(t, err)
	assert.Equal(t, "A", sub.Answers[1])
}

func TestCompleteSubmitTerminalStatus(t *testing.T) {
	ctx := context.Background()

	manual := newTestSession(t, 1, 10, nil)
	_, err := manual.BeginSubmit(true, true)
	require.NoError(t, err)
	manual.CompleteSubmit(ctx)
	assert.Equal(t, StatusSubmittedManually, manual.Status())

	auto := newTestSession(t, 1, 10, nil)
	_, err = auto.BeginSubmit(false, false)
	require.NoError(t, err)
	auto.CompleteSubmit(ctx)
	assert.Equal(t, StatusSubmittedAutomatically, auto.Status())

	// terminal sessions reject everything, including further ticks
	assert.False(t, auto.Tick())
	assert.ErrorIs(t, auto.SelectAnswer(ctx, 0, "A"), ErrSessionNotActive)
}

func TestSnapshotRestore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	cfg := testConfig(3, 10)

	s1 := New(ctx, cfg, "user-1", store, nil, slog.Default())
	require.NoError(t, s1.SelectAnswer(ctx, 0, "A"))
	require.NoError(t, s1.ToggleBookmark(ctx, 2))

	s2 := New(ctx, cfg, "user-1", store, nil, slog.Default())
	assert.Equal(t, QuestionAttempted, s2.StatusOf(0))
	assert.True(t, s2.IsBookmarked(2))
	// the clock always restarts from the full limit
	assert.Equal(t, 600, s2.TimeLeftSeconds())
}

func TestSnapshotDeletedOnCompletion(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	cfg := testConfig(2, 10)

	s := New(ctx, cfg, "user-1", store, nil, slog.Default())
	require.NoError(t, s.SelectAnswer(ctx, 0, "A"))

	snap, err := store.Load(ctx, cfg.QuizID)
	require.NoError(t, err)
	require.NotNil(t, snap)

	_, err = s.BeginSubmit(true, true)
	require.NoError(t, err)
	s.CompleteSubmit(ctx)

	snap, err = store.Load(ctx, cfg.QuizID)
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestIndexOutOfRange(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, 2, 10, nil)

	assert.ErrorIs(t, s.SelectAnswer(ctx, 5, "A"), ErrIndexOutOfRange)
	assert.ErrorIs(t, s.Navigate(-1), ErrIndexOutOfRange)
}
