package session

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/prepiq/prepiq-service/internal/models"
)

// Status is the lifecycle state of an exam session.
type Status string

const (
	StatusInProgress             Status = "in_progress"
	StatusSubmittedManually      Status = "submitted_manually"
	StatusSubmittedAutomatically Status = "submitted_automatically"
)

// QuestionStatus is derived per question from the answer map and review marks.
type QuestionStatus string

const (
	QuestionUnattempted QuestionStatus = "unattempted"
	QuestionAttempted   QuestionStatus = "attempted"
	QuestionMarked      QuestionStatus = "marked"
)

// timeWarningSeconds is the threshold at which the one-time warning fires.
const timeWarningSeconds = 300

// NotificationKind identifies a UI-feedback event emitted by the session.
type NotificationKind string

const (
	NoteBookmarked      NotificationKind = "bookmarked"
	NoteBookmarkRemoved NotificationKind = "bookmark_removed"
	NoteMarkedForReview NotificationKind = "marked_for_review"
	NoteTimeWarning     NotificationKind = "time_warning"
	NoteTimeUp          NotificationKind = "time_up"
)

// Notification is a side-effect event for presentation code. QuestionNumber
// is 1-indexed and zero when the event is not question-specific.
type Notification struct {
	Kind           NotificationKind `json:"kind"`
	QuestionNumber int              `json:"question_number,omitempty"`
	Message        string           `json:"message"`
}

// Notifier receives notifications as they are emitted. May be nil.
type Notifier func(Notification)

// Snapshot is the persisted in-progress state of a session: enough to restore
// answers and bookmarks after a reload, nothing more.
type Snapshot struct {
	Answers   map[int]string `json:"answers"`
	Bookmarks []int          `json:"bookmarks"`
}

// SnapshotStore persists snapshots keyed by quiz id. Implementations must
// scope entries per quiz so concurrent sessions with distinct ids do not
// collide.
type SnapshotStore interface {
	Save(ctx context.Context, quizID string, snap Snapshot) error
	Load(ctx context.Context, quizID string) (*Snapshot, error)
	Delete(ctx context.Context, quizID string) error
}

// Submission is the payload assembled at submit time, matching the external
// submission contract: answers, bookmarks and correct answers are 1-indexed.
type Submission struct {
	QuizID              string                 `json:"quiz_id"`
	UserID              string                 `json:"user_id"`
	Subject             string                 `json:"subject"`
	Module              string                 `json:"module"`
	ExamFormat          models.ExamFormat      `json:"exam_format"`
	Difficulty          models.DifficultyLevel `json:"difficulty"`
	TotalQuestions      int                    `json:"total_questions"`
	Answers             map[int]string         `json:"answers"`
	BookmarkedQuestions []int                  `json:"bookmarked_questions"`
	TimeTakenSeconds    int                    `json:"time_taken_seconds"`
	CorrectAnswers      map[int]string         `json:"correct_answers"`
	Manual              bool                   `json:"-"`
}

// ExamSession drives one timed quiz attempt. All mutating methods require
// StatusInProgress; callers are responsible for serializing access (the
// session manager holds one mutex per session, so ticks and user commands
// never interleave).
type ExamSession struct {
	cfg    *models.QuizConfig
	userID string

	status       Status
	currentIndex int
	answers      map[int]string
	marked       map[int]bool
	bookmarked   map[int]bool

	timeLimitSeconds int
	timeLeftSeconds  int
	warningFired     bool

	// set once a submission is prepared, never changed afterwards
	timeTakenSeconds int
	submitting       bool
	pendingManual    bool

	store  SnapshotStore
	notify Notifier
	logger *slog.Logger
}

// New creates a session in its initial state. If the store holds a snapshot
// for this quiz id, answers and bookmarks are restored from it.
func New(ctx context.Context, cfg *models.QuizConfig, userID string, store SnapshotStore, notify Notifier, logger *slog.Logger) *ExamSession {
	s := &ExamSession{
		cfg:              cfg,
		userID:           userID,
		status:           StatusInProgress,
		answers:          make(map[int]string),
		marked:           make(map[int]bool),
		bookmarked:       make(map[int]bool),
		timeLimitSeconds: cfg.TimeLimitMinutes * 60,
		timeLeftSeconds:  cfg.TimeLimitMinutes * 60,
		store:            store,
		notify:           notify,
		logger:           logger,
	}

	if store != nil {
		if snap, err := store.Load(ctx, cfg.QuizID); err != nil {
			logger.Warn("Failed to load session snapshot", "quiz_id", cfg.QuizID, "error", err)
		} else if snap != nil {
			for i, v := range snap.Answers {
				if i >= 0 && i < len(cfg.Questions) {
					s.answers[i] = v
				}
			}
			for _, i := range snap.Bookmarks {
				if i >= 0 && i < len(cfg.Questions) {
					s.bookmarked[i] = true
				}
			}
			logger.Info("Restored session from snapshot",
				"quiz_id", cfg.QuizID,
				"answers", len(s.answers),
				"bookmarks", len(s.bookmarked))
		}
	}

	return s
}

func (s *ExamSession) Status() Status          { return s.status }
func (s *ExamSession) QuizID() string          { return s.cfg.QuizID }
func (s *ExamSession) UserID() string          { return s.userID }
func (s *ExamSession) Config() *models.QuizConfig { return s.cfg }
func (s *ExamSession) CurrentIndex() int       { return s.currentIndex }
func (s *ExamSession) TimeLeftSeconds() int    { return s.timeLeftSeconds }
func (s *ExamSession) TimeTakenSeconds() int   { return s.timeTakenSeconds }
func (s *ExamSession) QuestionCount() int      { return len(s.cfg.Questions) }

// StatusOf derives the status of question i: marked wins over attempted, and
// an empty-string answer counts as cleared.
func (s *ExamSession) StatusOf(i int) QuestionStatus {
	if s.marked[i] {
		return QuestionMarked
	}
	if v, ok := s.answers[i]; ok && v != "" {
		return QuestionAttempted
	}
	return QuestionUnattempted
}

// AttemptedCount counts questions that are attempted or marked.
func (s *ExamSession) AttemptedCount() int {
	n := 0
	for i := range s.cfg.Questions {
		if s.StatusOf(i) != QuestionUnattempted {
			n++
		}
	}
	return n
}

// UnattemptedCount counts questions still unattempted.
func (s *ExamSession) UnattemptedCount() int {
	return len(s.cfg.Questions) - s.AttemptedCount()
}

// SelectAnswer stores the answer for question i. An empty value clears the
// answer; the question reverts to unattempted unless it is marked.
func (s *ExamSession) SelectAnswer(ctx context.Context, i int, value string) error {
	if err := s.requireActive(); err != nil {
		return err
	}
	if err := s.checkIndex(i); err != nil {
		return err
	}
	s.answers[i] = value
	s.persistSnapshot(ctx)
	return nil
}

// MarkForReview flags question i regardless of answer presence. The stored
// answer is untouched and the mark is sticky against answer clearing.
func (s *ExamSession) MarkForReview(ctx context.Context, i int) error {
	if err := s.requireActive(); err != nil {
		return err
	}
	if err := s.checkIndex(i); err != nil {
		return err
	}
	s.marked[i] = true
	s.emit(Notification{
		Kind:           NoteMarkedForReview,
		QuestionNumber: i + 1,
		Message:        fmt.Sprintf("Question %d marked for review", i+1),
	})
	return nil
}

// ToggleBookmark adds or removes question i from the bookmark set and emits
// a feedback notification either way.
func (s *ExamSession) ToggleBookmark(ctx context.Context, i int) error {
	if err := s.requireActive(); err != nil {
		return err
	}
	if err := s.checkIndex(i); err != nil {
		return err
	}
	if s.bookmarked[i] {
		delete(s.bookmarked, i)
		s.emit(Notification{
			Kind:           NoteBookmarkRemoved,
			QuestionNumber: i + 1,
			Message:        fmt.Sprintf("Question %d bookmark removed", i+1),
		})
	} else {
		s.bookmarked[i] = true
		s.emit(Notification{
			Kind:           NoteBookmarked,
			QuestionNumber: i + 1,
			Message:        fmt.Sprintf("Question %d bookmarked", i+1),
		})
	}
	s.persistSnapshot(ctx)
	return nil
}

// IsBookmarked reports whether question i is bookmarked.
func (s *ExamSession) IsBookmarked(i int) bool { return s.bookmarked[i] }

// Navigate moves the cursor to question i. Navigation stays allowed while a
// submission is in flight; it mutates nothing the submission depends on.
func (s *ExamSession) Navigate(i int) error {
	if s.status != StatusInProgress {
		return ErrSessionNotActive
	}
	if err := s.checkIndex(i); err != nil {
		return err
	}
	s.currentIndex = i
	return nil
}

// Tick advances the countdown by one second. It returns true when the timer
// reaches zero, at which point the caller must stop the ticker and run the
// automatic submission. Ticks delivered after a submission was prepared or
// after a terminal transition are ignored.
func (s *ExamSession) Tick() (expired bool) {
	if s.status != StatusInProgress || s.submitting {
		return false
	}
	if s.timeLeftSeconds > 0 {
		s.timeLeftSeconds--
	}
	if s.timeLeftSeconds == timeWarningSeconds && !s.warningFired {
		s.warningFired = true
		s.emit(Notification{
			Kind:    NoteTimeWarning,
			Message: "Only 5 minutes remaining. The quiz will auto-submit when time runs out.",
		})
	}
	if s.timeLeftSeconds == 0 {
		s.emit(Notification{
			Kind:    NoteTimeUp,
			Message: "Time's up! Your quiz has been automatically submitted.",
		})
		return true
	}
	return false
}

// BeginSubmit freezes the elapsed time and assembles the submission payload.
// On the manual path, if unattempted questions remain and the caller has not
// confirmed, it returns ErrUnattemptedRemaining carrying the exact count and
// leaves the session untouched. While a prepared submission is outstanding,
// mutating commands are rejected and ticks are ignored.
func (s *ExamSession) BeginSubmit(manual, confirmed bool) (*Submission, error) {
	if s.status != StatusInProgress {
		return nil, ErrSessionNotActive
	}
	if s.submitting {
		return nil, ErrSubmitInFlight
	}
	if manual && !confirmed {
		if n := s.UnattemptedCount(); n > 0 {
			return nil, &UnattemptedRemainingError{Count: n}
		}
	}

	s.timeTakenSeconds = s.timeLimitSeconds - s.timeLeftSeconds
	s.submitting = true
	s.pendingManual = manual

	answers := make(map[int]string, len(s.answers))
	for i, v := range s.answers {
		if v == "" {
			continue
		}
		answers[i+1] = v
	}
	correct := make(map[int]string, len(s.cfg.Questions))
	for i, q := range s.cfg.Questions {
		correct[i+1] = q.Answer
	}
	bookmarks := make([]int, 0, len(s.bookmarked))
	for i := range s.bookmarked {
		bookmarks = append(bookmarks, i+1)
	}
	sort.Ints(bookmarks)

	return &Submission{
		QuizID:              s.cfg.QuizID,
		UserID:              s.userID,
		Subject:             s.cfg.Subject,
		Module:              s.cfg.Module,
		ExamFormat:          s.cfg.ExamFormat,
		Difficulty:          s.cfg.Difficulty,
		TotalQuestions:      len(s.cfg.Questions),
		Answers:             answers,
		BookmarkedQuestions: bookmarks,
		TimeTakenSeconds:    s.timeTakenSeconds,
		CorrectAnswers:      correct,
		Manual:              manual,
	}, nil
}

// CompleteSubmit makes the terminal transition after the external submission
// call succeeded and deletes the snapshot.
func (s *ExamSession) CompleteSubmit(ctx context.Context) {
	if !s.submitting {
		return
	}
	if s.pendingManual {
		s.status = StatusSubmittedManually
	} else {
		s.status = StatusSubmittedAutomatically
	}
	s.submitting = false
	if s.store != nil {
		if err := s.store.Delete(ctx, s.cfg.QuizID); err != nil {
			s.logger.Warn("Failed to delete session snapshot", "quiz_id", s.cfg.QuizID, "error", err)
		}
	}
}

// FailSubmit reverts to accepting commands after a failed submission call.
// The session stays in progress and already-entered answers survive; retry
// is a user-initiated repeat action.
func (s *ExamSession) FailSubmit() {
	if !s.submitting {
		return
	}
	s.submitting = false
	s.pendingManual = false
}

// BookmarkedQuestions returns the bookmarked questions with their payload
// for the per-question bookmark persistence requests issued at submit time.
func (s *ExamSession) BookmarkedQuestions() []models.QuizQuestion {
	idxs := make([]int, 0, len(s.bookmarked))
	for i := range s.bookmarked {
		idxs = append(idxs, i)
	}
	sort.Ints(idxs)
	out := make([]models.QuizQuestion, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, s.cfg.Questions[i])
	}
	return out
}

func (s *ExamSession) requireActive() error {
	if s.status != StatusInProgress {
		return ErrSessionNotActive
	}
	if s.submitting {
		return ErrSubmitInFlight
	}
	return nil
}

func (s *ExamSession) checkIndex(i int) error {
	if i < 0 || i >= len(s.cfg.Questions) {
		return fmt.Errorf("%w: index %d, question count %d", ErrIndexOutOfRange, i, len(s.cfg.Questions))
	}
	return nil
}

func (s *ExamSession) emit(n Notification) {
	if s.notify != nil {
		s.notify(n)
	}
}

// persistSnapshot writes the current answers and bookmarks. Persistence is a
// side channel: failures are logged, never surfaced as command errors.
func (s *ExamSession) persistSnapshot(ctx context.Context) {
	if s.store == nil {
		return
	}
	snap := Snapshot{
		Answers:   make(map[int]string, len(s.answers)),
		Bookmarks: make([]int, 0, len(s.bookmarked)),
	}
	for i, v := range s.answers {
		snap.Answers[i] = v
	}
	for i := range s.bookmarked {
		snap.Bookmarks = append(snap.Bookmarks, i)
	}
	sort.Ints(snap.Bookmarks)

	if err := s.store.Save(ctx, s.cfg.QuizID, snap); err != nil {
		s.logger.Warn("Failed to persist session snapshot", "quiz_id", s.cfg.QuizID, "error", err)
	}
}
