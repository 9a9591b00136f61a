package services

import (
	"context"
	"sync"
	"time"

	"github.com/prepiq/prepiq-service/internal/events"
	"github.com/prepiq/prepiq-service/internal/models"
	"github.com/prepiq/prepiq-service/internal/session"
	"github.com/prepiq/prepiq-service/internal/utils"
)

// SessionState is the externally visible state of an exam session. Question
// statuses are indexed 0..n-1 in question order; bookmark numbers are
// 1-indexed to match the submission contract.
type SessionState struct {
	QuizID              string                   `json:"quiz_id"`
	Status              session.Status           `json:"status"`
	CurrentIndex        int                      `json:"current_index"`
	TimeLeftSeconds     int                      `json:"time_left_seconds"`
	TotalQuestions      int                      `json:"total_questions"`
	AttemptedCount      int                      `json:"attempted_count"`
	UnattemptedCount    int                      `json:"unattempted_count"`
	QuestionStatuses    []session.QuestionStatus `json:"question_statuses"`
	BookmarkedQuestions []int                    `json:"bookmarked_questions"`
	Notifications       []session.Notification   `json:"notifications,omitempty"`
}

// SubmitResult carries the stored attempt after a successful submission.
type SubmitResult struct {
	Attempt *models.QuizAttempt `json:"attempt"`
	State   *SessionState       `json:"state"`
}

// SessionManager owns the in-memory exam sessions. One mutex per session
// serializes user commands against timer ticks, so every state transition
// observes a consistent session.
type SessionManager interface {
	Start(ctx context.Context, quizID, userID string) (*SessionState, error)
	Get(quizID, userID string) (*SessionState, error)
	SelectAnswer(ctx context.Context, quizID, userID string, index int, answer string) (*SessionState, error)
	MarkForReview(ctx context.Context, quizID, userID string, index int) (*SessionState, error)
	ToggleBookmark(ctx context.Context, quizID, userID string, index int) (*SessionState, error)
	Navigate(quizID, userID string, index int) (*SessionState, error)
	Submit(ctx context.Context, quizID, userID string, confirmed bool) (*SubmitResult, error)
	Close()
}

type managedSession struct {
	mu   sync.Mutex
	sess *session.ExamSession

	// notifications buffered since the last state read
	pending []session.Notification

	ticker   *time.Ticker
	stopOnce sync.Once
	done     chan struct{}
}

func (m *managedSession) stopTicker() {
	m.stopOnce.Do(func() {
		m.ticker.Stop()
		close(m.done)
	})
}

type sessionManager struct {
	mu       sync.Mutex
	sessions map[string]*managedSession

	quizzes   QuizService
	store     session.SnapshotStore
	publisher events.EventPublisher
	logger    utils.Logger
}

func NewSessionManager(
	quizzes QuizService,
	store session.SnapshotStore,
	publisher events.EventPublisher,
	logger utils.Logger,
) SessionManager {
	return &sessionManager{
		sessions:  make(map[string]*managedSession),
		quizzes:   quizzes,
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// Start creates a session for the quiz and begins its countdown. Starting a
// quiz that already has an in-progress session for the same user reattaches
// to it; a different user gets a conflict. The registry slot is reserved
// before the quiz config loads, so concurrent starts of the same quiz
// resolve to a single session.
func (m *sessionManager) Start(ctx context.Context, quizID, userID string) (*SessionState, error) {
	ms, attached, err := m.claim(quizID, userID)
	if err != nil {
		return nil, err
	}
	defer ms.mu.Unlock()
	if attached {
		return m.stateLocked(ms), nil
	}

	cfg, err := m.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		m.unclaim(quizID, ms)
		ms.stopTicker()
		return nil, err
	}

	ms.sess = session.New(ctx, cfg, userID, m.store, func(n session.Notification) {
		// invoked with ms.mu held by whichever command triggered it
		ms.pending = append(ms.pending, n)
		if n.Kind == session.NoteTimeWarning {
			event := events.NewAttemptTimeWarningEvent(quizID, userID, ms.sess.TimeLeftSeconds())
			if err := m.publisher.PublishStudyEvent(context.Background(), event); err != nil {
				m.logger.LogError(err, "Failed to publish time warning event", "quiz_id", quizID)
			}
		}
	}, utils.ToSlogLogger(m.logger))

	// discard any tick accrued while the config loaded
	ms.ticker.Reset(time.Second)
	select {
	case <-ms.ticker.C:
	default:
	}
	go m.runTicker(ms)

	m.logger.Info("Started exam session",
		"quiz_id", quizID,
		"user_id", userID,
		"time_limit_seconds", ms.sess.TimeLeftSeconds())

	return m.stateLocked(ms), nil
}

// claim reserves the registry slot for quizID and returns it with its mutex
// held. An in-progress session for the same user is returned as attached;
// one held by another user is a conflict. Terminal sessions are evicted and
// the reservation retried. The returned slot has sess unset when attached is
// false; the caller fills it before releasing the mutex, so every other
// goroutine either blocks on the slot or observes a complete session.
func (m *sessionManager) claim(quizID, userID string) (*managedSession, bool, error) {
	for {
		m.mu.Lock()
		existing, ok := m.sessions[quizID]
		if !ok {
			ms := &managedSession{
				ticker: time.NewTicker(time.Second),
				done:   make(chan struct{}),
			}
			ms.mu.Lock()
			m.sessions[quizID] = ms
			m.mu.Unlock()
			return ms, false, nil
		}
		m.mu.Unlock()

		existing.mu.Lock()
		if existing.sess != nil && existing.sess.Status() == session.StatusInProgress {
			if existing.sess.UserID() != userID {
				existing.mu.Unlock()
				return nil, false, ErrSessionAlreadyExists
			}
			return existing, true, nil
		}
		existing.mu.Unlock()

		// terminal or abandoned slot: evict it and retry the reservation
		m.mu.Lock()
		if m.sessions[quizID] == existing {
			existing.stopTicker()
			delete(m.sessions, quizID)
		}
		m.mu.Unlock()
	}
}

// unclaim removes a reservation that never became a session.
func (m *sessionManager) unclaim(quizID string, ms *managedSession) {
	m.mu.Lock()
	if m.sessions[quizID] == ms {
		delete(m.sessions, quizID)
	}
	m.mu.Unlock()
}

// runTicker drives the per-second countdown until the session leaves the
// in-progress state. The session mutex is held for the duration of each
// tick, including the automatic submission at zero.
func (m *sessionManager) runTicker(ms *managedSession) {
	for {
		select {
		case <-ms.done:
			return
		case <-ms.ticker.C:
			ms.mu.Lock()
			expired := ms.sess.Tick()
			if expired {
				m.autoSubmitLocked(ms)
				ms.mu.Unlock()
				ms.stopTicker()
				return
			}
			ms.mu.Unlock()
		}
	}
}

// autoSubmitLocked runs the automatic submission path. A failed submission
// leaves the session in progress with the clock at zero; the user can still
// retry manually.
func (m *sessionManager) autoSubmitLocked(ms *managedSession) {
	ctx := context.Background()
	sub, err := ms.sess.BeginSubmit(false, false)
	if err != nil {
		m.logger.LogError(err, "Auto-submit could not begin", "quiz_id", ms.sess.QuizID())
		return
	}
	if _, err := m.completeSubmissionLocked(ctx, ms, sub); err != nil {
		m.logger.LogError(err, "Auto-submit failed", "quiz_id", ms.sess.QuizID())
	}
}

func (m *sessionManager) Get(quizID, userID string) (*SessionState, error) {
	ms, err := m.lookup(quizID, userID)
	if err != nil {
		return nil, err
	}
	defer ms.mu.Unlock()
	return m.stateLocked(ms), nil
}

func (m *sessionManager) SelectAnswer(ctx context.Context, quizID, userID string, index int, answer string) (*SessionState, error) {
	return m.command(quizID, userID, func(ms *managedSession) error {
		return ms.sess.SelectAnswer(ctx, index, answer)
	})
}

func (m *sessionManager) MarkForReview(ctx context.Context, quizID, userID string, index int) (*SessionState, error) {
	return m.command(quizID, userID, func(ms *managedSession) error {
		return ms.sess.MarkForReview(ctx, index)
	})
}

func (m *sessionManager) ToggleBookmark(ctx context.Context, quizID, userID string, index int) (*SessionState, error) {
	return m.command(quizID, userID, func(ms *managedSession) error {
		return ms.sess.ToggleBookmark(ctx, index)
	})
}

func (m *sessionManager) Navigate(quizID, userID string, index int) (*SessionState, error) {
	return m.command(quizID, userID, func(ms *managedSession) error {
		return ms.sess.Navigate(index)
	})
}

// Submit runs the manual submission path. With unattempted questions and no
// confirmation it returns session.UnattemptedRemainingError so the caller
// can ask the user to confirm. The countdown is halted before the submission
// snapshot is taken and resumes if the submission does not go through.
func (m *sessionManager) Submit(ctx context.Context, quizID, userID string, confirmed bool) (*SubmitResult, error) {
	ms, err := m.lookup(quizID, userID)
	if err != nil {
		return nil, err
	}
	defer ms.mu.Unlock()

	ms.ticker.Stop()

	sub, err := ms.sess.BeginSubmit(true, confirmed)
	if err != nil {
		ms.ticker.Reset(time.Second)
		return nil, err
	}
	attempt, err := m.completeSubmissionLocked(ctx, ms, sub)
	if err != nil {
		ms.ticker.Reset(time.Second)
		return nil, err
	}
	ms.stopTicker()
	return &SubmitResult{Attempt: attempt, State: m.stateLocked(ms)}, nil
}

// completeSubmissionLocked scores and persists the prepared submission, then
// makes the terminal transition. Bookmark persistence happens after the
// attempt is stored; bookmark failures are logged, not surfaced.
func (m *sessionManager) completeSubmissionLocked(ctx context.Context, ms *managedSession, sub *session.Submission) (*models.QuizAttempt, error) {
	attempt, err := m.quizzes.Submit(ctx, sub)
	if err != nil {
		ms.sess.FailSubmit()
		return nil, err
	}

	for _, q := range ms.sess.BookmarkedQuestions() {
		cfg := ms.sess.Config()
		if _, err := m.quizzes.AddBookmark(ctx, AddBookmarkRequest{
			UserID:        sub.UserID,
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.Answer,
			Subject:       cfg.Subject,
			Module:        cfg.Module,
		}); err != nil {
			m.logger.LogError(err, "Failed to persist bookmark at submit",
				"quiz_id", sub.QuizID, "user_id", sub.UserID)
		}
	}

	ms.sess.CompleteSubmit(ctx)
	return attempt, nil
}

// Close stops all session tickers. Used at shutdown.
func (m *sessionManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ms := range m.sessions {
		ms.stopTicker()
	}
}

// lookup returns the caller's session with its mutex held. A reserved slot
// whose session is still loading blocks here until the reservation resolves.
func (m *sessionManager) lookup(quizID, userID string) (*managedSession, error) {
	m.mu.Lock()
	ms, ok := m.sessions[quizID]
	m.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	ms.mu.Lock()
	if ms.sess == nil || ms.sess.UserID() != userID {
		ms.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	return ms, nil
}

func (m *sessionManager) command(quizID, userID string, fn func(*managedSession) error) (*SessionState, error) {
	ms, err := m.lookup(quizID, userID)
	if err != nil {
		return nil, err
	}
	defer ms.mu.Unlock()
	if err := fn(ms); err != nil {
		return nil, err
	}
	return m.stateLocked(ms), nil
}

// stateLocked builds the state snapshot and drains buffered notifications.
func (m *sessionManager) stateLocked(ms *managedSession) *SessionState {
	sess := ms.sess
	n := sess.QuestionCount()
	statuses := make([]session.QuestionStatus, n)
	bookmarks := make([]int, 0)
	for i := 0; i < n; i++ {
		statuses[i] = sess.StatusOf(i)
		if sess.IsBookmarked(i) {
			bookmarks = append(bookmarks, i+1)
		}
	}

	notifications := ms.pending
	ms.pending = nil

	return &SessionState{
		QuizID:              sess.QuizID(),
		Status:              sess.Status(),
		CurrentIndex:        sess.CurrentIndex(),
		TimeLeftSeconds:     sess.TimeLeftSeconds(),
		TotalQuestions:      n,
		AttemptedCount:      sess.AttemptedCount(),
		UnattemptedCount:    sess.UnattemptedCount(),
		QuestionStatuses:    statuses,
		BookmarkedQuestions: bookmarks,
		Notifications:       notifications,
	}
}
