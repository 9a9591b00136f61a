package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/prepiq/prepiq-service/internal/cache"
	"github.com/prepiq/prepiq-service/internal/events"
	"github.com/prepiq/prepiq-service/internal/llm"
	"github.com/prepiq/prepiq-service/internal/models"
	"github.com/prepiq/prepiq-service/internal/repositories"
	"github.com/prepiq/prepiq-service/internal/session"
	"github.com/prepiq/prepiq-service/internal/utils"
	"github.com/prepiq/prepiq-service/internal/validator"
)

const (
	quizConfigKeyPrefix = "quiz_config_"
	quizConfigTTL       = 24 * time.Hour
	bookmarkListLimit   = 200
)

// minutes of exam time granted per question, by format
var timePerQuestionMinutes = map[models.ExamFormat]float64{
	models.FormatJEEMain:         3,
	models.FormatJEEAdvanced:     4,
	models.FormatNEET:            2.5,
	models.FormatGeneralPractice: 2,
}

type GenerateQuizRequest struct {
	Subject      string                 `json:"subject" validate:"required,min=1,max=100"`
	Module       string                 `json:"module" validate:"required,min=1,max=100"`
	ExamFormat   models.ExamFormat      `json:"exam_format" validate:"required,exam_format"`
	Difficulty   models.DifficultyLevel `json:"difficulty" validate:"required,difficulty_level"`
	NumQuestions int                    `json:"num_questions" validate:"required,min=1,max=100"`
}

type AddBookmarkRequest struct {
	UserID        string   `json:"user_id" validate:"required"`
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"required,min=2"`
	CorrectAnswer string   `json:"correct_answer" validate:"required"`
	Subject       string   `json:"subject"`
	Module        string   `json:"module"`
}

// QuizService covers quiz generation, scoring, attempt history and bookmarks.
type QuizService interface {
	Generate(ctx context.Context, userID string, req GenerateQuizRequest) (*models.QuizConfig, error)
	GetQuiz(ctx context.Context, quizID string) (*models.QuizConfig, error)
	Submit(ctx context.Context, sub *session.Submission) (*models.QuizAttempt, error)
	History(ctx context.Context, userID string, limit int) ([]*models.QuizAttempt, error)
	AddBookmark(ctx context.Context, req AddBookmarkRequest) (*models.Bookmark, error)
	GetBookmarks(ctx context.Context, userID string) ([]*models.Bookmark, error)
}

type quizService struct {
	repo      repositories.Repository
	generator llm.QuestionGenerator
	publisher events.EventPublisher
	cache     cache.CacheService
	validator *validator.Validator
	logger    utils.Logger

	// fallback config storage when no cache backend is configured
	mu      sync.RWMutex
	configs map[string]*models.QuizConfig
}

func NewQuizService(
	repo repositories.Repository,
	generator llm.QuestionGenerator,
	publisher events.EventPublisher,
	cacheService cache.CacheService,
	v *validator.Validator,
	logger utils.Logger,
) QuizService {
	return &quizService{
		repo:      repo,
		generator: generator,
		publisher: publisher,
		cache:     cacheService,
		validator: v,
		logger:    logger,
		configs:   make(map[string]*models.QuizConfig),
	}
}

func (s *quizService) Generate(ctx context.Context, userID string, req GenerateQuizRequest) (*models.QuizConfig, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	questions, err := s.generator.GenerateQuestions(ctx, llm.GenerationRequest{
		Subject:       req.Subject,
		Module:        req.Module,
		ExamFormat:    req.ExamFormat,
		Difficulty:    req.Difficulty,
		QuestionCount: req.NumQuestions,
	})
	if err != nil {
		s.logger.LogError(err, "Quiz generation failed",
			"subject", req.Subject, "module", req.Module, "user_id", userID)
		return nil, fmt.Errorf("%w: %v", ErrQuizGenerationFailed, err)
	}

	perQuestion, ok := timePerQuestionMinutes[req.ExamFormat]
	if !ok {
		perQuestion = 2
	}

	cfg := &models.QuizConfig{
		QuizID:           uuid.NewString(),
		Subject:          req.Subject,
		Module:           req.Module,
		ExamFormat:       req.ExamFormat,
		Difficulty:       req.Difficulty,
		TimeLimitMinutes: int(float64(req.NumQuestions) * perQuestion),
		Questions:        questions,
	}

	if err := s.saveConfig(ctx, cfg); err != nil {
		s.logger.Warn("Failed to cache quiz config", "quiz_id", cfg.QuizID, "error", err)
	}

	s.logger.Info("Generated quiz",
		"quiz_id", cfg.QuizID,
		"user_id", userID,
		"subject", cfg.Subject,
		"module", cfg.Module,
		"questions", len(cfg.Questions),
		"time_limit_minutes", cfg.TimeLimitMinutes)
	return cfg, nil
}

func (s *quizService) GetQuiz(ctx context.Context, quizID string) (*models.QuizConfig, error) {
	cfg, err := s.loadConfig(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, ErrQuizNotFound
	}
	return cfg, nil
}

// Submit scores the submission, persists the attempt and publishes an
// attempt event. Scoring walks question numbers 1..total so unanswered
// questions produce explicit incorrect entries.
func (s *quizService) Submit(ctx context.Context, sub *session.Submission) (*models.QuizAttempt, error) {
	if sub.TotalQuestions <= 0 {
		return nil, ErrQuizInvalidCount
	}

	cfg, err := s.loadConfig(ctx, sub.QuizID)
	if err != nil {
		s.logger.Warn("Could not load quiz config for submission", "quiz_id", sub.QuizID, "error", err)
	}

	bookmarked := make(map[int]bool, len(sub.BookmarkedQuestions))
	for _, n := range sub.BookmarkedQuestions {
		bookmarked[n] = true
	}

	correctCount := 0
	attemptedCount := 0
	detailed := make([]models.DetailedAnswer, 0, sub.TotalQuestions)
	for n := 1; n <= sub.TotalQuestions; n++ {
		correct := sub.CorrectAnswers[n]
		answer, answered := sub.Answers[n]

		da := models.DetailedAnswer{
			QuestionNumber: n,
			CorrectAnswer:  correct,
			WasBookmarked:  bookmarked[n],
		}
		if cfg != nil && n-1 < len(cfg.Questions) {
			da.Question = cfg.Questions[n-1].Question
			da.Options = cfg.Questions[n-1].Options
		}
		if answered {
			attemptedCount++
			v := answer
			da.UserAnswer = &v
			if answer == correct {
				da.IsCorrect = true
				correctCount++
			}
		}
		detailed = append(detailed, da)
	}

	percentage := float64(correctCount) / float64(sub.TotalQuestions) * 100

	detailedJSON, err := json.Marshal(detailed)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal detailed answers: %w", err)
	}

	attempt := &models.QuizAttempt{
		AttemptID:        uuid.NewString(),
		QuizID:           sub.QuizID,
		UserID:           sub.UserID,
		Subject:          sub.Subject,
		Module:           sub.Module,
		ExamFormat:       sub.ExamFormat,
		Difficulty:       sub.Difficulty,
		TotalQuestions:   sub.TotalQuestions,
		AttemptedCount:   attemptedCount,
		CorrectCount:     correctCount,
		ScorePercentage:  percentage,
		TimeTakenSeconds: sub.TimeTakenSeconds,
		DetailedAnswers:  datatypes.JSON(detailedJSON),
	}

	if err := s.repo.Attempt().Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to persist attempt: %w", err)
	}

	event := events.NewAttemptSubmittedEvent(
		attempt.AttemptID, sub.QuizID, sub.UserID,
		sub.Subject, sub.Module,
		correctCount, sub.TotalQuestions, percentage,
		sub.TimeTakenSeconds, !sub.Manual)
	if err := s.publisher.PublishStudyEvent(ctx, event); err != nil {
		s.logger.LogError(err, "Failed to publish attempt event", "attempt_id", attempt.AttemptID)
	}

	s.logger.Info("Recorded quiz attempt",
		"attempt_id", attempt.AttemptID,
		"quiz_id", sub.QuizID,
		"user_id", sub.UserID,
		"score", correctCount,
		"total", sub.TotalQuestions,
		"percentage", percentage)
	return attempt, nil
}

func (s *quizService) History(ctx context.Context, userID string, limit int) ([]*models.QuizAttempt, error) {
	if limit <= 0 {
		limit = 50
	}
	attempts, err := s.repo.Attempt().GetByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load attempt history: %w", err)
	}
	return attempts, nil
}

func (s *quizService) AddBookmark(ctx context.Context, req AddBookmarkRequest) (*models.Bookmark, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	optionsJSON, err := json.Marshal(req.Options)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal options: %w", err)
	}

	bookmark := &models.Bookmark{
		BookmarkID:    uuid.NewString(),
		UserID:        req.UserID,
		Question:      req.Question,
		Options:       datatypes.JSON(optionsJSON),
		CorrectAnswer: req.CorrectAnswer,
		Subject:       req.Subject,
		Module:        req.Module,
	}
	if err := s.repo.Bookmark().Create(ctx, bookmark); err != nil {
		return nil, fmt.Errorf("failed to persist bookmark: %w", err)
	}
	return bookmark, nil
}

func (s *quizService) GetBookmarks(ctx context.Context, userID string) ([]*models.Bookmark, error) {
	bookmarks, err := s.repo.Bookmark().GetByUser(ctx, userID, bookmarkListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookmarks: %w", err)
	}
	return bookmarks, nil
}

func (s *quizService) saveConfig(ctx context.Context, cfg *models.QuizConfig) error {
	if s.cache != nil {
		return s.cache.Set(ctx, quizConfigKeyPrefix+cfg.QuizID, cfg, quizConfigTTL)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[cfg.QuizID] = cfg
	return nil
}

func (s *quizService) loadConfig(ctx context.Context, quizID string) (*models.QuizConfig, error) {
	if s.cache != nil {
		var cfg models.QuizConfig
		err := s.cache.Get(ctx, quizConfigKeyPrefix+quizID, &cfg)
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.configs[quizID], nil
}
