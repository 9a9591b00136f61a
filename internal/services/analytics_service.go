package services

import (
	"context"
	"fmt"

	"github.com/prepiq/prepiq-service/internal/analytics"
	"github.com/prepiq/prepiq-service/internal/models"
	"github.com/prepiq/prepiq-service/internal/repositories"
	"github.com/prepiq/prepiq-service/internal/utils"
)

// analyticsHistoryLimit bounds how many attempts feed one report.
const analyticsHistoryLimit = 500

// AnalyticsService produces the performance dashboard report.
type AnalyticsService interface {
	GetReport(ctx context.Context, userID string) (*analytics.Report, error)
}

type analyticsService struct {
	repo   repositories.Repository
	logger utils.Logger
}

func NewAnalyticsService(repo repositories.Repository, logger utils.Logger) AnalyticsService {
	return &analyticsService{repo: repo, logger: logger}
}

// GetReport recomputes the report from the user's stored attempts. Reports
// are advisory reads and never cached across submissions.
func (s *analyticsService) GetReport(ctx context.Context, userID string) (*analytics.Report, error) {
	attempts, err := s.repo.Attempt().GetByUser(ctx, userID, analyticsHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load attempts: %w", err)
	}

	records := make([]analytics.AttemptRecord, 0, len(attempts))
	for _, a := range attempts {
		records = append(records, analytics.AttemptRecord{
			TopicID:        topicID(a),
			Subject:        a.Subject,
			Score:          a.CorrectCount,
			TotalQuestions: a.TotalQuestions,
			CompletedAt:    a.CreatedAt,
		})
	}

	report := analytics.Aggregate(records)
	s.logger.Debug("Built analytics report",
		"user_id", userID,
		"attempts", len(records),
		"weak_topics", len(report.WeakTopics),
		"strong_topics", len(report.StrongTopics))
	return report, nil
}

// topicID identifies the subject/module pair a quiz covered.
func topicID(a *models.QuizAttempt) string {
	return a.Subject + " - " + a.Module
}
