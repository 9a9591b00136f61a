package services

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/prepiq/prepiq-service/internal/repositories"
	"github.com/prepiq/prepiq-service/internal/utils"
)

// ExportService renders stored data as downloadable files.
type ExportService interface {
	ExportHistoryToExcel(ctx context.Context, userID string) ([]byte, error)
}

type exportService struct {
	repo   repositories.Repository
	logger utils.Logger
}

func NewExportService(repo repositories.Repository, logger utils.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ExportHistoryToExcel writes the user's attempt history as an xlsx sheet,
// most recent attempt first.
func (s *exportService) ExportHistoryToExcel(ctx context.Context, userID string) ([]byte, error) {
	attempts, err := s.repo.Attempt().GetByUser(ctx, userID, analyticsHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load attempts: %w", err)
	}

	f := excelize.NewFile()
	sheetName := "Quiz History"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{
		"Attempt ID", "Subject", "Module", "Exam Format", "Difficulty",
		"Total Questions", "Attempted", "Correct", "Score (%)", "Time Taken (minutes)", "Date",
	}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, attempt := range attempts {
		row := []interface{}{
			attempt.AttemptID,
			attempt.Subject,
			attempt.Module,
			string(attempt.ExamFormat),
			string(attempt.Difficulty),
			attempt.TotalQuestions,
			attempt.AttemptedCount,
			attempt.CorrectCount,
			attempt.ScorePercentage,
			attempt.TimeTakenSeconds / 60,
			attempt.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Exported quiz history", "user_id", userID, "rows", len(attempts))
	return buf.Bytes(), nil
}
