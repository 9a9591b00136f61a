package models

import (
	"time"

	"gorm.io/datatypes"
)

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "Easy"
	DifficultyMedium DifficultyLevel = "Medium"
	DifficultyHard   DifficultyLevel = "Hard"
)

type ExamFormat string

const (
	FormatJEEMain         ExamFormat = "JEE Main"
	FormatJEEAdvanced     ExamFormat = "JEE Advanced"
	FormatNEET            ExamFormat = "NEET"
	FormatGeneralPractice ExamFormat = "General Practice"
)

// QuizQuestion is one multiple-choice question. Answer must equal one of
// the entries in Options.
type QuizQuestion struct {
	Question string   `json:"question" validate:"required"`
	Options  []string `json:"options" validate:"required,min=2"`
	Answer   string   `json:"answer" validate:"required"`
}

// QuizConfig is the immutable descriptor of a generated quiz. It is created
// once by the generation endpoint and read-only for the lifetime of a session.
type QuizConfig struct {
	QuizID           string          `json:"quiz_id"`
	Subject          string          `json:"subject"`
	Module           string          `json:"module"`
	ExamFormat       ExamFormat      `json:"exam_format"`
	Difficulty       DifficultyLevel `json:"difficulty"`
	TimeLimitMinutes int             `json:"time_limit_minutes"`
	Questions        []QuizQuestion  `json:"questions"`
}

// DetailedAnswer records the outcome of a single question within an attempt.
// Question numbers are 1-indexed throughout the submission contract.
type DetailedAnswer struct {
	QuestionNumber int      `json:"question_number"`
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	UserAnswer     *string  `json:"user_answer"`
	CorrectAnswer  string   `json:"correct_answer"`
	IsCorrect      bool     `json:"is_correct"`
	WasBookmarked  bool     `json:"was_bookmarked"`
}

// QuizAttempt is the persisted record of one submitted quiz.
type QuizAttempt struct {
	ID               uint            `json:"-" gorm:"primaryKey"`
	AttemptID        string          `json:"attempt_id" gorm:"not null;size:36;uniqueIndex"`
	QuizID           string          `json:"quiz_id" gorm:"not null;size:36;index"`
	UserID           string          `json:"user_id" gorm:"not null;size:200;index"`
	Subject          string          `json:"subject" gorm:"not null;size:100"`
	Module           string          `json:"module" gorm:"not null;size:100"`
	ExamFormat       ExamFormat      `json:"exam_format" gorm:"size:50"`
	Difficulty       DifficultyLevel `json:"difficulty" gorm:"size:20"`
	TotalQuestions   int             `json:"total_questions" gorm:"not null"`
	AttemptedCount   int             `json:"attempted_questions"`
	CorrectCount     int             `json:"correct_answers"`
	ScorePercentage  float64         `json:"score_percentage"`
	TimeTakenSeconds int             `json:"time_taken_seconds"`
	DetailedAnswers  datatypes.JSON  `json:"detailed_answers" gorm:"type:jsonb"` // []DetailedAnswer
	CreatedAt        time.Time       `json:"timestamp"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// Bookmark is a question saved by a student for later revision.
type Bookmark struct {
	ID            uint           `json:"-" gorm:"primaryKey"`
	BookmarkID    string         `json:"bookmark_id" gorm:"not null;size:36;uniqueIndex"`
	UserID        string         `json:"user_id" gorm:"not null;size:200;index"`
	Question      string         `json:"question" gorm:"not null;type:text"`
	Options       datatypes.JSON `json:"options" gorm:"type:jsonb"` // []string
	CorrectAnswer string         `json:"correct_answer" gorm:"not null;type:text"`
	Subject       string         `json:"subject" gorm:"size:100"`
	Module        string         `json:"module" gorm:"size:100"`
	CreatedAt     time.Time      `json:"timestamp"`
}

func (Bookmark) TableName() string {
	return "bookmarks"
}
