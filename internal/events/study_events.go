package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents different types of study events
type EventType string

const (
	// Attempt events
	EventAttemptSubmitted     EventType = "attempt.submitted"
	EventAttemptAutoSubmitted EventType = "attempt.auto_submitted"
	EventAttemptTimeWarning   EventType = "attempt.time_warning"

	// Schedule events
	EventScheduleGenerated EventType = "schedule.generated"
)

const eventSource = "prepiq-service"

// StudyEvent is the base structure for all published events
type StudyEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Attempt event payloads

type AttemptSubmittedEvent struct {
	AttemptID   string    `json:"attempt_id"`
	QuizID      string    `json:"quiz_id"`
	UserID      string    `json:"user_id"`
	Subject     string    `json:"subject"`
	Module      string    `json:"module"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	Percentage  float64   `json:"percentage"`
	TimeTaken   int       `json:"time_taken_seconds"`
	Automatic   bool      `json:"automatic"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type AttemptTimeWarningEvent struct {
	QuizID           string    `json:"quiz_id"`
	UserID           string    `json:"user_id"`
	SecondsRemaining int       `json:"seconds_remaining"`
	WarningTime      time.Time `json:"warning_time"`
}

// Schedule event payload

type ScheduleGeneratedEvent struct {
	UserID      string    `json:"user_id"`
	SlotCount   int       `json:"slot_count"`
	StudySlots  int       `json:"study_slots"`
	BreakSlots  int       `json:"break_slots"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Event factory functions

func NewAttemptSubmittedEvent(attemptID, quizID, userID, subject, module string, score, total int, percentage float64, timeTaken int, automatic bool) *StudyEvent {
	eventType := EventAttemptSubmitted
	if automatic {
		eventType = EventAttemptAutoSubmitted
	}
	return &StudyEvent{
		ID:        GenerateEventID(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   "1.0",
		Data: AttemptSubmittedEvent{
			AttemptID:   attemptID,
			QuizID:      quizID,
			UserID:      userID,
			Subject:     subject,
			Module:      module,
			Score:       score,
			Total:       total,
			Percentage:  percentage,
			TimeTaken:   timeTaken,
			Automatic:   automatic,
			SubmittedAt: time.Now(),
		},
	}
}

func NewAttemptTimeWarningEvent(quizID, userID string, secondsRemaining int) *StudyEvent {
	return &StudyEvent{
		ID:        GenerateEventID(),
		Type:      EventAttemptTimeWarning,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   "1.0",
		Data: AttemptTimeWarningEvent{
			QuizID:           quizID,
			UserID:           userID,
			SecondsRemaining: secondsRemaining,
			WarningTime:      time.Now(),
		},
	}
}

func NewScheduleGeneratedEvent(userID string, slotCount, studySlots, breakSlots int) *StudyEvent {
	return &StudyEvent{
		ID:        GenerateEventID(),
		Type:      EventScheduleGenerated,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   "1.0",
		Data: ScheduleGeneratedEvent{
			UserID:      userID,
			SlotCount:   slotCount,
			StudySlots:  studySlots,
			BreakSlots:  breakSlots,
			GeneratedAt: time.Now(),
		},
	}
}

// GenerateEventID returns a unique identifier for an event
func GenerateEventID() string {
	return uuid.NewString()
}
