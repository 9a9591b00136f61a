package services

import (
	"errors"

	apperrors "github.com/prepiq/prepiq-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("resource conflict")

	// Quiz specific errors
	ErrQuizNotFound         = errors.New("quiz not found")
	ErrQuizEmptySubject     = errors.New("subject and module are required")
	ErrQuizInvalidCount     = errors.New("question count must be positive")
	ErrQuizGenerationFailed = errors.New("quiz generation failed")

	// Session specific errors
	ErrSessionNotFound       = errors.New("exam session not found")
	ErrSessionAlreadyExists  = errors.New("exam session already active for this quiz")
	ErrSessionNotActive      = errors.New("exam session is not active")
	ErrSessionSubmitInFlight = errors.New("submission already in progress")

	// Schedule specific errors
	ErrSubjectNotFound    = errors.New("subject not found")
	ErrSlotNotFound       = errors.New("time slot not found")
	ErrGoalsNotFound      = errors.New("study goals not set")
	ErrNoSubjects         = errors.New("no subjects configured for schedule generation")
	ErrInvalidTargetHours = errors.New("target hours per day must be at least one")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// ===== ERROR HELPERS =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrQuizNotFound) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrSubjectNotFound) ||
		errors.Is(err, ErrSlotNotFound) ||
		errors.Is(err, ErrGoalsNotFound)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrQuizEmptySubject) ||
		errors.Is(err, ErrQuizInvalidCount) ||
		errors.Is(err, ErrInvalidTargetHours) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrSessionAlreadyExists) ||
		errors.Is(err, ErrSessionSubmitInFlight)
}
