package session

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotActive = errors.New("session is not in progress")
	ErrSubmitInFlight   = errors.New("a submission is already in flight")
	ErrIndexOutOfRange  = errors.New("question index out of range")
)

// UnattemptedRemainingError gates the manual submit path: the caller must
// confirm after showing the user the exact unattempted count.
type UnattemptedRemainingError struct {
	Count int
}

func (e *UnattemptedRemainingError) Error() string {
	return fmt.Sprintf("%d questions are still unattempted", e.Count)
}
