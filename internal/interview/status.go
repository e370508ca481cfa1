// Package interview implements the interview lifecycle: the status state
// machine, the look-ahead conversation engine, and the post-interview
// analyzer.
package interview

import (
	"errors"
	"fmt"

	"github.com/ItsMeCK/AIInterview/pkg/models"
)

// ErrWrongState is returned when an operation is attempted on an interview
// whose current status does not allow it. The wrapped message carries the
// current status so callers can surface a specific reason.
var ErrWrongState = errors.New("operation not allowed in current interview state")

// allowedTransitions is the single source of truth for legal status moves.
// Analysis Failed appears on both sides: re-running analysis may succeed
// (to Pending Review) or fail again.
var allowedTransitions = map[string][]string{
	models.StatusInvited:         {models.StatusResumeSubmitted},
	models.StatusResumeSubmitted: {models.StatusInProgress},
	models.StatusInProgress:      {models.StatusCompleted},
	models.StatusCompleted:       {models.StatusPendingReview, models.StatusAnalysisFailed},
	models.StatusPendingReview:   {models.StatusReviewed},
	models.StatusAnalysisFailed:  {models.StatusPendingReview, models.StatusAnalysisFailed},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to string) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Transition validates a status move and returns ErrWrongState with the
// current status when it is not allowed.
func Transition(from, to string) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrWrongState, from, to)
	}
	return nil
}

// TokenAccessible reports whether the invitation token still grants access.
// Once the interview progresses past In Progress, a replayed link must be
// rejected.
func TokenAccessible(status string) bool {
	switch status {
	case models.StatusInvited, models.StatusResumeSubmitted, models.StatusInProgress:
		return true
	}
	return false
}

// Finished reports whether the conversation has ended. Ending an already
// finished interview is a harmless no-op, never an error.
func Finished(status string) bool {
	switch status {
	case models.StatusCompleted, models.StatusPendingReview,
		models.StatusReviewed, models.StatusAnalysisFailed:
		return true
	}
	return false
}
