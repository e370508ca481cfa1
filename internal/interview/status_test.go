package interview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ItsMeCK/AIInterview/pkg/models"
)

func TestCanTransition_HappyPath(t *testing.T) {
	steps := []struct{ from, to string }{
		{models.StatusInvited, models.StatusResumeSubmitted},
		{models.StatusResumeSubmitted, models.StatusInProgress},
		{models.StatusInProgress, models.StatusCompleted},
		{models.StatusCompleted, models.StatusPendingReview},
		{models.StatusPendingReview, models.StatusReviewed},
	}
	for _, s := range steps {
		assert.True(t, CanTransition(s.from, s.to), "%s -> %s should be allowed", s.from, s.to)
	}
}

func TestCanTransition_FailureAndRecovery(t *testing.T) {
	assert.True(t, CanTransition(models.StatusCompleted, models.StatusAnalysisFailed))
	assert.True(t, CanTransition(models.StatusAnalysisFailed, models.StatusPendingReview))
	assert.True(t, CanTransition(models.StatusAnalysisFailed, models.StatusAnalysisFailed))
}

func TestCanTransition_Illegal(t *testing.T) {
	cases := []struct{ from, to string }{
		{models.StatusInvited, models.StatusInProgress},
		{models.StatusInvited, models.StatusCompleted},
		{models.StatusResumeSubmitted, models.StatusCompleted},
		{models.StatusCompleted, models.StatusInProgress},
		{models.StatusReviewed, models.StatusPendingReview},
		{models.StatusReviewed, models.StatusInvited},
		{models.StatusPendingReview, models.StatusCompleted},
		{models.StatusInProgress, models.StatusInvited},
	}
	for _, c := range cases {
		assert.False(t, CanTransition(c.from, c.to), "%s -> %s should be rejected", c.from, c.to)
	}
}

func TestTransition_ErrorCarriesStates(t *testing.T) {
	err := Transition(models.StatusReviewed, models.StatusInProgress)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWrongState)
	assert.Contains(t, err.Error(), models.StatusReviewed)
	assert.Contains(t, err.Error(), models.StatusInProgress)

	assert.NoError(t, Transition(models.StatusInvited, models.StatusResumeSubmitted))
}

func TestTokenAccessible(t *testing.T) {
	accessible := []string{
		models.StatusInvited,
		models.StatusResumeSubmitted,
		models.StatusInProgress,
	}
	for _, s := range accessible {
		assert.True(t, TokenAccessible(s), "%s should keep the link active", s)
	}

	expired := []string{
		models.StatusCompleted,
		models.StatusPendingReview,
		models.StatusReviewed,
		models.StatusAnalysisFailed,
	}
	for _, s := range expired {
		assert.False(t, TokenAccessible(s), "%s should expire the link", s)
	}
}

func TestFinished(t *testing.T) {
	assert.False(t, Finished(models.StatusInvited))
	assert.False(t, Finished(models.StatusResumeSubmitted))
	assert.False(t, Finished(models.StatusInProgress))

	assert.True(t, Finished(models.StatusCompleted))
	assert.True(t, Finished(models.StatusPendingReview))
	assert.True(t, Finished(models.StatusReviewed))
	assert.True(t, Finished(models.StatusAnalysisFailed))
}
