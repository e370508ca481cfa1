package cache

import (
	"fmt"

	"github.com/google/uuid"
)

func AnalysisStatusKey(interviewID uuid.UUID) string {
	return fmt.Sprintf("analysis:%s", interviewID)
}

func InterviewLockKey(interviewID uuid.UUID) string {
	return fmt.Sprintf("interview:lock:%s", interviewID)
}

func RateLimitKey(keyPrefix string) string {
	return fmt.Sprintf("ratelimit:%s", keyPrefix)
}
