// Package handler contains the HTTP handlers for the portal API.
package handler

import (
	"errors"
	"net/http"

	"github.com/ItsMeCK/AIInterview/internal/api/response"
	"github.com/ItsMeCK/AIInterview/internal/interview"
	"github.com/ItsMeCK/AIInterview/internal/resume"
	"github.com/ItsMeCK/AIInterview/internal/store"
	"github.com/ItsMeCK/AIInterview/pkg/models"
)

// writeServiceError maps domain errors onto the response envelope. Every
// handler funnels its service errors through here so status codes stay
// consistent across endpoints.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		response.Error(w, http.StatusNotFound, "NOT_FOUND",
			"The requested resource does not exist", nil)
	case errors.Is(err, interview.ErrLinkExpired):
		response.Error(w, http.StatusForbidden, "LINK_EXPIRED",
			"This invitation link is no longer active", nil)
	case errors.Is(err, interview.ErrJobClosed):
		response.Error(w, http.StatusConflict, "JOB_CLOSED",
			"The job is not open for interviews", nil)
	case errors.Is(err, interview.ErrWrongState):
		response.Error(w, http.StatusConflict, "WRONG_STATE",
			"The interview is not in a state that allows this operation", nil)
	case errors.Is(err, store.ErrConflict):
		response.Error(w, http.StatusConflict, "CONFLICT",
			"The resource was modified concurrently; retry with fresh state", nil)
	case errors.Is(err, resume.ErrFileTooLarge):
		response.Error(w, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE",
			"The resume file exceeds the upload size limit", nil)
	case errors.Is(err, resume.ErrUnsupportedType):
		response.Error(w, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE",
			"Resume must be a pdf, txt, doc, or docx file", nil)
	case errors.Is(err, models.ErrInferenceTimeout):
		response.Error(w, http.StatusGatewayTimeout, "AI_INFERENCE_TIMEOUT",
			"Question generation took too long; please retry", nil)
	case errors.Is(err, models.ErrProviderUnavailable),
		errors.Is(err, models.ErrInvalidResponse):
		response.Error(w, http.StatusBadGateway, "AI_PROVIDER_UNAVAILABLE",
			"The interviewer is temporarily unavailable; please retry", nil)
	default:
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"An unexpected error occurred", nil)
	}
}
