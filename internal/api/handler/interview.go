package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/mail"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ItsMeCK/AIInterview/internal/api/response"
	"github.com/ItsMeCK/AIInterview/internal/interview"
	"github.com/ItsMeCK/AIInterview/pkg/models"
)

const maxMultipartMemory = 8 << 20

// InterviewService defines the candidate-facing operations the handlers
// depend on.
type InterviewService interface {
	Initiate(ctx context.Context, token uuid.UUID) (*interview.Initiation, error)
	SubmitDetails(ctx context.Context, interviewID uuid.UUID, name, email string, file io.Reader, filename string, size int64) (*models.Interview, error)
	Start(ctx context.Context, interviewID uuid.UUID) (*models.Interview, string, error)
	Answer(ctx context.Context, interviewID uuid.UUID, answer string) (string, bool, error)
	End(ctx context.Context, interviewID uuid.UUID) (*models.Interview, error)
}

// NewInitiateHandler returns the handler for GET /api/v1/interview/initiate/{token}.
func NewInitiateHandler(svc InterviewService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := uuid.Parse(chi.URLParam(r, "token"))
		if err != nil {
			response.Error(w, http.StatusNotFound, "NOT_FOUND",
				"The requested resource does not exist", nil)
			return
		}

		init, err := svc.Initiate(r.Context(), token)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		response.JSON(w, map[string]any{
			"interview_id": init.Interview.ID,
			"status":       init.Interview.Status,
			"job_title":    init.Job.Title,
			"company":      init.Company,
		})
	}
}

// NewSubmitDetailsHandler returns the handler for POST /api/v1/interview/{interviewID}/details.
// The request is multipart: name and email fields plus the resume file.
func NewSubmitDetailsHandler(svc InterviewService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseInterviewID(w, r)
		if !ok {
			return
		}

		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"Expected multipart form data", nil)
			return
		}

		name := strings.TrimSpace(r.FormValue("name"))
		if name == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "name is required", nil)
			return
		}
		email := strings.TrimSpace(r.FormValue("email"))
		if _, err := mail.ParseAddress(email); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"email must be a valid address", nil)
			return
		}

		file, header, err := r.FormFile("resume")
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"resume file is required", nil)
			return
		}
		defer file.Close()

		iv, err := svc.SubmitDetails(r.Context(), id, name, email, file, header.Filename, header.Size)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		response.JSON(w, map[string]any{
			"interview_id": iv.ID,
			"candidate_id": iv.CandidateID,
			"status":       iv.Status,
		})
	}
}

// NewStartHandler returns the handler for POST /api/v1/interview/{interviewID}/start.
func NewStartHandler(svc InterviewService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseInterviewID(w, r)
		if !ok {
			return
		}

		iv, question, err := svc.Start(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		response.JSON(w, map[string]any{
			"question": question,
			"status":   iv.Status,
		})
	}
}

// NewAnswerHandler returns the handler for POST /api/v1/interview/{interviewID}/answer.
func NewAnswerHandler(svc InterviewService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseInterviewID(w, r)
		if !ok {
			return
		}

		var req struct {
			Answer string `json:"answer"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		answer := strings.TrimSpace(req.Answer)
		if answer == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "answer is required", nil)
			return
		}

		question, done, err := svc.Answer(r.Context(), id, answer)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		status := models.StatusInProgress
		if done {
			status = models.StatusCompleted
		}
		response.JSON(w, map[string]any{
			"question": question,
			"status":   status,
			"done":     done,
		})
	}
}

// NewEndHandler returns the handler for POST /api/v1/interview/{interviewID}/end.
func NewEndHandler(svc InterviewService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseInterviewID(w, r)
		if !ok {
			return
		}

		iv, err := svc.End(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		response.JSON(w, map[string]any{
			"interview_id": iv.ID,
			"status":       iv.Status,
		})
	}
}

func parseInterviewID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "interviewID"))
	if err != nil {
		response.Error(w, http.StatusNotFound, "NOT_FOUND",
			"The requested resource does not exist", nil)
		return uuid.Nil, false
	}
	return id, true
}
