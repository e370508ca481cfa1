package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	mw "github.com/ItsMeCK/AIInterview/internal/api/middleware"
	"github.com/ItsMeCK/AIInterview/internal/api/response"
	"github.com/ItsMeCK/AIInterview/internal/store"
	"github.com/ItsMeCK/AIInterview/pkg/models"
)

const (
	defaultQuestionCount = 5
	maxQuestionCount     = 20
)

// Inviter defines the invitation operation the jobs handlers depend on.
type Inviter interface {
	InviteCandidate(ctx context.Context, companyID, jobID uuid.UUID, email string) (*models.Interview, string, error)
}

type jobRequest struct {
	Title             string `json:"title"`
	Department        string `json:"department"`
	Description       string `json:"description"`
	Status            string `json:"status"`
	NumberOfQuestions int    `json:"number_of_questions"`
	MustAskTopics     string `json:"must_ask_topics"`
	CreatedBy         string `json:"created_by"`
}

func (req *jobRequest) validate() (string, bool) {
	if strings.TrimSpace(req.Title) == "" {
		return "title is required", false
	}
	if strings.TrimSpace(req.Description) == "" {
		return "description is required", false
	}
	if req.Status == "" {
		req.Status = models.JobStatusOpen
	}
	if req.Status != models.JobStatusOpen && req.Status != models.JobStatusClosed {
		return "status must be Open or Closed", false
	}
	if req.NumberOfQuestions == 0 {
		req.NumberOfQuestions = defaultQuestionCount
	}
	if req.NumberOfQuestions < 1 || req.NumberOfQuestions > maxQuestionCount {
		return "number_of_questions must be between 1 and 20", false
	}
	return "", true
}

// NewCreateJobHandler returns the handler for POST /api/v1/admin/jobs.
func NewCreateJobHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := requireCompany(w, r)
		if !ok {
			return
		}

		var req jobRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if msg, ok := req.validate(); !ok {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", msg, nil)
			return
		}

		now := time.Now().UTC()
		job := &models.Job{
			ID:                uuid.New(),
			CompanyID:         companyID,
			Title:             req.Title,
			Department:        req.Department,
			Description:       req.Description,
			Status:            req.Status,
			NumberOfQuestions: req.NumberOfQuestions,
			MustAskTopics:     req.MustAskTopics,
			CreatedBy:         req.CreatedBy,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := st.CreateJob(r.Context(), job); err != nil {
			writeServiceError(w, err)
			return
		}
		response.Created(w, job)
	}
}

// NewListJobsHandler returns the handler for GET /api/v1/admin/jobs.
func NewListJobsHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := requireCompany(w, r)
		if !ok {
			return
		}

		page := queryInt(r, "page", 1)
		limit := queryInt(r, "limit", 20)

		jobs, total, err := st.ListJobs(r.Context(), store.JobFilter{
			CompanyID: companyID,
			Status:    r.URL.Query().Get("status"),
			Page:      page,
			Limit:     limit,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if jobs == nil {
			jobs = []*models.Job{}
		}

		response.Collection(w, jobs, response.PaginationMeta{
			Page:    page,
			Limit:   limit,
			Total:   total,
			HasNext: page*limit < total,
		})
	}
}

// NewGetJobHandler returns the handler for GET /api/v1/admin/jobs/{jobID}.
func NewGetJobHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := requireCompany(w, r)
		if !ok {
			return
		}
		jobID, ok := parseJobID(w, r)
		if !ok {
			return
		}

		job, err := st.GetJob(r.Context(), jobID, companyID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		response.JSON(w, job)
	}
}

// NewUpdateJobHandler returns the handler for PUT /api/v1/admin/jobs/{jobID}.
func NewUpdateJobHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := requireCompany(w, r)
		if !ok {
			return
		}
		jobID, ok := parseJobID(w, r)
		if !ok {
			return
		}

		var req jobRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if msg, ok := req.validate(); !ok {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", msg, nil)
			return
		}

		job := &models.Job{
			ID:                jobID,
			CompanyID:         companyID,
			Title:             req.Title,
			Department:        req.Department,
			Description:       req.Description,
			Status:            req.Status,
			NumberOfQuestions: req.NumberOfQuestions,
			MustAskTopics:     req.MustAskTopics,
		}
		if err := st.UpdateJob(r.Context(), job); err != nil {
			writeServiceError(w, err)
			return
		}

		updated, err := st.GetJob(r.Context(), jobID, companyID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		response.JSON(w, updated)
	}
}

// NewDeleteJobHandler returns the handler for DELETE /api/v1/admin/jobs/{jobID}.
// Jobs with existing interviews cannot be deleted.
func NewDeleteJobHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := requireCompany(w, r)
		if !ok {
			return
		}
		jobID, ok := parseJobID(w, r)
		if !ok {
			return
		}

		if err := st.DeleteJob(r.Context(), jobID, companyID); err != nil {
			writeServiceError(w, err)
			return
		}
		response.NoContent(w)
	}
}

// NewInviteHandler returns the handler for POST /api/v1/admin/jobs/{jobID}/invite.
func NewInviteHandler(svc Inviter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := requireCompany(w, r)
		if !ok {
			return
		}
		jobID, ok := parseJobID(w, r)
		if !ok {
			return
		}

		var req struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if _, err := mail.ParseAddress(strings.TrimSpace(req.Email)); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"email must be a valid address", nil)
			return
		}

		iv, link, err := svc.InviteCandidate(r.Context(), companyID, jobID, strings.TrimSpace(req.Email))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		response.Created(w, map[string]any{
			"interview_id":     iv.ID,
			"invitation_token": iv.InvitationToken,
			"invitation_link":  link,
			"status":           iv.Status,
		})
	}
}

func requireCompany(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	companyID, ok := mw.GetCompanyID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing company", nil)
		return uuid.Nil, false
	}
	return companyID, true
}

func parseJobID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "jobID"))
	if err != nil {
		response.Error(w, http.StatusNotFound, "NOT_FOUND",
			"The requested resource does not exist", nil)
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil || i <= 0 {
		return def
	}
	return i
}
