package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ItsMeCK/AIInterview/internal/api/response"
	"github.com/ItsMeCK/AIInterview/internal/store"
	"github.com/ItsMeCK/AIInterview/pkg/models"
)

// Reviewer defines the admin-side interview operations the handlers depend
// on.
type Reviewer interface {
	Review(ctx context.Context, companyID, interviewID uuid.UUID, adminScore int, feedback string) (*models.Interview, error)
	Reanalyze(ctx context.Context, companyID, interviewID uuid.UUID) error
	AnalysisStatus(ctx context.Context, companyID, interviewID uuid.UUID) (string, error)
}

// NewListInterviewsHandler returns the handler for GET /api/v1/admin/interviews.
func NewListInterviewsHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := requireCompany(w, r)
		if !ok {
			return
		}

		filter := store.InterviewFilter{
			CompanyID: companyID,
			Status:    r.URL.Query().Get("status"),
			Page:      queryInt(r, "page", 1),
			Limit:     queryInt(r, "limit", 20),
		}
		if raw := r.URL.Query().Get("job_id"); raw != "" {
			jobID, err := uuid.Parse(raw)
			if err != nil {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"job_id must be a valid UUID", nil)
				return
			}
			filter.JobID = &jobID
		}

		interviews, total, err := st.ListInterviews(r.Context(), filter)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		items := make([]interviewSummary, 0, len(interviews))
		for _, iv := range interviews {
			items = append(items, summarizeInterview(iv))
		}

		response.Collection(w, items, response.PaginationMeta{
			Page:    filter.Page,
			Limit:   filter.Limit,
			Total:   total,
			HasNext: filter.Page*filter.Limit < total,
		})
	}
}

// NewGetInterviewHandler returns the handler for GET /api/v1/admin/interviews/{interviewID}:
// the full record including transcript, scorecard, and Q&A pairs.
func NewGetInterviewHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := requireCompany(w, r)
		if !ok {
			return
		}
		id, ok := parseAdminInterviewID(w, r)
		if !ok {
			return
		}

		iv, err := st.GetInterview(r.Context(), id, companyID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		detail := map[string]any{"interview": iv}
		if iv.CandidateID != nil {
			if candidate, err := st.GetCandidate(r.Context(), *iv.CandidateID); err == nil {
				detail["candidate"] = candidate
			}
		}
		if job, err := st.GetJob(r.Context(), iv.JobID, companyID); err == nil {
			detail["job"] = job
		}
		response.JSON(w, detail)
	}
}

// NewReviewHandler returns the handler for POST /api/v1/admin/interviews/{interviewID}/review.
func NewReviewHandler(svc Reviewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := requireCompany(w, r)
		if !ok {
			return
		}
		id, ok := parseAdminInterviewID(w, r)
		if !ok {
			return
		}

		var req struct {
			Score    *int   `json:"score"`
			Feedback string `json:"feedback"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if req.Score == nil || *req.Score < 0 || *req.Score > 100 {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"score must be between 0 and 100", nil)
			return
		}

		iv, err := svc.Review(r.Context(), companyID, id, *req.Score, strings.TrimSpace(req.Feedback))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		response.JSON(w, summarizeInterview(iv))
	}
}

// NewReanalyzeHandler returns the handler for POST /api/v1/admin/interviews/{interviewID}/reanalyze.
func NewReanalyzeHandler(svc Reviewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := requireCompany(w, r)
		if !ok {
			return
		}
		id, ok := parseAdminInterviewID(w, r)
		if !ok {
			return
		}

		if err := svc.Reanalyze(r.Context(), companyID, id); err != nil {
			writeServiceError(w, err)
			return
		}
		response.Accepted(w, map[string]any{
			"interview_id": id,
			"analysis":     "queued",
		})
	}
}

// NewAnalysisHandler returns the handler for GET /api/v1/admin/interviews/{interviewID}/analysis.
// The scorecard is null until analysis has completed.
func NewAnalysisHandler(st store.Store, svc Reviewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := requireCompany(w, r)
		if !ok {
			return
		}
		id, ok := parseAdminInterviewID(w, r)
		if !ok {
			return
		}

		iv, err := st.GetInterview(r.Context(), id, companyID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		status, _ := svc.AnalysisStatus(r.Context(), companyID, id)
		response.JSON(w, map[string]any{
			"interview_id":    iv.ID,
			"status":          iv.Status,
			"analysis_status": status,
			"scorecard":       iv.Scorecard,
			"qa_pairs":        iv.QAPairs,
			"score":           iv.Score,
			"ai_summary":      iv.AISummary,
		})
	}
}

// NewDashboardHandler returns the handler for GET /api/v1/admin/dashboard.
func NewDashboardHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := requireCompany(w, r)
		if !ok {
			return
		}

		summary, err := st.DashboardSummary(r.Context(), companyID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		response.JSON(w, map[string]any{
			"open_positions":         summary.OpenJobs,
			"total_jobs":             summary.TotalJobs,
			"total_applications":     summary.TotalInterviews,
			"interviews_in_progress": summary.InterviewsByStatus[models.StatusInProgress],
			"pending_reviews":        summary.InterviewsByStatus[models.StatusPendingReview],
			"interviews_by_status":   summary.InterviewsByStatus,
			"average_score":          summary.AverageScore,
		})
	}
}

// interviewSummary is the list-view shape: no transcript, no prompt
// internals.
type interviewSummary struct {
	ID            uuid.UUID  `json:"id"`
	JobID         uuid.UUID  `json:"job_id"`
	CandidateID   *uuid.UUID `json:"candidate_id,omitempty"`
	Status        string     `json:"status"`
	Score         *float64   `json:"score,omitempty"`
	AdminScore    *int       `json:"admin_score,omitempty"`
	AdminFeedback *string    `json:"admin_feedback,omitempty"`
	CreatedAt     string     `json:"created_at"`
	UpdatedAt     string     `json:"updated_at"`
}

func summarizeInterview(iv *models.Interview) interviewSummary {
	return interviewSummary{
		ID:            iv.ID,
		JobID:         iv.JobID,
		CandidateID:   iv.CandidateID,
		Status:        iv.Status,
		Score:         iv.Score,
		AdminScore:    iv.AdminScore,
		AdminFeedback: iv.AdminFeedback,
		CreatedAt:     iv.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     iv.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func parseAdminInterviewID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "interviewID"))
	if err != nil {
		response.Error(w, http.StatusNotFound, "NOT_FOUND",
			"The requested resource does not exist", nil)
		return uuid.Nil, false
	}
	return id, true
}
