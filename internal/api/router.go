// Package api assembles the HTTP router for the hiring portal.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	mw "github.com/ItsMeCK/AIInterview/internal/api/middleware"
	"github.com/ItsMeCK/AIInterview/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	Auth      *mw.Auth
	RateLimit *mw.RateLimit

	HealthHandler http.HandlerFunc

	// Candidate flow (public; the invitation token is the credential)
	InitiateHandler      http.HandlerFunc
	SubmitDetailsHandler http.HandlerFunc
	StartHandler         http.HandlerFunc
	AnswerHandler        http.HandlerFunc
	EndHandler           http.HandlerFunc

	// Admin flow (Bearer admin key)
	CreateJobHandler      http.HandlerFunc
	ListJobsHandler       http.HandlerFunc
	GetJobHandler         http.HandlerFunc
	UpdateJobHandler      http.HandlerFunc
	DeleteJobHandler      http.HandlerFunc
	InviteHandler         http.HandlerFunc
	ListInterviewsHandler http.HandlerFunc
	GetInterviewHandler   http.HandlerFunc
	ReviewHandler         http.HandlerFunc
	ReanalyzeHandler      http.HandlerFunc
	AnalysisHandler       http.HandlerFunc
	DashboardHandler      http.HandlerFunc
	CreateKeyHandler      http.HandlerFunc
	ListKeysHandler       http.HandlerFunc
	RevokeKeyHandler      http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	// Public health check
	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	// Candidate routes: gated by the invitation token, not an API key
	r.Route("/api/v1/interview", func(r chi.Router) {
		r.Get("/initiate/{token}", orNotImplemented(deps.InitiateHandler))
		r.Post("/{interviewID}/details", orNotImplemented(deps.SubmitDetailsHandler))
		r.Post("/{interviewID}/start", orNotImplemented(deps.StartHandler))
		r.Post("/{interviewID}/answer", orNotImplemented(deps.AnswerHandler))
		r.Post("/{interviewID}/end", orNotImplemented(deps.EndHandler))
	})

	// Admin routes
	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(deps.Auth.Authenticate)
		r.Use(deps.RateLimit.Limit)

		r.Post("/jobs", orNotImplemented(deps.CreateJobHandler))
		r.Get("/jobs", orNotImplemented(deps.ListJobsHandler))
		r.Get("/jobs/{jobID}", orNotImplemented(deps.GetJobHandler))
		r.Put("/jobs/{jobID}", orNotImplemented(deps.UpdateJobHandler))
		r.Delete("/jobs/{jobID}", orNotImplemented(deps.DeleteJobHandler))
		r.Post("/jobs/{jobID}/invite", orNotImplemented(deps.InviteHandler))

		r.Get("/interviews", orNotImplemented(deps.ListInterviewsHandler))
		r.Get("/interviews/{interviewID}", orNotImplemented(deps.GetInterviewHandler))
		r.Post("/interviews/{interviewID}/review", orNotImplemented(deps.ReviewHandler))
		r.Post("/interviews/{interviewID}/reanalyze", orNotImplemented(deps.ReanalyzeHandler))
		r.Get("/interviews/{interviewID}/analysis", orNotImplemented(deps.AnalysisHandler))

		r.Get("/dashboard", orNotImplemented(deps.DashboardHandler))

		// Key management requires the admin scope
		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.RequireScope("admin"))

			r.Post("/keys", orNotImplemented(deps.CreateKeyHandler))
			r.Get("/keys", orNotImplemented(deps.ListKeysHandler))
			r.Delete("/keys/{keyID}", orNotImplemented(deps.RevokeKeyHandler))
		})
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
