package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ItsMeCK/AIInterview/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// ErrConflict is returned when a guarded update loses its race: the row
// exists but its status or turn count no longer matches what the caller
// observed. The caller reloads and decides.
var ErrConflict = errors.New("concurrent update conflict")

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error
	GetDefaultCompany(ctx context.Context) (*models.Company, error)
	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)

	GetAdminKeyByPrefix(ctx context.Context, prefix string) ([]*models.AdminKey, error)
	UpdateAdminKeyLastUsed(ctx context.Context, id uuid.UUID) error
	CreateAdminKey(ctx context.Context, key *models.AdminKey) error
	ListAdminKeys(ctx context.Context, companyID uuid.UUID) ([]*models.AdminKey, error)
	RevokeAdminKey(ctx context.Context, id uuid.UUID, companyID uuid.UUID) error

	CreateJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, id uuid.UUID, companyID uuid.UUID) (*models.Job, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]*models.Job, int, error)
	UpdateJob(ctx context.Context, job *models.Job) error
	DeleteJob(ctx context.Context, id uuid.UUID, companyID uuid.UUID) error

	CreateCandidate(ctx context.Context, candidate *models.Candidate) error
	GetCandidate(ctx context.Context, id uuid.UUID) (*models.Candidate, error)

	CreateInterview(ctx context.Context, interview *models.Interview) error
	GetInterview(ctx context.Context, id uuid.UUID, companyID uuid.UUID) (*models.Interview, error)
	GetInterviewByToken(ctx context.Context, token uuid.UUID) (*models.Interview, error)
	GetInterviewByID(ctx context.Context, id uuid.UUID) (*models.Interview, error)
	ListInterviews(ctx context.Context, filter InterviewFilter) ([]*models.Interview, int, error)
	AttachCandidate(ctx context.Context, interviewID uuid.UUID, candidateID uuid.UUID, fromStatus string) error
	StartConversation(ctx context.Context, id uuid.UUID, fromStatus string, transcript models.Transcript, buffered string) error
	AdvanceConversation(ctx context.Context, id uuid.UUID, expectedTurns int, transcript models.Transcript, buffered *string, status string) error
	SaveAnalysis(ctx context.Context, id uuid.UUID, analysis Analysis) error
	MarkAnalysisFailed(ctx context.Context, id uuid.UUID) error
	SubmitReview(ctx context.Context, id uuid.UUID, companyID uuid.UUID, adminScore int, feedback string) error

	DashboardSummary(ctx context.Context, companyID uuid.UUID) (*models.DashboardSummary, error)
}

// JobFilter narrows and paginates job listings. CompanyID is mandatory.
type JobFilter struct {
	CompanyID uuid.UUID
	Status    string
	Page      int
	Limit     int
}

// InterviewFilter narrows and paginates interview listings. CompanyID is
// mandatory.
type InterviewFilter struct {
	CompanyID uuid.UUID
	JobID     *uuid.UUID
	Status    string
	Page      int
	Limit     int
}

// Analysis is the persisted outcome of a successful interview analysis.
type Analysis struct {
	Scorecard models.Scorecard
	QAPairs   []models.QAPair
	Score     float64
	Summary   string
}
