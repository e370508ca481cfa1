package store_test

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ItsMeCK/AIInterview/internal/store"
	"github.com/ItsMeCK/AIInterview/pkg/models"
)

// migrationsDir returns the absolute path to the migrations directory.
func migrationsDir() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "..", "..", "migrations")
}

// setupTestDB spins up a Postgres container, runs migrations, and returns a pool + cleanup.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("portal_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	err = store.RunMigrations(connStr, migrationsDir())
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	return pool
}

// defaultCompanyID returns the UUID of the seeded default company.
func defaultCompanyID(t *testing.T, s store.Store) uuid.UUID {
	t.Helper()
	company, err := s.GetDefaultCompany(context.Background())
	require.NoError(t, err)
	return company.ID
}

func seedJob(t *testing.T, s store.Store, companyID uuid.UUID, status string) *models.Job {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	job := &models.Job{
		ID:                uuid.New(),
		CompanyID:         companyID,
		Title:             "Backend Engineer",
		Department:        "Engineering",
		Description:       "Build and run Go services.",
		Status:            status,
		NumberOfQuestions: 5,
		MustAskTopics:     "databases, concurrency",
		CreatedBy:         "admin@example.com",
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	require.NoError(t, s.CreateJob(context.Background(), job))
	return job
}

func seedCandidate(t *testing.T, s store.Store) *models.Candidate {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	c := &models.Candidate{
		ID:         uuid.New(),
		Name:       "Jordan",
		Email:      "jordan@example.com",
		ResumePath: "/tmp/resume.txt",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, s.CreateCandidate(context.Background(), c))
	return c
}

func seedInterview(t *testing.T, s store.Store, companyID, jobID uuid.UUID) *models.Interview {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	iv := &models.Interview{
		ID:              uuid.New(),
		CompanyID:       companyID,
		JobID:           jobID,
		InvitationToken: uuid.New(),
		Status:          models.StatusInvited,
		Transcript:      models.Transcript{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, s.CreateInterview(context.Background(), iv))
	return iv
}

// --- Company Tests ---

func TestGetDefaultCompany(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)

	company, err := s.GetDefaultCompany(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "default", company.Name)
	assert.NotEqual(t, uuid.Nil, company.ID)

	got, err := s.GetCompany(context.Background(), company.ID)
	require.NoError(t, err)
	assert.Equal(t, company.ID, got.ID)
}

func TestGetCompany_NotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)

	_, err := s.GetCompany(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// --- Admin Key Tests ---

func TestAdminKey_CreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()
	companyID := defaultCompanyID(t, s)
	now := time.Now().UTC().Truncate(time.Microsecond)

	key := &models.AdminKey{
		ID:        uuid.New(),
		CompanyID: companyID,
		Name:      "test-key",
		KeyHash:   "bcrypt-hash-here",
		KeyPrefix: "hk_abcde",
		Scopes:    []string{"admin", "read"},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.CreateAdminKey(ctx, key))

	keys, err := s.GetAdminKeyByPrefix(ctx, "hk_abcde")
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, key.ID, keys[0].ID)
	assert.Equal(t, []string{"admin", "read"}, keys[0].Scopes)
}

func TestAdminKey_List(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()
	companyID := defaultCompanyID(t, s)
	now := time.Now().UTC().Truncate(time.Microsecond)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.CreateAdminKey(ctx, &models.AdminKey{
			ID:        uuid.New(),
			CompanyID: companyID,
			Name:      "key-" + uuid.NewString()[:4],
			KeyHash:   "hash-" + uuid.NewString()[:4],
			KeyPrefix: "hk_" + uuid.NewString()[:5],
			Scopes:    []string{"read"},
			CreatedAt: now,
			UpdatedAt: now,
		}))
	}

	keys, err := s.ListAdminKeys(ctx, companyID)
	require.NoError(t, err)
	assert.Len(t, keys, 3)
}

func TestAdminKey_Revoke(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()
	companyID := defaultCompanyID(t, s)
	now := time.Now().UTC().Truncate(time.Microsecond)

	key := &models.AdminKey{
		ID:        uuid.New(),
		CompanyID: companyID,
		Name:      "revoke-me",
		KeyHash:   "hash",
		KeyPrefix: "hk_revok",
		Scopes:    []string{"read"},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.CreateAdminKey(ctx, key))
	require.NoError(t, s.RevokeAdminKey(ctx, key.ID, companyID))

	keys, err := s.ListAdminKeys(ctx, companyID)
	require.NoError(t, err)
	assert.Empty(t, keys)

	keys, err = s.GetAdminKeyByPrefix(ctx, "hk_revok")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestAdminKey_RevokeNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)

	err := s.RevokeAdminKey(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAdminKey_UpdateLastUsed(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()
	companyID := defaultCompanyID(t, s)
	now := time.Now().UTC().Truncate(time.Microsecond)

	key := &models.AdminKey{
		ID:        uuid.New(),
		CompanyID: companyID,
		Name:      "usage-key",
		KeyHash:   "hash",
		KeyPrefix: "hk_used1",
		Scopes:    []string{"read"},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.CreateAdminKey(ctx, key))
	require.NoError(t, s.UpdateAdminKeyLastUsed(ctx, key.ID))

	keys, err := s.GetAdminKeyByPrefix(ctx, "hk_used1")
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.NotNil(t, keys[0].LastUsedAt)
}

func TestAdminKey_DuplicateID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()
	companyID := defaultCompanyID(t, s)
	now := time.Now().UTC().Truncate(time.Microsecond)

	id := uuid.New()
	require.NoError(t, s.CreateAdminKey(ctx, &models.AdminKey{
		ID: id, CompanyID: companyID, Name: "dup1", KeyHash: "h1", KeyPrefix: "hk_dup01",
		Scopes: []string{"read"}, CreatedAt: now, UpdatedAt: now,
	}))

	err := s.CreateAdminKey(ctx, &models.AdminKey{
		ID: id, CompanyID: companyID, Name: "dup2", KeyHash: "h2", KeyPrefix: "hk_dup02",
		Scopes: []string{"read"}, CreatedAt: now, UpdatedAt: now,
	})
	assert.ErrorIs(t, err, store.ErrDuplicateKey)
}

// --- Job Tests ---

func TestJob_CreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	companyID := defaultCompanyID(t, s)

	job := seedJob(t, s, companyID, models.JobStatusOpen)

	got, err := s.GetJob(context.Background(), job.ID, companyID)
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", got.Title)
	assert.Equal(t, 5, got.NumberOfQuestions)
	assert.Equal(t, "databases, concurrency", got.MustAskTopics)
}

func TestJob_GetNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)

	_, err := s.GetJob(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestJob_GetScopedToCompany(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	companyID := defaultCompanyID(t, s)

	job := seedJob(t, s, companyID, models.JobStatusOpen)

	_, err := s.GetJob(context.Background(), job.ID, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestJob_List(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	companyID := defaultCompanyID(t, s)

	for i := 0; i < 3; i++ {
		seedJob(t, s, companyID, models.JobStatusOpen)
	}
	seedJob(t, s, companyID, models.JobStatusClosed)

	jobs, total, err := s.ListJobs(context.Background(), store.JobFilter{
		CompanyID: companyID, Page: 1, Limit: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Len(t, jobs, 2)

	open, total, err := s.ListJobs(context.Background(), store.JobFilter{
		CompanyID: companyID, Status: models.JobStatusOpen, Page: 1, Limit: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, open, 3)
}

func TestJob_Update(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	companyID := defaultCompanyID(t, s)
	ctx := context.Background()

	job := seedJob(t, s, companyID, models.JobStatusOpen)
	job.Title = "Staff Engineer"
	job.Status = models.JobStatusClosed
	job.NumberOfQuestions = 8
	require.NoError(t, s.UpdateJob(ctx, job))

	got, err := s.GetJob(ctx, job.ID, companyID)
	require.NoError(t, err)
	assert.Equal(t, "Staff Engineer", got.Title)
	assert.Equal(t, models.JobStatusClosed, got.Status)
	assert.Equal(t, 8, got.NumberOfQuestions)
}

func TestJob_UpdateNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)

	err := s.UpdateJob(context.Background(), &models.Job{ID: uuid.New(), CompanyID: uuid.New()})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestJob_Delete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	companyID := defaultCompanyID(t, s)
	ctx := context.Background()

	job := seedJob(t, s, companyID, models.JobStatusOpen)
	require.NoError(t, s.DeleteJob(ctx, job.ID, companyID))

	_, err := s.GetJob(ctx, job.ID, companyID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestJob_DeleteWithInterviewsConflicts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	companyID := defaultCompanyID(t, s)

	job := seedJob(t, s, companyID, models.JobStatusOpen)
	seedInterview(t, s, companyID, job.ID)

	err := s.DeleteJob(context.Background(), job.ID, companyID)
	assert.ErrorIs(t, err, store.ErrConflict)
}

// --- Candidate Tests ---

func TestCandidate_CreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)

	c := seedCandidate(t, s)

	got, err := s.GetCandidate(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jordan", got.Name)
	assert.Equal(t, "/tmp/resume.txt", got.ResumePath)
}

// --- Interview Tests ---

func TestInterview_CreateAndLookups(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	companyID := defaultCompanyID(t, s)
	ctx := context.Background()

	job := seedJob(t, s, companyID, models.JobStatusOpen)
	iv := seedInterview(t, s, companyID, job.ID)

	byToken, err := s.GetInterviewByToken(ctx, iv.InvitationToken)
	require.NoError(t, err)
	assert.Equal(t, iv.ID, byToken.ID)
	assert.Equal(t, models.StatusInvited, byToken.Status)
	assert.Empty(t, byToken.Transcript)
	assert.Nil(t, byToken.CandidateID)
	assert.Nil(t, byToken.BufferedQuestion)

	byID, err := s.GetInterviewByID(ctx, iv.ID)
	require.NoError(t, err)
	assert.Equal(t, iv.InvitationToken, byID.InvitationToken)

	scoped, err := s.GetInterview(ctx, iv.ID, companyID)
	require.NoError(t, err)
	assert.Equal(t, iv.ID, scoped.ID)

	_, err = s.GetInterview(ctx, iv.ID, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.GetInterviewByToken(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestInterview_Lifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	companyID := defaultCompanyID(t, s)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	job := seedJob(t, s, companyID, models.JobStatusOpen)
	iv := seedInterview(t, s, companyID, job.ID)
	candidate := seedCandidate(t, s)

	// Attach candidate: Invited -> Resume Submitted
	require.NoError(t, s.AttachCandidate(ctx, iv.ID, candidate.ID, models.StatusInvited))
	got, err := s.GetInterviewByID(ctx, iv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusResumeSubmitted, got.Status)
	require.NotNil(t, got.CandidateID)
	assert.Equal(t, candidate.ID, *got.CandidateID)

	// Start conversation: Resume Submitted -> In Progress
	opening := models.Transcript{{Actor: models.ActorAI, Text: "q1", Timestamp: now}}
	require.NoError(t, s.StartConversation(ctx, iv.ID, models.StatusResumeSubmitted, opening, "q2"))
	got, err = s.GetInterviewByID(ctx, iv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, got.Status)
	assert.Equal(t, 1, got.TurnCount)
	require.Len(t, got.Transcript, 1)
	assert.Equal(t, "q1", got.Transcript[0].Text)
	require.NotNil(t, got.BufferedQuestion)
	assert.Equal(t, "q2", *got.BufferedQuestion)

	// Advance one cycle
	extended := append(opening,
		models.Turn{Actor: models.ActorCandidate, Text: "a1", Timestamp: now},
		models.Turn{Actor: models.ActorAI, Text: "q2", Timestamp: now})
	next := "q3"
	require.NoError(t, s.AdvanceConversation(ctx, iv.ID, 1, extended, &next, models.StatusInProgress))

	// A concurrent submission against the stale revision loses the CAS.
	err = s.AdvanceConversation(ctx, iv.ID, 1, extended, &next, models.StatusInProgress)
	assert.ErrorIs(t, err, store.ErrConflict)

	// Complete
	final := append(extended, models.Turn{Actor: models.ActorCandidate, Text: "a2", Timestamp: now},
		models.Turn{Actor: models.ActorAI, Text: "thanks", Timestamp: now})
	require.NoError(t, s.AdvanceConversation(ctx, iv.ID, 3, final, nil, models.StatusCompleted))
	got, err = s.GetInterviewByID(ctx, iv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.Nil(t, got.BufferedQuestion)
	assert.Equal(t, 5, got.TurnCount)

	// Save analysis: Completed -> Pending Review
	analysis := store.Analysis{
		Scorecard: models.Scorecard{
			TechnicalProficiency: models.AxisScore{Score: 8, Justification: "solid"},
			CommunicationSkills:  models.AxisScore{Score: 7, Justification: "clear"},
			AlignmentWithValues:  models.AxisScore{Score: 6, Justification: "fine"},
		},
		QAPairs: []models.QAPair{{Question: "q1", Answer: "a1"}, {Question: "q2", Answer: "a2"}},
		Score:   74.5,
		Summary: "Good candidate.",
	}
	require.NoError(t, s.SaveAnalysis(ctx, iv.ID, analysis))
	got, err = s.GetInterviewByID(ctx, iv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingReview, got.Status)
	require.NotNil(t, got.Scorecard)
	assert.Equal(t, 8.0, got.Scorecard.TechnicalProficiency.Score)
	require.NotNil(t, got.Score)
	assert.Equal(t, 74.5, *got.Score)
	require.NotNil(t, got.AISummary)
	assert.Equal(t, "Good candidate.", *got.AISummary)
	assert.Len(t, got.QAPairs, 2)

	// Review: Pending Review -> Reviewed
	require.NoError(t, s.SubmitReview(ctx, iv.ID, companyID, 85, "Strong hire."))
	got, err = s.GetInterviewByID(ctx, iv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReviewed, got.Status)
	require.NotNil(t, got.AdminScore)
	assert.Equal(t, 85, *got.AdminScore)
}

func TestAttachCandidate_Conflict(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	companyID := defaultCompanyID(t, s)
	ctx := context.Background()

	job := seedJob(t, s, companyID, models.JobStatusOpen)
	iv := seedInterview(t, s, companyID, job.ID)
	candidate := seedCandidate(t, s)

	err := s.AttachCandidate(ctx, iv.ID, candidate.ID, models.StatusResumeSubmitted)
	assert.ErrorIs(t, err, store.ErrConflict)

	err = s.AttachCandidate(ctx, uuid.New(), candidate.ID, models.StatusInvited)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSaveAnalysis_WrongStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	companyID := defaultCompanyID(t, s)

	job := seedJob(t, s, companyID, models.JobStatusOpen)
	iv := seedInterview(t, s, companyID, job.ID)

	err := s.SaveAnalysis(context.Background(), iv.ID, store.Analysis{Score: 50})
	assert.ErrorIs(t, err, store.ErrConflict)
}

func TestMarkAnalysisFailed_AndRecover(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	companyID := defaultCompanyID(t, s)
	ctx := context.Background()

	job := seedJob(t, s, companyID, models.JobStatusOpen)
	iv := seedInterview(t, s, companyID, job.ID)
	candidate := seedCandidate(t, s)

	require.NoError(t, s.AttachCandidate(ctx, iv.ID, candidate.ID, models.StatusInvited))
	opening := models.Transcript{{Actor: models.ActorAI, Text: "q1"}}
	require.NoError(t, s.StartConversation(ctx, iv.ID, models.StatusResumeSubmitted, opening, "q2"))
	require.NoError(t, s.AdvanceConversation(ctx, iv.ID, 1, opening, nil, models.StatusCompleted))

	require.NoError(t, s.MarkAnalysisFailed(ctx, iv.ID))
	got, err := s.GetInterviewByID(ctx, iv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAnalysisFailed, got.Status)

	// A re-run can still save from the failed state.
	require.NoError(t, s.SaveAnalysis(ctx, iv.ID, store.Analysis{Score: 60, Summary: "retried"}))
	got, err = s.GetInterviewByID(ctx, iv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingReview, got.Status)
}

func TestSubmitReview_WrongStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	companyID := defaultCompanyID(t, s)

	job := seedJob(t, s, companyID, models.JobStatusOpen)
	iv := seedInterview(t, s, companyID, job.ID)

	err := s.SubmitReview(context.Background(), iv.ID, companyID, 80, "nope")
	assert.ErrorIs(t, err, store.ErrConflict)
}

func TestInterview_List(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	companyID := defaultCompanyID(t, s)
	ctx := context.Background()

	jobA := seedJob(t, s, companyID, models.JobStatusOpen)
	jobB := seedJob(t, s, companyID, models.JobStatusOpen)
	for i := 0; i < 3; i++ {
		seedInterview(t, s, companyID, jobA.ID)
	}
	seedInterview(t, s, companyID, jobB.ID)

	all, total, err := s.ListInterviews(ctx, store.InterviewFilter{
		CompanyID: companyID, Page: 1, Limit: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Len(t, all, 4)

	byJob, total, err := s.ListInterviews(ctx, store.InterviewFilter{
		CompanyID: companyID, JobID: &jobA.ID, Page: 1, Limit: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, byJob, 2)

	invited, total, err := s.ListInterviews(ctx, store.InterviewFilter{
		CompanyID: companyID, Status: models.StatusInvited, Page: 1, Limit: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Len(t, invited, 4)
}

// --- Dashboard Tests ---

func TestDashboardSummary(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	companyID := defaultCompanyID(t, s)
	ctx := context.Background()

	open := seedJob(t, s, companyID, models.JobStatusOpen)
	seedJob(t, s, companyID, models.JobStatusClosed)

	iv1 := seedInterview(t, s, companyID, open.ID)
	seedInterview(t, s, companyID, open.ID)
	candidate := seedCandidate(t, s)

	require.NoError(t, s.AttachCandidate(ctx, iv1.ID, candidate.ID, models.StatusInvited))
	opening := models.Transcript{{Actor: models.ActorAI, Text: "q1"}}
	require.NoError(t, s.StartConversation(ctx, iv1.ID, models.StatusResumeSubmitted, opening, "q2"))
	require.NoError(t, s.AdvanceConversation(ctx, iv1.ID, 1, opening, nil, models.StatusCompleted))
	require.NoError(t, s.SaveAnalysis(ctx, iv1.ID, store.Analysis{Score: 80, Summary: "s"}))

	summary, err := s.DashboardSummary(ctx, companyID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalJobs)
	assert.Equal(t, 1, summary.OpenJobs)
	assert.Equal(t, 2, summary.TotalInterviews)
	assert.Equal(t, 1, summary.InterviewsByStatus[models.StatusInvited])
	assert.Equal(t, 1, summary.InterviewsByStatus[models.StatusPendingReview])
	require.NotNil(t, summary.AverageScore)
	assert.InDelta(t, 80, *summary.AverageScore, 0.001)
}

func TestDashboardSummary_Empty(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	companyID := defaultCompanyID(t, s)

	summary, err := s.DashboardSummary(context.Background(), companyID)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalInterviews)
	assert.Nil(t, summary.AverageScore)
}

// --- Ping Test ---

func TestPing(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)

	err := s.Ping(context.Background())
	assert.NoError(t, err)
}
