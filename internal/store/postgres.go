package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ItsMeCK/AIInterview/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Companies ---

func (s *PostgresStore) GetDefaultCompany(ctx context.Context) (*models.Company, error) {
	var c models.Company
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM companies WHERE name = 'default' LIMIT 1`,
	).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get default company: %w", err)
	}
	return &c, nil
}

func (s *PostgresStore) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var c models.Company
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM companies WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

// --- Admin Keys ---

func (s *PostgresStore) GetAdminKeyByPrefix(ctx context.Context, prefix string) ([]*models.AdminKey, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, company_id, name, key_hash, key_prefix, scopes, last_used_at, deleted_at, created_at, updated_at
		 FROM admin_keys WHERE key_prefix = $1 AND deleted_at IS NULL`, prefix)
	if err != nil {
		return nil, fmt.Errorf("get admin key by prefix: %w", err)
	}
	defer rows.Close()

	var keys []*models.AdminKey
	for rows.Next() {
		var k models.AdminKey
		if err := rows.Scan(&k.ID, &k.CompanyID, &k.Name, &k.KeyHash, &k.KeyPrefix, &k.Scopes,
			&k.LastUsedAt, &k.DeletedAt, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan admin key: %w", err)
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

func (s *PostgresStore) UpdateAdminKeyLastUsed(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE admin_keys SET last_used_at = NOW(), updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("update admin key last used: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateAdminKey(ctx context.Context, key *models.AdminKey) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO admin_keys (id, company_id, name, key_hash, key_prefix, scopes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		key.ID, key.CompanyID, key.Name, key.KeyHash, key.KeyPrefix, key.Scopes, key.CreatedAt, key.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create admin key: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListAdminKeys(ctx context.Context, companyID uuid.UUID) ([]*models.AdminKey, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, company_id, name, key_hash, key_prefix, scopes, last_used_at, deleted_at, created_at, updated_at
		 FROM admin_keys WHERE company_id = $1 AND deleted_at IS NULL ORDER BY created_at DESC`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list admin keys: %w", err)
	}
	defer rows.Close()

	var keys []*models.AdminKey
	for rows.Next() {
		var k models.AdminKey
		if err := rows.Scan(&k.ID, &k.CompanyID, &k.Name, &k.KeyHash, &k.KeyPrefix, &k.Scopes,
			&k.LastUsedAt, &k.DeletedAt, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan admin key: %w", err)
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

func (s *PostgresStore) RevokeAdminKey(ctx context.Context, id uuid.UUID, companyID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE admin_keys SET deleted_at = NOW(), updated_at = NOW()
		 WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL`, id, companyID)
	if err != nil {
		return fmt.Errorf("revoke admin key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Jobs ---

func (s *PostgresStore) CreateJob(ctx context.Context, job *models.Job) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO jobs (id, company_id, title, department, description, status, number_of_questions, must_ask_topics, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		job.ID, job.CompanyID, job.Title, job.Department, job.Description, job.Status,
		job.NumberOfQuestions, job.MustAskTopics, job.CreatedBy, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetJob(ctx context.Context, id uuid.UUID, companyID uuid.UUID) (*models.Job, error) {
	var j models.Job
	err := s.pool.QueryRow(ctx,
		`SELECT id, company_id, title, department, description, status, number_of_questions, must_ask_topics, created_by, created_at, updated_at
		 FROM jobs WHERE id = $1 AND company_id = $2`, id, companyID,
	).Scan(&j.ID, &j.CompanyID, &j.Title, &j.Department, &j.Description, &j.Status,
		&j.NumberOfQuestions, &j.MustAskTopics, &j.CreatedBy, &j.CreatedAt, &j.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return &j, nil
}

func (s *PostgresStore) ListJobs(ctx context.Context, filter JobFilter) ([]*models.Job, int, error) {
	conditions := []string{"company_id = $1"}
	args := []any{filter.CompanyID}
	argIdx := 2

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM jobs WHERE " + where
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}

	limit, offset := normalizePagination(filter.Page, filter.Limit)

	dataQuery := fmt.Sprintf(
		`SELECT id, company_id, title, department, description, status, number_of_questions, must_ask_topics, created_by, created_at, updated_at
		 FROM jobs WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := s.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		var j models.Job
		if err := rows.Scan(&j.ID, &j.CompanyID, &j.Title, &j.Department, &j.Description, &j.Status,
			&j.NumberOfQuestions, &j.MustAskTopics, &j.CreatedBy, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, &j)
	}
	return jobs, total, rows.Err()
}

func (s *PostgresStore) UpdateJob(ctx context.Context, job *models.Job) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs SET title = $3, department = $4, description = $5, status = $6,
		   number_of_questions = $7, must_ask_topics = $8, updated_at = NOW()
		 WHERE id = $1 AND company_id = $2`,
		job.ID, job.CompanyID, job.Title, job.Department, job.Description, job.Status,
		job.NumberOfQuestions, job.MustAskTopics)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteJob removes a job. Jobs with existing interviews cannot be deleted;
// the foreign key violation surfaces as ErrConflict.
func (s *PostgresStore) DeleteJob(ctx context.Context, id uuid.UUID, companyID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM jobs WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		if isForeignKeyError(err) {
			return ErrConflict
		}
		return fmt.Errorf("delete job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Candidates ---

func (s *PostgresStore) CreateCandidate(ctx context.Context, candidate *models.Candidate) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO candidates (id, name, email, resume_path, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		candidate.ID, candidate.Name, candidate.Email, candidate.ResumePath,
		candidate.CreatedAt, candidate.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create candidate: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetCandidate(ctx context.Context, id uuid.UUID) (*models.Candidate, error) {
	var c models.Candidate
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, email, resume_path, created_at, updated_at FROM candidates WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Email, &c.ResumePath, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get candidate: %w", err)
	}
	return &c, nil
}

// --- Interviews ---

const interviewColumns = `id, company_id, job_id, candidate_id, invitation_token, status,
	transcript, turn_count, buffered_question, scorecard, qa_pairs, score, ai_summary,
	admin_score, admin_feedback, created_at, updated_at`

func scanInterview(row pgx.Row) (*models.Interview, error) {
	var iv models.Interview
	err := row.Scan(&iv.ID, &iv.CompanyID, &iv.JobID, &iv.CandidateID, &iv.InvitationToken,
		&iv.Status, &iv.Transcript, &iv.TurnCount, &iv.BufferedQuestion, &iv.Scorecard,
		&iv.QAPairs, &iv.Score, &iv.AISummary, &iv.AdminScore, &iv.AdminFeedback,
		&iv.CreatedAt, &iv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &iv, nil
}

func (s *PostgresStore) CreateInterview(ctx context.Context, interview *models.Interview) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO interviews (id, company_id, job_id, invitation_token, status, transcript, turn_count, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		interview.ID, interview.CompanyID, interview.JobID, interview.InvitationToken,
		interview.Status, interview.Transcript, interview.TurnCount,
		interview.CreatedAt, interview.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create interview: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetInterview(ctx context.Context, id uuid.UUID, companyID uuid.UUID) (*models.Interview, error) {
	iv, err := scanInterview(s.pool.QueryRow(ctx,
		`SELECT `+interviewColumns+` FROM interviews WHERE id = $1 AND company_id = $2`, id, companyID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get interview: %w", err)
	}
	return iv, nil
}

// GetInterviewByID looks an interview up by id without company scoping.
// Used by the candidate-facing flow, where the invitation token already
// gated access; admin paths always use the scoped GetInterview.
func (s *PostgresStore) GetInterviewByID(ctx context.Context, id uuid.UUID) (*models.Interview, error) {
	iv, err := scanInterview(s.pool.QueryRow(ctx,
		`SELECT `+interviewColumns+` FROM interviews WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get interview by id: %w", err)
	}
	return iv, nil
}

// GetInterviewByToken looks an interview up by its invitation token. The
// token is a capability; the lookup is deliberately not company-scoped.
func (s *PostgresStore) GetInterviewByToken(ctx context.Context, token uuid.UUID) (*models.Interview, error) {
	iv, err := scanInterview(s.pool.QueryRow(ctx,
		`SELECT `+interviewColumns+` FROM interviews WHERE invitation_token = $1`, token))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get interview by token: %w", err)
	}
	return iv, nil
}

func (s *PostgresStore) ListInterviews(ctx context.Context, filter InterviewFilter) ([]*models.Interview, int, error) {
	conditions := []string{"company_id = $1"}
	args := []any{filter.CompanyID}
	argIdx := 2

	if filter.JobID != nil {
		conditions = append(conditions, fmt.Sprintf("job_id = $%d", argIdx))
		args = append(args, *filter.JobID)
		argIdx++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM interviews WHERE " + where
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count interviews: %w", err)
	}

	limit, offset := normalizePagination(filter.Page, filter.Limit)

	dataQuery := fmt.Sprintf(
		`SELECT %s FROM interviews WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		interviewColumns, where, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := s.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list interviews: %w", err)
	}
	defer rows.Close()

	var interviews []*models.Interview
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan interview: %w", err)
		}
		interviews = append(interviews, iv)
	}
	return interviews, total, rows.Err()
}

// AttachCandidate links a submitted candidate to the interview and moves it
// to Resume Submitted. The update is guarded by the status the caller
// observed; a lost race surfaces as ErrConflict.
func (s *PostgresStore) AttachCandidate(ctx context.Context, interviewID uuid.UUID, candidateID uuid.UUID, fromStatus string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE interviews SET candidate_id = $2, status = $3, updated_at = NOW()
		 WHERE id = $1 AND status = $4`,
		interviewID, candidateID, models.StatusResumeSubmitted, fromStatus)
	if err != nil {
		return fmt.Errorf("attach candidate: %w", err)
	}
	return s.guardedResult(ctx, tag, interviewID)
}

// StartConversation moves the interview to In Progress with the opening
// transcript and the buffered second question, guarded by the observed
// status.
func (s *PostgresStore) StartConversation(ctx context.Context, id uuid.UUID, fromStatus string, transcript models.Transcript, buffered string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE interviews SET status = $2, transcript = $3, turn_count = $4, buffered_question = $5, updated_at = NOW()
		 WHERE id = $1 AND status = $6`,
		id, models.StatusInProgress, transcript, len(transcript), buffered, fromStatus)
	if err != nil {
		return fmt.Errorf("start conversation: %w", err)
	}
	return s.guardedResult(ctx, tag, id)
}

// AdvanceConversation persists one answer cycle atomically: the extended
// transcript, the new buffer, and the resulting status. The compare-and-swap
// on turn_count rejects concurrent submissions against the same revision.
func (s *PostgresStore) AdvanceConversation(ctx context.Context, id uuid.UUID, expectedTurns int, transcript models.Transcript, buffered *string, status string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE interviews SET transcript = $2, turn_count = $3, buffered_question = $4, status = $5, updated_at = NOW()
		 WHERE id = $1 AND turn_count = $6 AND status = $7`,
		id, transcript, len(transcript), buffered, status, expectedTurns, models.StatusInProgress)
	if err != nil {
		return fmt.Errorf("advance conversation: %w", err)
	}
	return s.guardedResult(ctx, tag, id)
}

// SaveAnalysis records a successful analysis and moves the interview to
// Pending Review. Re-running analysis after a failure takes the same path.
func (s *PostgresStore) SaveAnalysis(ctx context.Context, id uuid.UUID, analysis Analysis) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE interviews SET status = $2, scorecard = $3, qa_pairs = $4, score = $5, ai_summary = $6, updated_at = NOW()
		 WHERE id = $1 AND status IN ($7, $8)`,
		id, models.StatusPendingReview, analysis.Scorecard, analysis.QAPairs,
		analysis.Score, analysis.Summary,
		models.StatusCompleted, models.StatusAnalysisFailed)
	if err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}
	return s.guardedResult(ctx, tag, id)
}

func (s *PostgresStore) MarkAnalysisFailed(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE interviews SET status = $2, updated_at = NOW()
		 WHERE id = $1 AND status IN ($3, $4)`,
		id, models.StatusAnalysisFailed, models.StatusCompleted, models.StatusAnalysisFailed)
	if err != nil {
		return fmt.Errorf("mark analysis failed: %w", err)
	}
	return s.guardedResult(ctx, tag, id)
}

func (s *PostgresStore) SubmitReview(ctx context.Context, id uuid.UUID, companyID uuid.UUID, adminScore int, feedback string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE interviews SET admin_score = $3, admin_feedback = $4, status = $5, updated_at = NOW()
		 WHERE id = $1 AND company_id = $2 AND status = $6`,
		id, companyID, adminScore, feedback, models.StatusReviewed, models.StatusPendingReview)
	if err != nil {
		return fmt.Errorf("submit review: %w", err)
	}
	return s.guardedResult(ctx, tag, id)
}

// guardedResult classifies a zero-row guarded update: missing row is
// ErrNotFound, an existing row whose guard no longer matched is ErrConflict.
func (s *PostgresStore) guardedResult(ctx context.Context, tag pgconn.CommandTag, id uuid.UUID) error {
	if tag.RowsAffected() > 0 {
		return nil
	}
	var exists bool
	if err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM interviews WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check interview existence: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return ErrConflict
}

// --- Dashboard ---

func (s *PostgresStore) DashboardSummary(ctx context.Context, companyID uuid.UUID) (*models.DashboardSummary, error) {
	summary := &models.DashboardSummary{InterviewsByStatus: map[string]int{}}

	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE status = $2) FROM jobs WHERE company_id = $1`,
		companyID, models.JobStatusOpen,
	).Scan(&summary.TotalJobs, &summary.OpenJobs)
	if err != nil {
		return nil, fmt.Errorf("count jobs: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM interviews WHERE company_id = $1 GROUP BY status`, companyID)
	if err != nil {
		return nil, fmt.Errorf("count interviews by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan interview count: %w", err)
		}
		summary.InterviewsByStatus[status] = count
		summary.TotalInterviews += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = s.pool.QueryRow(ctx,
		`SELECT AVG(score) FROM interviews WHERE company_id = $1 AND score IS NOT NULL`, companyID,
	).Scan(&summary.AverageScore)
	if err != nil {
		return nil, fmt.Errorf("average score: %w", err)
	}

	return summary, nil
}

func normalizePagination(page, limit int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if page <= 0 {
		page = 1
	}
	return limit, (page - 1) * limit
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

func isForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503" // foreign_key_violation
	}
	return false
}
