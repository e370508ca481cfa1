package interview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ItsMeCK/AIInterview/internal/cache"
	"github.com/ItsMeCK/AIInterview/internal/notifier"
	"github.com/ItsMeCK/AIInterview/internal/resume"
	"github.com/ItsMeCK/AIInterview/internal/store"
	"github.com/ItsMeCK/AIInterview/pkg/models"
)

const (
	analysisStatusTTL   = 30 * time.Minute
	conversationLockTTL = 30 * time.Second

	// closingStatement is the deterministic sign-off used when the
	// question quota forces completion.
	closingStatement = "That covers everything I wanted to ask. Thank you for taking the time to speak with me today. The team will review your responses and follow up with next steps."
)

// Analysis pipeline statuses surfaced through the cache.
const (
	AnalysisRunning   = "running"
	AnalysisCompleted = "completed"
	AnalysisFailed    = "failed"
)

// ErrJobClosed is returned when inviting a candidate to a job that is not
// open.
var ErrJobClosed = errors.New("job is not open for interviews")

// ErrLinkExpired is returned when an invitation token points at an
// interview that has already finished.
var ErrLinkExpired = errors.New("invitation link is no longer active")

// Service orchestrates the interview lifecycle: invitations, candidate
// onboarding, the live conversation, and post-interview analysis.
type Service struct {
	store     store.Store
	cache     cache.Cache
	engine    *Engine
	analyzer  *Analyzer
	extractor *resume.Extractor
	sender    notifier.Sender
	baseURL   string
}

// NewService wires the interview service.
func NewService(st store.Store, ca cache.Cache, engine *Engine, analyzer *Analyzer, extractor *resume.Extractor, sender notifier.Sender, baseURL string) *Service {
	return &Service{
		store:     st,
		cache:     ca,
		engine:    engine,
		analyzer:  analyzer,
		extractor: extractor,
		sender:    sender,
		baseURL:   baseURL,
	}
}

// InviteCandidate creates an interview in the Invited state for an open job
// and sends the invitation link to the candidate. Email delivery is best
// effort; the link is always returned to the caller.
func (s *Service) InviteCandidate(ctx context.Context, companyID, jobID uuid.UUID, email string) (*models.Interview, string, error) {
	job, err := s.store.GetJob(ctx, jobID, companyID)
	if err != nil {
		return nil, "", err
	}
	if job.Status != models.JobStatusOpen {
		return nil, "", ErrJobClosed
	}

	now := time.Now().UTC()
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
	if err := s.store.CreateInterview(ctx, iv); err != nil {
		return nil, "", fmt.Errorf("creating interview: %w", err)
	}

	companyName := ""
	if company, err := s.store.GetCompany(ctx, companyID); err == nil {
		companyName = company.Name
	}

	link := fmt.Sprintf("%s/interview/%s", s.baseURL, iv.InvitationToken)
	if err := s.sender.SendInvitation(ctx, notifier.Invitation{
		To:       email,
		JobTitle: job.Title,
		Company:  companyName,
		Link:     link,
	}); err != nil {
		slog.Warn("failed to send invitation email",
			"interview_id", iv.ID, "to", email, "error", err)
	}

	return iv, link, nil
}

// Initiation is what the candidate landing page needs to render.
type Initiation struct {
	Interview *models.Interview
	Job       *models.Job
	Company   string
}

// Initiate resolves an invitation token to its interview, job, and company.
// Finished interviews reject the link.
func (s *Service) Initiate(ctx context.Context, token uuid.UUID) (*Initiation, error) {
	iv, err := s.store.GetInterviewByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !TokenAccessible(iv.Status) {
		return nil, ErrLinkExpired
	}
	job, err := s.store.GetJob(ctx, iv.JobID, iv.CompanyID)
	if err != nil {
		return nil, err
	}
	company, err := s.store.GetCompany(ctx, iv.CompanyID)
	if err != nil {
		return nil, err
	}
	return &Initiation{Interview: iv, Job: job, Company: company.Name}, nil
}

// SubmitDetails stores the candidate's details and resume and moves the
// interview to Resume Submitted.
func (s *Service) SubmitDetails(ctx context.Context, interviewID uuid.UUID, name, email string, file io.Reader, filename string, size int64) (*models.Interview, error) {
	iv, err := s.store.GetInterviewByID(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if !TokenAccessible(iv.Status) {
		return nil, ErrLinkExpired
	}
	if err := Transition(iv.Status, models.StatusResumeSubmitted); err != nil {
		return nil, err
	}
	if err := resume.ValidateUpload(filename, size); err != nil {
		return nil, err
	}

	path, err := s.extractor.Save(file, filename)
	if err != nil {
		return nil, err
	}
	// Advisory only: a resume that fails the keyword scan is still
	// accepted, but flagged for the admin reviewing later.
	if text := s.extractor.Summarize(path); !resume.PlausiblyResume(text) {
		slog.Warn("uploaded file does not scan like a resume",
			"interview_id", iv.ID, "filename", filename)
	}

	now := time.Now().UTC()
	candidate := &models.Candidate{
		ID:         uuid.New(),
		Name:       name,
		Email:      email,
		ResumePath: path,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.CreateCandidate(ctx, candidate); err != nil {
		return nil, err
	}
	if err := s.store.AttachCandidate(ctx, iv.ID, candidate.ID, iv.Status); err != nil {
		return nil, err
	}
	return s.store.GetInterviewByID(ctx, interviewID)
}

// Start opens the conversation: one prime call yields the opening question
// and the buffered follow-up, and the interview moves to In Progress.
// Calling Start on an interview that is already In Progress re-serves the
// last question so a refreshed page can resume.
func (s *Service) Start(ctx context.Context, interviewID uuid.UUID) (*models.Interview, string, error) {
	iv, err := s.store.GetInterviewByID(ctx, interviewID)
	if err != nil {
		return nil, "", err
	}
	if !TokenAccessible(iv.Status) {
		return nil, "", ErrLinkExpired
	}
	if iv.Status == models.StatusInProgress {
		return iv, lastInterviewerText(iv.Transcript), nil
	}
	if err := Transition(iv.Status, models.StatusInProgress); err != nil {
		return nil, "", err
	}

	jc, _, err := s.jobContext(ctx, iv)
	if err != nil {
		return nil, "", err
	}

	opening, err := s.engine.Prime(ctx, jc)
	if err != nil {
		return nil, "", err
	}

	transcript := models.Transcript{{
		Actor:     models.ActorAI,
		Text:      opening.First,
		Timestamp: time.Now().UTC(),
	}}
	if err := s.store.StartConversation(ctx, iv.ID, iv.Status, transcript, opening.Buffered); err != nil {
		return nil, "", err
	}

	iv, err = s.store.GetInterviewByID(ctx, interviewID)
	if err != nil {
		return nil, "", err
	}
	return iv, opening.First, nil
}

// Answer runs one conversation cycle: record the candidate's answer, reveal
// the buffered question immediately, and regenerate the buffer in the same
// request. Nothing is persisted until generation succeeds, so a failed
// cycle can simply be retried. Concurrent submissions against the same
// transcript revision lose the compare-and-swap and surface as
// store.ErrConflict.
func (s *Service) Answer(ctx context.Context, interviewID uuid.UUID, answer string) (string, bool, error) {
	iv, err := s.store.GetInterviewByID(ctx, interviewID)
	if err != nil {
		return "", false, err
	}
	if iv.Status != models.StatusInProgress {
		if Finished(iv.Status) {
			return "", false, ErrLinkExpired
		}
		return "", false, fmt.Errorf("%w: %s", ErrWrongState, iv.Status)
	}

	locked, err := s.cache.AcquireLock(ctx, cache.InterviewLockKey(iv.ID), conversationLockTTL)
	if err != nil {
		slog.Warn("conversation lock unavailable, relying on turn CAS",
			"interview_id", iv.ID, "error", err)
	} else if !locked {
		return "", false, store.ErrConflict
	} else {
		defer func() {
			_ = s.cache.ReleaseLock(context.WithoutCancel(ctx), cache.InterviewLockKey(iv.ID))
		}()
	}

	jc, _, err := s.jobContext(ctx, iv)
	if err != nil {
		return "", false, err
	}

	now := time.Now().UTC()
	answered := append(iv.Transcript, models.Turn{
		Actor:     models.ActorCandidate,
		Text:      answer,
		Timestamp: now,
	})

	// Quota hard stop: the last allowed question has been answered, so the
	// buffer is discarded unseen and a deterministic closing is issued.
	if QuotaReached(jc, answered) {
		final := append(answered, models.Turn{
			Actor:     models.ActorAI,
			Text:      closingStatement,
			Timestamp: now,
		})
		if err := s.store.AdvanceConversation(ctx, iv.ID, iv.TurnCount, final, nil, models.StatusCompleted); err != nil {
			return "", false, err
		}
		s.triggerAnalysis(iv.ID, iv.CompanyID)
		return closingStatement, true, nil
	}

	buffered := fallbackBufferedQuestion
	if iv.BufferedQuestion != nil {
		buffered = *iv.BufferedQuestion
	}
	revealed := append(answered, models.Turn{
		Actor:     models.ActorAI,
		Text:      buffered,
		Timestamp: now,
	})

	next, done, err := s.engine.NextQuestion(ctx, jc, revealed)
	if err != nil {
		return "", false, err
	}

	if done {
		// The model concluded instead of producing a follow-up: the
		// just-revealed question is withdrawn and replaced with the
		// closing statement.
		final := append(answered, models.Turn{
			Actor:     models.ActorAI,
			Text:      next,
			Timestamp: now,
		})
		if err := s.store.AdvanceConversation(ctx, iv.ID, iv.TurnCount, final, nil, models.StatusCompleted); err != nil {
			return "", false, err
		}
		s.triggerAnalysis(iv.ID, iv.CompanyID)
		return next, true, nil
	}

	if err := s.store.AdvanceConversation(ctx, iv.ID, iv.TurnCount, revealed, &next, models.StatusInProgress); err != nil {
		return "", false, err
	}
	return buffered, false, nil
}

// End finishes the interview early at the candidate's request. Ending an
// already finished interview is a no-op.
func (s *Service) End(ctx context.Context, interviewID uuid.UUID) (*models.Interview, error) {
	iv, err := s.store.GetInterviewByID(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if Finished(iv.Status) {
		return iv, nil
	}
	if err := Transition(iv.Status, models.StatusCompleted); err != nil {
		return nil, err
	}
	if err := s.store.AdvanceConversation(ctx, iv.ID, iv.TurnCount, iv.Transcript, nil, models.StatusCompleted); err != nil {
		return nil, err
	}
	s.triggerAnalysis(iv.ID, iv.CompanyID)
	return s.store.GetInterviewByID(ctx, interviewID)
}

// Reanalyze re-runs the analysis pipeline for a completed or failed
// interview.
func (s *Service) Reanalyze(ctx context.Context, companyID, interviewID uuid.UUID) error {
	iv, err := s.store.GetInterview(ctx, interviewID, companyID)
	if err != nil {
		return err
	}
	switch iv.Status {
	case models.StatusCompleted, models.StatusAnalysisFailed:
	default:
		return fmt.Errorf("%w: %s", ErrWrongState, iv.Status)
	}
	s.triggerAnalysis(interviewID, companyID)
	return nil
}

// AnalysisStatus reports the pipeline state for an interview, preferring
// the cache and falling back to the persisted status.
func (s *Service) AnalysisStatus(ctx context.Context, companyID, interviewID uuid.UUID) (string, error) {
	if status, ok, err := s.cache.GetAnalysisStatus(ctx, interviewID); err == nil && ok {
		return status, nil
	}
	iv, err := s.store.GetInterview(ctx, interviewID, companyID)
	if err != nil {
		return "", err
	}
	switch iv.Status {
	case models.StatusPendingReview, models.StatusReviewed:
		return AnalysisCompleted, nil
	case models.StatusAnalysisFailed:
		return AnalysisFailed, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrWrongState, iv.Status)
	}
}

// Review records the admin's final score and feedback, moving the
// interview to Reviewed.
func (s *Service) Review(ctx context.Context, companyID, interviewID uuid.UUID, adminScore int, feedback string) (*models.Interview, error) {
	iv, err := s.store.GetInterview(ctx, interviewID, companyID)
	if err != nil {
		return nil, err
	}
	if err := Transition(iv.Status, models.StatusReviewed); err != nil {
		return nil, err
	}
	if err := s.store.SubmitReview(ctx, interviewID, companyID, adminScore, feedback); err != nil {
		return nil, err
	}
	return s.store.GetInterview(ctx, interviewID, companyID)
}

// triggerAnalysis dispatches the analysis pipeline in the background. The
// HTTP request that caused it returns immediately.
func (s *Service) triggerAnalysis(interviewID, companyID uuid.UUID) {
	go s.runAnalysis(interviewID, companyID)
}

// runAnalysis performs the post-interview analysis in a goroutine. It
// recovers from panics and always leaves the interview in Pending Review or
// Analysis Failed.
func (s *Service) runAnalysis(interviewID, companyID uuid.UUID) {
	ctx := context.Background()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in runAnalysis", "error", r, "interview_id", interviewID)
			_ = s.store.MarkAnalysisFailed(ctx, interviewID)
			_ = s.cache.SetAnalysisStatus(ctx, interviewID, AnalysisFailed, analysisStatusTTL)
		}
	}()

	_ = s.cache.SetAnalysisStatus(ctx, interviewID, AnalysisRunning, analysisStatusTTL)

	iv, err := s.store.GetInterview(ctx, interviewID, companyID)
	if err != nil {
		slog.Error("loading interview for analysis", "interview_id", interviewID, "error", err)
		_ = s.cache.SetAnalysisStatus(ctx, interviewID, AnalysisFailed, analysisStatusTTL)
		return
	}

	jc, job, err := s.jobContext(ctx, iv)
	if err != nil {
		slog.Error("loading analysis context", "interview_id", interviewID, "error", err)
		s.failAnalysis(ctx, interviewID)
		return
	}

	result, err := s.analyzer.Analyze(ctx, AnalysisInput{
		JobDescription: job.Description,
		ResumeSummary:  jc.ResumeSummary,
		Transcript:     iv.Transcript,
	})
	if err != nil {
		slog.Error("interview analysis failed", "interview_id", interviewID, "error", err)
		s.failAnalysis(ctx, interviewID)
		return
	}

	if err := s.store.SaveAnalysis(ctx, interviewID, store.Analysis{
		Scorecard: result.Scorecard,
		QAPairs:   result.QAPairs,
		Score:     result.OverallScore,
		Summary:   result.Summary,
	}); err != nil {
		slog.Error("saving analysis", "interview_id", interviewID, "error", err)
		s.failAnalysis(ctx, interviewID)
		return
	}

	_ = s.cache.SetAnalysisStatus(ctx, interviewID, AnalysisCompleted, analysisStatusTTL)
	slog.Info("interview analysis completed",
		"interview_id", interviewID, "score", result.OverallScore)
}

func (s *Service) failAnalysis(ctx context.Context, interviewID uuid.UUID) {
	if err := s.store.MarkAnalysisFailed(ctx, interviewID); err != nil {
		slog.Error("marking analysis failed", "interview_id", interviewID, "error", err)
	}
	_ = s.cache.SetAnalysisStatus(ctx, interviewID, AnalysisFailed, analysisStatusTTL)
}

// jobContext assembles the generation context for an interview with an
// attached candidate.
func (s *Service) jobContext(ctx context.Context, iv *models.Interview) (JobContext, *models.Job, error) {
	job, err := s.store.GetJob(ctx, iv.JobID, iv.CompanyID)
	if err != nil {
		return JobContext{}, nil, err
	}
	if iv.CandidateID == nil {
		return JobContext{}, nil, fmt.Errorf("%w: no candidate attached", ErrWrongState)
	}
	candidate, err := s.store.GetCandidate(ctx, *iv.CandidateID)
	if err != nil {
		return JobContext{}, nil, err
	}
	return JobContext{
		JobDescription: job.Description,
		QuestionLimit:  job.NumberOfQuestions,
		MustAskTopics:  job.MustAskTopics,
		CandidateName:  candidate.Name,
		ResumeSummary:  s.extractor.Summarize(candidate.ResumePath),
	}, job, nil
}

func lastInterviewerText(t models.Transcript) string {
	for i := len(t) - 1; i >= 0; i-- {
		if t[i].Actor == models.ActorAI {
			return t[i].Text
		}
	}
	return ""
}
