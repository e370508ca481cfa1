package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Interview statuses. Progression is monotonic except for the
// Analysis Failed recovery path (re-running analysis).
const (
	StatusInvited         = "Invited"
	StatusResumeSubmitted = "Resume Submitted"
	StatusInProgress      = "In Progress"
	StatusCompleted       = "Completed"
	StatusPendingReview   = "Pending Review"
	StatusReviewed        = "Reviewed"
	StatusAnalysisFailed  = "Analysis Failed"
)

// Transcript turn actors.
const (
	ActorAI        = "ai"
	ActorCandidate = "candidate"
)

// Turn is one utterance in the interview conversation. Turns are immutable;
// ordering is transcript array order, timestamps are informational only.
type Turn struct {
	Actor     string    `json:"actor"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Transcript is the ordered, append-only conversation log.
type Transcript []Turn

// AskedQuestions counts interviewer turns already shown to the candidate.
// The buffered-but-unshown question is stored outside the transcript and
// never counts.
func (t Transcript) AskedQuestions() int {
	n := 0
	for _, turn := range t {
		if turn.Actor == ActorAI {
			n++
		}
	}
	return n
}

// Render flattens the transcript into "actor: text" dialogue lines for
// prompt context.
func (t Transcript) Render() string {
	var b strings.Builder
	for i, turn := range t {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(turn.Actor)
		b.WriteString(": ")
		b.WriteString(turn.Text)
	}
	return b.String()
}

// Interview is one candidate invitation and its full lifecycle: capability
// token, conversation state, and analysis output. Status is the single
// source of truth for what is allowed; nullable fields are consequences of
// state, never drivers of it.
type Interview struct {
	ID              uuid.UUID  `db:"id"               json:"id"`
	CompanyID       uuid.UUID  `db:"company_id"       json:"company_id"`
	JobID           uuid.UUID  `db:"job_id"           json:"job_id"`
	CandidateID     *uuid.UUID `db:"candidate_id"     json:"candidate_id,omitempty"`
	InvitationToken uuid.UUID  `db:"invitation_token" json:"-"`
	Status          string     `db:"status"           json:"status"`
	Transcript      Transcript `db:"transcript"       json:"transcript"`
	// TurnCount mirrors len(Transcript) in its own column so conversation
	// advancement can compare-and-swap on it.
	TurnCount        int        `db:"turn_count"        json:"-"`
	BufferedQuestion *string    `db:"buffered_question" json:"-"`
	Scorecard        *Scorecard `db:"scorecard"         json:"scorecard,omitempty"`
	QAPairs          []QAPair   `db:"qa_pairs"          json:"qa_pairs,omitempty"`
	Score            *float64   `db:"score"             json:"score,omitempty"`
	AISummary        *string    `db:"ai_summary"        json:"ai_summary,omitempty"`
	AdminScore       *int       `db:"admin_score"       json:"admin_score,omitempty"`
	AdminFeedback    *string    `db:"admin_feedback"    json:"admin_feedback,omitempty"`
	CreatedAt        time.Time  `db:"created_at"        json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"        json:"updated_at"`
}
