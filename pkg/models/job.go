package models

import (
	"time"

	"github.com/google/uuid"
)

// Job statuses.
const (
	JobStatusOpen   = "Open"
	JobStatusClosed = "Closed"
)

// Job is an open position candidates are screened for. Its description,
// question quota, and must-ask topics parameterize the interview engine.
type Job struct {
	ID                uuid.UUID `db:"id"                  json:"id"`
	CompanyID         uuid.UUID `db:"company_id"          json:"company_id"`
	Title             string    `db:"title"               json:"title"`
	Department        string    `db:"department"          json:"department"`
	Description       string    `db:"description"         json:"description"`
	Status            string    `db:"status"              json:"status"`
	NumberOfQuestions int       `db:"number_of_questions" json:"number_of_questions"`
	MustAskTopics     string    `db:"must_ask_topics"     json:"must_ask_topics"`
	CreatedBy         string    `db:"created_by"          json:"created_by"`
	CreatedAt         time.Time `db:"created_at"          json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"          json:"updated_at"`
}
