package models

import (
	"time"

	"github.com/google/uuid"
)

// Candidate holds the details a candidate submits along with their resume.
type Candidate struct {
	ID         uuid.UUID `db:"id"          json:"id"`
	Name       string    `db:"name"        json:"name"`
	Email      string    `db:"email"       json:"email"`
	ResumePath string    `db:"resume_path" json:"-"`
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"  json:"updated_at"`
}
