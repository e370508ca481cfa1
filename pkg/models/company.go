package models

import (
	"time"

	"github.com/google/uuid"
)

// Company represents a hiring organization. Every job, interview, and admin
// key belongs to a company; it is the tenancy boundary for all queries.
type Company struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
