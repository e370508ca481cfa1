package models

import (
	"time"

	"github.com/google/uuid"
)

// AdminKey represents an authentication key for the admin API.
// Raw keys are shown once at creation; only the bcrypt hash is stored.
type AdminKey struct {
	ID         uuid.UUID  `db:"id"           json:"id"`
	CompanyID  uuid.UUID  `db:"company_id"   json:"company_id"`
	Name       string     `db:"name"         json:"name"`
	KeyHash    string     `db:"key_hash"     json:"-"`
	KeyPrefix  string     `db:"key_prefix"   json:"key_prefix"`
	Scopes     []string   `db:"scopes"       json:"scopes"`
	LastUsedAt *time.Time `db:"last_used_at" json:"last_used_at,omitempty"`
	DeletedAt  *time.Time `db:"deleted_at"   json:"-"`
	CreatedAt  time.Time  `db:"created_at"   json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"   json:"updated_at"`
}
