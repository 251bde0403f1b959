package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Account origin tags. Informational only; authorization never branches
// on them.
const (
	ProviderCredentials = "credentials"
	ProviderGoogle      = "google"
)

// Account is the durable user record
type Account struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Name          string     `bun:"name" json:"name,omitempty"`
	PasswordHash  string     `bun:"password_hash" json:"-"`
	Role          Role       `bun:"role,notnull" json:"role,omitempty"`
	Provider      string     `bun:"provider,notnull" json:"provider,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// HasPassword reports whether the account can authenticate locally.
// Accounts created purely via federated sign-in carry no hash.
func (a *Account) HasPassword() bool {
	return a != nil && a.PasswordHash != ""
}
