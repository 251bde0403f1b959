package auth

import (
	"context"
	"strings"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Accounts is the narrow store surface the auth core needs: point lookup
// by email and insert. The email unique constraint is the authoritative
// duplicate guard; callers treat any pre-check as an optimization.
type Accounts interface {
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Account, error)
	Create(ctx context.Context, record *Account) (*Account, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Account) (*Account, error)
	GetOrCreate(ctx context.Context, record *Account) (*Account, error)
	GetOrCreateTx(ctx context.Context, tx bun.IDB, record *Account) (*Account, error)
}

type accounts struct {
	repository.Repository[*Account]
	db *bun.DB
}

var _ Accounts = (*accounts)(nil)

func NewAccountsRepository(db *bun.DB) Accounts {
	repo := repository.NewRepository[*Account](db, repository.ModelHandlers[*Account]{
		NewRecord: func() *Account { return &Account{} },
		GetID: func(a *Account) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Account, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
	})

	return &accounts{
		Repository: repo,
		db:         db,
	}
}

func (a *accounts) GetByEmail(ctx context.Context, email string) (*Account, error) {
	return a.GetByEmailTx(ctx, a.db, email)
}

func (a *accounts) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Account, error) {
	record := &Account{}

	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", email).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if isNoRows(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"email": email,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *accounts) Create(ctx context.Context, record *Account) (*Account, error) {
	return a.CreateTx(ctx, a.db, record)
}

func (a *accounts) CreateTx(ctx context.Context, tx bun.IDB, record *Account) (*Account, error) {
	prepareAccountDefaults(record)
	return a.Repository.CreateTx(ctx, tx, record)
}

func (a *accounts) GetOrCreate(ctx context.Context, record *Account) (*Account, error) {
	return a.GetOrCreateTx(ctx, a.db, record)
}

// GetOrCreateTx never mutates an existing record: a second federated
// sign-in with a new display name leaves the stored name and role intact.
func (a *accounts) GetOrCreateTx(ctx context.Context, tx bun.IDB, record *Account) (*Account, error) {
	existing, err := a.GetByEmailTx(ctx, tx, record.Email)
	if err == nil {
		return existing, nil
	}

	if !repository.IsRecordNotFound(err) {
		return nil, err
	}

	return a.CreateTx(ctx, tx, record)
}

func prepareAccountDefaults(record *Account) {
	if record == nil {
		return
	}

	if record.Role == "" {
		record.Role = DefaultRole
	}

	if record.Provider == "" {
		record.Provider = ProviderCredentials
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}

func isNoRows(err error) bool {
	if err == nil {
		return false
	}
	return repository.IsRecordNotFound(err) ||
		strings.Contains(err.Error(), "no rows in result set")
}

// IsDuplicateEmail detects a unique-constraint rejection on insert. Covers
// the sqlite driver used in tests and the postgres wording for deployments
// that point bun at pgdialect.
func IsDuplicateEmail(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed: users.email") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
