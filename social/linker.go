package social

import (
	"context"

	"github.com/auditgrid/auth"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// AccountStore is the store surface the linker needs
type AccountStore interface {
	GetByEmail(ctx context.Context, email string) (*auth.Account, error)
	Create(ctx context.Context, record *auth.Account) (*auth.Account, error)
}

// Linker ensures a local account exists for a verified federated identity
// assertion. First sign-in creates the record; later sign-ins never mutate
// it: no re-linking, no role change, no display-name refresh.
type Linker struct {
	store       AccountStore
	defaultRole auth.Role
	logger      auth.Logger
}

type LinkerOption func(*Linker)

func NewLinker(store AccountStore, opts ...LinkerOption) *Linker {
	l := &Linker{
		store:       store,
		defaultRole: auth.DefaultFederatedRole,
		logger:      nil,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}

	return l
}

// WithDefaultRole overrides the role assigned on first federated sign-in.
func WithDefaultRole(role auth.Role) LinkerOption {
	return func(l *Linker) {
		if auth.IsValidRole(role) {
			l.defaultRole = role
		}
	}
}

func WithLogger(logger auth.Logger) LinkerOption {
	return func(l *Linker) {
		l.logger = logger
	}
}

// EnsureAccount resolves the local account for a profile, creating one with
// the default federated role and no password hash when absent. A store
// write failure denies the overall sign-in.
func (l *Linker) EnsureAccount(ctx context.Context, profile *Profile) (*auth.Account, error) {
	if profile == nil || profile.Email == "" {
		return nil, ErrUserInfoFailed
	}

	existing, err := l.store.GetByEmail(ctx, profile.Email)
	if err == nil {
		return existing, nil
	}

	if !repository.IsRecordNotFound(err) {
		return nil, goerrors.Wrap(err, auth.ErrStoreRead.Category, auth.ErrStoreRead.Message).
			WithTextCode(auth.ErrStoreRead.TextCode)
	}

	created, err := l.store.Create(ctx, &auth.Account{
		Email:    profile.Email,
		Name:     profile.Name,
		Role:     l.defaultRole,
		Provider: profile.Provider,
	})
	if err != nil {
		// Two concurrent first sign-ins can race past the lookup; the
		// unique constraint rejects the loser, whose account now exists.
		if auth.IsDuplicateEmail(err) {
			return l.store.GetByEmail(ctx, profile.Email)
		}
		return nil, goerrors.Wrap(err, auth.ErrStoreWrite.Category, auth.ErrStoreWrite.Message).
			WithTextCode(auth.ErrStoreWrite.TextCode)
	}

	return created, nil
}
