package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// RegisterAccountMessage carries a local registration request. Name is
// optional; email and password are required.
type RegisterAccountMessage struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (e RegisterAccountMessage) Type() string { return "account.register" }

// RegisterAccountHandler persists new local accounts. It never issues a
// session; callers authenticate separately after registering.
type RegisterAccountHandler struct {
	repo RepositoryManager
}

func NewRegisterAccountHandler(repo RepositoryManager) *RegisterAccountHandler {
	return &RegisterAccountHandler{repo: repo}
}

func (h *RegisterAccountHandler) Execute(ctx context.Context, event RegisterAccountMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterAccountHandler) execute(ctx context.Context, event RegisterAccountMessage) error {
	if event.Email == "" || event.Password == "" {
		return ErrMissingFields
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		// Pre-check is an optimization for a clean 400; the unique
		// constraint on users.email stays the authoritative guard.
		if _, err := h.repo.Accounts().GetByEmailTx(ctx, tx, event.Email); err == nil {
			return ErrDuplicateAccount
		} else if !repository.IsRecordNotFound(err) {
			return goerrors.Wrap(err, ErrStoreRead.Category, ErrStoreRead.Message).
				WithTextCode(ErrStoreRead.TextCode)
		}

		hash, err := HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return richErr
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		account := &Account{
			Email:        event.Email,
			Name:         event.Name,
			PasswordHash: hash,
			Role:         RoleUser,
			Provider:     ProviderCredentials,
		}

		if _, err := h.repo.Accounts().CreateTx(ctx, tx, account); err != nil {
			if IsDuplicateEmail(err) {
				return ErrDuplicateAccount
			}
			return goerrors.Wrap(err, ErrStoreWrite.Category, ErrStoreWrite.Message).
				WithTextCode(ErrStoreWrite.TextCode)
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "account registration transaction failed")
	}

	return nil
}
