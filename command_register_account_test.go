package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/auditgrid/auth"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAccountMessage(t *testing.T) {
	assert.Equal(t, "account.register", auth.RegisterAccountMessage{}.Type())
}

func TestRegisterAccountHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates a local account with defaults", func(t *testing.T) {
		repo := newMemRepoManager()
		handler := auth.NewRegisterAccountHandler(repo)

		err := handler.Execute(ctx, auth.RegisterAccountMessage{
			Name:     "Alice",
			Email:    "alice@example.com",
			Password: "password123",
		})
		require.NoError(t, err)

		account, err := repo.Accounts().GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)

		assert.Equal(t, "Alice", account.Name)
		assert.Equal(t, auth.RoleUser, account.Role)
		assert.Equal(t, auth.ProviderCredentials, account.Provider)
		assert.NotEmpty(t, account.PasswordHash)
		assert.NotEqual(t, "password123", account.PasswordHash)
		assert.NoError(t, auth.ComparePasswordAndHash("password123", account.PasswordHash))
	})

	t.Run("Name is optional", func(t *testing.T) {
		repo := newMemRepoManager()
		handler := auth.NewRegisterAccountHandler(repo)

		err := handler.Execute(ctx, auth.RegisterAccountMessage{
			Email:    "noname@example.com",
			Password: "password123",
		})
		require.NoError(t, err)

		account, err := repo.Accounts().GetByEmail(ctx, "noname@example.com")
		require.NoError(t, err)
		assert.Empty(t, account.Name)
	})

	t.Run("Missing email", func(t *testing.T) {
		repo := newMemRepoManager()
		handler := auth.NewRegisterAccountHandler(repo)

		err := handler.Execute(ctx, auth.RegisterAccountMessage{
			Password: "password123",
		})

		assert.ErrorIs(t, err, auth.ErrMissingFields)
	})

	t.Run("Missing password", func(t *testing.T) {
		repo := newMemRepoManager()
		handler := auth.NewRegisterAccountHandler(repo)

		err := handler.Execute(ctx, auth.RegisterAccountMessage{
			Email: "alice@example.com",
		})

		assert.ErrorIs(t, err, auth.ErrMissingFields)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		repo := newMemRepoManager()
		handler := auth.NewRegisterAccountHandler(repo)

		msg := auth.RegisterAccountMessage{
			Name:     "Alice",
			Email:    "alice@example.com",
			Password: "password123",
		}

		require.NoError(t, handler.Execute(ctx, msg))

		err := handler.Execute(ctx, msg)

		assert.ErrorIs(t, err, auth.ErrDuplicateAccount)

		var richErr *goerrors.Error
		require.True(t, goerrors.As(err, &richErr))
		assert.Equal(t, goerrors.CategoryConflict, richErr.Category)
	})

	t.Run("Duplicate caught by the unique constraint", func(t *testing.T) {
		// The pre-check can miss when a concurrent writer lands between
		// lookup and insert; the constraint rejection must still map to
		// the duplicate error.
		repo := newMemRepoManager()
		repo.accounts.byEmail["alice@example.com"] = &auth.Account{Email: "alice@example.com"}
		repo.accounts.missReads = true

		handler := auth.NewRegisterAccountHandler(repo)

		err := handler.Execute(ctx, auth.RegisterAccountMessage{
			Email:    "alice@example.com",
			Password: "password123",
		})

		assert.ErrorIs(t, err, auth.ErrDuplicateAccount)
	})

	t.Run("Store write failure", func(t *testing.T) {
		repo := newMemRepoManager()
		repo.accounts.failWrite = errors.New("disk full")

		handler := auth.NewRegisterAccountHandler(repo)

		err := handler.Execute(ctx, auth.RegisterAccountMessage{
			Email:    "alice@example.com",
			Password: "password123",
		})

		require.Error(t, err)

		var richErr *goerrors.Error
		require.True(t, goerrors.As(err, &richErr))
		assert.Equal(t, goerrors.CategoryInternal, richErr.Category)
		assert.Equal(t, auth.TextCodeStoreWriteError, richErr.TextCode)
	})

	t.Run("Store read failure", func(t *testing.T) {
		repo := newMemRepoManager()
		repo.accounts.failRead = errors.New("connection reset")

		handler := auth.NewRegisterAccountHandler(repo)

		err := handler.Execute(ctx, auth.RegisterAccountMessage{
			Email:    "alice@example.com",
			Password: "password123",
		})

		require.Error(t, err)

		var richErr *goerrors.Error
		require.True(t, goerrors.As(err, &richErr))
		assert.Equal(t, auth.TextCodeStoreReadError, richErr.TextCode)
	})

	t.Run("Cancelled context", func(t *testing.T) {
		repo := newMemRepoManager()
		handler := auth.NewRegisterAccountHandler(repo)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		err := handler.Execute(cancelled, auth.RegisterAccountMessage{
			Email:    "alice@example.com",
			Password: "password123",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
