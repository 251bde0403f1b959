package auth_test

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/auditgrid/auth"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

// MockConfig implements auth.Config
type MockConfig struct {
	mock.Mock
}

func (m *MockConfig) GetSigningKey() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetContextKey() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetTokenExpiration() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockConfig) GetIssuer() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetAudience() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

// MockIdentityProvider implements auth.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, email, password string) (auth.Identity, error) {
	args := m.Called(ctx, email, password)
	if identity, ok := args.Get(0).(auth.Identity); ok {
		return identity, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByEmail(ctx context.Context, email string) (auth.Identity, error) {
	args := m.Called(ctx, email)
	if identity, ok := args.Get(0).(auth.Identity); ok {
		return identity, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockAccountFinder implements auth.AccountFinder
type MockAccountFinder struct {
	mock.Mock
}

func (m *MockAccountFinder) GetByEmail(ctx context.Context, email string) (*auth.Account, error) {
	args := m.Called(ctx, email)
	if account, ok := args.Get(0).(*auth.Account); ok {
		return account, args.Error(1)
	}
	return nil, args.Error(1)
}

// memAccounts is an in-memory auth.Accounts backed by a map keyed on
// email. Duplicate inserts fail with the sqlite unique-constraint wording
// so the same detection path runs in tests as against the real driver.
type memAccounts struct {
	mu        sync.Mutex
	byEmail   map[string]*auth.Account
	failRead  error
	failWrite error

	// missReads forces every lookup to report not found while inserts
	// still collide, mimicking a lost race against a concurrent writer.
	missReads bool
}

var _ auth.Accounts = (*memAccounts)(nil)

func newMemAccounts() *memAccounts {
	return &memAccounts{byEmail: map[string]*auth.Account{}}
}

func (s *memAccounts) GetByEmail(ctx context.Context, email string) (*auth.Account, error) {
	return s.GetByEmailTx(ctx, nil, email)
}

func (s *memAccounts) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*auth.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failRead != nil {
		return nil, s.failRead
	}

	if s.missReads {
		return nil, repository.NewRecordNotFound()
	}

	record, ok := s.byEmail[email]
	if !ok {
		return nil, repository.NewRecordNotFound()
	}

	clone := *record
	return &clone, nil
}

func (s *memAccounts) Create(ctx context.Context, record *auth.Account) (*auth.Account, error) {
	return s.CreateTx(ctx, nil, record)
}

func (s *memAccounts) CreateTx(ctx context.Context, tx bun.IDB, record *auth.Account) (*auth.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWrite != nil {
		return nil, s.failWrite
	}

	if _, exists := s.byEmail[record.Email]; exists {
		return nil, fmt.Errorf("UNIQUE constraint failed: users.email")
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Role == "" {
		record.Role = auth.DefaultRole
	}
	if record.Provider == "" {
		record.Provider = auth.ProviderCredentials
	}

	clone := *record
	s.byEmail[record.Email] = &clone

	return record, nil
}

func (s *memAccounts) GetOrCreate(ctx context.Context, record *auth.Account) (*auth.Account, error) {
	return s.GetOrCreateTx(ctx, nil, record)
}

func (s *memAccounts) GetOrCreateTx(ctx context.Context, tx bun.IDB, record *auth.Account) (*auth.Account, error) {
	if existing, err := s.GetByEmailTx(ctx, tx, record.Email); err == nil {
		return existing, nil
	} else if !repository.IsRecordNotFound(err) {
		return nil, err
	}
	return s.CreateTx(ctx, tx, record)
}

// memRepoManager implements auth.RepositoryManager over memAccounts. The
// callback receives a zero bun.Tx because the in-memory store ignores it.
type memRepoManager struct {
	accounts *memAccounts
}

var _ auth.RepositoryManager = (*memRepoManager)(nil)

func newMemRepoManager() *memRepoManager {
	return &memRepoManager{accounts: newMemAccounts()}
}

func (m *memRepoManager) Accounts() auth.Accounts { return m.accounts }

func (m *memRepoManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return f(ctx, bun.Tx{})
	}
}

func (m *memRepoManager) Validate() error { return nil }
func (m *memRepoManager) MustValidate()   {}

func newMockConfig() *MockConfig {
	mockConfig := new(MockConfig)
	mockConfig.On("GetSigningKey").Return("test-signing-key")
	mockConfig.On("GetContextKey").Return("app_session")
	mockConfig.On("GetTokenExpiration").Return(24)
	mockConfig.On("GetIssuer").Return("test-issuer")
	mockConfig.On("GetAudience").Return([]string{"test:audience"})
	return mockConfig
}
