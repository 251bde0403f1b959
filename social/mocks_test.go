package social_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/auditgrid/auth"
	"github.com/auditgrid/auth/social"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"
)

// MockProvider implements social.Provider
type MockProvider struct {
	mock.Mock
	name string
}

func newMockProvider(name string) *MockProvider {
	return &MockProvider{name: name}
}

func (m *MockProvider) Name() string { return m.name }

func (m *MockProvider) AuthCodeURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	args := m.Called(ctx, code)
	if token, ok := args.Get(0).(*oauth2.Token); ok {
		return token, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProvider) UserInfo(ctx context.Context, token *oauth2.Token) (*social.Profile, error) {
	args := m.Called(ctx, token)
	if profile, ok := args.Get(0).(*social.Profile); ok {
		return profile, args.Error(1)
	}
	return nil, args.Error(1)
}

// memStore is an in-memory social.AccountStore keyed by email
type memStore struct {
	mu        sync.Mutex
	byEmail   map[string]*auth.Account
	failRead  error
	failWrite error
	creates   int
}

var _ social.AccountStore = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{byEmail: map[string]*auth.Account{}}
}

func (s *memStore) GetByEmail(ctx context.Context, email string) (*auth.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failRead != nil {
		return nil, s.failRead
	}

	record, ok := s.byEmail[email]
	if !ok {
		return nil, repository.NewRecordNotFound()
	}

	clone := *record
	return &clone, nil
}

func (s *memStore) Create(ctx context.Context, record *auth.Account) (*auth.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creates++

	if s.failWrite != nil {
		return nil, s.failWrite
	}

	if _, exists := s.byEmail[record.Email]; exists {
		return nil, fmt.Errorf("UNIQUE constraint failed: users.email")
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	clone := *record
	s.byEmail[record.Email] = &clone

	return record, nil
}

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

func newMockConfig() *MockConfig {
	mockConfig := new(MockConfig)
	mockConfig.On("GetSigningKey").Return("test-signing-key")
	mockConfig.On("GetContextKey").Return("app_session")
	mockConfig.On("GetTokenExpiration").Return(24)
	mockConfig.On("GetIssuer").Return("test-issuer")
	mockConfig.On("GetAudience").Return([]string{"test:audience"})
	return mockConfig
}
