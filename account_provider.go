package auth

import (
	"context"

	"github.com/goliatone/go-errors"
)

// AccountFinder is the store surface the provider needs
type AccountFinder interface {
	GetByEmail(ctx context.Context, email string) (*Account, error)
}

// AccountProvider resolves identities from the account store
type AccountProvider struct {
	store     AccountFinder
	Validator func(*Account) error
	logger    Logger
}

// NewAccountProvider will create a new AccountProvider
func NewAccountProvider(store AccountFinder) *AccountProvider {
	return &AccountProvider{
		store:     store,
		logger:    defLogger{},
		Validator: defaultValidator,
	}
}

func (p *AccountProvider) WithLogger(l Logger) *AccountProvider {
	p.logger = l
	return p
}

func (p *AccountProvider) validate(account *Account) error {
	if p.Validator != nil {
		return p.Validator(account)
	}
	return defaultValidator(account)
}

// VerifyIdentity will find the account by email, compare the password, and
// return the identity. Unknown email, federated-only account, and wrong
// password all collapse into ErrMismatchedHashAndPassword, and the miss
// paths still burn a bcrypt comparison so timing does not reveal whether
// the account exists.
func (p AccountProvider) VerifyIdentity(ctx context.Context, email, password string) (Identity, error) {
	account, err := p.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			compareDummyHash(password)
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve account during verification")
	}

	if !account.HasPassword() {
		compareDummyHash(password)
		return nil, ErrMismatchedHashAndPassword
	}

	if err := ComparePasswordAndHash(password, account.PasswordHash); err != nil {
		return nil, ErrMismatchedHashAndPassword
	}

	if err := p.validate(account); err != nil {
		return nil, err
	}

	return identityFromAccount(account), nil
}

func (p AccountProvider) FindIdentityByEmail(ctx context.Context, email string) (Identity, error) {
	account, err := p.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}

	if err := p.validate(account); err != nil {
		return nil, err
	}

	return identityFromAccount(account), nil
}

type accountIdentity struct {
	id    string
	email string
	name  string
	role  string
}

func (a accountIdentity) ID() string    { return a.id }
func (a accountIdentity) Email() string { return a.email }
func (a accountIdentity) Name() string  { return a.name }
func (a accountIdentity) Role() string  { return a.role }

var _ Identity = accountIdentity{}

// IdentityFromAccount adapts a stored account into the minimal attribute
// set used to mint a session.
func IdentityFromAccount(account *Account) Identity {
	return identityFromAccount(account)
}

func identityFromAccount(account *Account) accountIdentity {
	return accountIdentity{
		id:    account.ID.String(),
		email: account.Email,
		name:  account.Name,
		role:  string(account.Role),
	}
}

func defaultValidator(a *Account) error {
	if a == nil {
		return ErrIdentityNotFound
	}

	if !IsValidRole(a.Role) {
		return errors.New("account has an unknown or invalid role", errors.CategoryAuth).
			WithTextCode("INVALID_ROLE").
			WithMetadata(map[string]any{"role": a.Role, "account_id": a.ID.String()})
	}

	return nil
}
