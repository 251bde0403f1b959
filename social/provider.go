// Package social implements the federated sign-in path: provider redirect
// flows, CSRF state handling, and the identity linker that lazily creates
// local accounts for verified external assertions. Credential verification
// happens at the provider; this package never sees federated passwords.
package social

import (
	"context"

	"golang.org/x/oauth2"
)

// Provider is a federated identity provider in the OAuth2 redirect flow.
type Provider interface {
	// Name returns the provider identifier (e.g., "google").
	Name() string

	// AuthCodeURL returns the URL to redirect users for authorization.
	// The state parameter is included for CSRF protection.
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for an access token.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)

	// UserInfo fetches the verified identity assertion behind the token.
	UserInfo(ctx context.Context, token *oauth2.Token) (*Profile, error)
}

// Profile is the verified external identity assertion: the provider has
// already authenticated this subject, we only link or create a local
// account for it.
type Profile struct {
	Provider      string
	Email         string
	EmailVerified bool
	Name          string
	Raw           map[string]any
}
