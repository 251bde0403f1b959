// Package auth is the credential-and-session authority behind the AuditGrid
// dashboard. It decides who may authenticate, which identity claims are
// issued, and how those claims travel inside a signed session token.
//
// The package is organized around four collaborators:
//
//   - AccountProvider verifies email/password pairs against the account
//     store and yields an Identity, or a single undifferentiated
//     invalid-credentials failure.
//   - social.Linker (see the social subpackage) ensures a local account
//     exists for a verified federated identity assertion, creating one
//     lazily with the default auditor role.
//   - TokenService mints and validates HS256 session tokens carrying the
//     account id, email, display name, and role.
//   - RegisterAccountHandler validates and persists new local accounts,
//     hashing passwords before storage.
//
// Sessions are stateless: claims are copied from the account record at
// authentication time and trusted until the token expires. Nothing here
// re-validates claims against the store per request.
package auth
