package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Text codes exposed alongside structured errors so API clients can branch
// without string matching on messages.
const (
	TextCodeInvalidCreds       = "INVALID_CREDENTIALS"
	TextCodeMissingFields      = "MISSING_FIELDS"
	TextCodeDuplicateAccount   = "DUPLICATE_ACCOUNT"
	TextCodeStoreReadError     = "STORE_READ_ERROR"
	TextCodeStoreWriteError    = "STORE_WRITE_ERROR"
	TextCodeTokenExpired       = "TOKEN_EXPIRED"
	TextCodeTokenMalformed     = "TOKEN_MALFORMED"
	TextCodeSessionNotFound    = "SESSION_NOT_FOUND"
	TextCodeSessionDecodeError = "SESSION_DECODE_ERROR"
	TextCodeDataParseError     = "DATA_PARSE_ERROR"
	TextCodeEmptyPassword      = "EMPTY_PASSWORD"
)

// ErrIdentityNotFound is returned when a lookup yields no account. It never
// crosses the login boundary: callers surface ErrMismatchedHashAndPassword
// instead so responses do not reveal account existence.
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound)

// ErrMismatchedHashAndPassword is the single undifferentiated credential
// failure covering unknown email, wrong password, and password-less
// federated accounts.
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds)

// ErrMissingFields is returned when a registration payload lacks a
// required field.
var ErrMissingFields = errors.New("All fields are required", errors.CategoryValidation).
	WithTextCode(TextCodeMissingFields)

// ErrDuplicateAccount is returned when registering an email that already
// has an account.
var ErrDuplicateAccount = errors.New("User already exists", errors.CategoryConflict).
	WithTextCode(TextCodeDuplicateAccount)

// ErrStoreRead wraps lookup failures coming back from the account store.
var ErrStoreRead = errors.New("account store read failed", errors.CategoryInternal).
	WithTextCode(TextCodeStoreReadError)

// ErrStoreWrite wraps insert failures coming back from the account store.
var ErrStoreWrite = errors.New("account store write failed", errors.CategoryInternal).
	WithTextCode(TextCodeStoreWriteError)

// ErrTokenExpired is returned when a session token is past its expiry.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenMalformed is returned for tokens that fail signature or
// structural validation.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed)

// ErrUnableToFindSession is the error when a request carries no token
var ErrUnableToFindSession = errors.New("unable to find session", errors.CategoryAuth).
	WithTextCode(TextCodeSessionNotFound)

// ErrUnableToDecodeSession unable to decode JWT claims into a session
var ErrUnableToDecodeSession = errors.New("unable to decode session", errors.CategoryAuth).
	WithTextCode(TextCodeSessionDecodeError)

// ErrUnableToParseData parse error
var ErrUnableToParseData = errors.New("unable to parse data", errors.CategoryBadInput).
	WithTextCode(TextCodeDataParseError)

// ErrNoEmptyString rejects empty passwords before they reach bcrypt
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for malformed token errors
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
