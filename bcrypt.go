package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost matches the work factor the account store was seeded with.
// Changing it only affects newly stored hashes.
const BcryptCost = 10

// HashPassword will generate a password hash
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}

// dummyHash is a valid bcrypt hash of an unguessable value. VerifyIdentity
// compares against it when no account (or no stored hash) exists so the
// miss path costs the same as a real comparison.
var dummyHash = func() string {
	h, err := bcrypt.GenerateFromPassword([]byte("auditgrid.dummy.compare.subject"), BcryptCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}()

func compareDummyHash(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
}
