// Package auth holds credential verification. The scheme is configurable so
// existing plaintext records keep working while new deployments use bcrypt.
package auth

import (
	"crypto/subtle"
	"fmt"

	"github.com/splatmarket/splatmarket/config"
	"golang.org/x/crypto/bcrypt"
)

// Verifier checks a login attempt against a stored credential and hashes new
// credentials for storage.
type Verifier interface {
	// Name identifies the scheme ("plain", "bcrypt").
	Name() string

	// Hash prepares a plaintext password for storage.
	Hash(password string) (string, error)

	// Verify reports whether password matches the stored credential.
	Verify(stored, password string) bool
}

// PlainVerifier stores passwords verbatim. It is the default because the
// original records were written that way.
type PlainVerifier struct{}

func (PlainVerifier) Name() string { return "plain" }

func (PlainVerifier) Hash(password string) (string, error) {
	return password, nil
}

func (PlainVerifier) Verify(stored, password string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}

// BcryptVerifier hashes with bcrypt at the default cost.
type BcryptVerifier struct{}

func (BcryptVerifier) Name() string { return "bcrypt" }

func (BcryptVerifier) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (BcryptVerifier) Verify(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

// FromConfig selects the verifier named by PASSWORD_SCHEME.
func FromConfig() (Verifier, error) {
	scheme := config.PasswordScheme()
	switch scheme {
	case "plain":
		return PlainVerifier{}, nil
	case "bcrypt":
		return BcryptVerifier{}, nil
	default:
		return nil, fmt.Errorf("auth: unknown PASSWORD_SCHEME %q", scheme)
	}
}
