// Package services implements the marketplace use cases on top of the
// repositories, translating storage errors into a small sentinel taxonomy
// that controllers map onto HTTP statuses.
package services

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound signals a lookup that resolved nothing.
	ErrNotFound = errors.New("record not found")

	// ErrConflict signals a uniqueness violation (duplicate email).
	ErrConflict = errors.New("record already exists")

	// ErrUnauthorized signals a failed credential check. It carries no
	// detail so missing-user and wrong-password are indistinguishable.
	ErrUnauthorized = errors.New("invalid credentials")

	// ErrUnavailable signals an upstream failure (blob store, render
	// cluster). Detail is logged, never returned.
	ErrUnavailable = errors.New("upstream unavailable")
)

// notFound maps gorm's sentinel onto ours, passing other errors through.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
