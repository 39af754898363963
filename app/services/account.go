package services

import (
	"errors"
	"strings"

	"github.com/splatmarket/splatmarket/app/models"
	"github.com/splatmarket/splatmarket/app/repositories"
	"github.com/splatmarket/splatmarket/pkg/auth"
	"github.com/splatmarket/splatmarket/pkg/orm"
	"gorm.io/gorm"
)

type AccountService struct {
	users    *repositories.UserRepository
	verifier auth.Verifier
}

func NewAccountService(users *repositories.UserRepository, verifier auth.Verifier) *AccountService {
	return &AccountService{users: users, verifier: verifier}
}

// Join registers a new account. A taken email returns ErrConflict. The
// lookup-then-insert pair is racy under concurrency; the unique index on
// email is the real guard, and its violation also maps to ErrConflict.
func (s *AccountService) Join(email, password string) (*models.User, error) {
	if _, err := s.users.FindByEmail(email); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := s.verifier.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Email: email, Password: hashed}
	if err := s.users.Create(user); err != nil {
		if isDuplicate(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return user, nil
}

// Login checks credentials. Missing user and wrong password both return
// ErrUnauthorized.
func (s *AccountService) Login(email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	if !s.verifier.Verify(user.Password, password) {
		return nil, ErrUnauthorized
	}
	return user, nil
}

func (s *AccountService) List(p orm.Pagination) ([]models.User, error) {
	return s.users.List(p)
}

// isDuplicate sniffs driver-specific unique violation messages. gorm does
// not normalise them across its dialects.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range []string{"UNIQUE constraint failed", "duplicate key", "Duplicate entry"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
