package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordMismatch indicates the supplied password does not match the
// stored hash.
var ErrPasswordMismatch = errors.New("password does not match")

// Service manages the user lifecycle.
type Service struct {
	repo Repository
}

// NewService creates a new user service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a new user with a bcrypt-hashed password. The login id
// must be unused.
func (s *Service) Register(ctx context.Context, creds Credentials) (User, error) {
	switch _, err := s.repo.FindByID(ctx, creds.ID); {
	case err == nil:
		return User{}, ErrDuplicateID
	case !errors.Is(err, ErrNotFound):
		return User{}, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	user := User{
		ID:           creds.ID,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, &user); err != nil {
		return User{}, err
	}

	return user, nil
}

// Authenticate verifies the id/password pair and returns the matching user.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (User, error) {
	user, err := s.repo.FindByID(ctx, creds.ID)
	if err != nil {
		return User{}, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(creds.Password)); err != nil {
		return User{}, ErrPasswordMismatch
	}

	return user, nil
}
