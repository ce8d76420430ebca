package auth

import (
	"context"
	"time"

	"github.com/treadbook/treadbook/internal/config"
	"github.com/treadbook/treadbook/internal/users"
)

// Service validates credentials and issues access tokens.
type Service struct {
	cfg   config.Config
	users *users.Service
}

// NewService builds an auth service on top of the user service.
func NewService(cfg config.Config, userService *users.Service) *Service {
	return &Service{cfg: cfg, users: userService}
}

// Token is the credential pair returned on a successful login.
type Token struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Login verifies the id/password pair and signs an access token for the user.
func (s *Service) Login(ctx context.Context, creds users.Credentials) (Token, error) {
	user, err := s.users.Authenticate(ctx, creds)
	if err != nil {
		return Token{}, err
	}

	signed, err := IssueToken(user, []byte(s.cfg.JWTSecret), s.cfg.AccessTokenTTL)
	if err != nil {
		return Token{}, err
	}

	return Token{AccessToken: signed, ExpiresIn: int64(s.cfg.AccessTokenTTL / time.Second)}, nil
}
