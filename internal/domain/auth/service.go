package auth

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Service authenticates admin users.
type Service struct {
	users  Repository
	tokens *TokenService
}

// NewService creates a Service.
func NewService(users Repository, tokens *TokenService) *Service {
	return &Service{users: users, tokens: tokens}
}

// Login checks the credentials and returns a signed token. Unknown users and
// wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", time.Time{}, ErrInvalidCredentials
		}
		return "", time.Time{}, errors.Wrap(err, "find user")
	}
	if !CheckPassword(password, u.PasswordHash) {
		return "", time.Time{}, ErrInvalidCredentials
	}
	return s.tokens.Issue(u)
}

// Tokens returns the token service used for validation by HTTP middleware.
func (s *Service) Tokens() *TokenService {
	return s.tokens
}
