package users

import (
	"context"
	"errors"
	"time"

	"github.com/pocketorg/organizer/internal/server/auth"
	"github.com/pocketorg/organizer/internal/server/config"
	"github.com/pocketorg/organizer/internal/shared"
)

const (
	minLoginLength    = 3
	minPasswordLength = 8
)

// Service handles registration and login, issuing a signed token on
// success.
type Service struct {
	repo                  Repository
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

func NewService(repo Repository, cfg *config.Config) *Service {
	return &Service{
		repo:                  repo,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register creates an account and returns a token for the new user.
func (s *Service) Register(ctx context.Context, login, password string) (string, error) {

	if len(login) < minLoginLength {
		return "", shared.ErrorInvalidLoginFormat
	}
	if len(password) < minPasswordLength {
		return "", shared.ErrorInvalidPasswordFormat
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", shared.ErrorInternal
	}

	user, err := s.repo.Create(ctx, &User{Login: login, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, shared.ErrorLoginAlreadyExists) {
			return "", err
		}
		return "", shared.ErrorInternal
	}

	return s.issueToken(user)
}

// Login checks credentials and returns a token. Unknown logins and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, login, password string) (string, error) {

	user, err := s.repo.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, shared.ErrorNotFound) {
			return "", shared.ErrorInvalidLoginPassword
		}
		return "", shared.ErrorInternal
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", shared.ErrorInvalidLoginPassword
	}

	return s.issueToken(user)
}

func (s *Service) issueToken(user *User) (string, error) {
	token, err := auth.GenerateToken(user.ID, user.Login, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", shared.ErrorInternal
	}
	return token, nil
}
