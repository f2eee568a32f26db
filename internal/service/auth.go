package service

import (
	"context"
	"errors"
	"fmt"

	"vkolc-backend/internal/config"
	"vkolc-backend/internal/domain"
	"vkolc-backend/internal/logger"
	"vkolc-backend/internal/security"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type authService struct {
	users        map[string]domain.User
	tokenManager security.TokenManager
	// dummyHash keeps the cost of a failed lookup equal to a failed compare.
	dummyHash []byte
}

// NewAuthService hashes any plain passwords from config with bcrypt; only the
// hashes are kept.
func NewAuthService(users []config.UserConfig, tm security.TokenManager) (AuthService, error) {
	s := &authService{
		users:        make(map[string]domain.User, len(users)),
		tokenManager: tm,
	}
	for _, u := range users {
		hash := u.PasswordHash
		if hash == "" {
			b, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("failed to hash password for %s: %w", u.Username, err)
			}
			hash = string(b)
		}
		display := u.DisplayName
		if display == "" {
			display = u.Username
		}
		s.users[u.Username] = domain.User{
			Username:     u.Username,
			PasswordHash: hash,
			DisplayName:  display,
			Role:         u.Role,
		}
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	s.dummyHash = dummy
	return s, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	logger.EnterMethod("authService.Login", "username", username)

	user, ok := s.users[username]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		logger.ExitMethodWithError("authService.Login", ErrInvalidCredentials, "username", username)
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.ExitMethodWithError("authService.Login", ErrInvalidCredentials, "username", username)
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokenManager.GenerateAccessToken(user)
	if err != nil {
		logger.ExitMethodWithError("authService.Login", err, "username", username)
		return nil, err
	}

	logger.ExitMethod("authService.Login", "username", username, "role", user.Role)
	return &domain.Session{
		Token:       token,
		Role:        user.Role,
		DisplayName: user.DisplayName,
		ExpiresAt:   expiresAt.Unix(),
	}, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*security.RoleClaims, error) {
	claims, err := s.tokenManager.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	if _, ok := s.users[claims.Username]; !ok {
		return nil, security.ErrInvalidToken
	}
	return claims, nil
}
