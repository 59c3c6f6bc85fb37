package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"library-backend/internal/domain"
	"library-backend/internal/logger"
	"library-backend/internal/repository"
	"library-backend/internal/security"
)

var errBadCredentials = fmt.Errorf("%w: invalid username or password", domain.ErrForbidden)

type authService struct {
	users  repository.UserRepository
	tokens security.TokenManager
}

func NewAuthService(users repository.UserRepository, tokens security.TokenManager) AuthService {
	return &authService{users: users, tokens: tokens}
}

func (s *authService) Signup(ctx context.Context, username, email, fullName, password string) (*domain.User, string, string, error) {
	if username == "" || email == "" || password == "" {
		return nil, "", "", fmt.Errorf("%w: username, email and password are required", domain.ErrInvalidArgument)
	}
	if len(password) < 8 {
		return nil, "", "", fmt.Errorf("%w: password must be at least 8 characters", domain.ErrInvalidArgument)
	}

	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, "", "", err
	}
	if taken {
		return nil, "", "", fmt.Errorf("%w: username %q is already taken", domain.ErrConflict, username)
	}
	taken, err = s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, "", "", err
	}
	if taken {
		return nil, "", "", fmt.Errorf("%w: email %q is already registered", domain.ErrConflict, email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Role:         domain.RolePatron,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", "", err
	}

	access, refresh, err := s.issueTokens(user)
	if err != nil {
		return nil, "", "", err
	}
	logger.Info("User signed up", "user_id", user.ID, "username", user.Username)
	return user, access, refresh, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*domain.User, string, string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", "", errBadCredentials
		}
		return nil, "", "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", errBadCredentials
	}

	access, refresh, err := s.issueTokens(user)
	if err != nil {
		return nil, "", "", err
	}
	logger.Info("User logged in", "user_id", user.ID, "username", user.Username)
	return user, access, refresh, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", domain.ErrForbidden, err)
	}
	if claims.Type != security.TokenTypeRefresh {
		return "", "", fmt.Errorf("%w: refresh token required", domain.ErrForbidden)
	}

	// Re-read the user so a role change takes effect on rotation.
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return "", "", err
	}
	return s.issueTokens(user)
}

func (s *authService) issueTokens(user *domain.User) (string, string, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Username)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
