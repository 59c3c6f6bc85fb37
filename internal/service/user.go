package service

import (
	"context"
	"fmt"

	"library-backend/internal/domain"
	"library-backend/internal/logger"
	"library-backend/internal/repository"
)

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) GetProfile(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	return s.users.GetByID(ctx, actor.UserID)
}

func (s *userService) UpdateProfile(ctx context.Context, actor domain.Actor, email, fullName string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	if email != "" && email != user.Email {
		taken, err := s.users.ExistsByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: email %q is already registered", domain.ErrConflict, email)
		}
		user.Email = email
	}
	if fullName != "" {
		user.FullName = fullName
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	logger.Info("Profile updated", "user_id", user.ID)
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.User, int32, error) {
	if err := requireLibrarian(actor); err != nil {
		return nil, 0, err
	}
	page, pageSize = normalizePage(page, pageSize)
	return s.users.List(ctx, page, pageSize)
}
