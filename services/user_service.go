package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/match-score/models"
	"github.com/Dosada05/match-score/repositories"
)

const (
	defaultUsersLimit = 50
	maxUsersLimit     = 500
)

type UserService interface {
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
	GetUser(ctx context.Context, id int) (*models.User, error)
	PromoteToDirector(ctx context.Context, userID int) (*models.User, error)
	DeleteUser(ctx context.Context, actorID, userID int) error
}

type userService struct {
	userRepo repositories.UserRepository
	logger   *slog.Logger
}

func NewUserService(userRepo repositories.UserRepository, logger *slog.Logger) UserService {
	return &userService{userRepo: userRepo, logger: logger}
}

func (s *userService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	limit, offset = clampPage(limit, offset, defaultUsersLimit, maxUsersLimit)
	list, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return list, nil
}

func (s *userService) GetUser(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrUserNotFound, id)
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return user, nil
}

// PromoteToDirector повышает обычного пользователя до director. Admin и director
// повторно не повышаются.
func (s *userService) PromoteToDirector(ctx context.Context, userID int) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == models.RoleAdmin || user.Role == models.RoleDirector {
		return nil, fmt.Errorf("%w: user %d is %s", ErrAlreadyPrivileged, userID, user.Role)
	}

	if err := s.userRepo.UpdateRole(ctx, userID, models.RoleDirector); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to promote user %d: %w", userID, err)
	}
	user.Role = models.RoleDirector
	s.logger.InfoContext(ctx, "user promoted", slog.Int("user_id", userID), slog.String("role", string(user.Role)))
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, actorID, userID int) error {
	if actorID == userID {
		return fmt.Errorf("%w: cannot delete own account", ErrForbiddenOperation)
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return fmt.Errorf("%w: %d", ErrUserNotFound, userID)
		}
		return fmt.Errorf("failed to delete user %d: %w", userID, err)
	}
	s.logger.InfoContext(ctx, "user deleted", slog.Int("user_id", userID), slog.Int("deleted_by", actorID))
	return nil
}
