package service

import (
	"context"
	"errors"

	userserrors "dialoom/internal/users/errors"
	"dialoom/internal/users/repository"
	apperrors "dialoom/pkg/errors"
	"dialoom/pkg/logger"
	"dialoom/pkg/model"
)

type UserService interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetHostProfile(ctx context.Context, id string) (*model.HostProfile, error)
}

type userService struct {
	repo repository.UserRepository
	log  *logger.Logger
}

func NewUserService(repo repository.UserRepository, log *logger.Logger) UserService {
	return &userService{
		repo: repo,
		log:  log,
	}
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", id)
		}
		if errors.Is(err, userserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid user ID")
		}
		s.log.Error("Failed to retrieve user", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}

	return user, nil
}

// GetHostProfile exposes only the fields guests need to price a booking.
func (s *userService) GetHostProfile(ctx context.Context, id string) (*model.HostProfile, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeNotFound) {
			return nil, apperrors.NotFoundWithID("Host", id)
		}
		return nil, err
	}

	profile := user.PublicProfile()
	return &profile, nil
}
