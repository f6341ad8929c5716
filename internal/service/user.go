package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"courtledger-backend/internal/domain"
	"courtledger-backend/internal/logger"
	"courtledger-backend/internal/repository"
)

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) CreateUser(ctx context.Context, name, credential string, initialBalanceCents int64) (*domain.User, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidArgument)
	}
	if credential == "" {
		return nil, fmt.Errorf("%w: credential is required", domain.ErrInvalidArgument)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash credential: %w", err)
	}

	user := &domain.User{
		Name:           name,
		BalanceCents:   initialBalanceCents,
		CredentialHash: string(hash),
		Role:           domain.UserRoleMember,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("User created", "user_id", user.ID, "name", name, "initial_balance_cents", initialBalanceCents)
	return user, nil
}

// DeleteUser removes the user document. Transaction history is not
// cascaded; the records stay queryable under the old userId.
func (s *userService) DeleteUser(ctx context.Context, id string) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("User deleted", "user_id", id)
	return nil
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.List(ctx)
}
