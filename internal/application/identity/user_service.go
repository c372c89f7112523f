package identity

import (
	"context"
	"fmt"

	"github.com/eventi/backend/internal/domain/identity"
	"github.com/eventi/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService manages login accounts
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

// Create registers a new account
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*UserInfo, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Un utente con questo nome esiste già.")
	}

	user, err := identity.NewUser(input.Username, input.Password)
	if err != nil {
		return nil, err
	}
	if input.IsStaff {
		user.PromoteToStaff()
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User created",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username),
		zap.Bool("is_staff", user.IsStaff))

	return &UserInfo{ID: user.ID, Username: user.Username, IsStaff: user.IsStaff}, nil
}
