package identity

import (
	"context"
	"errors"

	"github.com/eventi/backend/internal/domain/event"
	"github.com/eventi/backend/internal/domain/identity"
	"github.com/eventi/backend/internal/domain/shared"
	"github.com/eventi/backend/internal/infrastructure/auth"
	"github.com/eventi/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// MsgInvalidCredentials is shown on the login form for any failed attempt
const MsgInvalidCredentials = "Inserisci nome utente e password corretti. Nota che entrambi i campi possono essere sensibili alle maiuscole/minuscole."

// ErrInvalidCredentials is returned for unknown users, wrong passwords and inactive accounts
var ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", MsgInvalidCredentials)

// AuthService handles authentication operations
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	metrics    *telemetry.BusinessMetrics
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *AuthService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.metrics = bm
}

// Login checks the credentials and issues a session token
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	result, err := s.login(ctx, input)
	s.metrics.RecordLogin(ctx, err)
	return result, err
}

func (s *AuthService) login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	s.logger.Info("Login attempt",
		zap.String("username", input.Username),
		zap.String("ip", input.IP))

	user, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Error("Failed to load user during login", zap.Error(err))
			return nil, err
		}
		s.logger.Warn("User not found during login", zap.String("username", input.Username))
		return nil, ErrInvalidCredentials
	}

	if !user.CanLogin() {
		s.logger.Warn("Login attempt for inactive account", zap.String("username", input.Username))
		return nil, ErrInvalidCredentials
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("username", input.Username))
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(auth.GenerateTokenInput{
		UserID:   user.ID,
		Username: user.Username,
		IsStaff:  user.IsStaff,
	})
	if err != nil {
		s.logger.Error("Failed to generate session token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate session token")
	}

	user.RecordLogin()
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Warn("Failed to record last login", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	s.logger.Info("User logged in",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username))

	return &LoginResult{
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
		User: UserInfo{
			ID:       user.ID,
			Username: user.Username,
			IsStaff:  user.IsStaff,
		},
	}, nil
}

// Authenticate resolves a session token into the request actor.
// Any invalid, expired or revoked token yields the anonymous actor.
func (s *AuthService) Authenticate(ctx context.Context, token string) (event.Actor, error) {
	if token == "" {
		return event.Anonymous(), nil
	}
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return event.Anonymous(), err
	}

	if claims.ID != "" {
		revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("Token blacklist unavailable", zap.Error(err))
		} else if revoked {
			return event.Anonymous(), auth.ErrTokenRevoked
		}
	}

	return event.NewActor(claims.UserID, claims.Username, claims.IsStaff), nil
}

// Logout revokes the session token for the rest of its lifetime.
// An invalid token is already unusable and is ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil
	}

	if err := s.blacklist.Revoke(ctx, claims.ID, s.jwtService.RemainingTTL(claims)); err != nil {
		s.logger.Error("Failed to revoke session token", zap.Error(err))
		return err
	}

	s.logger.Info("User logout",
		zap.Int64("user_id", claims.UserID),
		zap.String("username", claims.Username))
	return nil
}
