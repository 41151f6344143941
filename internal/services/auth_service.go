package services

import (
	"context"
	"time"

	"github.com/fleetworks/fleet-maintenance/internal/models"
	"github.com/fleetworks/fleet-maintenance/pkg/apperrors"
	"github.com/fleetworks/fleet-maintenance/pkg/auth"
	"github.com/fleetworks/fleet-maintenance/pkg/logger"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// AuthService issues and validates access tokens. The token's role claim
// is what the approval engine authorizes levels against.
type AuthService struct {
	userRepo   UserRepository
	jwtManager *auth.JWTManager
	logger     *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo UserRepository, jwtManager *auth.JWTManager, log *logger.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		logger:     log,
	}
}

// Login verifies credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		// Same failure for unknown user and bad password.
		s.logger.Warnf("Login failed for %s: %v", req.Email, err)
		return nil, apperrors.Permission("invalid credentials")
	}

	if err := auth.VerifyPassword(req.Password, user.PasswordHash); err != nil {
		s.logger.Warnf("Login failed for %s: bad password", req.Email)
		return nil, apperrors.Permission("invalid credentials")
	}

	token, err := s.jwtManager.GenerateAccessToken(user.ID, user.Name, user.Email, user.Role)
	if err != nil {
		return nil, apperrors.Store(err, "failed to issue access token")
	}

	return &models.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.jwtManager.AccessTokenTTL().Seconds()),
		User:        user,
		IssuedAt:    time.Now(),
	}, nil
}

// ValidateAccessToken validates a bearer token and returns its claims.
func (s *AuthService) ValidateAccessToken(token string) (*auth.Claims, error) {
	return s.jwtManager.ValidateAccessToken(token)
}
