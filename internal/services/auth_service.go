package services

import (
	"context"
	"errors"

	"github.com/dglmedia/adops-backend/internal/apperrors"
	"github.com/dglmedia/adops-backend/internal/config"
	"github.com/dglmedia/adops-backend/internal/models"
	"github.com/dglmedia/adops-backend/internal/repositories"
	"github.com/dglmedia/adops-backend/internal/utils"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure AuthServiceImpl implements AuthService
var _ AuthService = (*AuthServiceImpl)(nil)

// AuthServiceImpl handles admin authentication
type AuthServiceImpl struct {
	adminUserRepo repositories.AdminUserRepository
	cfg           *config.Config
}

// NewAuthService creates a new AuthServiceImpl
func NewAuthService(adminUserRepo repositories.AdminUserRepository, cfg *config.Config) *AuthServiceImpl {
	return &AuthServiceImpl{
		adminUserRepo: adminUserRepo,
		cfg:           cfg,
	}
}

// Register creates a new admin user with a bcrypt-hashed password.
func (s *AuthServiceImpl) Register(ctx context.Context, req *models.RegisterRequest) (*models.AdminUser, error) {
	if _, err := s.adminUserRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.E(apperrors.CodeInvalidState, "admin user %s already exists", req.Email)
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to check admin user")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to hash password")
	}

	role := req.Role
	if role == "" {
		role = "operator"
	}
	adminUser := &models.AdminUser{
		Email:    req.Email,
		Password: string(hashedPassword),
		Role:     role,
	}
	if err := s.adminUserRepo.Create(ctx, adminUser); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to create admin user")
	}

	slog.Info("Admin user registered", "email", req.Email, "role", role)
	adminUser.Password = ""
	return adminUser, nil
}

// Login verifies credentials and issues a JWT.
func (s *AuthServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error) {
	adminUser, err := s.adminUserRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.E(apperrors.CodeValidation, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(adminUser.Password), []byte(req.Password)); err != nil {
		return nil, apperrors.E(apperrors.CodeValidation, "invalid credentials")
	}

	token, err := utils.GenerateJWT(adminUser.ID.Hex(), adminUser.Role, s.cfg)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to generate token")
	}

	return &models.TokenResponse{
		Token:     token,
		ExpiresIn: s.cfg.JWT.ExpiresIn,
	}, nil
}
