package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AnshRaj112/remontee-backend/internal/apperrors"
	"github.com/AnshRaj112/remontee-backend/internal/models"
	"github.com/AnshRaj112/remontee-backend/internal/repository"
	"github.com/AnshRaj112/remontee-backend/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const invalidCredentialsMessage = "Email ou mot de passe incorrect"

// AuthService signs admins in and out.
type AuthService struct {
	admins   repository.AdminRepository
	sessions SessionStore
	logger   *zap.Logger
	hash     func(string) (string, error)
}

func NewAuthService(admins repository.AdminRepository, sessions SessionStore, logger *zap.Logger) *AuthService {
	return &AuthService{admins: admins, sessions: sessions, logger: logger, hash: utils.HashPassword}
}

// Login checks credentials and opens a session. Unknown emails, wrong
// passwords, inactive accounts and non-admin roles all fail the same way.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, apperrors.Validation("Email et mot de passe requis")
	}

	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrorCodeAuth, invalidCredentialsMessage)
		}
		return nil, err
	}

	ok, err := utils.VerifyPassword(req.Password, admin.PasswordHash)
	if err != nil {
		s.logger.Error("stored password hash is unreadable", zap.String("admin_id", admin.ID.String()), zap.Error(err))
		return nil, apperrors.New(apperrors.ErrorCodeAuth, invalidCredentialsMessage)
	}
	if !ok || !admin.IsActive || admin.Role != models.RoleAdmin {
		return nil, apperrors.New(apperrors.ErrorCodeAuth, invalidCredentialsMessage)
	}

	token, err := s.sessions.Create(ctx, admin.ID)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("admin signed in", zap.String("admin_id", admin.ID.String()))
	return &models.LoginResponse{Token: token, User: admin.PublicUser()}, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Invalidate(ctx, token)
}

// Authenticate resolves a bearer token to an admin id.
func (s *AuthService) Authenticate(ctx context.Context, token string) (uuid.UUID, error) {
	adminID, ok, err := s.sessions.Validate(ctx, token)
	if err != nil {
		return uuid.Nil, fmt.Errorf("validate session: %w", err)
	}
	if !ok {
		return uuid.Nil, apperrors.New(apperrors.ErrorCodeAuth, "Session expirée, veuillez vous reconnecter")
	}
	return adminID, nil
}

// EnsureAdmin creates an active ADMIN account unless the email is taken.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password, nom, prenom string) error {
	_, err := s.admins.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	hash, err := s.hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	admin := &models.Admin{
		Email:        strings.TrimSpace(email),
		Nom:          nom,
		Prenom:       prenom,
		Role:         models.RoleAdmin,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return err
	}
	s.logger.Info("bootstrap admin created", zap.String("email", admin.Email))
	return nil
}
