package service

import (
	"context"
	"strings"
	"time"

	"tentquote_backend/internal/auth/password"
	"tentquote_backend/internal/auth/repository"
	"tentquote_backend/internal/auth/transport"
	"tentquote_backend/platform/apperr"
	"tentquote_backend/platform/config"
	"tentquote_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// StaffRole is carried by every token this service issues.
	StaffRole = "staff"

	accessTokenType       = "access"
	msgInvalidCredentials = "invalid credentials"
)

// Service signs staff in and manages their accounts.
type Service struct {
	repo repository.Repository
	cfg  config.AuthServiceConfig
	log  *logger.Logger
	now  func() time.Time
}

// New creates a new auth service.
func New(repo repository.Repository, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log, now: time.Now}
}

// SignIn checks credentials and issues an access token.
func (s *Service) SignIn(ctx context.Context, email, plainPassword string) (transport.AuthResponse, error) {
	email = normalizeEmail(email)

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			s.log.AuthEvent("sign_in", email, false, "unknown email")
			return transport.AuthResponse{}, apperr.Unauthorized(msgInvalidCredentials)
		}
		return transport.AuthResponse{}, err
	}

	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		s.log.AuthEvent("sign_in", email, false, "wrong password")
		return transport.AuthResponse{}, apperr.Unauthorized(msgInvalidCredentials)
	}

	resp, err := s.issueToken(user.ID)
	if err != nil {
		return transport.AuthResponse{}, err
	}
	s.log.AuthEvent("sign_in", email, true, "")
	return resp, nil
}

// CreateStaff adds a staff account.
func (s *Service) CreateStaff(ctx context.Context, email, plainPassword string) (repository.StaffUser, error) {
	if err := password.CheckStrength(plainPassword); err != nil {
		return repository.StaffUser{}, err
	}
	hash, err := password.Hash(plainPassword)
	if err != nil {
		return repository.StaffUser{}, err
	}

	user, err := s.repo.Create(ctx, normalizeEmail(email), hash)
	if err != nil {
		return repository.StaffUser{}, err
	}
	s.log.Info("staff user created", "id", user.ID, "email", user.Email)
	return user, nil
}

// Me returns the profile of the signed-in staff user.
func (s *Service) Me(ctx context.Context, id uuid.UUID) (transport.ProfileResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ProfileResponse{}, err
	}
	return transport.ProfileResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Roles:     []string{StaffRole},
		CreatedAt: user.CreatedAt,
	}, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := password.Compare(user.PasswordHash, current); err != nil {
		return apperr.Unauthorized(msgInvalidCredentials)
	}
	if err := password.CheckStrength(next); err != nil {
		return err
	}

	hash, err := password.Hash(next)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
		return err
	}
	s.log.AuthEvent("password_changed", user.Email, true, "")
	return nil
}

func (s *Service) issueToken(userID uuid.UUID) (transport.AuthResponse, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.GetAccessTokenTTL())
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"type":  accessTokenType,
		"roles": []string{StaffRole},
		"exp":   expiresAt.Unix(),
		"iat":   now.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.GetJWTAccessSecret()))
	if err != nil {
		return transport.AuthResponse{}, apperr.Wrap(apperr.KindInternal, "failed to sign token", err)
	}
	return transport.AuthResponse{AccessToken: signed, ExpiresAt: expiresAt}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
