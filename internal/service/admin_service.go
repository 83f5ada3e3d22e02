package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/contact-backend/internal/model"
	"github.com/stemsi/contact-backend/internal/repository"
)

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string
	Admin model.AdminSummary
}

// AdminService handles admin registration, login and lookup.
type AdminService struct {
	admins AdminStore
	auth   *AuthService
	log    zerolog.Logger
}

// NewAdminService creates a new AdminService.
func NewAdminService(admins AdminStore, auth *AuthService, log zerolog.Logger) *AdminService {
	return &AdminService{
		admins: admins,
		auth:   auth,
		log:    log.With().Str("component", "admin_service").Logger(),
	}
}

// Register creates an admin and issues a token for it.
func (s *AdminService) Register(ctx context.Context, name, email, password string) (res *AuthResult, err error) {
	ctx, span := tracer.Start(ctx, "AdminService.Register")
	defer func() { endSpan(span, err) }()

	admin, err := s.Provision(ctx, name, email, password)
	if err != nil {
		return nil, err
	}

	token, err := s.auth.GenerateToken(admin)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("admin_id", admin.ID).Msg("Admin registered")
	return &AuthResult{Token: token, Admin: admin.Summary()}, nil
}

// Provision hashes the password and persists a new admin. It is the single
// create path shared by registration and the provisioning CLI.
func (s *AdminService) Provision(ctx context.Context, name, email, password string) (*model.Admin, error) {
	email = model.NormalizeEmail(email)

	_, err := s.admins.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrDuplicateEmail
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	admin := &model.Admin{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return admin, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password produce the same error.
func (s *AdminService) Login(ctx context.Context, email, password string) (res *AuthResult, err error) {
	ctx, span := tracer.Start(ctx, "AdminService.Login")
	defer func() { endSpan(span, err) }()

	admin, err := s.admins.GetByEmail(ctx, model.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup admin: %w", err)
	}

	if err := s.auth.CheckPassword(admin.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.auth.GenerateToken(admin)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Admin: admin.Summary()}, nil
}

// Current returns the summary of the admin with the given ID.
func (s *AdminService) Current(ctx context.Context, id string) (summary model.AdminSummary, err error) {
	ctx, span := tracer.Start(ctx, "AdminService.Current")
	defer func() { endSpan(span, err) }()

	admin, err := s.admins.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.AdminSummary{}, ErrNotFound
		}
		return model.AdminSummary{}, fmt.Errorf("lookup admin: %w", err)
	}
	return admin.Summary(), nil
}

// Count returns the number of admins.
func (s *AdminService) Count(ctx context.Context) (int, error) {
	return s.admins.Count(ctx)
}
