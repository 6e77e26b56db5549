package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/crm-ticketing/internal/auth"
	"github.com/spec-kit/crm-ticketing/internal/domain"
	"github.com/spec-kit/crm-ticketing/internal/repository"
	apperrors "github.com/spec-kit/crm-ticketing/pkg/util"
)

// UserService implements admin user management.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
}

// UserInput describes a create/update payload. Updates are full replaces:
// every field is required and the password is re-hashed.
type UserInput struct {
	Username       string
	Password       string
	Email          string
	Role           domain.UserRole
	ProfilePicture string
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, bcryptCost int) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost}
}

// Create registers a new account.
func (s *UserService) Create(ctx context.Context, input UserInput) (*domain.User, error) {
	if err := validateUserInput(input); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByUsername(ctx, input.Username); err == nil {
		return nil, apperrors.NewConflict("username already taken", map[string]any{"username": input.Username})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	user := &domain.User{
		Username:       strings.TrimSpace(input.Username),
		Email:          strings.TrimSpace(input.Email),
		PasswordHash:   hash,
		Role:           input.Role,
		ProfilePicture: input.ProfilePicture,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Update replaces an account's fields, re-hashing the supplied password.
func (s *UserService) Update(ctx context.Context, id string, input UserInput) (*domain.User, error) {
	if err := validateUserInput(input); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	user.Username = strings.TrimSpace(input.Username)
	user.Email = strings.TrimSpace(input.Email)
	user.PasswordHash = hash
	user.Role = input.Role
	user.ProfilePicture = input.ProfilePicture
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Delete removes an account. No cascade: tickets and comments keep their
// weak references to the removed user.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// GetByID fetches a single account.
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// List returns all accounts.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

func validateUserInput(input UserInput) error {
	if strings.TrimSpace(input.Username) == "" || input.Password == "" || strings.TrimSpace(input.Email) == "" || input.Role == "" {
		return apperrors.NewValidationError("username, password, email, and role are required", nil)
	}
	if !domain.ValidRole(input.Role) {
		return apperrors.NewValidationError("invalid role", map[string]any{"role": input.Role})
	}
	return nil
}
