package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/article-service/internal/auth"
	"github.com/spec-kit/article-service/internal/domain"
	"github.com/spec-kit/article-service/internal/events"
	"github.com/spec-kit/article-service/internal/repository"
	apperrors "github.com/spec-kit/article-service/pkg/util/errorutil"
)

// UserService exposes account management beyond self-service registration.
type UserService struct {
	users  repository.UserRepository
	auth   *AuthService
	logger *zap.Logger
}

// CreateUserInput is an admin-driven account creation.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// UpdateUserInput carries the editable profile fields.
type UpdateUserInput struct {
	Name  string
	Email string
	Role  domain.Role
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, authService *AuthService, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, auth: authService, logger: logger}
}

// List returns every account.
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// Get returns one account. Callers below Admin may only read their own.
func (s *UserService) Get(ctx context.Context, actor domain.Identity, id string) (*domain.User, error) {
	if !actor.CanActOn(id) {
		return nil, auth.ErrAuthorization
	}
	if !validID(id) {
		return nil, apperrors.NewNotFound("user", nil)
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("user", err)
	}
	return user, nil
}

// Create registers an account on behalf of an admin. Role defaults to User.
func (s *UserService) Create(ctx context.Context, actor domain.Identity, in CreateUserInput) (*domain.User, error) {
	role := in.Role
	if role == 0 {
		role = domain.RoleUser
	}
	return s.auth.createAccount(ctx, RegisterInput{Name: in.Name, Email: in.Email, Password: in.Password}, role, actorOf(actor))
}

// Update edits an account's profile and role. Role changes reach tokens only
// at the account's next login.
func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) (*domain.User, error) {
	if !validID(id) {
		return nil, apperrors.NewNotFound("user", nil)
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("user", err)
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		user.Name = name
	}
	if email := normalizeEmail(in.Email); email != "" {
		user.Email = email
	}
	if in.Role != 0 {
		user.Role = in.Role
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, auth.ErrDuplicateEmail
		}
		return nil, err
	}
	return user, nil
}

// EnsureAdmin makes sure an Admin account exists for email, creating it with
// password or promoting an existing account. An existing password is kept.
func (s *UserService) EnsureAdmin(ctx context.Context, email, name, password string) error {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		_, err := s.auth.createAccount(ctx, RegisterInput{Name: name, Email: email, Password: password}, domain.RoleAdmin, events.Actor{})
		return err
	case err != nil:
		return err
	case user.Role == domain.RoleAdmin:
		return nil
	}

	s.logger.Info("promoting bootstrap account to admin", zap.String("user_id", user.ID))
	user.Role = domain.RoleAdmin
	return s.users.Update(ctx, user)
}
