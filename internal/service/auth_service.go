package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/article-service/internal/auth"
	"github.com/spec-kit/article-service/internal/config"
	"github.com/spec-kit/article-service/internal/domain"
	"github.com/spec-kit/article-service/internal/events"
	"github.com/spec-kit/article-service/internal/repository"
	apperrors "github.com/spec-kit/article-service/pkg/util/errorutil"
)

// dummyPassword is hashed once at startup so that logins for unknown emails
// spend the same argon2 work as logins for registered ones.
const dummyPassword = "timing-equaliser"

// AuthService coordinates registration, login and password changes.
type AuthService struct {
	users     repository.UserRepository
	hasher    *auth.PasswordHasher
	tokenMgr  *auth.TokenManager
	limiter   *auth.LoginLimiter
	events    events.Dispatcher
	logger    *zap.Logger
	dummyHash string
	now       func() time.Time
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Limiter    *auth.LoginLimiter
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// RegisterInput is a self-service registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// PasswordChangeInput targets one account. CurrentPassword may be empty only
// when an admin changes someone else's password.
type PasswordChangeInput struct {
	UserID          string
	CurrentPassword string
	NewPassword     string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// NewAuthService builds the service from the immutable auth configuration.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) (*AuthService, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	params := auth.Argon2Params{
		Iterations:  cfg.Argon2Iterations,
		MemoryKiB:   cfg.Argon2MemoryKiB,
		Parallelism: cfg.Argon2Parallelism,
	}
	hasher := auth.NewPasswordHasher(cfg.PasswordPepper, params, cfg.HashWorkers)

	dummy, err := hasher.Hash(context.Background(), dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}

	return &AuthService{
		users:     deps.UserRepo,
		hasher:    hasher,
		tokenMgr:  auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL()),
		limiter:   deps.Limiter,
		events:    deps.Dispatcher,
		logger:    logger,
		dummyHash: dummy,
		now:       time.Now,
	}, nil
}

// Register creates a new account with the User role.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	return s.createAccount(ctx, in, domain.RoleUser, events.Actor{})
}

func (s *AuthService) createAccount(ctx context.Context, in RegisterInput, role domain.Role, actor events.Actor) (*domain.User, error) {
	email := normalizeEmail(in.Email)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, auth.ErrDuplicateEmail
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, auth.ErrDuplicateEmail
		}
		return nil, err
	}

	s.logger.Info("account created", zap.String("user_id", user.ID), zap.String("role", role.String()))
	s.publish(ctx, events.New(events.EventUserRegistered, user.ID, actor, events.UserRegisteredPayload{
		Email: user.Email,
		Role:  role.String(),
	}))
	return user, nil
}

// Login authenticates by email and password. Unknown emails and wrong
// passwords both fail with auth.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)

	if err := s.limiter.Check(ctx, email); err != nil {
		if errors.Is(err, auth.ErrTooManyAttempts) {
			return nil, err
		}
		s.logger.Warn("login limiter unavailable", zap.Error(err))
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		_, _ = s.hasher.Verify(ctx, password, s.dummyHash)
		return nil, s.loginFailed(ctx, email)
	}
	if err != nil {
		return nil, err
	}

	ok, err := s.hasher.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		s.logger.Error("stored credential hash unusable", zap.String("user_id", user.ID), zap.Error(err))
		return nil, err
	}
	if !ok {
		return nil, s.loginFailed(ctx, email)
	}

	token, exp, err := s.tokenMgr.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	if err := s.limiter.Reset(ctx, email); err != nil {
		s.logger.Warn("login limiter reset failed", zap.Error(err))
	}
	s.logger.Info("login succeeded", zap.String("user_id", user.ID), zap.String("role", user.Role.String()))
	return &LoginResult{User: user, Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) loginFailed(ctx context.Context, email string) error {
	if err := s.limiter.RecordFailure(ctx, email); err != nil {
		s.logger.Warn("login limiter record failed", zap.Error(err))
	}
	return auth.ErrInvalidCredentials
}

// ChangePassword replaces the credential hash of in.UserID. Non-admins may only
// change their own password, and changing one's own password always requires
// the current one. Tokens issued before the change remain valid until expiry.
func (s *AuthService) ChangePassword(ctx context.Context, actor domain.Identity, in PasswordChangeInput) error {
	if !actor.CanActOn(in.UserID) {
		return auth.ErrAuthorization
	}
	if !validID(in.UserID) {
		return apperrors.NewNotFound("user", nil)
	}

	user, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return notFound("user", err)
	}

	self := actor.SubjectID == user.ID
	if self {
		if in.CurrentPassword == "" {
			return auth.ErrInvalidCredentials
		}
		ok, err := s.hasher.Verify(ctx, in.CurrentPassword, user.PasswordHash)
		if err != nil {
			return err
		}
		if !ok {
			return auth.ErrInvalidCredentials
		}
	}

	hash, err := s.hasher.Hash(ctx, in.NewPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	s.logger.Info("password changed", zap.String("user_id", user.ID), zap.String("actor_id", actor.SubjectID))
	s.publish(ctx, events.New(events.EventPasswordChanged, user.ID, actorOf(actor), events.PasswordChangedPayload{ByAdmin: !self}))
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func actorOf(identity domain.Identity) events.Actor {
	return events.Actor{ID: identity.SubjectID, Role: identity.Role.String()}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
