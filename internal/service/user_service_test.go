package service

import (
	"context"
	"errors"
	"testing"

	"github.com/spec-kit/article-service/internal/auth"
	"github.com/spec-kit/article-service/internal/domain"
	apperrors "github.com/spec-kit/article-service/pkg/util/errorutil"
)

func TestUserServiceGetRespectsOwnership(t *testing.T) {
	f := newAuthFixture(t, nil)
	users := NewUserService(f.users, f.svc, nil)
	ann := f.register(t, "ann@example.com", "password")
	bob := f.register(t, "bob@example.com", "password")
	ctx := context.Background()

	got, err := users.Get(ctx, ann.Identity(), ann.ID)
	if err != nil || got.ID != ann.ID {
		t.Fatalf("self read: %v %v", got, err)
	}
	if _, err := users.Get(ctx, ann.Identity(), bob.ID); !errors.Is(err, auth.ErrAuthorization) {
		t.Fatalf("expected ErrAuthorization, got %v", err)
	}

	admin := domain.Identity{SubjectID: "admin", Role: domain.RoleAdmin}
	if got, err := users.Get(ctx, admin, bob.ID); err != nil || got.Email != "bob@example.com" {
		t.Fatalf("admin read: %v %v", got, err)
	}
	if _, err := users.Get(ctx, admin, "nope"); apperrors.ToDomainError(err).Code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestUserServiceCreateAndUpdate(t *testing.T) {
	f := newAuthFixture(t, nil)
	users := NewUserService(f.users, f.svc, nil)
	ctx := context.Background()
	admin := domain.Identity{SubjectID: "admin", Role: domain.RoleAdmin}

	created, err := users.Create(ctx, admin, CreateUserInput{Name: "Eve", Email: "eve@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Role != domain.RoleUser {
		t.Fatalf("expected default role User, got %v", created.Role)
	}
	if _, err := users.Create(ctx, admin, CreateUserInput{Name: "Eve", Email: "EVE@example.com", Password: "pw"}); !errors.Is(err, auth.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	other := f.register(t, "other@example.com", "pw")
	if _, err := users.Update(ctx, created.ID, UpdateUserInput{Email: other.Email}); !errors.Is(err, auth.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail on update, got %v", err)
	}

	updated, err := users.Update(ctx, created.ID, UpdateUserInput{Name: "Eve A.", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Eve A." || updated.Role != domain.RoleAdmin || updated.Email != "eve@example.com" {
		t.Fatalf("unexpected update result %+v", updated)
	}

	// The role change only reaches tokens minted at the next login.
	res, err := f.svc.Login(ctx, "eve@example.com", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	identity, err := f.svc.TokenManager().Validate(res.Token)
	if err != nil || identity.Role != domain.RoleAdmin {
		t.Fatalf("expected admin token, got %+v %v", identity, err)
	}
}

func TestEnsureAdmin(t *testing.T) {
	f := newAuthFixture(t, nil)
	users := NewUserService(f.users, f.svc, nil)
	ctx := context.Background()

	if err := users.EnsureAdmin(ctx, "root@example.com", "Root", "root-pw"); err != nil {
		t.Fatalf("EnsureAdmin create: %v", err)
	}
	if err := users.EnsureAdmin(ctx, "root@example.com", "Root", "ignored"); err != nil {
		t.Fatalf("EnsureAdmin idempotent: %v", err)
	}
	res, err := f.svc.Login(ctx, "root@example.com", "root-pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.User.Role != domain.RoleAdmin {
		t.Fatalf("expected Admin, got %v", res.User.Role)
	}

	plain := f.register(t, "promote@example.com", "keep-me")
	if err := users.EnsureAdmin(ctx, "promote@example.com", "Ignored", "ignored"); err != nil {
		t.Fatalf("EnsureAdmin promote: %v", err)
	}
	promoted, _ := f.users.GetByID(ctx, plain.ID)
	if promoted.Role != domain.RoleAdmin {
		t.Fatalf("expected promotion, got %v", promoted.Role)
	}
	if _, err := f.svc.Login(ctx, "promote@example.com", "keep-me"); err != nil {
		t.Fatalf("existing password must be kept: %v", err)
	}
}
