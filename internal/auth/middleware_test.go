package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/article-service/internal/domain"
	apperrors "github.com/spec-kit/article-service/pkg/util/errorutil"
)

func newGuardedApp(t *testing.T, tm *TokenManager, min domain.Role) *fiber.App {
	t.Helper()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"code": de.Code})
		},
	})
	mw := NewAuthMiddleware(tm)
	app.Get("/guarded", mw.RequireRole(min), func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return errors.New("identity missing")
		}
		return c.JSON(fiber.Map{"sub": identity.SubjectID, "role": identity.Role})
	})
	return app
}

func doGuarded(t *testing.T, app *fiber.App, header string) (int, map[string]string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	body := map[string]string{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.StatusCode, body
}

func mustIssue(t *testing.T, tm *TokenManager, sub string, role domain.Role) string {
	t.Helper()
	token, _, err := tm.Issue(sub, role)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return token
}

func TestRequireRoleRejections(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	app := newGuardedApp(t, tm, domain.RoleAdmin)
	userToken := mustIssue(t, tm, "u1", domain.RoleUser)
	foreign := mustIssue(t, NewTokenManager("other", time.Hour), "u1", domain.RoleAdmin)

	cases := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{"missing header", "", http.StatusUnauthorized, "MISSING_CREDENTIALS"},
		{"wrong scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, "MALFORMED_CREDENTIALS"},
		{"no token", "Bearer ", http.StatusUnauthorized, "MALFORMED_CREDENTIALS"},
		{"scheme only", "Bearer", http.StatusUnauthorized, "MALFORMED_CREDENTIALS"},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"foreign signature", "Bearer " + foreign, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"role too low", "Bearer " + userToken, http.StatusForbidden, "FORBIDDEN"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := doGuarded(t, app, tc.header)
			if status != tc.status || body["code"] != tc.code {
				t.Fatalf("got %d %v, want %d %s", status, body, tc.status, tc.code)
			}
		})
	}
}

func TestRequireRoleAdmits(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	userApp := newGuardedApp(t, tm, domain.RoleUser)
	status, body := doGuarded(t, userApp, "Bearer "+mustIssue(t, tm, "admin-1", domain.RoleAdmin))
	if status != http.StatusOK || body["sub"] != "admin-1" || body["role"] != "Admin" {
		t.Fatalf("admin on user route: %d %v", status, body)
	}

	adminApp := newGuardedApp(t, tm, domain.RoleAdmin)
	status, body = doGuarded(t, adminApp, "bearer "+mustIssue(t, tm, "admin-1", domain.RoleAdmin))
	if status != http.StatusOK || body["sub"] != "admin-1" {
		t.Fatalf("admin on admin route: %d %v", status, body)
	}
}

func TestRequireRoleRejectsExpiredToken(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute)
	past := time.Now().Add(-time.Hour)
	tm.now = fixedClock(past)
	token := mustIssue(t, tm, "u1", domain.RoleAdmin)
	tm.now = time.Now

	status, body := doGuarded(t, newGuardedApp(t, tm, domain.RoleUser), "Bearer "+token)
	if status != http.StatusUnauthorized || body["code"] != "UNAUTHENTICATED" {
		t.Fatalf("got %d %v", status, body)
	}
}

func TestBearerToken(t *testing.T) {
	if _, err := bearerToken(""); err != ErrMissingCredentials {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
	if _, err := bearerToken("Bearer a b"); err != ErrMalformedCredentials {
		t.Fatalf("expected ErrMalformedCredentials, got %v", err)
	}
	token, err := bearerToken("Bearer  abc ")
	if err != nil || token != "abc" {
		t.Fatalf("got %q, %v", token, err)
	}
}
