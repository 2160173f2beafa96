package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Auth.JWTSecret != devJWTSecret {
		t.Fatalf("expected dev secret, got %q", cfg.Auth.JWTSecret)
	}
	if cfg.Auth.AccessTokenTTL() != time.Hour {
		t.Fatalf("unexpected ttl %v", cfg.Auth.AccessTokenTTL())
	}
	if cfg.Auth.HashWorkers < 1 {
		t.Fatalf("expected at least one hash worker, got %d", cfg.Auth.HashWorkers)
	}
}

func TestLoadRejectsDevSecretsInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("AUTH_PASSWORD_PEPPER", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected production config without secrets to fail")
	}
	if !strings.Contains(err.Error(), "AUTH_JWT_SECRET") || !strings.Contains(err.Error(), "AUTH_PASSWORD_PEPPER") {
		t.Fatalf("expected both secrets reported, got %v", err)
	}
}

func TestLoadProductionWithSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_JWT_SECRET", "a-long-random-signing-secret")
	t.Setenv("AUTH_PASSWORD_PEPPER", "a-long-random-pepper")
	t.Setenv("AUTH_ARGON2_ITERATIONS", "4")
	t.Setenv("AUTH_ARGON2_MEMORY_KIB", "32768")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Auth.Argon2Iterations != 4 || cfg.Auth.Argon2MemoryKiB != 32768 {
		t.Fatalf("hash params not applied: %+v", cfg.Auth)
	}
}

func TestLoadRejectsMalformedNumbers(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("AUTH_ARGON2_ITERATIONS", "-1")
	t.Setenv("AUTH_ARGON2_PARALLELISM", "257")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "sixty")

	_, err := Load()
	if err == nil {
		t.Fatal("expected malformed numeric variables to fail Load")
	}
	for _, key := range []string{"AUTH_ARGON2_ITERATIONS", "AUTH_ARGON2_PARALLELISM", "AUTH_ACCESS_TOKEN_TTL_MINUTES"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error %q does not name %s", err, key)
		}
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			App: AppConfig{Env: "development"},
			Auth: AuthConfig{
				JWTSecret:             "secret",
				PasswordPepper:        "pepper",
				AccessTokenTTLMinutes: 15,
				Argon2Iterations:      1,
				Argon2MemoryKiB:       8 * 1024,
				Argon2Parallelism:     1,
				HashWorkers:           1,
			},
			Notification: NotificationConfig{QueueSize: 1},
		}
	}

	cases := map[string]func(*Config){
		"zero ttl":         func(c *Config) { c.Auth.AccessTokenTTLMinutes = 0 },
		"tiny memory":      func(c *Config) { c.Auth.Argon2MemoryKiB = 1024 },
		"zero iterations":  func(c *Config) { c.Auth.Argon2Iterations = 0 },
		"no workers":       func(c *Config) { c.Auth.HashWorkers = 0 },
		"half bootstrap":   func(c *Config) { c.Auth.BootstrapAdmin.Email = "root@example.com" },
		"empty jwt secret": func(c *Config) { c.Auth.JWTSecret = "" },
		"iterations cap":   func(c *Config) { c.Auth.Argon2Iterations = 1000 },
		"memory cap":       func(c *Config) { c.Auth.Argon2MemoryKiB = 4 << 20 },
		"parallelism cap":  func(c *Config) { c.Auth.Argon2Parallelism = 200 },
		"no notify queue":  func(c *Config) { c.Notification.QueueSize = 0 },
	}

	ok := base()
	if err := ok.Validate(); err != nil {
		t.Fatalf("base config should validate: %v", err)
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := base()
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoginWindowDisabled(t *testing.T) {
	a := AuthConfig{LoginMaxAttempts: 0, LoginWindowSeconds: 60}
	if a.LoginWindow() != 0 {
		t.Fatal("zero attempts should disable the window")
	}
	a.LoginMaxAttempts = 3
	if a.LoginWindow() != time.Minute {
		t.Fatalf("unexpected window %v", a.LoginWindow())
	}
}
