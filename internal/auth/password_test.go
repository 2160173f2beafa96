package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
)

var testParams = Argon2Params{Iterations: 1, MemoryKiB: 8 * 1024, Parallelism: 1}

func TestHashAndVerify(t *testing.T) {
	pepper := []byte("pepper")
	for _, pw := range []string{"correct horse battery staple", "", "pässwörd", strings.Repeat("x", 500)} {
		hash, err := HashPassword(pw, pepper, testParams)
		if err != nil {
			t.Fatalf("HashPassword(%q): %v", pw, err)
		}
		ok, err := VerifyPassword(pw, hash, pepper)
		if err != nil {
			t.Fatalf("VerifyPassword(%q): %v", pw, err)
		}
		if !ok {
			t.Fatalf("expected %q to verify against its own hash", pw)
		}
	}
}

func TestVerifyWrongPassword(t *testing.T) {
	pepper := []byte("pepper")
	hash, err := HashPassword("correct-password", pepper, testParams)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	ok, err := VerifyPassword("wrong-password", hash, pepper)
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if ok {
		t.Fatal("expected wrong password to fail")
	}
}

func TestVerifyWrongPepper(t *testing.T) {
	hash, err := HashPassword("correct-password", []byte("pepper-a"), testParams)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	ok, err := VerifyPassword("correct-password", hash, []byte("pepper-b"))
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if ok {
		t.Fatal("expected verification with another pepper to fail")
	}
}

func TestHashEncodesParamsAndSalt(t *testing.T) {
	pepper := []byte("pepper")
	a, err := HashPassword("same", pepper, testParams)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	b, err := HashPassword("same", pepper, testParams)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if !strings.HasPrefix(a, "$argon2id$v=19$m=8192,t=1,p=1$") {
		t.Fatalf("unexpected PHC prefix: %s", a)
	}
	if a == b {
		t.Fatal("expected distinct salts per call")
	}
	if strings.Contains(a, "pepper") {
		t.Fatal("pepper must not be stored in the hash")
	}
}

func TestVerifyUsesStoredParams(t *testing.T) {
	hasher := NewPasswordHasher("pepper", Argon2Params{Iterations: 2, MemoryKiB: 16 * 1024, Parallelism: 2}, 1)
	hash, err := HashPassword("rotate-me", []byte("pepper"), testParams)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	ok, err := hasher.Verify(context.Background(), "rotate-me", hash)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatal("hash made with other params should verify using its own params")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	valid, err := HashPassword("pw", []byte("pepper"), testParams)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	parts := strings.Split(valid, "$")

	cases := map[string]string{
		"empty":            "",
		"bcrypt":           "$2a$12$abcdefghijklmnopqrstuuAbCdEfGhIjKlMnOpQrStUvWxYz01234",
		"wrong algorithm":  "$argon2i$" + strings.Join(parts[2:], "$"),
		"bad version":      "$argon2id$v=16$" + strings.Join(parts[3:], "$"),
		"missing param":    "$argon2id$v=19$m=8192,t=1$" + parts[4] + "$" + parts[5],
		"zero memory":      "$argon2id$v=19$m=0,t=1,p=1$" + parts[4] + "$" + parts[5],
		"unknown param":    "$argon2id$v=19$m=8192,t=1,x=1$" + parts[4] + "$" + parts[5],
		"bad salt":         "$argon2id$v=19$m=8192,t=1,p=1$!!!$" + parts[5],
		"truncated digest": "$argon2id$v=19$m=8192,t=1,p=1$" + parts[4] + "$AAAA",
		"huge memory":      "$argon2id$v=19$m=4294967295,t=1,p=1$" + parts[4] + "$" + parts[5],
		"huge time":        "$argon2id$v=19$m=8192,t=100000,p=1$" + parts[4] + "$" + parts[5],
		"huge parallelism": "$argon2id$v=19$m=8192,t=1,p=255$" + parts[4] + "$" + parts[5],
		"oversized digest": "$argon2id$v=19$m=8192,t=1,p=1$" + parts[4] + "$" + strings.Repeat("A", 400),
	}

	for name, encoded := range cases {
		t.Run(name, func(t *testing.T) {
			ok, err := VerifyPassword("pw", encoded, []byte("pepper"))
			if ok {
				t.Fatal("malformed hash must never verify")
			}
			if !errors.Is(err, ErrHashing) {
				t.Fatalf("expected ErrHashing, got %v", err)
			}
		})
	}
}

func TestPasswordHasherRoundTrip(t *testing.T) {
	hasher := NewPasswordHasher("pepper", testParams, 2)
	ctx := context.Background()

	hash, err := hasher.Hash(ctx, "secret-pass")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	ok, err := hasher.Verify(ctx, "secret-pass", hash)
	if err != nil || !ok {
		t.Fatalf("Verify = %v, %v", ok, err)
	}
	ok, err = hasher.Verify(ctx, "other-pass", hash)
	if err != nil || ok {
		t.Fatalf("Verify(wrong) = %v, %v", ok, err)
	}
}

func TestPasswordHasherHonoursCancellationWhenSaturated(t *testing.T) {
	hasher := NewPasswordHasher("pepper", testParams, 1)
	hasher.slots <- struct{}{}
	defer hasher.release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := hasher.Hash(ctx, "pw"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
