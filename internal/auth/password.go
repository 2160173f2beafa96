package auth

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	argon2Algorithm = "argon2id"
	saltLength      = 16
	keyLength       = 32
	minSaltLength   = 8
	minKeyLength    = 16
	maxSaltLength   = 64
	maxKeyLength    = 128
)

// Upper bounds for argon2 cost factors, applied both to configuration and to
// parameters read back from stored hashes.
const (
	MaxArgon2Iterations  = 64
	MaxArgon2MemoryKiB   = 1 << 20
	MaxArgon2Parallelism = 64
)

// Argon2Params are the cost factors recorded in every credential hash.
type Argon2Params struct {
	Iterations  uint32
	MemoryKiB   uint32
	Parallelism uint8
}

// DefaultArgon2Params are used for any zero field.
var DefaultArgon2Params = Argon2Params{Iterations: 3, MemoryKiB: 64 * 1024, Parallelism: 2}

func (p Argon2Params) withDefaults() Argon2Params {
	if p.Iterations == 0 {
		p.Iterations = DefaultArgon2Params.Iterations
	}
	if p.MemoryKiB == 0 {
		p.MemoryKiB = DefaultArgon2Params.MemoryKiB
	}
	if p.Parallelism == 0 {
		p.Parallelism = DefaultArgon2Params.Parallelism
	}
	return p
}

// HashPassword derives an argon2id hash of password salted with fresh random
// bytes and keyed with pepper. The result is a PHC string carrying the params.
func HashPassword(password string, pepper []byte, params Argon2Params) (string, error) {
	params = params.withDefaults()

	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("%w: read salt: %v", ErrHashing, err)
	}

	key := argon2.IDKey(peppered(password, pepper), salt, params.Iterations, params.MemoryKiB, params.Parallelism, keyLength)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Algorithm,
		argon2.Version,
		params.MemoryKiB, params.Iterations, params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword reports whether password matches encoded. A wrong password is
// (false, nil); a structurally invalid hash is an ErrHashing error.
func VerifyPassword(password, encoded string, pepper []byte) (bool, error) {
	parsed, err := parseHash(encoded)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrHashing, err)
	}

	computed := argon2.IDKey(peppered(password, pepper), parsed.salt,
		parsed.params.Iterations, parsed.params.MemoryKiB, parsed.params.Parallelism,
		uint32(len(parsed.key)))

	return subtle.ConstantTimeCompare(computed, parsed.key) == 1, nil
}

// peppered keys the password with the server-wide secret before it reaches argon2.
func peppered(password string, pepper []byte) []byte {
	mac := hmac.New(sha256.New, pepper)
	mac.Write([]byte(password))
	return mac.Sum(nil)
}

type parsedHash struct {
	params Argon2Params
	salt   []byte
	key    []byte
}

func parseHash(encoded string) (*parsedHash, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, errors.New("invalid PHC format")
	}
	if parts[1] != argon2Algorithm {
		return nil, errors.New("unsupported algorithm")
	}

	version, err := strconv.Atoi(strings.TrimPrefix(parts[2], "v="))
	if err != nil || !strings.HasPrefix(parts[2], "v=") {
		return nil, errors.New("invalid argon2 version")
	}
	if version != argon2.Version {
		return nil, errors.New("unsupported argon2 version")
	}

	params, err := parseParams(parts[3])
	if err != nil {
		return nil, err
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) < minSaltLength || len(salt) > maxSaltLength {
		return nil, errors.New("invalid salt")
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) < minKeyLength || len(key) > maxKeyLength {
		return nil, errors.New("invalid digest")
	}

	return &parsedHash{params: params, salt: salt, key: key}, nil
}

func parseParams(part string) (Argon2Params, error) {
	var params Argon2Params
	pairs := strings.Split(part, ",")
	if len(pairs) != 3 {
		return params, errors.New("invalid parameter format")
	}

	seen := map[string]bool{}
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || seen[k] {
			return params, errors.New("invalid parameter entry")
		}
		seen[k] = true

		switch k {
		case "m":
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil || n == 0 || n > MaxArgon2MemoryKiB {
				return params, errors.New("invalid memory parameter")
			}
			params.MemoryKiB = uint32(n)
		case "t":
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil || n == 0 || n > MaxArgon2Iterations {
				return params, errors.New("invalid time parameter")
			}
			params.Iterations = uint32(n)
		case "p":
			n, err := strconv.ParseUint(v, 10, 8)
			if err != nil || n == 0 || n > MaxArgon2Parallelism {
				return params, errors.New("invalid parallelism parameter")
			}
			params.Parallelism = uint8(n)
		default:
			return params, errors.New("unsupported parameter")
		}
	}
	return params, nil
}

// PasswordHasher applies the process pepper and cost params, and caps how many
// argon2 derivations run at once.
type PasswordHasher struct {
	pepper []byte
	params Argon2Params
	slots  chan struct{}
}

// NewPasswordHasher builds a hasher allowing at most workers concurrent derivations.
func NewPasswordHasher(pepper string, params Argon2Params, workers int) *PasswordHasher {
	if workers <= 0 {
		workers = 1
	}
	return &PasswordHasher{
		pepper: []byte(pepper),
		params: params.withDefaults(),
		slots:  make(chan struct{}, workers),
	}
}

// Hash derives a new credential hash for password.
func (h *PasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.acquire(ctx); err != nil {
		return "", err
	}
	defer h.release()
	return HashPassword(password, h.pepper, h.params)
}

// Verify checks password against a stored credential hash.
func (h *PasswordHasher) Verify(ctx context.Context, password, encoded string) (bool, error) {
	if err := h.acquire(ctx); err != nil {
		return false, err
	}
	defer h.release()
	return VerifyPassword(password, encoded, h.pepper)
}

func (h *PasswordHasher) acquire(ctx context.Context) error {
	select {
	case h.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *PasswordHasher) release() {
	<-h.slots
}
