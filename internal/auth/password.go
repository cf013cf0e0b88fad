package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	hashScheme = "pbkdf2-sha256"

	// DefaultIterations matches the common pbkdf2-sha256 default
	DefaultIterations = 29000

	saltLength = 16
	keyLength  = 32
)

// abEncoding is base64 with '.' in place of '+' and no padding, so hashes
// stay compatible with the widely used "$pbkdf2-sha256$" modular crypt format
var abEncoding = base64.NewEncoding("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789./").WithPadding(base64.NoPadding)

// Hasher derives and verifies PBKDF2-SHA256 password hashes encoded as
// $pbkdf2-sha256$<iterations>$<salt>$<checksum>
type Hasher struct {
	iterations int
}

// NewHasher creates a hasher; non-positive iterations select DefaultIterations
func NewHasher(iterations int) *Hasher {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &Hasher{iterations: iterations}
}

// Hash derives an encoded hash for password using a fresh random salt
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, h.iterations, keyLength, sha256.New)

	return fmt.Sprintf("$%s$%d$%s$%s",
		hashScheme, h.iterations, abEncoding.EncodeToString(salt), abEncoding.EncodeToString(key)), nil
}

// Verify reports whether password matches the encoded hash
func (h *Hasher) Verify(password, encoded string) (bool, error) {
	iterations, salt, want, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}

	got := pbkdf2.Key([]byte(password), salt, iterations, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func decodeHash(encoded string) (int, []byte, []byte, error) {
	// "", scheme, iterations, salt, checksum
	parts := strings.Split(encoded, "$")
	if len(parts) != 5 || parts[0] != "" || parts[1] != hashScheme {
		return 0, nil, nil, fmt.Errorf("unsupported password hash format")
	}

	iterations, err := strconv.Atoi(parts[2])
	if err != nil || iterations <= 0 {
		return 0, nil, nil, fmt.Errorf("invalid iteration count %q", parts[2])
	}

	salt, err := abEncoding.DecodeString(parts[3])
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to decode salt: %w", err)
	}

	key, err := abEncoding.DecodeString(parts[4])
	if err != nil || len(key) == 0 {
		return 0, nil, nil, fmt.Errorf("failed to decode checksum")
	}

	return iterations, salt, key, nil
}
