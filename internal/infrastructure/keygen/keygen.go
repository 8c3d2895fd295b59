// Package keygen generates and parses worker API keys.
//
// A key has the layout {prefix}_{short_token}_{secret}. The short token is the
// lookup handle stored in clear; only a BLAKE2b-256 digest of the secret is stored.
package keygen

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/rezkam/taskdesk/internal/domain"
	"golang.org/x/crypto/blake2b"
)

// DefaultPrefix marks keys issued by this service.
const DefaultPrefix = "tdk"

const (
	shortTokenBytes = 6  // 12 hex chars
	secretBytes     = 32 // 43 base64 chars
)

// Key is a parsed or freshly generated API key.
type Key struct {
	Prefix     string
	ShortToken string
	Secret     string
	Full       string
}

// Generate creates a key with the given prefix.
// The short token is derived from the secret's digest so it carries the secret's entropy.
func Generate(prefix string) (*Key, error) {
	if prefix == "" || strings.Contains(prefix, "_") {
		return nil, fmt.Errorf("%w: prefix %q", domain.ErrInvalidAPIKeyFormat, prefix)
	}

	raw := make([]byte, secretBytes)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	secret := base64.RawURLEncoding.EncodeToString(raw)

	sum := blake2b.Sum256([]byte(secret))
	short := hex.EncodeToString(sum[:shortTokenBytes])

	return &Key{
		Prefix:     prefix,
		ShortToken: short,
		Secret:     secret,
		Full:       prefix + "_" + short + "_" + secret,
	}, nil
}

// Parse splits a key into its parts. The secret may itself contain underscores.
func Parse(key string) (*Key, error) {
	parts := strings.SplitN(key, "_", 3)
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 parts, got %d", domain.ErrInvalidAPIKeyFormat, len(parts))
	}
	if parts[0] == "" || len(parts[1]) != 2*shortTokenBytes || parts[2] == "" {
		return nil, domain.ErrInvalidAPIKeyFormat
	}
	if _, err := hex.DecodeString(parts[1]); err != nil {
		return nil, fmt.Errorf("%w: short token is not hex", domain.ErrInvalidAPIKeyFormat)
	}

	return &Key{
		Prefix:     parts[0],
		ShortToken: parts[1],
		Secret:     parts[2],
		Full:       key,
	}, nil
}

// Display returns a safe-to-show form, e.g. "tdk_a3f5d8c2b4e6_****".
func (k *Key) Display() string {
	return k.Prefix + "_" + k.ShortToken + "_****"
}

// HashSecret returns the hex-encoded BLAKE2b-256 digest of the secret.
func HashSecret(secret string) string {
	sum := blake2b.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// Mask returns a loggable form of a raw key that reveals only its prefix.
func Mask(key string) string {
	k, err := Parse(key)
	if err != nil {
		return "***"
	}
	return k.Prefix + "_***"
}
