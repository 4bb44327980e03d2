// Package cookieseal protects cookie payloads with AES-256-GCM.
package cookieseal

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/target/mmk-sso/internal/ports"
)

const (
	// Versioned prefixes allow a later key or algorithm rotation.
	sealedPrefixV1 = "v1."
	plainPrefix    = "p1."
)

var (
	_ ports.Sealer = (*AESGCMSealer)(nil)
	_ ports.Sealer = PlainSealer{}
)

// ErrUnsealable is returned for values that were not produced by the sealer.
var ErrUnsealable = errors.New("cookie value cannot be unsealed")

// AESGCMSealer seals values with a random nonce and authenticates them
// against the cookie name they are stored under.
type AESGCMSealer struct {
	aead cipher.AEAD
	aad  []byte
}

// NewAESGCMSealer constructs a sealer. Key must be 32 bytes (AES-256).
func NewAESGCMSealer(key []byte, cookieName string) (*AESGCMSealer, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("aes-gcm key must be 32 bytes, got %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &AESGCMSealer{aead: aead, aad: []byte(cookieName)}, nil
}

// KeyFromSecret derives a 32-byte key. A 64-character hex string is used as-is,
// anything else is hashed.
func KeyFromSecret(secret string) ([]byte, error) {
	if secret == "" {
		return nil, errors.New("cookie secret is required")
	}
	if decoded, err := hex.DecodeString(secret); err == nil && len(decoded) == 32 {
		return decoded, nil
	}
	sum := sha256.Sum256([]byte(secret))
	return sum[:], nil
}

// Seal encrypts plaintext and returns a cookie-safe string.
func (s *AESGCMSealer) Seal(plaintext []byte) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	// nonce||ciphertext
	buf := s.aead.Seal(nonce, nonce, plaintext, s.aad)
	return sealedPrefixV1 + base64.RawURLEncoding.EncodeToString(buf), nil
}

// Open reverses Seal. Tampered, truncated or foreign values yield ErrUnsealable.
func (s *AESGCMSealer) Open(sealed string) ([]byte, error) {
	if !strings.HasPrefix(sealed, sealedPrefixV1) {
		return nil, fmt.Errorf("%w: unknown version", ErrUnsealable)
	}
	data, err := base64.RawURLEncoding.DecodeString(sealed[len(sealedPrefixV1):])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsealable, err)
	}
	n := s.aead.NonceSize()
	if len(data) < n {
		return nil, fmt.Errorf("%w: too short", ErrUnsealable)
	}
	pt, err := s.aead.Open(nil, data[:n], data[n:], s.aad)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsealable, err)
	}
	return pt, nil
}

// PlainSealer only encodes. It is used in development when no secret is configured.
type PlainSealer struct{}

func (PlainSealer) Seal(plaintext []byte) (string, error) {
	return plainPrefix + base64.RawURLEncoding.EncodeToString(plaintext), nil
}

func (PlainSealer) Open(sealed string) ([]byte, error) {
	if !strings.HasPrefix(sealed, plainPrefix) {
		return nil, fmt.Errorf("%w: unknown version", ErrUnsealable)
	}
	data, err := base64.RawURLEncoding.DecodeString(sealed[len(plainPrefix):])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsealable, err)
	}
	return data, nil
}
