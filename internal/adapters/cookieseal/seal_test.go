package cookieseal

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestAESGCMSealer_RoundTrip(t *testing.T) {
	s, err := NewAESGCMSealer(testKey(), "user_info")
	require.NoError(t, err)

	plaintext := []byte(`{"name":"Alice","roles":["Superuser"]}`)
	sealed, err := s.Seal(plaintext)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sealed, "v1."))
	assert.NotContains(t, sealed, "Alice")

	opened, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}

func TestAESGCMSealer_NonceIsRandom(t *testing.T) {
	s, err := NewAESGCMSealer(testKey(), "user_info")
	require.NoError(t, err)

	a, err := s.Seal([]byte("same"))
	require.NoError(t, err)
	b, err := s.Seal([]byte("same"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestAESGCMSealer_RejectsTampering(t *testing.T) {
	s, err := NewAESGCMSealer(testKey(), "user_info")
	require.NoError(t, err)
	sealed, err := s.Seal([]byte(`{"roles":["User"]}`))
	require.NoError(t, err)

	// Flip a character in the payload.
	b := []byte(sealed)
	i := len(b) - 5
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}

	tests := map[string]string{
		"tampered":     string(b),
		"truncated":    sealed[:6],
		"plain json":   `{"roles":["Admin"]}`,
		"bad encoding": "v1.***",
		"plain sealed": "p1.eyJyb2xlcyI6WyJBZG1pbiJdfQ",
	}
	for name, val := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := s.Open(val)
			require.ErrorIs(t, err, ErrUnsealable)
		})
	}
}

func TestAESGCMSealer_BoundToCookieName(t *testing.T) {
	a, err := NewAESGCMSealer(testKey(), "user_info")
	require.NoError(t, err)
	b, err := NewAESGCMSealer(testKey(), "other")
	require.NoError(t, err)

	sealed, err := a.Seal([]byte("x"))
	require.NoError(t, err)
	_, err = b.Open(sealed)
	require.ErrorIs(t, err, ErrUnsealable)
}

func TestNewAESGCMSealer_KeyLength(t *testing.T) {
	_, err := NewAESGCMSealer([]byte("short"), "user_info")
	require.Error(t, err)
}

func TestKeyFromSecret(t *testing.T) {
	hexKey := strings.Repeat("ab", 32)
	k, err := KeyFromSecret(hexKey)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{0xab}, 32), k)

	k1, err := KeyFromSecret("correct horse battery staple")
	require.NoError(t, err)
	k2, err := KeyFromSecret("correct horse battery staple")
	require.NoError(t, err)
	assert.Len(t, k1, 32)
	assert.Equal(t, k1, k2)

	_, err = KeyFromSecret("")
	require.Error(t, err)
}

func TestSealedValueIsCookieSafe(t *testing.T) {
	s, err := NewAESGCMSealer(testKey(), "user_info")
	require.NoError(t, err)
	sealed, err := s.Seal([]byte(`{"name":"O'Brien; \"Admin\"","roles":["User"]}`))
	require.NoError(t, err)

	c := &http.Cookie{Name: "user_info", Value: sealed}
	assert.Contains(t, c.String(), "user_info="+sealed)
}

func TestPlainSealer(t *testing.T) {
	var s PlainSealer
	sealed, err := s.Seal([]byte(`{"name":"Bob"}`))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sealed, "p1."))

	opened, err := s.Open(sealed)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Bob"}`, string(opened))

	_, err = s.Open(`{"name":"Bob"}`)
	require.ErrorIs(t, err, ErrUnsealable)
}
