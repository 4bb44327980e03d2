package memory

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/target/mmk-sso/internal/ports"
)

var _ ports.CodeLedger = (*CodeLedger)(nil)

// CodeLedger remembers redeemed codes for a single process.
type CodeLedger struct {
	m *ttlMap[struct{}]
}

// NewCodeLedger returns an empty ledger. now may be nil.
func NewCodeLedger(now func() time.Time) *CodeLedger {
	return &CodeLedger{m: newTTLMap[struct{}](now)}
}

// Claim records a digest of code and reports whether it was new.
func (l *CodeLedger) Claim(_ context.Context, code string, ttl time.Duration) (bool, error) {
	if code == "" {
		return false, errors.New("authorization code cannot be empty")
	}
	if ttl <= 0 {
		return false, errors.New("ttl must be positive")
	}
	sum := sha256.Sum256([]byte(code))
	return l.m.setNX(hex.EncodeToString(sum[:]), struct{}{}, ttl), nil
}
