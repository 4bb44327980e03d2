package redis

// Package redis provides Redis-based adapters shared by every replica.

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/target/mmk-sso/internal/ports"
)

var _ ports.CodeLedger = (*CodeLedger)(nil)

// CodeLedger records redeemed authorization codes with SET NX so that only
// one replica ever exchanges a given code.
type CodeLedger struct {
	client redis.UniversalClient
	prefix string
}

// NewCodeLedger creates a ledger with the default key prefix.
func NewCodeLedger(client redis.UniversalClient) *CodeLedger {
	return NewCodeLedgerWithPrefix(client, "")
}

// NewCodeLedgerWithPrefix creates a ledger whose keys start with prefix.
func NewCodeLedgerWithPrefix(client redis.UniversalClient, prefix string) *CodeLedger {
	return &CodeLedger{client: client, prefix: prefix + "authcode:"}
}

// Claim stores a digest of code. The code itself is never written.
func (l *CodeLedger) Claim(ctx context.Context, code string, ttl time.Duration) (bool, error) {
	if code == "" {
		return false, errors.New("authorization code cannot be empty")
	}
	if ttl <= 0 {
		return false, errors.New("ttl must be positive")
	}

	sum := sha256.Sum256([]byte(code))
	key := l.prefix + hex.EncodeToString(sum[:])

	ok, err := l.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}
