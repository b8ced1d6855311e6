package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"eduflow/internal/block"
)

// Cache provides short-TTL caching of generated learning blocks so identical
// direct requests do not pay for a second backend call. Entries expire;
// nothing is durably persisted.
type Cache interface {
	// GetBlock retrieves a cached block by key. Returns nil on a miss.
	GetBlock(ctx context.Context, key string) (*block.LearningBlock, error)

	// SetBlock stores a block with TTL.
	SetBlock(ctx context.Context, key string, b *block.LearningBlock, ttl time.Duration) error

	// Close closes the cache connection.
	Close() error
}

// Key derives a stable cache key from the request parameters.
func Key(provider, sujet, niveau, objectif string) string {
	h := sha256.Sum256([]byte(strings.Join([]string{provider, sujet, niveau, objectif}, "\x00")))
	return hex.EncodeToString(h[:])
}
