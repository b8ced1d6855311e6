package cache

import (
	"context"
	"time"

	"eduflow/internal/block"
)

// NoOpCache is a cache implementation that does nothing. Used when no Redis
// is configured - all operations succeed but every lookup is a miss.
type NoOpCache struct{}

// NewNoOpCache creates a new no-op cache instance
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// GetBlock always returns nil (cache miss)
func (c *NoOpCache) GetBlock(ctx context.Context, key string) (*block.LearningBlock, error) {
	return nil, nil
}

// SetBlock does nothing and always succeeds
func (c *NoOpCache) SetBlock(ctx context.Context, key string, b *block.LearningBlock, ttl time.Duration) error {
	return nil
}

// Close does nothing and always succeeds
func (c *NoOpCache) Close() error {
	return nil
}
