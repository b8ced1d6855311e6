package cache

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"eduflow/internal/block"
)

// MockCache is a mock implementation of Cache using testify/mock.
type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetBlock(ctx context.Context, key string) (*block.LearningBlock, error) {
	args := m.Called(ctx, key)
	if b := args.Get(0); b != nil {
		return b.(*block.LearningBlock), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCache) SetBlock(ctx context.Context, key string, b *block.LearningBlock, ttl time.Duration) error {
	args := m.Called(ctx, key, b, ttl)
	return args.Error(0)
}

func (m *MockCache) Close() error {
	args := m.Called()
	return args.Error(0)
}
