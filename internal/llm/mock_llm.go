package llm

import (
	"context"

	"github.com/stretchr/testify/mock"

	"eduflow/internal/prompt"
)

// MockBackend is a mock implementation of Backend using testify/mock.
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Generate(ctx context.Context, p prompt.Payload) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}

func (m *MockBackend) Name() string {
	args := m.Called()
	return args.String(0)
}
