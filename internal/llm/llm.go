package llm

import (
	"context"
	"fmt"

	"eduflow/internal/prompt"
)

// Backend is a minimal generation interface to allow pluggable providers.
// Implementations return the model's raw text output; schema enforcement is
// deliberately deferred to the response normalizer.
type Backend interface {
	Generate(ctx context.Context, p prompt.Payload) (string, error)
	Name() string
}

// BackendError wraps provider-level failures (authentication, rate limit,
// network) in a single uniform type so the pipeline never branches on which
// provider is active.
type BackendError struct {
	Provider string
	Err      error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Provider, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }
