package pipeline

import (
	"errors"
	"fmt"
)

// ConfigurationError means no generation backend is configured. Fatal for
// the request, not for the process: health stays up and reports the state.
type ConfigurationError struct {
	Provider string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("LLM backend %q is not configured; set its API key in the environment", e.Provider)
}

// ErrEmptyDocument means extraction succeeded but yielded no usable text.
var ErrEmptyDocument = errors.New("document yielded no usable text")
