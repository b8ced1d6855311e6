package block

import "fmt"

// MalformedResponseError reports backend output that is not valid JSON after
// fence stripping. Preview holds a bounded prefix of the raw output so the
// failure is diagnosable without replaying the request.
type MalformedResponseError struct {
	Preview string
	Err     error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed backend response: %v (response starts: %q)", e.Err, e.Preview)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// SchemaViolationError reports valid JSON that breaks the LearningBlock
// contract. Field names the first violated field; later violations are not
// collected since the caller only needs to know generation must be retried.
type SchemaViolationError struct {
	Field  string
	Reason string
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("learning block schema violation at %q: %s", e.Field, e.Reason)
}
