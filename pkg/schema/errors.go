package schema

import "fmt"

// Codes of the failures raised by primitive type validators.
const (
	CodeTypeMismatch    = "TYPE_MISMATCH"
	CodePatternMismatch = "PATTERN_MISMATCH"
)

// Issue is a single Type Map inconsistency.
type Issue struct {
	Path   string // e.g. "Contact.fields.firstName.validation.required"
	Reason string // Human-readable reason
	Value  any    // The offending value, if any
}

func (e *Issue) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("%s: %s (got %T)", e.Path, e.Reason, e.Value)
}

// AggregateError represents multiple lint issues.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d type map issues:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// Issues returns all issues if err is an AggregateError.
// Otherwise returns nil.
func Issues(err error) []error {
	if aggr, ok := err.(*AggregateError); ok {
		return aggr.Errors
	}
	return nil
}
