package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/atv/pkg/domain"
)

// Kind classifies a ValidationError by what was validated.
type Kind string

const (
	InvalidValue    Kind = "INVALID_VALUE"
	InvalidItem     Kind = "INVALID_ITEM"
	InvalidItemList Kind = "INVALID_ITEM_LIST"
)

// Failure codes.
const (
	CodeValidationError                  = "VALIDATION_ERROR"
	CodeMissingRequiredField             = "MISSING_REQUIRED_FIELD"
	CodeIncorrectNumberOfValues          = "INCORRECT_NUMBER_OF_VALUES"
	CodeLessThanMinimumNumberOfValues    = "LESS_THAN_MINIMUM_NUMBER_OF_VALUES"
	CodeGreaterThanMaximumNumberOfValues = "GREATER_THAN_MAXIMUM_NUMBER_OF_VALUES"
)

// FieldError is a single validator failure identified by Code.
// Data carries associated information, such as the configured bound of a
// length constraint.
type FieldError struct {
	Code string
	Data any
}

// NewFieldError creates a FieldError.
func NewFieldError(code string, data any) *FieldError {
	return &FieldError{Code: code, Data: data}
}

func (e *FieldError) Error() string {
	if e.Data == nil {
		return e.Code
	}
	return fmt.Sprintf("%s (%v)", e.Code, e.Data)
}

// Is matches any FieldError with the same Code, so the sentinels below work
// with errors.Is regardless of Data.
func (e *FieldError) Is(target error) bool {
	t, ok := target.(*FieldError)
	return ok && t.Code == e.Code
}

func (e *FieldError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Code string `json:"code"`
		Data any    `json:"data,omitempty"`
	}{e.Code, e.Data})
}

// Sentinels for errors.Is.
var (
	ErrMissingRequiredField             = &FieldError{Code: CodeMissingRequiredField}
	ErrIncorrectNumberOfValues          = &FieldError{Code: CodeIncorrectNumberOfValues}
	ErrLessThanMinimumNumberOfValues    = &FieldError{Code: CodeLessThanMinimumNumberOfValues}
	ErrGreaterThanMaximumNumberOfValues = &FieldError{Code: CodeGreaterThanMaximumNumberOfValues}
)

// ErrValidation matches every ValidationError through errors.Is.
var ErrValidation = errors.New(CodeValidationError)

// ValidationError aggregates the failures of every validator that failed for
// one value, item or item list.
type ValidationError struct {
	Type    Kind
	Reasons map[string]error

	order []string
}

func (e *ValidationError) Error() string {
	names := e.Names()
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %v", name, e.Reasons[name]))
	}
	return fmt.Sprintf("%s: %s [%s]", CodeValidationError, e.Type, strings.Join(parts, "; "))
}

// Names returns the failed validator names in the order they were recorded.
func (e *ValidationError) Names() []string {
	if len(e.order) == len(e.Reasons) {
		return append([]string(nil), e.order...)
	}
	// Built by hand; fall back to lexical order.
	names := make([]string, 0, len(e.Reasons))
	for name := range e.Reasons {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reason returns the failure recorded under name, or nil.
func (e *ValidationError) Reason(name string) error {
	return e.Reasons[name]
}

// Unwrap exposes every reason to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error {
	names := e.Names()
	errs := make([]error, 0, len(names))
	for _, name := range names {
		errs = append(errs, e.Reasons[name])
	}
	return errs
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) MarshalJSON() ([]byte, error) {
	reasons := make(map[string]any, len(e.Reasons))
	for name, reason := range e.Reasons {
		reasons[name] = domain.DescribeError(reason)
	}
	return json.Marshal(struct {
		Message string         `json:"message"`
		Type    Kind           `json:"type"`
		Reasons map[string]any `json:"reasons"`
	}{CodeValidationError, e.Type, reasons})
}

// AsValidationError extracts the first ValidationError in err's tree.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// PanicError is recorded in place of a validator that panicked.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("validator panicked: %v", e.Value)
}
