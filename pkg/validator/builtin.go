package validator

import (
	"context"
	"reflect"

	"github.com/aretw0/atv/pkg/domain"
)

// DefaultFieldFeatureValidators returns the built-in field-feature
// validators, used when no field-feature map is configured.
func DefaultFieldFeatureValidators() map[string]FieldFeatureValidator {
	return map[string]FieldFeatureValidator{
		domain.KeyRequired:              Required,
		domain.KeyRequiredLength:        RequiredLength,
		domain.KeyRequiredLengthMin:     RequiredLengthMin,
		domain.KeyRequiredLengthAtLeast: RequiredLengthMin,
		domain.KeyRequiredLengthMax:     RequiredLengthMax,
		domain.KeyRequiredLengthAtMost:  RequiredLengthMax,
	}
}

// Required fails with MISSING_REQUIRED_FIELD when config is truthy and value
// is missing (see domain.IsMissing). Zero values are not missing.
func Required(_ context.Context, config, value any, _, _ string) error {
	if truthy(config) && domain.IsMissing(value) {
		return NewFieldError(CodeMissingRequiredField, nil)
	}
	return nil
}

// RequiredLength fails with INCORRECT_NUMBER_OF_VALUES unless value is a
// sequence of exactly config elements. Non-numeric configs are ignored.
func RequiredLength(_ context.Context, config, value any, _, _ string) error {
	bound, ok := number(config)
	if !ok {
		return nil
	}
	if n, isSeq := length(value); !isSeq || float64(n) != bound {
		return NewFieldError(CodeIncorrectNumberOfValues, config)
	}
	return nil
}

// RequiredLengthMin fails with LESS_THAN_MINIMUM_NUMBER_OF_VALUES unless value
// is a sequence of at least config elements.
func RequiredLengthMin(_ context.Context, config, value any, _, _ string) error {
	bound, ok := number(config)
	if !ok {
		return nil
	}
	if n, isSeq := length(value); !isSeq || float64(n) < bound {
		return NewFieldError(CodeLessThanMinimumNumberOfValues, config)
	}
	return nil
}

// RequiredLengthMax fails with GREATER_THAN_MAXIMUM_NUMBER_OF_VALUES unless
// value is a sequence of at most config elements.
func RequiredLengthMax(_ context.Context, config, value any, _, _ string) error {
	bound, ok := number(config)
	if !ok {
		return nil
	}
	if n, isSeq := length(value); !isSeq || float64(n) > bound {
		return NewFieldError(CodeGreaterThanMaximumNumberOfValues, config)
	}
	return nil
}

// length returns the number of elements of a slice or array.
// Strings are not sequences.
func length(v any) (int, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Len(), true
	}
	return 0, false
}

// elements returns the elements of a slice or array.
func elements(v any) ([]any, bool) {
	if list, ok := v.([]any); ok {
		return list, true
	}
	n, ok := length(v)
	if !ok {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	out := make([]any, n)
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

type floater interface {
	Float64() (float64, error)
}

// number converts numeric configuration values, including json.Number
// flavours, to float64. Booleans and strings are not numeric.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case floater:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// truthy follows loose truthiness: false, nil, zero numbers and "" are
// false; everything else is true.
func truthy(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case string:
		return b != ""
	}
	if f, ok := number(v); ok {
		return f != 0
	}
	return true
}
