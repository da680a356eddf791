package schema

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/aretw0/atv/pkg/domain"
	"github.com/aretw0/atv/pkg/validator"
)

// Type defines the contract for primitive value checks.
type Type interface {
	// Name returns the type name as written in a Type Map (e.g., "String").
	Name() string
	// Validate checks if a present value conforms to this type.
	Validate(value any) error
}

// Built-in primitive type names.
const (
	NameString  = "String"
	NameNumber  = "Number"
	NameInteger = "Integer"
	NameBoolean = "Boolean"
)

// --- Built-in Type Implementations ---

// StringType validates string values.
type StringType struct{}

func (t *StringType) Name() string { return NameString }

func (t *StringType) Validate(value any) error {
	if _, ok := value.(string); !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

// NumberType validates numeric values, including decoded JSON numbers.
type NumberType struct{}

func (t *NumberType) Name() string { return NameNumber }

func (t *NumberType) Validate(value any) error {
	if _, ok := toFloat(value); !ok {
		return fmt.Errorf("expected number, got %T", value)
	}
	return nil
}

// IntegerType validates integer values.
type IntegerType struct{}

func (t *IntegerType) Name() string { return NameInteger }

func (t *IntegerType) Validate(value any) error {
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return nil
	}
	f, ok := toFloat(value)
	if !ok {
		return fmt.Errorf("expected integer, got %T", value)
	}
	// Accept floats that are whole numbers (from JSON unmarshaling)
	if f != float64(int64(f)) {
		return fmt.Errorf("expected integer, got %v", f)
	}
	return nil
}

// BooleanType validates boolean values.
type BooleanType struct{}

func (t *BooleanType) Name() string { return NameBoolean }

func (t *BooleanType) Validate(value any) error {
	if _, ok := value.(bool); !ok {
		return fmt.Errorf("expected boolean, got %T", value)
	}
	return nil
}

// ListType validates sequences of a specific element type.
type ListType struct {
	elemType Type
}

func (t *ListType) Name() string {
	return fmt.Sprintf("[%s]", t.elemType.Name())
}

func (t *ListType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("expected list, got %T", value)
	}

	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i).Interface()
		if err := t.elemType.Validate(elem); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

// --- Factory Functions ---

// String creates a string type check.
func String() Type { return &StringType{} }

// Number creates a number type check.
func Number() Type { return &NumberType{} }

// Integer creates an integer type check.
func Integer() Type { return &IntegerType{} }

// Boolean creates a boolean type check.
func Boolean() Type { return &BooleanType{} }

// List creates a list type check for elements of the given type.
func List(elemType Type) Type {
	return &ListType{elemType: elemType}
}

// ParseType converts a type name to a Type.
// Supports the primitive names and bracketed lists of them: "[String]".
func ParseType(name string) (Type, error) {
	if len(name) > 2 && name[0] == '[' && name[len(name)-1] == ']' {
		elemType, err := ParseType(name[1 : len(name)-1])
		if err != nil {
			return nil, err
		}
		return List(elemType), nil
	}

	switch name {
	case NameString:
		return String(), nil
	case NameNumber:
		return Number(), nil
	case NameInteger:
		return Integer(), nil
	case NameBoolean:
		return Boolean(), nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", name)
	}
}

// IsPrimitiveName reports whether name parses to a built-in Type.
func IsPrimitiveName(name string) bool {
	_, err := ParseType(name)
	return err == nil
}

// TypeValidators returns a type-level validator for every type of typeMap
// whose name is a built-in primitive. A failed check raises TYPE_MISMATCH
// with the expected type name as data. String types honour a "pattern" key in
// their validation feature.
func TypeValidators(typeMap domain.TypeMap) map[string]validator.TypeValidator {
	out := make(map[string]validator.TypeValidator)
	for name := range typeMap {
		typ, err := ParseType(name)
		if err != nil {
			continue
		}
		out[name] = typeValidator(typ)
	}
	return out
}

func typeValidator(typ Type) validator.TypeValidator {
	return func(_ context.Context, value, config any, _ string) error {
		if err := typ.Validate(value); err != nil {
			return validator.NewFieldError(CodeTypeMismatch, typ.Name())
		}
		if typ.Name() != NameString {
			return nil
		}
		cfg, _ := domain.ConfigMap(config)
		pattern, _ := cfg["pattern"].(string)
		if pattern == "" {
			return nil
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("String pattern %q: %w", pattern, err)
		}
		if !re.MatchString(value.(string)) {
			return validator.NewFieldError(CodePatternMismatch, pattern)
		}
		return nil
	}
}

func toFloat(v any) (float64, bool) {
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
	case interface{ Float64() (float64, error) }:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func typeName(v any) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", v), "*")
}
