package schema

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aretw0/atv/pkg/domain"
	"github.com/aretw0/atv/pkg/validator"
)

func TestStringType(t *testing.T) {
	typ := String()

	if typ.Name() != "String" {
		t.Errorf("Name() = %q, want %q", typ.Name(), "String")
	}

	tests := []struct {
		value   any
		wantErr bool
	}{
		{"hello", false},
		{"", false},
		{42, true},
		{3.14, true},
		{true, true},
		{nil, true},
	}

	for _, tt := range tests {
		err := typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestIntegerType(t *testing.T) {
	typ := Integer()

	tests := []struct {
		value   any
		wantErr bool
	}{
		{42, false},
		{int8(42), false},
		{int64(42), false},
		{uint(42), false},
		{float64(42), false},  // whole number
		{float64(42.5), true}, // not whole
		{json.Number("7"), false},
		{json.Number("7.5"), true},
		{"42", true},
		{true, true},
		{nil, true},
	}

	for _, tt := range tests {
		err := typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestNumberType(t *testing.T) {
	typ := Number()

	tests := []struct {
		value   any
		wantErr bool
	}{
		{3.14, false},
		{float32(3.14), false},
		{42, false},
		{int64(42), false},
		{json.Number("1e3"), false},
		{"3.14", true},
		{true, true},
		{nil, true},
	}

	for _, tt := range tests {
		err := typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestBooleanType(t *testing.T) {
	typ := Boolean()

	tests := []struct {
		value   any
		wantErr bool
	}{
		{true, false},
		{false, false},
		{1, true},
		{"true", true},
		{nil, true},
	}

	for _, tt := range tests {
		err := typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestListType(t *testing.T) {
	stringList := List(String())
	intList := List(Integer())
	nested := List(List(String()))

	tests := []struct {
		typ     Type
		value   any
		wantErr bool
		desc    string
	}{
		{stringList, []string{"a", "b"}, false, "string slice"},
		{stringList, []string{}, false, "empty string slice"},
		{stringList, []any{"a", "b"}, false, "any slice with strings"},
		{stringList, []int{1, 2}, true, "slice of ints when expecting strings"},
		{stringList, "not a slice", true, "string instead of slice"},
		{intList, []any{1, 2, 3}, false, "any slice with ints"},
		{intList, []any{1, "2", 3}, true, "mixed slice"},
		{nested, [][]string{{"a"}, {"b", "c"}}, false, "nested string slices"},
	}

	for _, tt := range tests {
		err := tt.typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate(%v) error = %v, wantErr %v", tt.desc, tt.value, err, tt.wantErr)
		}
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		input    string
		wantErr  bool
		wantName string
	}{
		{"String", false, "String"},
		{"Number", false, "Number"},
		{"Integer", false, "Integer"},
		{"Boolean", false, "Boolean"},
		{"[String]", false, "[String]"},
		{"[[Integer]]", false, "[[Integer]]"},
		{"string", true, ""},
		{"Contact", true, ""},
		{"[Contact]", true, ""},
	}

	for _, tt := range tests {
		typ, err := ParseType(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && typ.Name() != tt.wantName {
			t.Errorf("ParseType(%q) Name() = %q, want %q", tt.input, typ.Name(), tt.wantName)
		}
	}
}

func TestTypeValidators(t *testing.T) {
	typeMap := domain.TypeMap{
		"String":  {Name: "String", Primitive: true},
		"Integer": {Name: "Integer", Primitive: true},
		"Contact": {Name: "Contact"},
	}

	validators := TypeValidators(typeMap)
	if len(validators) != 2 {
		t.Fatalf("TypeValidators() len = %d, want 2", len(validators))
	}
	if _, ok := validators["Contact"]; ok {
		t.Error("composite types must not get a type validator")
	}

	ctx := context.Background()
	if err := validators["String"](ctx, "Jane", nil, "String"); err != nil {
		t.Errorf("String(Jane) error = %v", err)
	}

	err := validators["Integer"](ctx, "7", nil, "Integer")
	var fe *validator.FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("Integer(\"7\") error = %v, want *validator.FieldError", err)
	}
	if fe.Code != CodeTypeMismatch || fe.Data != "Integer" {
		t.Errorf("got %s (%v), want %s (Integer)", fe.Code, fe.Data, CodeTypeMismatch)
	}
}

func TestTypeValidators_StringPattern(t *testing.T) {
	fn := TypeValidators(domain.TypeMap{"String": {Name: "String"}})["String"]
	cfg := map[string]any{"pattern": "^[A-Z]"}
	ctx := context.Background()

	if err := fn(ctx, "Jane", cfg, "String"); err != nil {
		t.Errorf("Jane error = %v", err)
	}

	err := fn(ctx, "jane", cfg, "String")
	var fe *validator.FieldError
	if !errors.As(err, &fe) || fe.Code != CodePatternMismatch {
		t.Errorf("jane error = %v, want %s", err, CodePatternMismatch)
	}

	if err := fn(ctx, "x", map[string]any{"pattern": "("}, "String"); err == nil {
		t.Error("invalid pattern should fail")
	}
}
