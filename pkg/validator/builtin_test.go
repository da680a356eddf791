package validator_test

import (
	"context"
	"encoding/json"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"

	"github.com/aretw0/atv/pkg/validator"
)

func TestRequired(t *testing.T) {
	var nilPtr *string
	tests := []struct {
		name   string
		config any
		value  any
		fails  bool
	}{
		{"nil value", true, nil, true},
		{"nil pointer", true, nilPtr, true},
		{"empty string is present", true, "", false},
		{"zero is present", true, 0, false},
		{"false is present", true, false, false},
		{"empty slice is present", true, []any{}, false},
		{"not required", false, nil, false},
		{"config absent", nil, nil, false},
		{"truthy number config", 1, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.Required(context.Background(), tt.config, tt.value, "Contact", "firstName")
			if tt.fails {
				assert.ErrorIs(t, err, validator.ErrMissingRequiredField)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLengthValidators(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		fn    validator.FieldFeatureValidator
		bound any
		value any
		want  error
	}{
		{"exact ok", validator.RequiredLength, 2, []any{1, 2}, nil},
		{"exact short", validator.RequiredLength, 2, []any{1}, validator.ErrIncorrectNumberOfValues},
		{"exact long", validator.RequiredLength, 2, []int{1, 2, 3}, validator.ErrIncorrectNumberOfValues},
		{"exact non sequence", validator.RequiredLength, 1, "a", validator.ErrIncorrectNumberOfValues},
		{"min ok", validator.RequiredLengthMin, 2, []any{1, 2}, nil},
		{"min short", validator.RequiredLengthMin, 2, []any{1}, validator.ErrLessThanMinimumNumberOfValues},
		{"min missing", validator.RequiredLengthMin, 1, nil, validator.ErrLessThanMinimumNumberOfValues},
		{"max ok", validator.RequiredLengthMax, 2, [2]int{1, 2}, nil},
		{"max long", validator.RequiredLengthMax, 2, []any{1, 2, 3}, validator.ErrGreaterThanMaximumNumberOfValues},
		{"max non sequence", validator.RequiredLengthMax, 2, map[string]any{}, validator.ErrGreaterThanMaximumNumberOfValues},
		{"non numeric bound ignored", validator.RequiredLengthMin, "2", []any{}, nil},
		{"bool bound ignored", validator.RequiredLengthMax, true, []any{1, 2}, nil},
		{"float bound", validator.RequiredLengthMin, 1.5, []any{1}, validator.ErrLessThanMinimumNumberOfValues},
		{"json number bound", validator.RequiredLength, json.Number("3"), []any{1, 2, 3}, nil},
		{"go-json number bound", validator.RequiredLengthMax, gojson.Number("1"), []any{1, 2}, validator.ErrGreaterThanMaximumNumberOfValues},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn(ctx, tt.bound, tt.value, "T", "f")
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)

			var fe *validator.FieldError
			if assert.ErrorAs(t, err, &fe) {
				assert.Equal(t, tt.bound, fe.Data)
			}
		})
	}
}

func TestLengthProperties(t *testing.T) {
	ctx := context.Background()
	for n := 0; n <= 4; n++ {
		for size := 0; size <= 6; size++ {
			value := make([]any, size)

			err := validator.RequiredLength(ctx, n, value, "T", "f")
			assert.Equal(t, size != n, err != nil, "requiredLength=%d len=%d", n, size)

			err = validator.RequiredLengthMin(ctx, n, value, "T", "f")
			assert.Equal(t, size < n, err != nil, "requiredLengthMin=%d len=%d", n, size)

			err = validator.RequiredLengthMax(ctx, n, value, "T", "f")
			assert.Equal(t, size > n, err != nil, "requiredLengthMax=%d len=%d", n, size)
		}
	}
}

func TestDefaultFieldFeatureValidators_Aliases(t *testing.T) {
	m := validator.DefaultFieldFeatureValidators()
	assert.Len(t, m, 6)
	for _, key := range []string{"required", "requiredLength", "requiredLengthMin", "requiredLengthAtLeast", "requiredLengthMax", "requiredLengthAtMost"} {
		assert.Contains(t, m, key)
	}
}
