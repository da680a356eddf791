package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestDiff(t *testing.T) {
	contact := func(required bool) *TypeDefinition {
		return &TypeDefinition{
			Name: "Contact",
			Fields: map[string]*FieldDescriptor{
				"firstName": {Type: "String", Features: Features{
					FeatureValidation: map[string]any{"required": required},
				}},
			},
		}
	}

	tests := []struct {
		name     string
		old      TypeMap
		new      TypeMap
		wantDiff *TypeMapDiff // nil means we expect no diff
	}{
		{
			name:     "Initial Load (Old is Nil)",
			old:      nil,
			new:      TypeMap{"Contact": contact(true), "Address": {Name: "Address"}},
			wantDiff: &TypeMapDiff{Added: []string{"Address", "Contact"}},
		},
		{
			name:     "No Changes",
			old:      TypeMap{"Contact": contact(true)},
			new:      TypeMap{"Contact": contact(true)},
			wantDiff: nil,
		},
		{
			name:     "Feature Changed",
			old:      TypeMap{"Contact": contact(true)},
			new:      TypeMap{"Contact": contact(false)},
			wantDiff: &TypeMapDiff{Changed: []string{"Contact"}},
		},
		{
			name:     "Removed And Added",
			old:      TypeMap{"Contact": contact(true), "Address": {Name: "Address"}},
			new:      TypeMap{"Contact": contact(true), "Phone": {Name: "Phone"}},
			wantDiff: &TypeMapDiff{Added: []string{"Phone"}, Removed: []string{"Address"}},
		},
		{
			name:     "Both Empty",
			old:      nil,
			new:      TypeMap{},
			wantDiff: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			if !reflect.DeepEqual(got, tt.wantDiff) {
				gotJSON, _ := json.Marshal(got)
				wantJSON, _ := json.Marshal(tt.wantDiff)
				t.Errorf("Diff() = %s, want %s", gotJSON, wantJSON)
			}
		})
	}
}

func TestTypeMapDiff_IsEmpty(t *testing.T) {
	var nilDiff *TypeMapDiff
	if !nilDiff.IsEmpty() {
		t.Error("nil diff should be empty")
	}
	if (&TypeMapDiff{Removed: []string{"A"}}).IsEmpty() {
		t.Error("diff with removals should not be empty")
	}
}

func TestTypeDefinition_Clone(t *testing.T) {
	orig := &TypeDefinition{
		Name:           "Contact",
		ItemValidators: []string{"a"},
		Fields: map[string]*FieldDescriptor{
			"f": {Type: "String", Features: Features{FeatureValidation: map[string]any{"required": true}}},
		},
	}

	c := orig.Clone()
	if !reflect.DeepEqual(orig, c) {
		t.Fatal("clone should equal the original")
	}

	c.ItemValidators[0] = "b"
	c.Fields["f"].Type = "Number"
	c.Fields["f"].Features[FeatureValidation].(map[string]any)["required"] = false

	if orig.ItemValidators[0] != "a" || orig.Fields["f"].Type != "String" {
		t.Error("clone shares state with the original")
	}
	if orig.Fields["f"].Features[FeatureValidation].(map[string]any)["required"] != true {
		t.Error("clone shares feature blocks with the original")
	}
}

func TestIsMissing(t *testing.T) {
	var nilPtr *int
	var nilMap map[string]any
	tests := []struct {
		value any
		want  bool
	}{
		{nil, true},
		{nilPtr, true},
		{"", false},
		{0, false},
		{false, false},
		{[]any{}, false},
		{nilMap, false},
	}
	for _, tt := range tests {
		if got := IsMissing(tt.value); got != tt.want {
			t.Errorf("IsMissing(%#v) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
