package domain

import (
	"fmt"
	"reflect"
	"sort"
)

// Features maps a feature name to its configuration block.
type Features map[string]any

// FieldDescriptor describes one field of a composite type.
type FieldDescriptor struct {
	Type  string `json:"type" yaml:"type" mapstructure:"type"`
	Label string `json:"label,omitempty" yaml:"label,omitempty" mapstructure:"label"`
	// Multiple marks the value as a sequence of Type.
	Multiple bool     `json:"multiple,omitempty" yaml:"multiple,omitempty" mapstructure:"multiple"`
	Features Features `json:"features,omitempty" yaml:"features,omitempty" mapstructure:"features"`
}

// TypeDefinition is a named entry of a TypeMap.
type TypeDefinition struct {
	Name      string `json:"name" yaml:"name" mapstructure:"name"`
	Label     string `json:"label,omitempty" yaml:"label,omitempty" mapstructure:"label"`
	Primitive bool   `json:"primitive,omitempty" yaml:"primitive,omitempty" mapstructure:"primitive"`
	// Description is free text, e.g. the body of a Markdown type document.
	Description string                      `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Fields      map[string]*FieldDescriptor `json:"fields,omitempty" yaml:"fields,omitempty" mapstructure:"fields"`
	Features    Features                    `json:"features,omitempty" yaml:"features,omitempty" mapstructure:"features"`

	// ItemValidators are run, in order, against whole items of this type.
	ItemValidators []string `json:"itemValidators,omitempty" yaml:"itemValidators,omitempty" mapstructure:"itemValidators"`
	// ListValidators are run, in order, against sequences of items of this type.
	ListValidators []string `json:"listValidators,omitempty" yaml:"listValidators,omitempty" mapstructure:"listValidators"`
}

// FieldNames returns the declared field names in lexical order.
func (d *TypeDefinition) FieldNames() []string {
	if d == nil {
		return nil
	}
	names := make([]string, 0, len(d.Fields))
	for name := range d.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Field returns the descriptor of fieldName, or nil.
func (d *TypeDefinition) Field(fieldName string) *FieldDescriptor {
	if d == nil || d.Fields == nil {
		return nil
	}
	return d.Fields[fieldName]
}

// TypeMap maps type names to their definitions.
type TypeMap map[string]*TypeDefinition

// Names returns the type names in lexical order.
func (m TypeMap) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Normalize fills empty definition names from their map keys.
// It returns an error for nil definitions.
func (m TypeMap) Normalize() error {
	for name, def := range m {
		if def == nil {
			return fmt.Errorf("type %q: nil definition", name)
		}
		if def.Name == "" {
			def.Name = name
		}
	}
	return nil
}

// IsMissing reports whether v is the "absent" sentinel: an untyped nil or a
// nil pointer or interface. Zero values such as 0, "" or an empty slice are
// present.
func IsMissing(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// StringList converts a configuration value into a list of strings.
// It accepts []string and []any holding only strings.
func StringList(v any) ([]string, bool) {
	switch list := v.(type) {
	case nil:
		return nil, true
	case []string:
		return list, true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// ConfigMap converts a feature block into a map. Absent blocks yield an
// empty map.
func ConfigMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case nil:
		return map[string]any{}, true
	case map[string]any:
		return m, true
	case Features:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	}
	return nil, false
}

// Clone returns a copy of d that shares no maps or slices with it.
// Feature blocks are copied one level deep.
func (d *TypeDefinition) Clone() *TypeDefinition {
	if d == nil {
		return nil
	}
	out := *d
	out.Features = cloneFeatures(d.Features)
	out.ItemValidators = append([]string(nil), d.ItemValidators...)
	out.ListValidators = append([]string(nil), d.ListValidators...)
	if d.Fields != nil {
		out.Fields = make(map[string]*FieldDescriptor, len(d.Fields))
		for name, fd := range d.Fields {
			if fd == nil {
				out.Fields[name] = nil
				continue
			}
			c := *fd
			c.Features = cloneFeatures(fd.Features)
			out.Fields[name] = &c
		}
	}
	return &out
}

func cloneFeatures(f Features) Features {
	if f == nil {
		return nil
	}
	out := make(Features, len(f))
	for k, v := range f {
		if m, ok := v.(map[string]any); ok {
			cp := make(map[string]any, len(m))
			for mk, mv := range m {
				cp[mk] = mv
			}
			v = cp
		}
		out[k] = v
	}
	return out
}
