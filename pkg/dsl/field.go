package dsl

import "github.com/aretw0/atv/pkg/domain"

// FieldBuilder provides a fluent API for configuring a field.
type FieldBuilder struct {
	field  *domain.FieldDescriptor
	parent *TypeBuilder
}

// Label sets the display label.
func (f *FieldBuilder) Label(label string) *FieldBuilder {
	f.field.Label = label
	return f
}

// Multiple marks the field as a sequence of its type.
func (f *FieldBuilder) Multiple() *FieldBuilder {
	f.field.Multiple = true
	return f
}

// Required marks the field as required.
func (f *FieldBuilder) Required() *FieldBuilder {
	return f.Validation(domain.KeyRequired, true)
}

// Length requires exactly n values.
func (f *FieldBuilder) Length(n int) *FieldBuilder {
	return f.Validation(domain.KeyRequiredLength, n)
}

// LengthMin requires at least n values.
func (f *FieldBuilder) LengthMin(n int) *FieldBuilder {
	return f.Validation(domain.KeyRequiredLengthMin, n)
}

// LengthMax requires at most n values.
func (f *FieldBuilder) LengthMax(n int) *FieldBuilder {
	return f.Validation(domain.KeyRequiredLengthMax, n)
}

// ValueValidators appends names to the field's valueValidators.
func (f *FieldBuilder) ValueValidators(names ...string) *FieldBuilder {
	var existing []string
	if cfg, ok := f.field.Features[domain.FeatureValidation].(map[string]any); ok {
		existing, _ = domain.StringList(cfg[domain.KeyValueValidators])
	}
	list := append(append([]string(nil), existing...), names...)
	return f.Validation(domain.KeyValueValidators, list)
}

// Validation sets an arbitrary key of the field's validation feature.
func (f *FieldBuilder) Validation(key string, value any) *FieldBuilder {
	f.field.Features = setValidation(f.field.Features, key, value)
	return f
}

// Feature sets a non-validation feature block.
func (f *FieldBuilder) Feature(name string, config any) *FieldBuilder {
	if f.field.Features == nil {
		f.field.Features = make(domain.Features)
	}
	f.field.Features[name] = config
	return f
}

// Field declares a sibling field on the same type.
func (f *FieldBuilder) Field(name, typeName string) *FieldBuilder {
	return f.parent.Field(name, typeName)
}

// Type returns the owning type builder.
func (f *FieldBuilder) Type() *TypeBuilder {
	return f.parent
}
