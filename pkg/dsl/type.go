package dsl

import "github.com/aretw0/atv/pkg/domain"

// TypeBuilder provides a fluent API for configuring a type.
type TypeBuilder struct {
	def     *domain.TypeDefinition
	builder *Builder
}

// Label sets the display label.
func (t *TypeBuilder) Label(label string) *TypeBuilder {
	t.def.Label = label
	return t
}

// Describe sets the free-text description.
func (t *TypeBuilder) Describe(text string) *TypeBuilder {
	t.def.Description = text
	return t
}

// ItemValidators appends names to the type's itemValidators.
func (t *TypeBuilder) ItemValidators(names ...string) *TypeBuilder {
	t.def.ItemValidators = append(t.def.ItemValidators, names...)
	return t
}

// ListValidators appends names to the type's listValidators.
func (t *TypeBuilder) ListValidators(names ...string) *TypeBuilder {
	t.def.ListValidators = append(t.def.ListValidators, names...)
	return t
}

// Validation sets key in the type's validation feature, which is handed to
// the type validator.
func (t *TypeBuilder) Validation(key string, value any) *TypeBuilder {
	t.def.Features = setValidation(t.def.Features, key, value)
	return t
}

// Field declares a field and returns its builder.
func (t *TypeBuilder) Field(name, typeName string) *FieldBuilder {
	if t.def.Fields == nil {
		t.def.Fields = make(map[string]*domain.FieldDescriptor)
	}
	fd, ok := t.def.Fields[name]
	if !ok {
		fd = &domain.FieldDescriptor{}
		t.def.Fields[name] = fd
	}
	fd.Type = typeName
	return &FieldBuilder{field: fd, parent: t}
}

// Build returns the underlying definition.
// This is primarily used by the Builder, but exposed for advanced usage.
func (t *TypeBuilder) Build() *domain.TypeDefinition {
	return t.def
}

func setValidation(f domain.Features, key string, value any) domain.Features {
	if f == nil {
		f = make(domain.Features)
	}
	cfg, ok := f[domain.FeatureValidation].(map[string]any)
	if !ok {
		cfg = make(map[string]any)
		f[domain.FeatureValidation] = cfg
	}
	cfg[key] = value
	return f
}
