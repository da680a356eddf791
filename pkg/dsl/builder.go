package dsl

import (
	"fmt"

	"github.com/aretw0/atv/pkg/adapters/memory"
	"github.com/aretw0/atv/pkg/domain"
)

// Builder manages the Type Map construction.
type Builder struct {
	types map[string]*TypeBuilder
	order []string
}

// New creates a new Type Map builder.
func New() *Builder {
	return &Builder{
		types: make(map[string]*TypeBuilder),
	}
}

// Type creates a new composite type in the Type Map.
// If the type already exists, it returns the existing builder.
func (b *Builder) Type(name string) *TypeBuilder {
	if tb, ok := b.types[name]; ok {
		return tb
	}
	tb := &TypeBuilder{
		def:     &domain.TypeDefinition{Name: name},
		builder: b,
	}
	b.types[name] = tb
	b.order = append(b.order, name)
	return tb
}

// Primitive declares a primitive type.
func (b *Builder) Primitive(name, label string) *TypeBuilder {
	tb := b.Type(name)
	tb.def.Primitive = true
	tb.def.Label = label
	return tb
}

// TypeMap returns copies of the declared definitions.
func (b *Builder) TypeMap() domain.TypeMap {
	tm := make(domain.TypeMap, len(b.types))
	for name, tb := range b.types {
		tm[name] = tb.def.Clone()
	}
	return tm
}

// Build compiles the Type Map into a memory Loader.
func (b *Builder) Build() (*memory.Loader, error) {
	defs := make([]*domain.TypeDefinition, 0, len(b.order))
	for _, name := range b.order {
		tb := b.types[name]
		if tb.def.Primitive && len(tb.def.Fields) > 0 {
			return nil, fmt.Errorf("primitive type %s declares fields", name)
		}
		defs = append(defs, tb.def)
	}

	loader, err := memory.NewFromTypes(defs...)
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}

	return loader, nil
}
