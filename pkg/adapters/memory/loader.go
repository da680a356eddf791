package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/atv/pkg/domain"
)

// Loader implements ports.TypeLoader over a fixed TypeMap.
type Loader struct {
	types domain.TypeMap
}

// NewLoader creates a new Loader serving copies of the definitions of tm.
func NewLoader(tm domain.TypeMap) *Loader {
	types := make(domain.TypeMap, len(tm))
	for name, def := range tm {
		types[name] = def.Clone()
	}
	return &Loader{types: types}
}

// NewFromTypes creates a new Loader from individual definitions.
// Every definition must be named.
func NewFromTypes(defs ...*domain.TypeDefinition) (*Loader, error) {
	tm := make(domain.TypeMap, len(defs))
	for _, def := range defs {
		if def == nil || def.Name == "" {
			return nil, fmt.Errorf("type missing name")
		}
		if _, dup := tm[def.Name]; dup {
			return nil, fmt.Errorf("duplicate type %s", def.Name)
		}
		tm[def.Name] = def
	}
	return NewLoader(tm), nil
}

// GetType retrieves a copy of the definition of typeName.
func (l *Loader) GetType(_ context.Context, typeName string) (*domain.TypeDefinition, error) {
	def, ok := l.types[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTypeNotFound, typeName)
	}
	return def.Clone(), nil
}

// ListTypes returns all available type names.
func (l *Loader) ListTypes(context.Context) ([]string, error) {
	keys := make([]string, 0, len(l.types))
	for k := range l.types {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}
