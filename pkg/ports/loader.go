package ports

import (
	"context"
	"fmt"

	"github.com/aretw0/atv/pkg/domain"
)

// TypeLoader defines how the validator retrieves type definitions.
// This allows the storage layer (Loam, FS, Redis, Memory) to be decoupled.
type TypeLoader interface {
	// GetType retrieves the definition of typeName.
	// Returns an error wrapping domain.ErrTypeNotFound if it does not exist.
	GetType(ctx context.Context, typeName string) (*domain.TypeDefinition, error)

	// ListTypes returns the names of all available types in lexical order.
	ListTypes(ctx context.Context) ([]string, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
// This is typically used for hot-reload or dev-mode functionality.
type Watchable interface {
	// Watch returns a channel that receives the name of each changed type.
	Watch(ctx context.Context) (<-chan string, error)
}

// LoadTypeMap reads every type of loader into a TypeMap.
func LoadTypeMap(ctx context.Context, loader TypeLoader) (domain.TypeMap, error) {
	names, err := loader.ListTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list types: %w", err)
	}
	tm := make(domain.TypeMap, len(names))
	for _, name := range names {
		def, err := loader.GetType(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("load type %s: %w", name, err)
		}
		tm[name] = def
	}
	if err := tm.Normalize(); err != nil {
		return nil, err
	}
	return tm, nil
}
