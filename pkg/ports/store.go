package ports

import (
	"context"

	"github.com/aretw0/atv/pkg/domain"
)

// TypeStore defines a writable source of type definitions.
type TypeStore interface {
	TypeLoader

	// SaveType persists def under def.Name, replacing any previous version.
	SaveType(ctx context.Context, def *domain.TypeDefinition) error

	// DeleteType removes typeName. Deleting an unknown type is not an error.
	DeleteType(ctx context.Context, typeName string) error
}
