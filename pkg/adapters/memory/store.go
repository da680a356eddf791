package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/atv/pkg/domain"
)

// Store implements ports.TypeStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.TypeDefinition
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.TypeDefinition),
	}
}

// SaveType persists a copy of def in memory.
func (s *Store) SaveType(_ context.Context, def *domain.TypeDefinition) error {
	if def == nil || def.Name == "" {
		return fmt.Errorf("type missing name")
	}
	copied := def.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[def.Name] = copied
	return nil
}

// GetType retrieves the definition from memory.
func (s *Store) GetType(_ context.Context, typeName string) (*domain.TypeDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	def, ok := s.data[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTypeNotFound, typeName)
	}

	// Copy on read so callers can't mutate the store through the pointer
	return def.Clone(), nil
}

// DeleteType removes the definition.
func (s *Store) DeleteType(_ context.Context, typeName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, typeName)
	return nil
}

// ListTypes returns the stored type names.
func (s *Store) ListTypes(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
