package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/atv/pkg/domain"
	"github.com/aretw0/atv/pkg/ports"
)

// TypeLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.TypeLoader.
// expected holds the definitions the loader was seeded with.
func TypeLoaderContractTest(t *testing.T, loader ports.TypeLoader, expected domain.TypeMap) {
	t.Helper()
	ctx := context.Background()

	t.Run("GetType_Success", func(t *testing.T) {
		for name, want := range expected {
			def, err := loader.GetType(ctx, name)
			if err != nil {
				t.Fatalf("unexpected error getting type %s: %v", name, err)
			}
			if def.Name != name {
				t.Errorf("name mismatch for %s: got %q", name, def.Name)
			}
			if got, wantFields := len(def.Fields), len(want.Fields); got != wantFields {
				t.Errorf("type %s: got %d fields, want %d", name, got, wantFields)
			}
			for field, fd := range want.Fields {
				if def.Field(field) == nil || def.Field(field).Type != fd.Type {
					t.Errorf("type %s: field %s mismatch", name, field)
				}
			}
		}
	})

	t.Run("GetType_NotFound", func(t *testing.T) {
		_, err := loader.GetType(ctx, "non-existent-type")
		if !errors.Is(err, domain.ErrTypeNotFound) {
			t.Errorf("expected ErrTypeNotFound, got %v", err)
		}
	})

	t.Run("ListTypes", func(t *testing.T) {
		names, err := loader.ListTypes(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing types: %v", err)
		}

		if len(names) != len(expected) {
			t.Errorf("expected %d types, got %d", len(expected), len(names))
		}

		for i := 1; i < len(names); i++ {
			if names[i-1] > names[i] {
				t.Errorf("names not sorted: %v", names)
				break
			}
		}

		for name := range expected {
			found := false
			for _, n := range names {
				if n == name {
					found = true
				}
			}
			if !found {
				t.Errorf("type %s missing from list", name)
			}
		}
	})
}
