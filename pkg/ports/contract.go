package ports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/atv/pkg/domain"
)

// RunTypeStoreContract runs a suite of tests to verify that a TypeStore implementation
// adheres to the defined interface contract. The store must start empty.
func RunTypeStoreContract(t *testing.T, store TypeStore) {
	ctx := context.Background()

	contact := &domain.TypeDefinition{
		Name:           "Contact",
		Label:          "Contact",
		ItemValidators: []string{"hasEmailOrPhone"},
		Fields: map[string]*domain.FieldDescriptor{
			"firstName": {
				Type: "String",
				Features: domain.Features{
					domain.FeatureValidation: map[string]any{"required": true},
				},
			},
		},
	}

	t.Run("Save and Get", func(t *testing.T) {
		err := store.SaveType(ctx, contact)
		require.NoError(t, err, "SaveType should not return error")

		loaded, err := store.GetType(ctx, "Contact")
		require.NoError(t, err, "GetType should not return error")
		assert.Equal(t, "Contact", loaded.Name)
		assert.Equal(t, contact.ItemValidators, loaded.ItemValidators)
		require.NotNil(t, loaded.Field("firstName"))
		assert.Equal(t, "String", loaded.Field("firstName").Type)

		cfg, ok := domain.ConfigMap(loaded.Field("firstName").Features[domain.FeatureValidation])
		require.True(t, ok)
		assert.Equal(t, true, cfg["required"])
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.GetType(ctx, "Nope")
		assert.ErrorIs(t, err, domain.ErrTypeNotFound)
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, store.SaveType(ctx, &domain.TypeDefinition{Name: "Address"}))

		names, err := store.ListTypes(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Address", "Contact"}, names)

		tm, err := LoadTypeMap(ctx, store)
		require.NoError(t, err)
		assert.Len(t, tm, 2)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.DeleteType(ctx, "Address"))
		require.NoError(t, store.DeleteType(ctx, "Address"), "deleting twice is not an error")

		_, err := store.GetType(ctx, "Address")
		assert.ErrorIs(t, err, domain.ErrTypeNotFound, "GetType after DeleteType should return ErrTypeNotFound")
	})
}
