package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/atv/pkg/adapters/file"
	"github.com/aretw0/atv/pkg/domain"
	"github.com/aretw0/atv/pkg/ports"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunTypeStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_ReadsYAML(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "Contact.yaml"), []byte(`
label: Contact
fields:
  firstName:
    type: String
    features:
      validation:
        required: true
`), 0644)
	require.NoError(t, err)

	store := file.New(dir)
	ctx := context.Background()

	def, err := store.GetType(ctx, "Contact")
	require.NoError(t, err)
	assert.Equal(t, "Contact", def.Name)
	assert.Equal(t, "String", def.Field("firstName").Type)

	// Saving replaces the YAML version
	def.Label = "Person"
	require.NoError(t, store.SaveType(ctx, def))
	names, err := store.ListTypes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Contact"}, names)

	_, err = os.Stat(filepath.Join(dir, "Contact.yaml"))
	assert.True(t, os.IsNotExist(err))

	again, err := store.GetType(ctx, "Contact")
	require.NoError(t, err)
	assert.Equal(t, "Person", again.Label)
}

func TestFileStore_RejectsPathNames(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	assert.Error(t, store.SaveType(ctx, &domain.TypeDefinition{Name: "../evil"}))
	_, err := store.GetType(ctx, "a/b")
	assert.Error(t, err)
}

func TestFileStore_ListMissingDir(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "absent"))
	names, err := store.ListTypes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestReadTypeMap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "types.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "String": {"primitive": true},
  "Contact": {"fields": {"firstName": {"type": "String"}}}
}`), 0644))
	ctx := context.Background()

	tm, err := file.ReadTypeMap(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Contact", "String"}, tm.Names())

	typesDir := filepath.Join(dir, "types")
	store := file.New(typesDir)
	require.NoError(t, store.SaveType(ctx, &domain.TypeDefinition{Name: "Address"}))

	tm, err = file.ReadTypeMap(ctx, typesDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"Address"}, tm.Names())

	_, err = file.ReadTypeMap(ctx, filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
