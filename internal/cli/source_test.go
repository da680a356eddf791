package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/atv/pkg/adapters/redis"
	"github.com/aretw0/atv/pkg/domain"
	"github.com/aretw0/atv/pkg/validator"
)

const contactYAML = `
String:
  primitive: true
Contact:
  fields:
    firstName:
      type: String
      features:
        validation:
          required: true
`

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
}

func assertContactRequired(t *testing.T, src Source) {
	t.Helper()
	ctx := context.Background()
	v, err := Open(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, []string{"Contact", "String"}, v.TypeMap().Names())

	_, err = v.Validate(ctx, map[string]any{}, "Contact")
	assert.ErrorIs(t, err, validator.ErrMissingRequiredField)
}

func TestOpen_File(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"types.yaml": contactYAML})

	src := Source{Path: filepath.Join(dir, "types.yaml")}
	assert.Equal(t, "file", src.Kind())
	assertContactRequired(t, src)
}

func TestOpen_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"String.yaml": "primitive: true\n",
		"Contact.json": `{"fields":{"firstName":{"type":"String","features":{"validation":{"required":true}}}}}`,
	})

	src := Source{Path: dir}
	assert.Equal(t, "dir", src.Kind())
	assertContactRequired(t, src)
}

func TestOpen_Markdown(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"String.md":  "---\nprimitive: true\n---\nText.",
		"Contact.md": "---\nrequired: [firstName]\nfields:\n  firstName: String\n---\nA person.",
	})

	src := Source{Path: dir}
	assert.Equal(t, "loam", src.Kind())
	assertContactRequired(t, src)
}

func TestOpen_Missing(t *testing.T) {
	src := Source{Path: filepath.Join(t.TempDir(), "nope")}
	assert.Equal(t, "unknown", src.Kind())
	_, err := Open(context.Background(), src)
	assert.Error(t, err)
}

func TestOpen_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	seed := redis.New(mr.Addr(), "", 0, redis.WithPrefix("t:"))
	require.NoError(t, seed.SaveType(ctx, &domain.TypeDefinition{Name: "String", Primitive: true}))
	require.NoError(t, seed.SaveType(ctx, &domain.TypeDefinition{
		Name: "Account",
		Fields: map[string]*domain.FieldDescriptor{
			"handle": {Type: "String", Features: domain.Features{
				domain.FeatureValidation: map[string]any{domain.KeyValueValidators: []any{UniqueValidator}},
			}},
		},
	}))
	_, err := mr.SAdd("t:unique:Account:handle", "ada")
	require.NoError(t, err)

	src := Source{Path: "ignored", RedisAddr: mr.Addr(), RedisPrefix: "t:"}
	assert.Equal(t, "redis", src.Kind())

	v, err := Open(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, []string{"Account", "String"}, v.TypeMap().Names())

	_, err = v.Validate(ctx, map[string]any{"handle": "grace"}, "Account")
	assert.NoError(t, err)

	err = v.ValidateValue(ctx, "ada", "Account", "handle")
	var fe *validator.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, redis.CodeDuplicateValue, fe.Code)
}

func TestOpen_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Open(context.Background(), Source{RedisAddr: addr})
	assert.Error(t, err)
}
