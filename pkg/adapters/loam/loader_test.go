package loam

import (
	"context"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/atv/internal/testutils"
	"github.com/aretw0/atv/pkg/domain"
	"github.com/aretw0/atv/pkg/ports/tests"
)

func newLoader(t *testing.T, files map[string]string) *Loader {
	t.Helper()
	_, repo := testutils.SetupTypeRepo(t, files)
	return New(loam.NewTypedRepository[TypeMetadata](repo))
}

func TestLoader_Contract(t *testing.T) {
	_, repo := testutils.SetupTypeRepo(t, nil)
	ctx := context.Background()

	docs := []core.Document{
		{
			ID: "String.md",
			Content: `---
primitive: true
label: A Single Line Of Text
---
Plain text.`,
		},
		{
			ID: "Contact.md",
			Content: `---
label: Contact
fields:
  firstName:
    type: String
  email: String
---
A person we can reach.`,
		},
	}
	for _, doc := range docs {
		require.NoError(t, repo.Save(ctx, doc))
	}

	expected := domain.TypeMap{
		"String": {Name: "String", Primitive: true},
		"Contact": {Name: "Contact", Fields: map[string]*domain.FieldDescriptor{
			"firstName": {Type: "String"},
			"email":     {Type: "String"},
		}},
	}

	loader := New(loam.NewTypedRepository[TypeMetadata](repo))
	tests.TypeLoaderContractTest(t, loader, expected)
}

func TestLoader_ListTypes_NormalizesIDs(t *testing.T) {
	loader := newLoader(t, map[string]string{
		"Contact.md": `---
label: Contact
---
Body`,
		"Address.json": `{
  "label": "Address"
}`,
		"renamed.md": `---
name: Phone
---
Named by metadata`,
	})

	names, err := loader.ListTypes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Address", "Contact", "Phone"}, names)
}

func TestLoader_ListTypes_DetectsCollisions(t *testing.T) {
	loader := newLoader(t, map[string]string{
		"Contact.md": `---
label: Contact
---
Explicit`,
		"Contact.json": `{
  "label": "Contact"
}`,
	})

	_, err := loader.ListTypes(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
	assert.Contains(t, err.Error(), "Contact")
}

func TestLoader_FieldShorthand(t *testing.T) {
	loader := newLoader(t, map[string]string{
		"Contact.md": `---
required: [firstName]
itemValidators: [hasEmailOrPhone]
fields:
  firstName: String
  tags: [String]
  phone:
    type: String
    features:
      validation:
        valueValidators: [unique]
---
# Contact`,
	})

	def, err := loader.GetType(context.Background(), "Contact")
	require.NoError(t, err)

	assert.Equal(t, "# Contact", def.Description)
	assert.Equal(t, []string{"hasEmailOrPhone"}, def.ItemValidators)
	assert.Equal(t, "String", def.Field("firstName").Type)

	tags := def.Field("tags")
	require.NotNil(t, tags)
	assert.True(t, tags.Multiple)

	cfg, ok := domain.ConfigMap(def.Field("firstName").Features[domain.FeatureValidation])
	require.True(t, ok)
	assert.Equal(t, true, cfg[domain.KeyRequired])

	phone, ok := domain.ConfigMap(def.Field("phone").Features[domain.FeatureValidation])
	require.True(t, ok)
	names, ok := domain.StringList(phone[domain.KeyValueValidators])
	require.True(t, ok)
	assert.Equal(t, []string{"unique"}, names)
}

func TestLoader_Include(t *testing.T) {
	loader := newLoader(t, map[string]string{
		"Named.md": `---
fields:
  firstName: String
  lastName: String
---`,
		"Contact.md": `---
include: [Named]
required: [lastName]
fields:
  firstName: Text
  email: String
---`,
	})

	def, err := loader.GetType(context.Background(), "Contact")
	require.NoError(t, err)
	assert.Len(t, def.Fields, 3)
	assert.Equal(t, "Text", def.Field("firstName").Type, "local fields shadow included ones")

	cfg, _ := domain.ConfigMap(def.Field("lastName").Features[domain.FeatureValidation])
	assert.Equal(t, true, cfg[domain.KeyRequired], "sugar applies to included fields")

	named, err := loader.GetType(context.Background(), "Named")
	require.NoError(t, err)
	assert.Nil(t, named.Field("lastName").Features, "included document is left untouched")
}

func TestLoader_IncludeCycle(t *testing.T) {
	loader := newLoader(t, map[string]string{
		"A.md": `---
include: [B]
---`,
		"B.md": `---
include: [A]
---`,
	})

	_, err := loader.GetType(context.Background(), "A")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle detected")
}
