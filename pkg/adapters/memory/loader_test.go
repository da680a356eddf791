package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/atv/pkg/adapters/memory"
	"github.com/aretw0/atv/pkg/domain"
	contract "github.com/aretw0/atv/pkg/ports/tests"
)

func seed() domain.TypeMap {
	return domain.TypeMap{
		"String": {Name: "String", Primitive: true},
		"Contact": {Name: "Contact", Fields: map[string]*domain.FieldDescriptor{
			"firstName": {Type: "String"},
			"email":     {Type: "String"},
		}},
	}
}

func TestInMemoryLoader_Contract(t *testing.T) {
	contract.TypeLoaderContractTest(t, memory.NewLoader(seed()), seed())
}

func TestInMemoryLoader_ReturnsCopies(t *testing.T) {
	loader := memory.NewLoader(seed())
	ctx := context.Background()

	def, err := loader.GetType(ctx, "Contact")
	require.NoError(t, err)
	def.Fields["firstName"].Type = "Number"

	again, err := loader.GetType(ctx, "Contact")
	require.NoError(t, err)
	assert.Equal(t, "String", again.Fields["firstName"].Type)
}

func TestNewFromTypes(t *testing.T) {
	loader, err := memory.NewFromTypes(&domain.TypeDefinition{Name: "A"}, &domain.TypeDefinition{Name: "B"})
	require.NoError(t, err)
	names, _ := loader.ListTypes(context.Background())
	assert.Equal(t, []string{"A", "B"}, names)

	_, err = memory.NewFromTypes(&domain.TypeDefinition{})
	assert.Error(t, err)

	_, err = memory.NewFromTypes(&domain.TypeDefinition{Name: "A"}, &domain.TypeDefinition{Name: "A"})
	assert.ErrorContains(t, err, "duplicate")
}
