package redis_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/atv/pkg/adapters/redis"
	"github.com/aretw0/atv/pkg/validator"
)

func TestUnique(t *testing.T) {
	mr, client := newClient(t)
	reg := redis.NewRegistry(client, "")
	unique := reg.Unique()
	ctx := context.Background()

	require.NoError(t, unique(ctx, "jane@example.com", "Contact", "email", nil))

	ok, err := reg.Claim(ctx, "Contact", "email", "jane@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("atv:unique:Contact:email"))

	err = unique(ctx, "jane@example.com", "Contact", "email", nil)
	var fe *validator.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, redis.CodeDuplicateValue, fe.Code)
	assert.Equal(t, "jane@example.com", fe.Data)

	assert.NoError(t, unique(ctx, "jane@example.com", "Contact", "backupEmail", nil), "sets are per field")
	assert.NoError(t, unique(ctx, nil, "Contact", "email", nil), "missing values pass")

	ok, err = reg.Claim(ctx, "Contact", "email", "jane@example.com")
	require.NoError(t, err)
	assert.False(t, ok, "second claim reports the duplicate")

	require.NoError(t, reg.Release(ctx, "Contact", "email", "jane@example.com"))
	assert.NoError(t, unique(ctx, "jane@example.com", "Contact", "email", nil))
}

func TestUnique_Sequences(t *testing.T) {
	_, client := newClient(t)
	reg := redis.NewRegistry(client, "x:")
	ctx := context.Background()

	_, err := reg.Claim(ctx, "Contact", "tags", []any{"a", 7})
	require.NoError(t, err)

	err = reg.Unique()(ctx, []any{"b", 7}, "Contact", "tags", nil)
	var fe *validator.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "7", fe.Data)

	assert.NoError(t, reg.Unique()(ctx, []string{}, "Contact", "tags", nil), "empty sequences pass")
}
