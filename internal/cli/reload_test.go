package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/atv"
	"github.com/aretw0/atv/internal/logging"
	"github.com/aretw0/atv/pkg/adapters/memory"
	"github.com/aretw0/atv/pkg/domain"
)

type watchableStore struct {
	*memory.Store
	events  chan string
	failing bool
}

func (s *watchableStore) ListTypes(ctx context.Context) ([]string, error) {
	if s.failing {
		return nil, errors.New("backend unavailable")
	}
	return s.Store.ListTypes(ctx)
}

func (s *watchableStore) Watch(context.Context) (<-chan string, error) {
	return s.events, nil
}

func TestWatchAndReload(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := &watchableStore{Store: memory.NewStore(), events: make(chan string)}
	require.NoError(t, store.SaveType(ctx, &domain.TypeDefinition{Name: "String", Primitive: true}))

	v, err := atv.Load(ctx, store)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- WatchAndReload(ctx, v, logging.NewNop()) }()

	require.NoError(t, store.SaveType(ctx, &domain.TypeDefinition{Name: "Note"}))
	store.events <- "Note"

	assert.Eventually(t, func() bool {
		_, ok := v.TypeMap()["Note"]
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	close(store.events)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("WatchAndReload did not return after the watch ended")
	}
}

func TestWatchAndReload_KeepsTypesOnFailure(t *testing.T) {
	ctx := context.Background()
	store := &watchableStore{Store: memory.NewStore(), events: make(chan string, 1)}
	require.NoError(t, store.SaveType(ctx, &domain.TypeDefinition{Name: "String", Primitive: true}))

	v, err := atv.Load(ctx, store)
	require.NoError(t, err)

	store.failing = true
	store.events <- "String"
	close(store.events)

	require.NoError(t, WatchAndReload(ctx, v, logging.NewNop()))
	assert.Equal(t, []string{"String"}, v.TypeMap().Names())
}

func TestWatchAndReload_Unsupported(t *testing.T) {
	v, err := atv.New(nil)
	require.NoError(t, err)
	assert.Error(t, WatchAndReload(context.Background(), v, logging.NewNop()))
}
