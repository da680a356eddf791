package redis

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	json "github.com/goccy/go-json"
	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/atv/internal/compiler"
	"github.com/aretw0/atv/pkg/domain"
	"github.com/aretw0/atv/pkg/ports"
)

// DefaultPrefix is prepended to every key written by this package.
const DefaultPrefix = "atv:"

// Store implements ports.TypeStore using a Redis hash that maps type names
// to JSON-encoded definitions.
type Store struct {
	client       *backend.Client
	prefix       string
	parser       *compiler.Parser
	pollInterval time.Duration
}

type Option func(*Store)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithPollInterval sets how often Watch checks the revision counter.
func WithPollInterval(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix:       DefaultPrefix,
		parser:       compiler.NewParser(),
		pollInterval: 2 * time.Second,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Client returns the underlying Redis client.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) typesKey() string {
	return s.prefix + "types"
}

func (s *Store) revisionKey() string {
	return s.prefix + "types:rev"
}

// SaveType persists the definition and bumps the revision counter.
func (s *Store) SaveType(ctx context.Context, def *domain.TypeDefinition) error {
	if def == nil || def.Name == "" {
		return fmt.Errorf("type name cannot be empty")
	}
	data, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("failed to marshal type: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.typesKey(), def.Name, data)
	pipe.Incr(ctx, s.revisionKey())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// GetType retrieves the definition from Redis.
func (s *Store) GetType(ctx context.Context, typeName string) (*domain.TypeDefinition, error) {
	val, err := s.client.HGet(ctx, s.typesKey(), typeName).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrTypeNotFound, typeName)
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	raw, err := compiler.DecodeDocument([]byte(val), compiler.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("type %s: %w", typeName, err)
	}
	return s.parser.Decode(typeName, raw)
}

// DeleteType removes the definition.
func (s *Store) DeleteType(ctx context.Context, typeName string) error {
	pipe := s.client.TxPipeline()
	pipe.HDel(ctx, s.typesKey(), typeName)
	pipe.Incr(ctx, s.revisionKey())
	_, err := pipe.Exec(ctx)
	return err
}

// ListTypes returns the stored type names.
func (s *Store) ListTypes(ctx context.Context) ([]string, error) {
	names, err := s.client.HKeys(ctx, s.typesKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list types: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Revision returns a counter that changes on every write. Callers can poll
// it to decide when to reload the Type Map.
func (s *Store) Revision(ctx context.Context) (int64, error) {
	rev, err := s.client.Get(ctx, s.revisionKey()).Int64()
	if err == backend.Nil {
		return 0, nil
	}
	return rev, err
}

// Watch implements ports.Watchable. Redis has no change feed for hashes, so
// the revision counter is polled; on change the Type Map is re-read and the
// names of added, changed and removed types are sent.
func (s *Store) Watch(ctx context.Context) (<-chan string, error) {
	last, err := s.Revision(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read revision: %w", err)
	}
	prev, err := ports.LoadTypeMap(ctx, s)
	if err != nil {
		return nil, err
	}

	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			rev, err := s.Revision(ctx)
			if err != nil || rev == last {
				continue
			}
			next, err := ports.LoadTypeMap(ctx, s)
			if err != nil {
				continue
			}
			last = rev
			diff := domain.Diff(prev, next)
			prev = next
			if diff == nil {
				continue
			}
			for _, name := range slices.Concat(diff.Added, diff.Changed, diff.Removed) {
				select {
				case ch <- name:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}
