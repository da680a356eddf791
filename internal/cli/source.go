// Package cli holds the plumbing shared by the atv commands: choosing where
// the Type Map comes from, decoding data files and keeping the Type Map
// current while a server runs.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/atv"
	"github.com/aretw0/atv/pkg/adapters/file"
	"github.com/aretw0/atv/pkg/adapters/redis"
	"github.com/aretw0/atv/pkg/validator"
)

// UniqueValidator is the value validator name bound to the Redis uniqueness
// registry when types come from Redis.
const UniqueValidator = "unique"

// Source describes where the Type Map is read from. A non-empty RedisAddr
// takes precedence over Path.
type Source struct {
	Path string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
	PollInterval  time.Duration
}

// Kind names the backend Open picks for src.
func (src Source) Kind() string {
	if src.RedisAddr != "" {
		return "redis"
	}
	info, err := os.Stat(src.Path)
	switch {
	case err != nil:
		return "unknown"
	case !info.IsDir():
		return "file"
	case hasMarkdown(src.Path):
		return "loam"
	default:
		return "dir"
	}
}

// Open builds a Validator over src.
//
//   - redis: a Redis hash store, with the "unique" value validator backed by
//     the same server.
//   - file: one YAML or JSON document holding the whole Type Map.
//   - loam: a directory of Markdown type documents.
//   - dir: a directory of YAML or JSON files, one type per file.
func Open(ctx context.Context, src Source, opts ...atv.Option) (*atv.Validator, error) {
	switch src.Kind() {
	case "redis":
		store := redis.New(src.RedisAddr, src.RedisPassword, src.RedisDB,
			redis.WithPrefix(prefixOrDefault(src.RedisPrefix)),
			redis.WithPollInterval(src.PollInterval),
		)
		return openRedis(ctx, store, src.RedisPrefix, opts)
	case "file":
		tm, err := file.ReadTypeMap(ctx, src.Path)
		if err != nil {
			return nil, err
		}
		return atv.New(tm, opts...)
	case "loam":
		return atv.Open(ctx, src.Path, opts...)
	case "dir":
		return atv.Load(ctx, file.New(src.Path), opts...)
	default:
		return nil, fmt.Errorf("types not found at %q", src.Path)
	}
}

func openRedis(ctx context.Context, store *redis.Store, prefix string, opts []atv.Option) (*atv.Validator, error) {
	if err := store.Client().Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}
	registry := redis.NewRegistry(store.Client(), prefix)
	opts = append([]atv.Option{
		atv.WithValueValidators(map[string]validator.ValueValidator{
			UniqueValidator: registry.Unique(),
		}),
	}, opts...)
	return atv.Load(ctx, store, opts...)
}

func prefixOrDefault(prefix string) string {
	if prefix == "" {
		return redis.DefaultPrefix
	}
	return prefix
}

func hasMarkdown(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".md") {
			return true
		}
	}
	return false
}
