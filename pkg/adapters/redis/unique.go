package redis

import (
	"context"
	"fmt"
	"reflect"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/atv/pkg/domain"
	"github.com/aretw0/atv/pkg/validator"
)

// CodeDuplicateValue is raised by the Unique validator.
const CodeDuplicateValue = "DUPLICATE_VALUE"

// Registry records the values already taken per type field, in Redis sets
// keyed "<prefix>unique:<type>:<field>".
type Registry struct {
	client *backend.Client
	prefix string
}

// NewRegistry creates a Registry on client.
func NewRegistry(client *backend.Client, prefix string) *Registry {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Registry{client: client, prefix: prefix}
}

func (r *Registry) key(typeName, fieldName string) string {
	return r.prefix + "unique:" + typeName + ":" + fieldName
}

// Unique returns a value validator that fails with DUPLICATE_VALUE when the
// value, or any element of a sequence value, is already registered for the
// field. Missing values pass.
func (r *Registry) Unique() validator.ValueValidator {
	return func(ctx context.Context, value any, typeName, fieldName string, _ []string) error {
		members := memberStrings(value)
		if len(members) == 0 {
			return nil
		}
		key := r.key(typeName, fieldName)
		pipe := r.client.Pipeline()
		checks := make([]*backend.BoolCmd, len(members))
		for i, m := range members {
			checks[i] = pipe.SIsMember(ctx, key, m)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("unique lookup for %s.%s: %w", typeName, fieldName, err)
		}
		for i, cmd := range checks {
			if cmd.Val() {
				return validator.NewFieldError(CodeDuplicateValue, members[i])
			}
		}
		return nil
	}
}

// Claim registers value for the field. It reports false when the value was
// already taken.
func (r *Registry) Claim(ctx context.Context, typeName, fieldName string, value any) (bool, error) {
	members := memberStrings(value)
	if len(members) == 0 {
		return true, nil
	}
	args := make([]any, len(members))
	for i, m := range members {
		args[i] = m
	}
	added, err := r.client.SAdd(ctx, r.key(typeName, fieldName), args...).Result()
	if err != nil {
		return false, fmt.Errorf("unique claim for %s.%s: %w", typeName, fieldName, err)
	}
	return added == int64(len(members)), nil
}

// Release removes value from the field's registered values.
func (r *Registry) Release(ctx context.Context, typeName, fieldName string, value any) error {
	members := memberStrings(value)
	if len(members) == 0 {
		return nil
	}
	args := make([]any, len(members))
	for i, m := range members {
		args[i] = m
	}
	return r.client.SRem(ctx, r.key(typeName, fieldName), args...).Err()
}

func memberStrings(value any) []string {
	if domain.IsMissing(value) {
		return nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elem := rv.Index(i).Interface()
			if !domain.IsMissing(elem) {
				out = append(out, fmt.Sprint(elem))
			}
		}
		return out
	}
	return []string{fmt.Sprint(value)}
}
