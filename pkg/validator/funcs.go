package validator

import "context"

// FieldFeatureValidator validates value against one key of a field's
// "validation" feature. config is the value configured under that key.
type FieldFeatureValidator func(ctx context.Context, config, value any, typeName, fieldName string) error

// ValueValidator is a custom validator referenced by name from a field's
// valueValidators list. names is the complete list.
type ValueValidator func(ctx context.Context, value any, typeName, fieldName string, names []string) error

// ItemValidator is run against whole items of a type. names is the type's
// complete itemValidators list.
type ItemValidator func(ctx context.Context, item any, typeName string, names []string) error

// ListValidator is run against a sequence of items of a type. names is the
// type's complete listValidators list.
type ListValidator func(ctx context.Context, items []any, typeName string, names []string) error

// TypeValidator is run against every present value of the type it is
// registered for. config is the type's "validation" feature.
type TypeValidator func(ctx context.Context, value, config any, typeName string) error
