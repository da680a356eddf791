package processor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/atv/pkg/domain"
)

// Hooks are the override points invoked during traversal.
type Hooks interface {
	// ProcessValue resolves the value of typeName.fieldName. An empty
	// fieldName denotes a top-level value of typeName.
	ProcessValue(ctx context.Context, value any, typeName, fieldName string) (any, error)
	// ProcessItem resolves an item of a composite type.
	ProcessItem(ctx context.Context, item any, typeName string) (any, error)
	// ProcessItemList resolves a sequence of items of a composite type.
	ProcessItemList(ctx context.Context, items []any, typeName string) (any, error)
}

// Processor walks values against a TypeMap.
// The TypeMap is referenced, not copied, and must not change while the
// Processor is in use.
type Processor struct {
	typeMap     domain.TypeMap
	hooks       Hooks
	logger      *slog.Logger
	concurrency int
}

// Option defines a functional option for configuring the Processor.
type Option func(*Processor)

// WithHooks installs the hooks built by factory. factory receives the
// processor so the hooks can delegate to its default behaviour.
func WithHooks(factory func(base *Processor) Hooks) Option {
	return func(p *Processor) {
		if h := factory(p); h != nil {
			p.hooks = h
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithConcurrency processes up to n sibling fields of an item at once.
// Values below 2 keep processing sequential.
func WithConcurrency(n int) Option {
	return func(p *Processor) {
		p.concurrency = n
	}
}

// New creates a Processor over typeMap.
func New(typeMap domain.TypeMap, opts ...Option) *Processor {
	p := &Processor{
		typeMap: typeMap,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	p.hooks = p
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// TypeMap returns the TypeMap the processor walks.
func (p *Processor) TypeMap() domain.TypeMap {
	return p.typeMap
}

// GetTypeDefinition returns the definition of typeName, or nil.
func (p *Processor) GetTypeDefinition(_ context.Context, typeName string) (*domain.TypeDefinition, error) {
	return p.typeMap[typeName], nil
}

// GetFieldDescriptor returns the descriptor of typeName.fieldName, or nil.
func (p *Processor) GetFieldDescriptor(_ context.Context, typeName, fieldName string) (*domain.FieldDescriptor, error) {
	return p.typeMap[typeName].Field(fieldName), nil
}

// GetFieldFeature returns the featureName block of typeName.fieldName, or nil.
func (p *Processor) GetFieldFeature(ctx context.Context, typeName, fieldName, featureName string) (any, error) {
	fd, err := p.GetFieldDescriptor(ctx, typeName, fieldName)
	if err != nil || fd == nil || fd.Features == nil {
		return nil, err
	}
	return fd.Features[featureName], nil
}

// GetTypeFeature returns the featureName block of typeName, or nil.
func (p *Processor) GetTypeFeature(ctx context.Context, typeName, featureName string) (any, error) {
	def, err := p.GetTypeDefinition(ctx, typeName)
	if err != nil || def == nil || def.Features == nil {
		return nil, err
	}
	return def.Features[featureName], nil
}

// Process resolves value as a top-level value of typeName.
func (p *Processor) Process(ctx context.Context, value any, typeName string) (any, error) {
	if _, ok := p.typeMap[typeName]; !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTypeNotFound, typeName)
	}
	return p.hooks.ProcessValue(ctx, value, typeName, "")
}

// ProcessValue is the default value behaviour: primitive, unknown and
// missing values are returned unchanged; composite values are handed to
// ProcessItem, or to ProcessItemList when the field is multiple.
// Fields that typeName does not declare pass through.
func (p *Processor) ProcessValue(ctx context.Context, value any, typeName, fieldName string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	valueType := typeName
	multiple := false
	if fieldName != "" {
		fd := p.typeMap[typeName].Field(fieldName)
		if fd == nil {
			return value, nil
		}
		valueType = fd.Type
		multiple = fd.Multiple
	}

	if domain.IsMissing(value) {
		return value, nil
	}
	def := p.typeMap[valueType]
	if def == nil || def.Primitive {
		return value, nil
	}

	if multiple {
		items, ok := toList(value)
		if !ok {
			return nil, fmt.Errorf("%s.%s: %w: got %T", typeName, fieldName, domain.ErrNotAList, value)
		}
		return p.hooks.ProcessItemList(ctx, items, valueType)
	}
	return p.hooks.ProcessItem(ctx, value, valueType)
}

// ProcessItem is the default item behaviour: every declared field is
// resolved through ProcessValue and failures are collected into an
// *ItemError. Undeclared keys are kept as they are.
func (p *Processor) ProcessItem(ctx context.Context, item any, typeName string) (any, error) {
	m, ok := item.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: %w: got %T", typeName, domain.ErrNotAnItem, item)
	}
	def := p.typeMap[typeName]

	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	fieldErrs := make(map[string]error)

	var mu sync.Mutex
	resolve := func(name string) {
		v, present := m[name]
		res, err := p.hooks.ProcessValue(ctx, v, typeName, name)

		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			fieldErrs[name] = err
			return
		}
		if present || res != nil {
			out[name] = res
		}
	}

	names := def.FieldNames()
	if p.concurrency > 1 && len(names) > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.concurrency)
		for _, name := range names {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					mu.Lock()
					fieldErrs[name] = err
					mu.Unlock()
					return nil
				}
				resolve(name)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for _, name := range names {
			resolve(name)
		}
	}

	if len(fieldErrs) > 0 {
		p.logger.Debug("item rejected", "type", typeName, "fields", len(fieldErrs))
		return nil, &ItemError{Type: typeName, Fields: fieldErrs}
	}
	return out, nil
}

// ProcessItemList is the default list behaviour: each element is resolved
// through ProcessItem and failures are collected into a *ListError.
func (p *Processor) ProcessItemList(ctx context.Context, items []any, typeName string) (any, error) {
	out := make([]any, len(items))
	itemErrs := make(map[int]error)
	for i, item := range items {
		res, err := p.hooks.ProcessItem(ctx, item, typeName)
		if err != nil {
			itemErrs[i] = err
			continue
		}
		out[i] = res
	}
	if len(itemErrs) > 0 {
		return nil, &ListError{Type: typeName, Items: itemErrs}
	}
	return out, nil
}

func toList(v any) ([]any, bool) {
	if list, ok := v.([]any); ok {
		return list, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	list := make([]any, rv.Len())
	for i := range list {
		list[i] = rv.Index(i).Interface()
	}
	return list, true
}
