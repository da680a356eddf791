package validator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/aretw0/atv/pkg/domain"
	"github.com/aretw0/atv/pkg/registry"
)

// Descriptors is the lookup contract of the type processor.
// Each method returns a nil result without error when nothing is declared.
type Descriptors interface {
	GetTypeDefinition(ctx context.Context, typeName string) (*domain.TypeDefinition, error)
	GetFieldDescriptor(ctx context.Context, typeName, fieldName string) (*domain.FieldDescriptor, error)
	GetFieldFeature(ctx context.Context, typeName, fieldName, featureName string) (any, error)
	GetTypeFeature(ctx context.Context, typeName, featureName string) (any, error)
}

// Engine runs the validators that apply to a field value, an item or an item
// list, and aggregates their failures. It holds no per-call state, so one
// Engine may serve concurrent validations.
type Engine struct {
	descriptors   Descriptors
	fieldFeatures *registry.Registry[FieldFeatureValidator]
	values        *registry.Registry[ValueValidator]
	items         *registry.Registry[ItemValidator]
	lists         *registry.Registry[ListValidator]
	types         *registry.Registry[TypeValidator]
	hooks         domain.LifecycleHooks
	logger        *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithFieldFeatureValidators replaces the built-in field-feature validators.
func WithFieldFeatureValidators(m map[string]FieldFeatureValidator) Option {
	return func(e *Engine) {
		e.fieldFeatures = registry.From(m)
	}
}

// WithValueValidators sets the validators referenced by valueValidators.
func WithValueValidators(m map[string]ValueValidator) Option {
	return func(e *Engine) {
		e.values = registry.From(m)
	}
}

// WithItemValidators sets the validators referenced by itemValidators.
func WithItemValidators(m map[string]ItemValidator) Option {
	return func(e *Engine) {
		e.items = registry.From(m)
	}
}

// WithListValidators sets the validators referenced by listValidators.
func WithListValidators(m map[string]ListValidator) Option {
	return func(e *Engine) {
		e.lists = registry.From(m)
	}
}

// WithTypeValidators sets validators keyed by type name.
func WithTypeValidators(m map[string]TypeValidator) Option {
	return func(e *Engine) {
		e.types = registry.From(m)
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an Engine reading descriptors from d.
func NewEngine(d Descriptors, opts ...Option) *Engine {
	e := &Engine{
		descriptors:   d,
		fieldFeatures: registry.From(DefaultFieldFeatureValidators()),
		values:        registry.New[ValueValidator](),
		items:         registry.New[ItemValidator](),
		lists:         registry.New[ListValidator](),
		types:         registry.New[TypeValidator](),
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ValidateValue validates value as the content of typeName.fieldName.
// An empty fieldName validates a top-level value of typeName, for which only
// the type validator applies. It returns a *ValidationError of kind
// INVALID_VALUE when any validator fails.
func (e *Engine) ValidateValue(ctx context.Context, value any, typeName, fieldName string) error {
	start := time.Now()
	agg := NewAggregator(InvalidValue)

	var cfg map[string]any
	valueType := typeName
	multiple := false
	if fieldName != "" {
		raw, err := e.descriptors.GetFieldFeature(ctx, typeName, fieldName, domain.FeatureValidation)
		if err != nil {
			return fmt.Errorf("resolve validation feature of %s.%s: %w", typeName, fieldName, err)
		}
		var ok bool
		if cfg, ok = domain.ConfigMap(raw); !ok {
			return fmt.Errorf("validation feature of %s.%s: expected a map, got %T", typeName, fieldName, raw)
		}
		fd, err := e.descriptors.GetFieldDescriptor(ctx, typeName, fieldName)
		if err != nil {
			return fmt.Errorf("resolve field %s.%s: %w", typeName, fieldName, err)
		}
		valueType = ""
		if fd != nil {
			valueType = fd.Type
			multiple = fd.Multiple
		}
	}

	// 1. Built-in and caller-supplied field-feature validators.
	for _, key := range e.featureKeys(cfg) {
		fn, ok := e.fieldFeatures.Lookup(key)
		if !ok || fn == nil {
			continue
		}
		config := cfg[key]
		agg.Run(key, func() error {
			return fn(ctx, config, value, typeName, fieldName)
		})
	}

	// 2. Custom value validators, in listed order.
	names, ok := domain.StringList(cfg[domain.KeyValueValidators])
	if !ok {
		agg.Record(domain.KeyValueValidators, fmt.Errorf("%s of %s.%s: expected a list of names, got %T", domain.KeyValueValidators, typeName, fieldName, cfg[domain.KeyValueValidators]))
	}
	for _, name := range names {
		fn, ok := e.values.Lookup(name)
		if !ok || fn == nil {
			continue
		}
		agg.Run(name, func() error {
			return fn(ctx, value, typeName, fieldName, names)
		})
	}

	// 3. Type validator of the value's own type. Multiple fields are
	// checked element by element; the first failing element is recorded.
	if valueType != "" && !domain.IsMissing(value) {
		if fn, ok := e.types.Lookup(valueType); ok && fn != nil {
			typeCfg, err := e.descriptors.GetTypeFeature(ctx, valueType, domain.FeatureValidation)
			if err != nil {
				return fmt.Errorf("resolve validation feature of type %s: %w", valueType, err)
			}
			agg.Run(valueType, func() error {
				elems, isSeq := elements(value)
				if !multiple || !isSeq {
					return fn(ctx, value, typeCfg, valueType)
				}
				for _, elem := range elems {
					if domain.IsMissing(elem) {
						continue
					}
					if err := fn(ctx, elem, typeCfg, valueType); err != nil {
						return err
					}
				}
				return nil
			})
		}
	}

	return e.finish(ctx, agg, domain.EventValueValidated, typeName, fieldName, start)
}

// ValidateItem runs the itemValidators of typeName against item. It returns
// a *ValidationError of kind INVALID_ITEM when any validator fails.
func (e *Engine) ValidateItem(ctx context.Context, item any, typeName string) error {
	start := time.Now()
	def, err := e.descriptors.GetTypeDefinition(ctx, typeName)
	if err != nil {
		return fmt.Errorf("resolve type %s: %w", typeName, err)
	}
	agg := NewAggregator(InvalidItem)
	if def != nil {
		names := def.ItemValidators
		for _, name := range names {
			fn, ok := e.items.Lookup(name)
			if !ok || fn == nil {
				continue
			}
			agg.Run(name, func() error {
				return fn(ctx, item, typeName, names)
			})
		}
	}
	return e.finish(ctx, agg, domain.EventItemValidated, typeName, "", start)
}

// ValidateItemList runs the listValidators of typeName against items. It
// returns a *ValidationError of kind INVALID_ITEM_LIST when any validator
// fails.
func (e *Engine) ValidateItemList(ctx context.Context, items []any, typeName string) error {
	start := time.Now()
	def, err := e.descriptors.GetTypeDefinition(ctx, typeName)
	if err != nil {
		return fmt.Errorf("resolve type %s: %w", typeName, err)
	}
	agg := NewAggregator(InvalidItemList)
	if def != nil {
		names := def.ListValidators
		for _, name := range names {
			fn, ok := e.lists.Lookup(name)
			if !ok || fn == nil {
				continue
			}
			agg.Run(name, func() error {
				return fn(ctx, items, typeName, names)
			})
		}
	}
	return e.finish(ctx, agg, domain.EventItemListValidated, typeName, "", start)
}

// featureKeys returns the keys of cfg handled by field-feature validators:
// built-ins first in their fixed order, then any other key in lexical order.
func (e *Engine) featureKeys(cfg map[string]any) []string {
	if len(cfg) == 0 {
		return nil
	}
	keys := make([]string, 0, len(cfg))
	seen := make(map[string]bool, len(domain.BuiltinFeatureKeys))
	for _, key := range domain.BuiltinFeatureKeys {
		seen[key] = true
		if _, ok := cfg[key]; ok {
			keys = append(keys, key)
		}
	}
	var extra []string
	for key := range cfg {
		if seen[key] || key == domain.KeyValueValidators {
			continue
		}
		extra = append(extra, key)
	}
	sort.Strings(extra)
	return append(keys, extra...)
}

func (e *Engine) finish(ctx context.Context, agg *Aggregator, kind domain.EventType, typeName, fieldName string, start time.Time) error {
	err := agg.Err()
	event := &domain.ValidationEvent{
		Timestamp: time.Now(),
		Type:      kind,
		TypeName:  typeName,
		FieldName: fieldName,
		Duration:  time.Since(start),
		Err:       err,
	}
	if err != nil {
		verr := agg.err
		event.Failed = verr.Names()
		for _, name := range event.Failed {
			reason := verr.Reasons[name]
			var perr *PanicError
			if errors.As(reason, &perr) {
				e.logger.Warn("validator panicked",
					"validator", name, "type", typeName, "field", fieldName, "err", reason)
				continue
			}
			e.logger.Debug("validator failed",
				"validator", name, "type", typeName, "field", fieldName, "err", reason)
		}
	}
	e.hooks.Emit(ctx, event)
	return err
}
