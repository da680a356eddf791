package atv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"sync/atomic"

	"github.com/aretw0/loam"

	loamAdapter "github.com/aretw0/atv/pkg/adapters/loam"
	"github.com/aretw0/atv/pkg/domain"
	"github.com/aretw0/atv/pkg/ports"
	"github.com/aretw0/atv/pkg/processor"
	"github.com/aretw0/atv/pkg/schema"
	"github.com/aretw0/atv/pkg/validator"
)

// Validator is the high-level entry point of the library.
// It wires a type processor to the validation engine and exposes both the
// full traversal (Validate) and the individual engines.
type Validator struct {
	loader        ports.TypeLoader
	logger        *slog.Logger
	hooks         domain.LifecycleHooks
	fieldFeatures map[string]validator.FieldFeatureValidator
	values        map[string]validator.ValueValidator
	items         map[string]validator.ItemValidator
	lists         map[string]validator.ListValidator
	types         map[string]validator.TypeValidator
	concurrency   int
	primitives    bool
	Name          string

	state atomic.Pointer[snapshot]
}

// snapshot is everything derived from one TypeMap.
type snapshot struct {
	typeMap domain.TypeMap
	proc    *processor.Processor
	engine  *validator.Engine
}

// Option defines a functional option for configuring the Validator.
type Option func(*Validator)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(v *Validator) {
		v.hooks = hooks
	}
}

// WithLoader sets the source used by Load and Reload.
func WithLoader(l ports.TypeLoader) Option {
	return func(v *Validator) {
		v.loader = l
	}
}

// WithFieldFeatureValidators adds field-feature validators. Entries replace
// the built-in validator of the same key.
func WithFieldFeatureValidators(m map[string]validator.FieldFeatureValidator) Option {
	return func(v *Validator) {
		maps.Copy(v.fieldFeatures, m)
	}
}

// WithValueValidators adds validators referenced by valueValidators.
func WithValueValidators(m map[string]validator.ValueValidator) Option {
	return func(v *Validator) {
		maps.Copy(v.values, m)
	}
}

// WithItemValidators adds validators referenced by itemValidators.
func WithItemValidators(m map[string]validator.ItemValidator) Option {
	return func(v *Validator) {
		maps.Copy(v.items, m)
	}
}

// WithListValidators adds validators referenced by listValidators.
func WithListValidators(m map[string]validator.ListValidator) Option {
	return func(v *Validator) {
		maps.Copy(v.lists, m)
	}
}

// WithTypeValidators adds validators keyed by type name. They take
// precedence over the primitive checks of WithPrimitiveChecks.
func WithTypeValidators(m map[string]validator.TypeValidator) Option {
	return func(v *Validator) {
		maps.Copy(v.types, m)
	}
}

// WithPrimitiveChecks installs type validators for the String, Number,
// Integer and Boolean types declared in the TypeMap. Without it only the
// type validators passed to WithTypeValidators run.
func WithPrimitiveChecks() Option {
	return func(v *Validator) {
		v.primitives = true
	}
}

// WithConcurrency processes up to n sibling fields of an item at once.
func WithConcurrency(n int) Option {
	return func(v *Validator) {
		v.concurrency = n
	}
}

func newValidator(opts []Option) *Validator {
	v := &Validator{
		fieldFeatures: validator.DefaultFieldFeatureValidators(),
		values:        make(map[string]validator.ValueValidator),
		items:         make(map[string]validator.ItemValidator),
		lists:         make(map[string]validator.ListValidator),
		types:         make(map[string]validator.TypeValidator),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.logger == nil {
		v.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return v
}

// New creates a Validator over typeMap.
// The TypeMap is normalized in place and must not change afterwards; use
// Replace to swap it.
func New(typeMap domain.TypeMap, opts ...Option) (*Validator, error) {
	v := newValidator(opts)
	if err := v.Replace(typeMap); err != nil {
		return nil, err
	}
	return v, nil
}

// Load creates a Validator over every type of loader.
func Load(ctx context.Context, loader ports.TypeLoader, opts ...Option) (*Validator, error) {
	v := newValidator(append(opts, WithLoader(loader)))
	if err := v.Reload(ctx); err != nil {
		return nil, err
	}
	return v, nil
}

// Open creates a Validator over a Loam repository of type documents at
// repoPath. The repository is opened read-only.
func Open(ctx context.Context, repoPath string, opts ...Option) (*Validator, error) {
	absPath, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode keeps numbers as json.Number across every Loam format.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}

	typedRepo := loam.NewTypedRepository[loamAdapter.TypeMetadata](repo)
	v, err := Load(ctx, loamAdapter.New(typedRepo), opts...)
	if err != nil {
		return nil, err
	}
	v.Name = filepath.Base(absPath)
	return v, nil
}

// Replace builds the processor and engines for typeMap and swaps them in.
// Validations already running finish against the previous TypeMap.
func (v *Validator) Replace(typeMap domain.TypeMap) error {
	if typeMap == nil {
		typeMap = domain.TypeMap{}
	}
	if err := typeMap.Normalize(); err != nil {
		return err
	}

	types := make(map[string]validator.TypeValidator)
	if v.primitives {
		maps.Copy(types, schema.TypeValidators(typeMap))
	}
	maps.Copy(types, v.types)

	engineOpts := []validator.Option{
		validator.WithFieldFeatureValidators(v.fieldFeatures),
		validator.WithValueValidators(v.values),
		validator.WithItemValidators(v.items),
		validator.WithListValidators(v.lists),
		validator.WithTypeValidators(types),
		validator.WithLifecycleHooks(v.hooks),
		validator.WithLogger(v.logger),
	}

	s := &snapshot{typeMap: typeMap}
	s.proc = processor.New(typeMap,
		processor.WithLogger(v.logger),
		processor.WithConcurrency(v.concurrency),
		processor.WithHooks(func(base *processor.Processor) processor.Hooks {
			s.engine = validator.NewEngine(base, engineOpts...)
			return validator.NewProcessor(s.engine, base)
		}),
	)
	v.state.Store(s)
	v.logger.Debug("type map installed", "types", len(typeMap))
	return nil
}

// Reload reads the TypeMap again from the loader.
func (v *Validator) Reload(ctx context.Context) error {
	if v.loader == nil {
		return fmt.Errorf("no loader configured")
	}
	tm, err := ports.LoadTypeMap(ctx, v.loader)
	if err != nil {
		return err
	}
	return v.Replace(tm)
}

// TypeMap returns the TypeMap currently in use.
func (v *Validator) TypeMap() domain.TypeMap {
	return v.state.Load().typeMap
}

// Validate validates and resolves value as a top-level value of typeName.
// Failures surface as a *validator.ValidationError for the value itself, or
// as the processor's *processor.ItemError and *processor.ListError carrying
// the per-field and per-element failures.
func (v *Validator) Validate(ctx context.Context, value any, typeName string) (any, error) {
	return v.state.Load().proc.Process(ctx, value, typeName)
}

// ValidateValue runs the field value validators of typeName.fieldName only.
func (v *Validator) ValidateValue(ctx context.Context, value any, typeName, fieldName string) error {
	return v.state.Load().engine.ValidateValue(ctx, value, typeName, fieldName)
}

// ValidateItem runs the itemValidators of typeName against item. Fields are
// not visited; use Validate for the full traversal.
func (v *Validator) ValidateItem(ctx context.Context, item any, typeName string) error {
	return v.state.Load().engine.ValidateItem(ctx, item, typeName)
}

// ValidateItemList runs the list validators of typeName against items.
func (v *Validator) ValidateItemList(ctx context.Context, items []any, typeName string) error {
	return v.state.Load().engine.ValidateItemList(ctx, items, typeName)
}

// IsValidationFailure reports whether err describes a rejected value rather
// than a failure to validate it.
func IsValidationFailure(err error) bool {
	var itemErr *processor.ItemError
	var listErr *processor.ListError
	return errors.Is(err, validator.ErrValidation) ||
		errors.As(err, &itemErr) ||
		errors.As(err, &listErr) ||
		errors.Is(err, domain.ErrNotAnItem) ||
		errors.Is(err, domain.ErrNotAList)
}

// Check lints the current TypeMap. With strict set, validator names and
// feature keys that were not registered through the options are reported.
func (v *Validator) Check(strict bool) error {
	return schema.Lint(v.TypeMap(), schema.LintOptions{
		Strict:          strict,
		FieldFeatures:   slices.Sorted(maps.Keys(v.fieldFeatures)),
		ValueValidators: slices.Sorted(maps.Keys(v.values)),
		ItemValidators:  slices.Sorted(maps.Keys(v.items)),
		ListValidators:  slices.Sorted(maps.Keys(v.lists)),
	})
}

// Watch returns a channel that signals when the underlying types change.
// Returns error if the loader does not support watching.
func (v *Validator) Watch(ctx context.Context) (<-chan string, error) {
	if w, ok := v.loader.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current loader does not support watching")
}

// Loader returns the loader used by Reload, or nil.
func (v *Validator) Loader() ports.TypeLoader {
	return v.loader
}
