package validator

import "context"

// Validator is the capability the Processor adapter delegates to.
// *Engine implements it.
type Validator interface {
	ValidateValue(ctx context.Context, value any, typeName, fieldName string) error
	ValidateItem(ctx context.Context, item any, typeName string) error
	ValidateItemList(ctx context.Context, items []any, typeName string) error
}

// Base is the type processor's own resolution behaviour, invoked after
// validation succeeds.
type Base interface {
	ProcessValue(ctx context.Context, value any, typeName, fieldName string) (any, error)
	ProcessItem(ctx context.Context, item any, typeName string) (any, error)
	ProcessItemList(ctx context.Context, items []any, typeName string) (any, error)
}

// Processor implements the processor's hook set by validating first and
// forwarding to Base second. It adds no traversal of its own, and it does not
// catch validation errors: they propagate to the processor, which merges
// them into its per-item errors.
type Processor struct {
	validator Validator
	base      Base
}

// NewProcessor creates the hook adapter.
func NewProcessor(v Validator, base Base) *Processor {
	return &Processor{validator: v, base: base}
}

// ProcessValue validates a field value. A failure prevents the forward call.
func (p *Processor) ProcessValue(ctx context.Context, value any, typeName, fieldName string) (any, error) {
	if err := p.validator.ValidateValue(ctx, value, typeName, fieldName); err != nil {
		return nil, err
	}
	return p.base.ProcessValue(ctx, value, typeName, fieldName)
}

// ProcessItem validates an item of typeName before the processor resolves
// its fields.
func (p *Processor) ProcessItem(ctx context.Context, item any, typeName string) (any, error) {
	if err := p.validator.ValidateItem(ctx, item, typeName); err != nil {
		return nil, err
	}
	return p.base.ProcessItem(ctx, item, typeName)
}

// ProcessItemList validates a sequence of items of typeName before the
// processor resolves each item.
func (p *Processor) ProcessItemList(ctx context.Context, items []any, typeName string) (any, error) {
	if err := p.validator.ValidateItemList(ctx, items, typeName); err != nil {
		return nil, err
	}
	return p.base.ProcessItemList(ctx, items, typeName)
}
