/*
Package processor implements a type processor: it walks a value against a
domain.TypeMap, resolving nested type references depth-first.

The processor owns traversal. For every value, item and item list it meets
it calls the matching method of its Hooks, which default to the
processor's own behaviour. Installing different hooks (see WithHooks) lets
a layer such as the validator intercept each step and then delegate back:

	p := processor.New(typeMap, processor.WithHooks(func(base *processor.Processor) processor.Hooks {
	    return validator.NewProcessor(validator.NewEngine(base), base)
	}))
	out, err := p.Process(ctx, value, "Contact")

Errors raised by the hooks for individual fields are collected per field
into an *ItemError. Errors raised for list elements are collected per index
into a *ListError.
*/
package processor
