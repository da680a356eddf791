// Package validator is the validation layer that sits on top of a type
// processor.
//
// The processor walks a Type Map and calls back into this package for every
// field value, item and item list it resolves. For each of those the
// engines decide which validators apply, run every one of them in a fixed
// order, and collect all failures into one ValidationError keyed by
// validator name. A failing validator never prevents its siblings from
// running, so callers always receive the complete set of reasons.
//
// Validators are looked up by name in registries supplied at construction.
// A name that is not registered is skipped.
//
// Which validators run:
//
//   - Field values: the built-in field-feature validators named by keys of the
//     field's "validation" feature (required, requiredLength,
//     requiredLengthMin/AtLeast, requiredLengthMax/AtMost), then the names
//     listed under valueValidators, then the type validator registered for
//     the value's type (only for present values).
//   - Items: the type definition's itemValidators, in listed order.
//   - Item lists: the type definition's listValidators, in listed order.
//
// Processor adapts an Engine to the hook set the processor invokes, running
// validation first and delegating to the processor's own behaviour after.
package validator
