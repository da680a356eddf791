/*
Package dsl provides a Go DSL (Domain Specific Language) for programmatically constructing Type Maps.

It allows developers to declare types, fields and their validation features using a type-safe,
fluent builder pattern instead of relying on external YAML or JSON files. This is particularly
useful for unit testing, embedding, and leveraging IDE autocompletion/type-checking.

Example usage:

	b := dsl.New()

	b.Primitive("String", "A Single Line Of Text")

	b.Type("Contact").
		Label("Contact").
		ItemValidators("hasEmailOrPhone").
		Field("firstName", "String").Required().
		Field("tags", "String").Multiple().LengthMin(1).LengthMax(5).
		Field("email", "String").ValueValidators("unique")

	// The resulting loader can be used as a ports.TypeLoader
	loader, err := b.Build()
*/
package dsl
