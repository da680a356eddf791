// Package schema checks values against the primitive types of a Type Map and
// lints Type Maps before they are put to use.
//
// Primitive types are looked up by name:
//
//	typ, err := schema.ParseType("[String]")
//	if err != nil {
//	    return err
//	}
//	err = typ.Validate([]any{"a", "b"})
//
// TypeValidators turns the primitive types declared in a Type Map into
// type-level validators for the validation engine:
//
//	engine := validator.NewEngine(proc,
//	    validator.WithTypeValidators(schema.TypeValidators(typeMap)),
//	)
//
// Lint reports every inconsistency of a Type Map in one *AggregateError:
//
//	if err := schema.Lint(typeMap, schema.LintOptions{}); err != nil {
//	    for _, issue := range schema.Issues(err) {
//	        fmt.Println(issue)
//	    }
//	}
package schema
