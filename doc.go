/*
Package atv adds asynchronous validation to a type processor.

A TypeMap declares named types. Composite types declare fields, and each field
may carry a "validation" feature block holding built-in constraints (required,
requiredLength, requiredLengthMin, requiredLengthMax and their aliases) and a
list of named valueValidators. Types may also name itemValidators and
listValidators that run against whole items and whole sequences of items.

Every validator applicable to a value runs, even after another one has failed.
The failures are collected into one *validator.ValidationError keyed by
validator name, tagged INVALID_VALUE, INVALID_ITEM or INVALID_ITEM_LIST.

# Usage

	typeMap := domain.TypeMap{
		"String": {Primitive: true},
		"Contact": {Fields: map[string]*domain.FieldDescriptor{
			"firstName": {Type: "String", Features: domain.Features{
				"validation": map[string]any{"required": true},
			}},
		}},
	}

	v, err := atv.New(typeMap)
	if err != nil {
		log.Fatal(err)
	}

	_, err = v.Validate(ctx, map[string]any{}, "Contact")
	// err is a *processor.ItemError whose "firstName" entry is a
	// *validator.ValidationError carrying MISSING_REQUIRED_FIELD.

Type maps can also be read from a directory of type documents (Open), from
any ports.TypeLoader (Load), or built in code with pkg/dsl.
*/
package atv
