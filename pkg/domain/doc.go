/*
Package domain contains the core data model consumed by the validator.

It describes the declarative Type Map that a type processor walks: type
definitions, the fields they declare and the feature blocks attached to
them. The package is kept pure and free of I/O so loaders, engines and
adapters can share it without import cycles.

# Key Entities

  - TypeMap: the mapping from type name to TypeDefinition. Read-only during a validation run.
  - TypeDefinition: a named type, either primitive or composite (with Fields).
  - FieldDescriptor: a field's type reference, cardinality and Features.
  - Features: named configuration blocks; the validator reads the "validation" feature.
  - LifecycleHooks: observability callbacks fired after each validation.
*/
package domain
