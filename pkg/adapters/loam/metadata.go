package loam

// TypeMetadata represents the frontmatter of a type document.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
type TypeMetadata struct {
	// Name overrides the document ID as the type name.
	Name      string `json:"name" mapstructure:"name"`
	Label     string `json:"label" mapstructure:"label"`
	Primitive bool   `json:"primitive" mapstructure:"primitive"`

	// Fields maps field names to descriptors. A descriptor may be written
	// in full, as a bare type name ("String"), or as a single-element list
	// of a type name for multiple fields ([String]).
	Fields map[string]any `json:"fields" mapstructure:"fields"`

	// Features holds type-level feature blocks.
	Features map[string]any `json:"features" mapstructure:"features"`

	ItemValidators []string `json:"itemValidators" mapstructure:"itemValidators"`
	ListValidators []string `json:"listValidators" mapstructure:"listValidators"`

	// Required is sugar for setting validation.required on the listed fields.
	Required []string `json:"required" mapstructure:"required"`

	// Include lists other type documents whose fields are merged into this
	// type. Local fields shadow included ones.
	Include []string `json:"include" mapstructure:"include"`
}
