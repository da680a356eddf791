package domain

// FeatureValidation is the feature block read by the validator on field and
// type descriptors.
const FeatureValidation = "validation"

// Keys recognized inside a "validation" feature block.
const (
	KeyRequired              = "required"
	KeyRequiredLength        = "requiredLength"
	KeyRequiredLengthMin     = "requiredLengthMin"
	KeyRequiredLengthAtLeast = "requiredLengthAtLeast"
	KeyRequiredLengthMax     = "requiredLengthMax"
	KeyRequiredLengthAtMost  = "requiredLengthAtMost"
	KeyValueValidators       = "valueValidators"
)

// BuiltinFeatureKeys lists the built-in field-feature validators in the order
// they run for a single field.
var BuiltinFeatureKeys = []string{
	KeyRequired,
	KeyRequiredLength,
	KeyRequiredLengthMin,
	KeyRequiredLengthAtLeast,
	KeyRequiredLengthMax,
	KeyRequiredLengthAtMost,
}
