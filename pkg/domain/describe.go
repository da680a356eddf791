package domain

import (
	"encoding/json"
)

// DescribeError converts an error tree into a JSON-friendly value.
// Errors implementing json.Marshaler describe themselves; anything else is
// reduced to its message.
func DescribeError(err error) any {
	if err == nil {
		return nil
	}
	if m, ok := err.(json.Marshaler); ok {
		if raw, mErr := m.MarshalJSON(); mErr == nil {
			return json.RawMessage(raw)
		}
	}
	return map[string]any{"message": err.Error()}
}
