package schema

import (
	json "github.com/goccy/go-json"
)

// MarshalJSON renders the issue as {path, reason, got?}.
func (e *Issue) MarshalJSON() ([]byte, error) {
	out := struct {
		Path   string `json:"path"`
		Reason string `json:"reason"`
		Got    string `json:"got,omitempty"`
	}{Path: e.Path, Reason: e.Reason}
	if e.Value != nil {
		out.Got = typeName(e.Value)
	}
	return json.Marshal(out)
}

// MarshalJSON renders the aggregate as {message, issues}.
func (e *AggregateError) MarshalJSON() ([]byte, error) {
	issues := make([]any, 0, len(e.Errors))
	for _, err := range e.Errors {
		if issue, ok := err.(*Issue); ok {
			issues = append(issues, issue)
			continue
		}
		issues = append(issues, map[string]string{"reason": err.Error()})
	}
	return json.Marshal(struct {
		Message string `json:"message"`
		Issues  []any  `json:"issues"`
	}{"INVALID_TYPE_MAP", issues})
}
