package processor

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/atv/pkg/domain"
)

// Error codes of the processor's aggregate errors.
const (
	CodeItemError     = "ITEM_ERROR"
	CodeItemListError = "ITEM_LIST_ERROR"
)

// ItemError collects the errors raised while processing the fields of one
// item, keyed by field name.
type ItemError struct {
	Type   string
	Fields map[string]error
}

func (e *ItemError) fieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *ItemError) Error() string {
	names := e.fieldNames()
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %v", name, e.Fields[name]))
	}
	return fmt.Sprintf("%s: %s [%s]", CodeItemError, e.Type, strings.Join(parts, "; "))
}

// Unwrap exposes the field errors in field-name order.
func (e *ItemError) Unwrap() []error {
	names := e.fieldNames()
	errs := make([]error, 0, len(names))
	for _, name := range names {
		errs = append(errs, e.Fields[name])
	}
	return errs
}

func (e *ItemError) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, len(e.Fields))
	for name, err := range e.Fields {
		fields[name] = domain.DescribeError(err)
	}
	return json.Marshal(struct {
		Message string         `json:"message"`
		Type    string         `json:"type"`
		Fields  map[string]any `json:"fields"`
	}{CodeItemError, e.Type, fields})
}

// ListError collects the errors raised while processing the elements of one
// item list, keyed by index.
type ListError struct {
	Type  string
	Items map[int]error
}

func (e *ListError) indexes() []int {
	idx := make([]int, 0, len(e.Items))
	for i := range e.Items {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}

func (e *ListError) Error() string {
	idx := e.indexes()
	parts := make([]string, 0, len(idx))
	for _, i := range idx {
		parts = append(parts, fmt.Sprintf("%d: %v", i, e.Items[i]))
	}
	return fmt.Sprintf("%s: %s [%s]", CodeItemListError, e.Type, strings.Join(parts, "; "))
}

// Unwrap exposes the element errors in index order.
func (e *ListError) Unwrap() []error {
	idx := e.indexes()
	errs := make([]error, 0, len(idx))
	for _, i := range idx {
		errs = append(errs, e.Items[i])
	}
	return errs
}

func (e *ListError) MarshalJSON() ([]byte, error) {
	items := make(map[string]any, len(e.Items))
	for i, err := range e.Items {
		items[strconv.Itoa(i)] = domain.DescribeError(err)
	}
	return json.Marshal(struct {
		Message string         `json:"message"`
		Type    string         `json:"type"`
		Items   map[string]any `json:"items"`
	}{CodeItemListError, e.Type, items})
}
