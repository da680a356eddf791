package domain

import (
	"reflect"
	"sort"
)

// TypeMapDiff lists the type names that differ between two Type Maps.
// It is serialized to JSON when a reloaded Type Map is reported.
type TypeMapDiff struct {
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`
	Changed []string `json:"changed,omitempty"`
}

// Diff calculates the difference between oldMap and newMap.
// If oldMap is nil, every type of newMap is reported as added (initial load).
// It returns nil when nothing changed.
func Diff(oldMap, newMap TypeMap) *TypeMapDiff {
	diff := &TypeMapDiff{}

	for name, def := range newMap {
		prev, exists := oldMap[name]
		switch {
		case !exists:
			diff.Added = append(diff.Added, name)
		case !reflect.DeepEqual(prev, def):
			diff.Changed = append(diff.Changed, name)
		}
	}
	for name := range oldMap {
		if _, exists := newMap[name]; !exists {
			diff.Removed = append(diff.Removed, name)
		}
	}

	if diff.IsEmpty() {
		return nil
	}
	sort.Strings(diff.Added)
	sort.Strings(diff.Removed)
	sort.Strings(diff.Changed)
	return diff
}

// IsEmpty checks if the diff contains any changes.
func (d *TypeMapDiff) IsEmpty() bool {
	return d == nil || len(d.Added)+len(d.Removed)+len(d.Changed) == 0
}
