package schema

import (
	"fmt"
	"sort"

	"github.com/aretw0/atv/pkg/domain"
)

// LintOptions tunes Lint.
type LintOptions struct {
	// Strict reports validator names and feature keys that are not listed
	// below. Without Strict, unregistered names are accepted, as they are
	// at validation time.
	Strict bool

	FieldFeatures   []string // defaults to domain.BuiltinFeatureKeys
	ValueValidators []string
	ItemValidators  []string
	ListValidators  []string
}

var lengthKeys = map[string]bool{
	domain.KeyRequiredLength:        true,
	domain.KeyRequiredLengthMin:     true,
	domain.KeyRequiredLengthAtLeast: true,
	domain.KeyRequiredLengthMax:     true,
	domain.KeyRequiredLengthAtMost:  true,
}

// Lint checks typeMap for inconsistencies and returns them all in one
// *AggregateError, or nil when there are none.
func Lint(typeMap domain.TypeMap, opts LintOptions) error {
	l := &linter{
		typeMap: typeMap,
		opts:    opts,
		known: map[string]map[string]bool{
			"feature": set(opts.FieldFeatures),
			"value":   set(opts.ValueValidators),
			"item":    set(opts.ItemValidators),
			"list":    set(opts.ListValidators),
		},
	}
	if opts.FieldFeatures == nil {
		l.known["feature"] = set(domain.BuiltinFeatureKeys)
	}

	for _, name := range typeMap.Names() {
		l.lintType(name, typeMap[name])
	}

	if len(l.errs) > 0 {
		return &AggregateError{Errors: l.errs}
	}
	return nil
}

type linter struct {
	typeMap domain.TypeMap
	opts    LintOptions
	known   map[string]map[string]bool
	errs    []error
}

func (l *linter) report(path, reason string, value any) {
	l.errs = append(l.errs, &Issue{Path: path, Reason: reason, Value: value})
}

func (l *linter) lintType(name string, def *domain.TypeDefinition) {
	if def == nil {
		l.report(name, "type definition is nil", nil)
		return
	}
	if def.Name != "" && def.Name != name {
		l.report(name+".name", fmt.Sprintf("does not match key %q", name), def.Name)
	}
	if def.Primitive && len(def.Fields) > 0 {
		l.report(name+".fields", "primitive types cannot declare fields", nil)
	}
	if raw, ok := def.Features[domain.FeatureValidation]; ok {
		if _, isMap := domain.ConfigMap(raw); !isMap {
			l.report(name+".features.validation", "must be a map", raw)
		}
	}
	l.lintNames(name+".itemValidators", def.ItemValidators, "item")
	l.lintNames(name+".listValidators", def.ListValidators, "list")

	for _, field := range def.FieldNames() {
		l.lintField(name+".fields."+field, def.Fields[field])
	}
}

func (l *linter) lintField(path string, fd *domain.FieldDescriptor) {
	if fd == nil {
		l.report(path, "field descriptor is nil", nil)
		return
	}
	switch {
	case fd.Type == "":
		l.report(path+".type", "missing type", nil)
	case l.typeMap[fd.Type] == nil && !IsPrimitiveName(fd.Type):
		l.report(path+".type", fmt.Sprintf("unknown type %q", fd.Type), nil)
	}

	raw, ok := fd.Features[domain.FeatureValidation]
	if !ok {
		return
	}
	cfg, isMap := domain.ConfigMap(raw)
	if !isMap {
		l.report(path+".validation", "must be a map", raw)
		return
	}

	keys := make([]string, 0, len(cfg))
	for key := range cfg {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		v := cfg[key]
		keyPath := path + ".validation." + key
		switch {
		case key == domain.KeyRequired:
			if _, isBool := v.(bool); !isBool {
				l.report(keyPath, "must be a boolean", v)
			}
		case lengthKeys[key]:
			if Number().Validate(v) != nil {
				l.report(keyPath, "must be a number", v)
			}
		case key == domain.KeyValueValidators:
			names, isList := domain.StringList(v)
			if !isList {
				l.report(keyPath, "must be a list of validator names", v)
				continue
			}
			l.lintNames(keyPath, names, "value")
		case l.opts.Strict && !l.known["feature"][key]:
			l.report(keyPath, "unknown validation key", nil)
		}
	}
}

func (l *linter) lintNames(path string, names []string, kind string) {
	if !l.opts.Strict {
		return
	}
	for _, name := range names {
		if !l.known[kind][name] {
			l.report(path, fmt.Sprintf("unregistered %s validator %q", kind, name), nil)
		}
	}
}

func set(names []string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}
