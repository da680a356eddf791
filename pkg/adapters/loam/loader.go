package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"

	"github.com/aretw0/atv/internal/compiler"
	"github.com/aretw0/atv/pkg/domain"
)

// Loader adapts the Loam library to the TypeLoader interface.
// Each document of the repository declares one type.
type Loader struct {
	Repo   *loam.TypedRepository[TypeMetadata]
	parser *compiler.Parser
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[TypeMetadata]) *Loader {
	return &Loader{
		Repo:   repo,
		parser: compiler.NewParser(),
	}
}

type entry struct {
	docID   string
	meta    TypeMetadata
	content string
}

// index lists the repository once, keyed by normalized type name.
func (l *Loader) index(ctx context.Context) (map[string]entry, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	idx := make(map[string]entry, len(docs))
	for _, doc := range docs {
		// Use the name from metadata if available, otherwise filename ID
		rawID := doc.Data.Name
		if rawID == "" {
			rawID = doc.ID
		}
		name := trimExtension(rawID)

		if existing, ok := idx[name]; ok {
			return nil, fmt.Errorf("collision detected: type '%s' is defined in both '%s' and '%s'", name, existing.docID, doc.ID)
		}
		idx[name] = entry{docID: doc.ID, meta: doc.Data, content: strings.TrimSpace(doc.Content)}
	}
	return idx, nil
}

// GetType builds the definition of typeName from its document.
func (l *Loader) GetType(ctx context.Context, typeName string) (*domain.TypeDefinition, error) {
	idx, err := l.index(ctx)
	if err != nil {
		return nil, err
	}
	e, ok := idx[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTypeNotFound, typeName)
	}

	fields, err := l.resolveFields(idx, typeName, nil)
	if err != nil {
		return nil, err
	}
	applyRequiredSugar(e.meta.Required, fields)

	raw := map[string]any{
		"name":      typeName,
		"label":     e.meta.Label,
		"primitive": e.meta.Primitive,
	}
	if e.content != "" {
		raw["description"] = e.content
	}
	if len(fields) > 0 {
		raw["fields"] = fields
	}
	if len(e.meta.Features) > 0 {
		raw["features"] = e.meta.Features
	}
	if len(e.meta.ItemValidators) > 0 {
		raw["itemValidators"] = e.meta.ItemValidators
	}
	if len(e.meta.ListValidators) > 0 {
		raw["listValidators"] = e.meta.ListValidators
	}

	def, err := l.parser.Decode(typeName, raw)
	if err != nil {
		return nil, fmt.Errorf("loam document %s: %w", e.docID, err)
	}
	return def, nil
}

// ListTypes lists all types in the repository.
func (l *Loader) ListTypes(ctx context.Context) ([]string, error) {
	idx, err := l.index(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(idx))
	for name := range idx {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// resolveFields recursively merges included documents' fields with the
// local ones, in normalized form.
func (l *Loader) resolveFields(idx map[string]entry, typeName string, visited map[string]bool) (map[string]any, error) {
	if visited == nil {
		visited = make(map[string]bool)
	}
	e := idx[typeName]
	fields := make(map[string]any)

	for _, ref := range e.meta.Include {
		refName := trimExtension(ref)
		if visited[refName] || refName == typeName {
			return nil, fmt.Errorf("cycle detected in type includes: %s", refName)
		}
		if _, ok := idx[refName]; !ok {
			return nil, fmt.Errorf("type %s includes unknown type '%s'", typeName, refName)
		}

		// DFS Cycle Detection: Mark
		visited[typeName] = true
		included, err := l.resolveFields(idx, refName, visited)
		// DFS Cycle Detection: Unmark (backtrack)
		delete(visited, typeName)
		if err != nil {
			return nil, err
		}

		// Later includes override earlier ones
		for name, fd := range included {
			fields[name] = fd
		}
	}

	for name, value := range e.meta.Fields {
		fd, err := normalizeField(value)
		if err != nil {
			return nil, fmt.Errorf("type %s: fields.%s: %w", typeName, name, err)
		}
		// Local > Include
		fields[name] = fd
	}
	return fields, nil
}

// normalizeField expands the shorthand forms of a field descriptor.
func normalizeField(value any) (map[string]any, error) {
	switch v := value.(type) {
	case string:
		return map[string]any{"type": v}, nil
	case []any:
		if len(v) != 1 {
			return nil, fmt.Errorf("expected single element list for multiple field")
		}
		inner, ok := v[0].(string)
		if !ok {
			return nil, fmt.Errorf("expected type name in list, got %T", v[0])
		}
		return map[string]any{"type": inner, "multiple": true}, nil
	case []string:
		if len(v) != 1 {
			return nil, fmt.Errorf("expected single element list for multiple field")
		}
		return map[string]any{"type": v[0], "multiple": true}, nil
	case map[string]any:
		return v, nil
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[fmt.Sprintf("%v", k)] = val
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected string, list or map, got %T", value)
	}
}

// applyRequiredSugar sets validation.required on each listed field without
// disturbing other keys of its feature blocks.
func applyRequiredSugar(required []string, fields map[string]any) {
	for _, name := range required {
		fd, ok := fields[name].(map[string]any)
		if !ok {
			continue
		}
		fd = copyMap(fd)
		features, _ := domain.ConfigMap(fd["features"])
		features = copyMap(features)
		validation, _ := domain.ConfigMap(features[domain.FeatureValidation])
		validation = copyMap(validation)

		validation[domain.KeyRequired] = true
		features[domain.FeatureValidation] = validation
		fd["features"] = features
		fields[name] = fd
	}
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch implements ports.Watchable.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	// Watch for all relevant files (recursive) using the doublestar pattern supported by Loam
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}
