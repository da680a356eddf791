package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/aretw0/atv/internal/compiler"
	"github.com/aretw0/atv/pkg/domain"
)

var extensions = []string{".json", ".yaml", ".yml"}

// Store implements ports.TypeStore using the local filesystem.
// It keeps one type definition per file, named after the type.
// Definitions are written as JSON; YAML files are read as well.
type Store struct {
	BasePath string
	parser   *compiler.Parser
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".atv/types".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".atv", "types")
	}
	return &Store{BasePath: basePath, parser: compiler.NewParser()}
}

// SaveType persists the definition to a JSON file atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Store) SaveType(_ context.Context, def *domain.TypeDefinition) error {
	if def == nil || def.Name == "" {
		return fmt.Errorf("type name cannot be empty")
	}
	if err := checkName(def.Name); err != nil {
		return err
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure type directory: %w", err)
	}

	data, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal type: %w", err)
	}

	// Same directory so that the rename stays on one filesystem
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+def.Name+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op after a successful rename
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename open files
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// A YAML version of the same type would shadow the new file
	for _, ext := range extensions[1:] {
		_ = os.Remove(filepath.Join(s.BasePath, def.Name+ext))
	}

	destPath := filepath.Join(s.BasePath, def.Name+".json")
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing type file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// GetType reads the definition of typeName from its file.
func (s *Store) GetType(_ context.Context, typeName string) (*domain.TypeDefinition, error) {
	if err := checkName(typeName); err != nil {
		return nil, err
	}
	for _, ext := range extensions {
		path := filepath.Join(s.BasePath, typeName+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read type file: %w", err)
		}
		raw, err := compiler.DecodeDocument(data, compiler.FormatFromPath(path))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return s.parser.Decode(typeName, raw)
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrTypeNotFound, typeName)
}

// DeleteType removes every file of typeName.
func (s *Store) DeleteType(_ context.Context, typeName string) error {
	if err := checkName(typeName); err != nil {
		return err
	}
	for _, ext := range extensions {
		err := os.Remove(filepath.Join(s.BasePath, typeName+ext))
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete type file: %w", err)
		}
	}
	return nil
}

// ListTypes returns the names of all type files.
func (s *Store) ListTypes(context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list types: %w", err)
	}

	seen := make(map[string]bool)
	names := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "tmp-") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		if !isTypeExt(ext) {
			continue
		}
		id := strings.TrimSuffix(name, filepath.Ext(name))
		if !seen[id] {
			seen[id] = true
			names = append(names, id)
		}
	}
	sort.Strings(names)
	return names, nil
}

func isTypeExt(ext string) bool {
	for _, e := range extensions {
		if e == ext {
			return true
		}
	}
	return false
}

func checkName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("invalid type name %q", name)
	}
	return nil
}
