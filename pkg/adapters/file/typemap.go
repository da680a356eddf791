package file

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/atv/internal/compiler"
	"github.com/aretw0/atv/pkg/domain"
	"github.com/aretw0/atv/pkg/ports"
)

// ReadTypeMap loads a Type Map from path. A regular file holds a whole Type
// Map keyed by type name; a directory holds one type per file (see Store).
func ReadTypeMap(ctx context.Context, path string) (domain.TypeMap, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open type map: %w", err)
	}
	if info.IsDir() {
		return ports.LoadTypeMap(ctx, New(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read type map: %w", err)
	}
	tm, err := compiler.NewParser().Parse(data, compiler.FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tm, nil
}
