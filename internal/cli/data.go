package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/atv/internal/compiler"
)

// Stdin is the path that makes ReadData read from its reader.
const Stdin = "-"

// ReadData reads the value to validate from path, or from stdin when path is
// "-". Files ending in .yaml or .yml are YAML; everything else is JSON.
func ReadData(path string, stdin io.Reader) (any, error) {
	var (
		data   []byte
		err    error
		format = compiler.FormatJSON
	)
	if path == Stdin {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			format = compiler.FormatYAML
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return DecodeData(data, format)
}

// DecodeData decodes one document. JSON numbers are kept as json.Number so
// integer checks see the literal.
func DecodeData(data []byte, format compiler.Format) (any, error) {
	var value any
	switch format {
	case compiler.FormatYAML:
		if err := yaml.Unmarshal(data, &value); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}
	return value, nil
}
