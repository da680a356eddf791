package compiler

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/atv/pkg/domain"
)

// Format identifies the encoding of a Type Map document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath infers the format from a file extension. Unknown extensions
// are read as YAML, which is a superset of JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	default:
		return FormatYAML
	}
}

// Parser is responsible for converting raw bytes into a TypeMap.
type Parser struct {
	// Strict rejects unknown keys in type and field definitions.
	Strict bool
}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes a document mapping type names to type definitions.
func (p *Parser) Parse(data []byte, format Format) (domain.TypeMap, error) {
	raw, err := DecodeDocument(data, format)
	if err != nil {
		return nil, err
	}

	tm := make(domain.TypeMap, len(raw))
	for name, v := range raw {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("type %s: expected a map, got %T", name, v)
		}
		def, err := p.Decode(name, m)
		if err != nil {
			return nil, err
		}
		tm[name] = def
	}
	return tm, nil
}

// Decode converts a generic map into a TypeDefinition named name.
func (p *Parser) Decode(name string, raw map[string]any) (*domain.TypeDefinition, error) {
	var def domain.TypeDefinition
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &def,
		TagName:     "mapstructure",
		ErrorUnused: p.Strict,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to parse type %s: %w", name, err)
	}
	if def.Name == "" {
		def.Name = name
	}
	for fieldName, fd := range def.Fields {
		if fd == nil {
			return nil, fmt.Errorf("type %s: field %s has no descriptor", name, fieldName)
		}
	}
	return &def, nil
}

// DecodeDocument reads a document into a generic map. JSON numbers are kept
// as json.Number so that integers survive the round trip.
func DecodeDocument(data []byte, format Format) (map[string]any, error) {
	var raw map[string]any
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	return raw, nil
}

// Encode renders tm in the given format.
func Encode(tm domain.TypeMap, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(tm, "", "  ")
	case FormatYAML:
		return yaml.Marshal(tm)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
