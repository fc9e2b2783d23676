package compiler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ospsys/internal/structure"
)

// RootElement is the optional key wrapping a whole document.
const RootElement = "OspSystemStructure"

// Format names a source document syntax.
type Format string

const (
	FormatCUE  Format = "cue"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the document format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return FormatCUE, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported document extension %q (want .cue, .yaml, .yml or .json)", filepath.Ext(path))
	}
}

// DecodeYAML parses a YAML document into a canonical dictionary.
func DecodeYAML(data []byte) (structure.Dict, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return rootDict(normalizeYAML(raw))
}

// DecodeJSON parses a JSON document into a canonical dictionary. Numbers
// are kept as json.Number so integer attributes are not rounded through
// float64.
func DecodeJSON(data []byte) (structure.Dict, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("parse json: unexpected data after the document")
	}
	return rootDict(raw)
}

// Decode parses data in the given format. name is used in CUE error
// positions.
func Decode(format Format, name string, data []byte) (structure.Dict, error) {
	switch format {
	case FormatCUE:
		return CompileCUEBytes(name, data)
	case FormatYAML:
		return DecodeYAML(data)
	case FormatJSON:
		return DecodeJSON(data)
	default:
		return nil, fmt.Errorf("unsupported document format %q", format)
	}
}

// Build unwraps an optional OspSystemStructure root and builds the
// structure from the dictionary.
func Build(doc structure.Dict) (*structure.SystemStructure, error) {
	if inner, ok := doc[RootElement]; ok && len(doc) == 1 {
		d, isDict := inner.(structure.Dict)
		if !isDict {
			return nil, fmt.Errorf("%s: expected an element, got %T", RootElement, inner)
		}
		doc = d
	}
	return structure.FromDict(doc)
}

// LoadFile reads, decodes and builds the document at path.
func LoadFile(path string) (*structure.SystemStructure, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := Decode(format, path, data)
	if err != nil {
		return nil, err
	}
	s, err := Build(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slog.Debug("document loaded",
		"path", path,
		"format", format,
		"simulators", s.Simulators.Len(),
		"functions", len(s.FunctionNames()),
	)
	return s, nil
}

// rootDict checks that a decoded document is an object.
func rootDict(raw any) (structure.Dict, error) {
	d, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("document root must be a mapping, got %T", raw)
	}
	return d, nil
}

// normalizeYAML rewrites mappings with non-string keys into string-keyed
// dictionaries, recursively.
func normalizeYAML(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			val[k] = normalizeYAML(child)
		}
		return val
	case map[any]any:
		d := make(map[string]any, len(val))
		for k, child := range val {
			d[fmt.Sprint(k)] = normalizeYAML(child)
		}
		return d
	case []any:
		for i, child := range val {
			val[i] = normalizeYAML(child)
		}
		return val
	default:
		return v
	}
}
