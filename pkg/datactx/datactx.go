// Package datactx loads render contexts from JSON or YAML files.
package datactx

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/mediafusion/streamtmpl/pkg/value"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks a format from the file extension. Unknown extensions are
// read as YAML, which also accepts JSON documents.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	default:
		return FormatYAML
	}
}

// Decode parses data in the given format. Empty input is an empty map.
func Decode(data []byte, format Format) (value.Value, error) {
	if strings.TrimSpace(string(data)) == "" {
		return value.FromMap(nil), nil
	}

	var out value.Value
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &out); err != nil {
			return value.Null(), errors.Errorf("decoding json context: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &out); err != nil {
			return value.Null(), errors.Errorf("decoding yaml context: %w", err)
		}
	default:
		return value.Null(), errors.Errorf("unknown context format %q", format)
	}

	if out.Kind() != value.KindMap {
		return value.Null(), errors.Errorf("context must be a mapping, got %s", out.Kind())
	}

	return out, nil
}

// Load reads and decodes the context file at path.
func Load(ctx context.Context, fs afero.Fs, path string) (value.Value, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return value.Null(), errors.Errorf("reading context file %q: %w", path, err)
	}

	format := FormatForPath(path)
	out, err := Decode(data, format)
	if err != nil {
		return value.Null(), errors.Errorf("loading %q: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Str("format", string(format)).
		Int("keys", out.Map().Len()).
		Msg("loaded render context")

	return out, nil
}
