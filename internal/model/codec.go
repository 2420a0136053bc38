package model

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type codec struct {
	marshal   func(v any) ([]byte, error)
	unmarshal func(b []byte, v any) error
}

var codecs = map[string]codec{
	"json": {
		marshal:   func(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") },
		unmarshal: json.Unmarshal,
	},
	"xml": {
		marshal: func(v any) ([]byte, error) {
			b, err := xml.MarshalIndent(v, "", "  ")
			if err != nil {
				return nil, err
			}
			return append([]byte(xml.Header), b...), nil
		},
		unmarshal: xml.Unmarshal,
	},
	"yaml": {marshal: yaml.Marshal, unmarshal: yaml.Unmarshal},
	"toml": {marshal: toml.Marshal, unmarshal: toml.Unmarshal},
}

// Formats returns the supported file extensions, sorted.
func Formats() []string {
	out := make([]string, 0, len(codecs))
	for ext := range codecs {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Supports reports whether ext (without the dot, any case) is a known format.
func Supports(ext string) bool {
	_, ok := codecs[strings.ToLower(ext)]
	return ok
}

// FormatOf returns the lower-cased extension of path without the dot.
func FormatOf(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Encode serializes m in the given format.
func (m *Model) Encode(format string) ([]byte, error) {
	c, ok := codecs[strings.ToLower(format)]
	if !ok {
		return nil, ErrProvider(fmt.Sprintf("unsupported format %q", format), nil)
	}
	if m.Version == "" {
		m.Version = Version1
	}
	b, err := c.marshal(m)
	if err != nil {
		return nil, ErrProvider("encode "+format, err)
	}
	if len(b) > 0 && b[len(b)-1] != '\n' {
		b = append(b, '\n')
	}
	return b, nil
}

// Decode parses a model document in the given format and validates it.
func Decode(format string, b []byte) (*Model, error) {
	c, ok := codecs[strings.ToLower(format)]
	if !ok {
		return nil, ErrProvider(fmt.Sprintf("unsupported format %q", format), nil)
	}
	var m Model
	if err := c.unmarshal(bytes.TrimSpace(b), &m); err != nil {
		return nil, ErrProvider("decode "+format, err)
	}
	if m.Version != Version1 {
		return nil, ErrProvider(fmt.Sprintf("unsupported document version %q", m.Version), nil)
	}
	if err := m.Validate(); err != nil {
		return nil, ErrProvider("invalid model", err)
	}
	return &m, nil
}

// Save writes m to path in the format named by the path's extension,
// overwriting any existing file. Parent directories are not created.
func (m *Model) Save(path string) error {
	b, err := m.Encode(FormatOf(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return ErrIO(path, err)
	}
	return nil
}

// ReadFile loads a model from path, choosing the codec by extension.
func ReadFile(path string) (*Model, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound(path)
		}
		return nil, ErrIO(path, err)
	}
	return Decode(FormatOf(path), b)
}
