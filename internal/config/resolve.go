package config

import (
	"fmt"
	"strings"

	"modelcheck/internal/common/fsutil"
	"modelcheck/internal/model"
	"modelcheck/internal/registry"
)

// Defaults applied by Resolve when the corresponding field is unset.
const (
	DefaultAddr      = ":8090"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
)

// Resolve returns a copy of c with defaults filled in. Records found in
// ModelsDir are appended after the explicit Models. When Models is absent
// (nil) and no ModelsDir is set the built-in registry is used; an explicit
// empty list ("models: []") stays empty.
func (c Config) Resolve() (Config, error) {
	out := c
	out.Models = append(out.Models[:0:0], c.Models...)
	if c.ModelsDir != "" {
		recs, err := registry.LoadDir(c.ModelsDir)
		if err != nil {
			return out, fmt.Errorf("models dir: %w", err)
		}
		out.Models = append(out.Models, recs...)
	}
	if c.Models == nil && c.ModelsDir == "" {
		out.Models = registry.Default()
	}
	if len(out.Formats) == 0 {
		out.Formats = registry.DefaultFormats()
	} else {
		out.Formats = make([]string, len(c.Formats))
		for i, f := range c.Formats {
			out.Formats[i] = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(f), "."))
		}
	}
	if out.Addr == "" {
		out.Addr = DefaultAddr
	}
	if out.LogLevel == "" {
		out.LogLevel = DefaultLogLevel
	}
	if out.LogFormat == "" {
		out.LogFormat = DefaultLogFormat
	}
	var err error
	for _, p := range []*string{&out.OutputDir, &out.MetricsFile, &out.HistoryDB} {
		if *p, err = fsutil.ExpandHome(*p); err != nil {
			return out, err
		}
	}
	return out, nil
}

// Validate checks the invariants the harness relies on.
func (c Config) Validate() error {
	prefixes := make(map[string]string, len(c.Models))
	for i, r := range c.Models {
		if r.Key == "" {
			return fmt.Errorf("models[%d]: key is required", i)
		}
		if r.FilePrefix == "" {
			return fmt.Errorf("models[%d] (%s): file_prefix is required", i, r.Key)
		}
		if prev, ok := prefixes[r.FilePrefix]; ok {
			return fmt.Errorf("models[%d] (%s): file_prefix %q already used by %s", i, r.Key, r.FilePrefix, prev)
		}
		prefixes[r.FilePrefix] = r.Key
	}
	seen := make(map[string]bool, len(c.Formats))
	for _, f := range c.Formats {
		if !model.Supports(f) {
			return fmt.Errorf("unsupported format %q (supported: %s)", f, strings.Join(model.Formats(), ", "))
		}
		if seen[f] {
			return fmt.Errorf("duplicate format %q", f)
		}
		seen[f] = true
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "", "json", "console":
	default:
		return fmt.Errorf("invalid log format %q", c.LogFormat)
	}
	return nil
}
