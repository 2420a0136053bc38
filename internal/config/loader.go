package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"modelcheck/pkg/types"
)

// Config holds the harness inventory and runtime parameters.
// Zero values mean "unspecified" and are replaced by Resolve.
type Config struct {
	OutputDir       string              `json:"output_dir" yaml:"output_dir" toml:"output_dir" env:"MODELCHECK_OUTPUT_DIR"`
	Formats         []string            `json:"formats" yaml:"formats" toml:"formats" env:"MODELCHECK_FORMATS" envSeparator:","`
	Models          []types.ModelRecord `json:"models" yaml:"models" toml:"models"`
	ModelsDir       string              `json:"models_dir" yaml:"models_dir" toml:"models_dir" env:"MODELCHECK_MODELS_DIR"`
	ContinueOnError bool                `json:"continue_on_error" yaml:"continue_on_error" toml:"continue_on_error" env:"MODELCHECK_CONTINUE_ON_ERROR"`
	LogLevel        string              `json:"log_level" yaml:"log_level" toml:"log_level" env:"MODELCHECK_LOG_LEVEL"`
	LogFormat       string              `json:"log_format" yaml:"log_format" toml:"log_format" env:"MODELCHECK_LOG_FORMAT"`
	MetricsFile     string              `json:"metrics_file" yaml:"metrics_file" toml:"metrics_file" env:"MODELCHECK_METRICS_FILE"`
	HistoryDB       string              `json:"history_db" yaml:"history_db" toml:"history_db" env:"MODELCHECK_HISTORY_DB"`
	Addr            string              `json:"addr" yaml:"addr" toml:"addr" env:"MODELCHECK_ADDR"`
	CORSOrigins     []string            `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins" env:"MODELCHECK_CORS_ORIGINS" envSeparator:","`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".json":
		err = json.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}
