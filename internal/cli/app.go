package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"modelcheck/internal/config"
	"modelcheck/internal/logging"
)

// app holds state shared by every command of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	cfgPath   string
	logLevel  string
	logFormat string

	cfg config.Config
	log zerolog.Logger
	// baseDir resolves relative model file keys; it is the config file's directory.
	baseDir string
}

// load builds the effective configuration. Precedence, lowest first:
// defaults, config file, MODELCHECK_* environment, command-line flags.
func (a *app) load(cmd *cobra.Command) error {
	var cfg config.Config
	if a.cfgPath != "" {
		c, err := config.Load(a.cfgPath)
		if err != nil {
			return usageError(fmt.Errorf("load config: %w", err))
		}
		cfg = c
		a.baseDir = filepath.Dir(a.cfgPath)
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return usageError(err)
	}
	applyFlags(cmd.Flags(), &cfg)
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.logFormat != "" {
		cfg.LogFormat = a.logFormat
	}
	resolved, err := cfg.Resolve()
	if err != nil {
		return usageError(err)
	}
	if err := resolved.Validate(); err != nil {
		return usageError(fmt.Errorf("invalid config: %w", err))
	}
	a.cfg = resolved
	a.log = logging.New(a.stderr, resolved.LogLevel, resolved.LogFormat)
	return nil
}

// applyFlags copies explicitly set command flags onto cfg.
func applyFlags(fs *pflag.FlagSet, cfg *config.Config) {
	changed := func(name string) bool {
		f := fs.Lookup(name)
		return f != nil && f.Changed
	}
	if changed("output-dir") {
		cfg.OutputDir, _ = fs.GetString("output-dir")
	}
	if changed("format") {
		cfg.Formats, _ = fs.GetStringSlice("format")
	}
	if changed("models-dir") {
		cfg.ModelsDir, _ = fs.GetString("models-dir")
	}
	if changed("continue-on-error") {
		cfg.ContinueOnError, _ = fs.GetBool("continue-on-error")
	}
	if changed("metrics-file") {
		cfg.MetricsFile, _ = fs.GetString("metrics-file")
	}
	if changed("history-db") {
		cfg.HistoryDB, _ = fs.GetString("history-db")
	}
	if changed("addr") {
		cfg.Addr, _ = fs.GetString("addr")
	}
	if changed("cors-origin") {
		cfg.CORSOrigins, _ = fs.GetStringSlice("cors-origin")
	}
}
