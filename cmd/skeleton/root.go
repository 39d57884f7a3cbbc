package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"skeleton/internal/config"
)

// options carries the persistent flags.
type options struct {
	configPath string
	logLevel   string
	logFormat  string
}

// buildRootCmd constructs the command tree writing command output to out.
func buildRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "skeleton",
		Short:         "Event-driven web application skeleton",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv("SKELETON_CONFIG"), "Config file (.yaml|.yml|.json|.toml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug|info|warn|error (defaults SKELETON_LOG_LEVEL or info)")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "Log format: json|console (defaults SKELETON_LOG_FORMAT or json)")

	root.AddCommand(newServeCmd(opts), newTriggerCmd(opts), newRoutesCmd(opts))
	return root
}

// loadConfig merges the config file, SKELETON_* env and the persistent flags,
// then fills defaults.
func loadConfig(opts *options) (config.Config, error) {
	var cfg config.Config
	if opts.configPath != "" {
		c, err := config.Load(opts.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = c
	}
	cfg = config.FromEnv(cfg)
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.LogFormat = opts.logFormat
	}
	return cfg.WithDefaults(), nil
}

// newLogger builds a zerolog logger for level and format ("console" or "json").
func newLogger(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	switch strings.ToLower(format) {
	case "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	case "json", "":
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q", format)
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}
