// Package cli holds the bootstrap shared by the stage binaries under cmd/.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"willaykuna/internal/config"
	"willaykuna/internal/logger"
	"willaykuna/internal/metrics"
)

// DefaultConfigFile is used when --config is not given and the file exists.
const DefaultConfigFile = "configs/willaykuna.yaml"

// Flags are the options every stage accepts.
type Flags struct {
	ConfigFile string
	EnvFile    string
	OutputDir  string
	LogLevel   string
}

// Runtime is the loaded configuration plus the logger and metrics built from it.
type Runtime struct {
	Config  *config.Config
	Log     *logger.Logger
	Metrics *metrics.Metrics
}

// Register adds the shared flags to cmd.
func (f *Flags) Register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.ConfigFile, "config", "c", "", "path to YAML configuration file (default "+DefaultConfigFile+" if present)")
	pf.StringVar(&f.EnvFile, "env-file", ".env", "dotenv file loaded before the configuration")
	pf.StringVarP(&f.OutputDir, "output-dir", "o", "", "directory for stage files (overrides output.dir)")
	pf.StringVar(&f.LogLevel, "log-level", "", "debug, info, warn or error (overrides logging.level)")
}

// ConfigPath resolves which configuration file to load. An empty result means defaults only.
func (f *Flags) ConfigPath() string {
	if f.ConfigFile != "" {
		return f.ConfigFile
	}

	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}

	return ""
}

// Load reads the environment and configuration, applies flag overrides and builds the logger.
func (f *Flags) Load() (*Runtime, error) {
	if f.EnvFile != "" {
		if err := config.LoadDotEnv(f.EnvFile); err != nil {
			return nil, err
		}
	}

	cfg, err := config.LoadConfig(f.ConfigPath())
	if err != nil {
		return nil, err
	}

	if f.OutputDir != "" {
		cfg.Output.Dir = f.OutputDir
	}

	if f.LogLevel != "" {
		cfg.Logging.Level = f.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flag override: %w", err)
	}

	log := logger.New(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	log.Debug("configuration loaded", "path", f.ConfigPath(), "config", cfg.String())

	return &Runtime{
		Config:  cfg,
		Log:     log,
		Metrics: metrics.New(),
	}, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// Main executes cmd and exits with status 1 on error.
func Main(cmd *cobra.Command) {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}
