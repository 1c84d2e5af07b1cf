// Package cmd provides the CLI commands for auditctl.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/findablescore/auditor/internal/config"
	"github.com/findablescore/auditor/internal/logging"
	"github.com/findablescore/auditor/internal/store"
	"github.com/findablescore/auditor/pkg/version"
)

var (
	debugMode      bool
	loggingCleanup func()
)

// NewRootCmd creates the root command for the auditctl CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auditctl",
		Short: "Findability audit pipeline: crawl, score, and fix a site's AI discoverability",
		Long: `auditctl crawls a site, chunks and indexes its content, simulates
how well an AI system could answer real questions about it, scores the
result against seven findability pillars, and proposes fixes.

Run 'auditctl audit <domain>' to start.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.SetVersionTemplate("auditctl version {{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.findablescore/logs/")
	cmd.PersistentPreRunE = startLogging
	cmd.PersistentPostRunE = stopLogging

	cmd.AddCommand(newAuditCmd())
	cmd.AddCommand(newReportCmd())
	cmd.AddCommand(newCalibrateCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func startLogging(cmd *cobra.Command, args []string) error {
	cfg := logging.DefaultConfig()
	if debugMode {
		cfg = logging.DebugConfig()
	}
	cfg.WriteToStderr = false

	logger, cleanup, err := logging.Setup(cfg)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	slog.SetDefault(logger)
	loggingCleanup = cleanup
	return nil
}

func stopLogging(cmd *cobra.Command, args []string) error {
	if loggingCleanup != nil {
		loggingCleanup()
	}
	return nil
}

// loadConfig loads the project/user configuration from dir (or the
// current directory when dir is empty).
func loadConfig(dir string) (*config.Config, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("determine working directory: %w", err)
		}
		dir = wd
	}
	return config.Load(dir)
}

// openStore opens the AuditStore named by the config's Store.DSN,
// following the config's "sqlite" driver by default. "memory" is
// accepted for local smoke-testing without leaving a database file
// behind.
func openStore(cfg *config.Config) (*store.AuditStore, error) {
	dsn := cfg.Store.DSN
	if cfg.Store.Driver == "memory" || dsn == "" {
		dsn = ":memory:"
	}
	return store.NewAuditStore(dsn)
}
