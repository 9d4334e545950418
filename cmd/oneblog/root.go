// ABOUTME: Root Cobra command and global flags
// ABOUTME: Loads configuration and logging before any subcommand runs

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/oneblog/internal/config"
	"github.com/harper/oneblog/internal/logging"
	"github.com/harper/oneblog/internal/storage"
)

var (
	cfgFile  string
	logLevel string
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "oneblog",
	Short: "AI blog writer with an HTTP API and MCP integration",
	Long: `
 ██████╗ ███╗   ██╗███████╗██████╗ ██╗      ██████╗  ██████╗
██╔═══██╗████╗  ██║██╔════╝██╔══██╗██║     ██╔═══██╗██╔════╝
██║   ██║██╔██╗ ██║█████╗  ██████╔╝██║     ██║   ██║██║  ███╗
██║   ██║██║╚██╗██║██╔══╝  ██╔══██╗██║     ██║   ██║██║   ██║
╚██████╔╝██║ ╚████║███████╗██████╔╝███████╗╚██████╔╝╚██████╔╝
 ╚═════╝ ╚═╝  ╚═══╝╚══════╝╚═════╝ ╚══════╝ ╚═════╝  ╚═════╝

Find trending topics for a domain and turn them into blog posts.

Serve the app and service APIs, or expose your blog to AI agents over MCP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.Logging.Level
		if logLevel != "" {
			level = logLevel
		}
		logging.Init(level, cfg.Logging.Format)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/oneblog/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
}

// openStore opens the configured storage backend.
func openStore(cmd *cobra.Command) (storage.Store, error) {
	store, err := cfg.OpenStorage(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
	}
	return store, nil
}
