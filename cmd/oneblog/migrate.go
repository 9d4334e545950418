// ABOUTME: Migration command for converting oneblog data between storage backends
// ABOUTME: Supports sqlite, markdown and postgres targets with safety checks

package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/oneblog/internal/config"
	"github.com/harper/oneblog/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate data between storage backends",
	Long: `Migrate all oneblog data from the currently configured backend to a different backend.

Reads posts and topics from the current backend and writes them to the target
backend, keeping IDs and timestamps. Does NOT update the config file; verify the
migration was successful then update config.yaml manually.

Examples:
  oneblog migrate --to markdown
  oneblog migrate --to sqlite --data-dir ~/oneblog-sqlite
  oneblog migrate --to postgres --postgres-url postgres://localhost/oneblog
  oneblog migrate --to markdown --force`,
	RunE: runMigrate,
}

var (
	migrateTo          string
	migrateDataDir     string
	migratePostgresURL string
	migrateForce       bool
)

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "target backend (sqlite, markdown or postgres)")
	migrateCmd.Flags().StringVar(&migrateDataDir, "data-dir", "", "target data directory (defaults to current config data_dir)")
	migrateCmd.Flags().StringVar(&migratePostgresURL, "postgres-url", "", "target Postgres URL (defaults to storage.postgres_url)")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "allow writing into a non-empty target directory")
	_ = migrateCmd.MarkFlagRequired("to")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	sourceBackend := cfg.GetBackend()
	targetBackend := migrateTo

	if err := validateMigrateTarget(sourceBackend, targetBackend); err != nil {
		return err
	}

	targetDataDir := cfg.GetDataDir()
	if migrateDataDir != "" {
		targetDataDir = config.ExpandPath(migrateDataDir)
	}

	targetURL := migratePostgresURL
	if targetBackend == "postgres" {
		if targetURL == "" {
			url, err := cfg.RequirePostgresURL()
			if err != nil {
				return err
			}
			targetURL = url
		}
	} else {
		nonEmpty, err := storage.IsDirNonEmpty(targetDataDir)
		if err != nil {
			return fmt.Errorf("check target directory: %w", err)
		}
		if nonEmpty && !migrateForce {
			return fmt.Errorf("target directory %q is not empty; use --force to overwrite", targetDataDir)
		}
	}

	src, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := openMigrateStorage(cmd.Context(), targetBackend, targetDataDir, targetURL)
	if err != nil {
		return fmt.Errorf("open target storage (%s): %w", targetBackend, err)
	}
	defer dst.Close()

	out := cmd.OutOrStdout()
	target := targetDataDir
	if targetBackend == "postgres" {
		target = "postgres"
	}
	color.New(color.FgYellow).Fprintln(out, "Migrating oneblog data:")
	fmt.Fprintf(out, "  Source:  %s (%s)\n", sourceBackend, cfg.GetDataDir())
	fmt.Fprintf(out, "  Target:  %s (%s)\n", targetBackend, target)
	fmt.Fprintln(out)

	summary, err := storage.MigrateData(cmd.Context(), src, dst)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	color.New(color.FgGreen).Fprintln(out, "Migration complete!")
	fmt.Fprintf(out, "  Posts:   %d\n", summary.Posts)
	fmt.Fprintf(out, "  Topics:  %d\n", summary.Topics)
	fmt.Fprintln(out)
	color.New(color.FgYellow).Fprintln(out, "Note: config.yaml was NOT updated. To switch to the new backend, edit:")
	fmt.Fprintf(out, "  %s\n", config.GetConfigPath())
	fmt.Fprintf(out, "  Set storage.backend: %q", targetBackend)
	if migrateDataDir != "" {
		fmt.Fprintf(out, " and storage.data_dir: %q", migrateDataDir)
	}
	fmt.Fprintln(out)

	return nil
}

func validateMigrateTarget(source, target string) error {
	switch target {
	case "sqlite", "markdown", "postgres":
	default:
		return fmt.Errorf("invalid target backend %q: must be \"sqlite\", \"markdown\" or \"postgres\"", target)
	}
	if target == source {
		return fmt.Errorf("target backend %q is the same as the current backend", target)
	}
	return nil
}

// openMigrateStorage creates a Store implementation for the given target.
func openMigrateStorage(ctx context.Context, backend, dataDir, postgresURL string) (storage.Store, error) {
	switch backend {
	case "sqlite":
		return storage.NewSQLiteStore(filepath.Join(dataDir, config.DefaultDBFilename))
	case "markdown":
		return storage.NewMarkdownStore(dataDir)
	case "postgres":
		return storage.NewPostgresStore(ctx, postgresURL)
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}
