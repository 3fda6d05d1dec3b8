// Command portfolioctl administers the portfolio backend database offline.
package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/pzaman/portfolio-backend-go/internal/config"
	"github.com/pzaman/portfolio-backend-go/internal/database"
	"github.com/pzaman/portfolio-backend-go/internal/observability"
)

var version = "dev"

type rootOpts struct {
	dbPath   string
	logLevel string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOpts{}
	rootCmd := &cobra.Command{
		Use:           "portfolioctl",
		Short:         "Administer the portfolio backend database",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			observability.InitLogger(observability.LogConfig{Level: opts.logLevel, Output: cmd.ErrOrStderr()})
		},
	}
	rootCmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite database path (default: $DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newMigrateCmd(opts),
		newIngestCmd(opts),
		newScoreCmd(opts),
		newTokenCmd(),
	)
	return rootCmd
}

// load reads the environment configuration and applies the --db override.
func (o *rootOpts) load() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.dbPath != "" {
		cfg.DBPath = o.dbPath
	}
	return cfg, nil
}

// open opens and migrates the configured database.
func (o *rootOpts) open() (*config.Config, *sql.DB, error) {
	cfg, err := o.load()
	if err != nil {
		return nil, nil, err
	}
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, nil, err
	}
	return cfg, db, nil
}

func newMigrateCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := opts.open()
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := database.NewMigrationManager(db).GetAppliedMigrations()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d migrations applied\n", cfg.DBPath, len(applied))
			return nil
		},
	}
}
