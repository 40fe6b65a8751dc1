// Command payrollctl runs maintenance tasks for the payroll API: database
// migrations, sample data, access tokens and offline tax checks.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/config"
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/pkg/database"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "payrollctl",
		Short:         "Maintenance tool for the payroll API",
		SilenceUsage:  true,
	}

	root.AddCommand(
		newMigrateCmd(),
		newSeedCmd(),
		newTokenCmd(),
		newTaxCmd(),
		newBreakdownCmd(),
	)
	return root
}

// openDatabase loads config and connects to PostgreSQL. Commands that need a
// database fail early under STORAGE_DRIVER=memory.
func openDatabase() (*config.Config, *database.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Storage.Driver != config.StorageDriverPostgres {
		return nil, nil, fmt.Errorf("command requires STORAGE_DRIVER=%s, got %q", config.StorageDriverPostgres, cfg.Storage.Driver)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	return cfg, db, nil
}
