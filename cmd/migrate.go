package cmd

import (
	"context"

	"github.com/frahmantamala/performance-dashboard/internal/storage/database"
	"github.com/frahmantamala/performance-dashboard/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run the embedded db migrations, or the files under --dir",
	}
	migrateRollback bool
	migrateDir      string
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.PersistentFlags().StringVarP(&migrateDir, "dir", "d", "", "sql migrations directory (defaults to the embedded migrations)")
}

func runMigration(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	log := logger.Init(cfg.Observability.Logging.Format, cfg.Observability.Logging.Level)

	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	command := "up"
	if migrateRollback {
		command = "down"
	}

	if err := database.Migrate(ctx, db.DB, cfg.Database.Driver, command, migrateDir); err != nil {
		return err
	}
	log.Info("migration finished", "command", command, "driver", cfg.Database.Driver)
	return nil
}
