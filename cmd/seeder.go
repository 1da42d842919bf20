package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/performance-dashboard/internal/identity"
	identityPostgres "github.com/frahmantamala/performance-dashboard/internal/identity/postgres"
	"github.com/frahmantamala/performance-dashboard/internal/storage/database"
	"github.com/frahmantamala/performance-dashboard/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the demo identities",
	Long:  `Seed the database with the demo identities and their badges. Identities whose email already exists are skipped.`,
	RunE:  runSeed,
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.Init(cfg.Observability.Logging.Format, cfg.Observability.Logging.Level)

	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to init db: %w", err)
	}
	defer db.Close()

	gdb, err := database.Gorm(db.DB, cfg.Database.Driver)
	if err != nil {
		return err
	}

	if clearData {
		if err := clearSeedData(ctx, gdb); err != nil {
			return err
		}
		log.Info("cleared identities and persisted sessions")
	}

	created, err := identity.Seed(ctx, identityPostgres.NewIdentityRepository(gdb), identity.DemoIdentities())
	if err != nil {
		return fmt.Errorf("failed to seed identities: %w", err)
	}

	log.Info("seeding completed", "created", created)
	return nil
}

func clearSeedData(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"identity_badges", "identities", "kv_entries"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		return nil
	})
}
