package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	appMigrations "github.com/oregondata/orschooldata/internal/app/migrations"
	"github.com/oregondata/orschooldata/internal/bootstrap"
	"github.com/oregondata/orschooldata/internal/db"
)

var migrationsDir string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
		if err != nil {
			return err
		}

		database, err := db.NewPostgresDB(cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()
		if err := database.Pool.Ping(ctx); err != nil {
			return fmt.Errorf("failed to ping database: %w", err)
		}

		migrator := appMigrations.NewMigrator(database.Pool)
		if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
			return fmt.Errorf("migrations failed: %w", err)
		}

		lgr.Info().Str("dir", migrationsDir).Msg("Migrations applied")
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrationsDir, "dir", "migrations", "Directory holding migration SQL files")
	rootCmd.AddCommand(migrateCmd)
}
