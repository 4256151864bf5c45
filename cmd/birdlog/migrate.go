package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/birdlog/internal/config"
	"github.com/at-ishikawa/birdlog/internal/database"
	"github.com/at-ishikawa/birdlog/schemas"
)

var errNotDatabaseStorage = errors.New("storage.type must be database")

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the MySQL tables used by database storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Storage.Type != config.StorageDatabase {
				return errNotDatabaseStorage
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("database.Open() > %w", err)
			}
			defer func() { _ = db.Close() }()

			applied, err := database.Migrate(cmd.Context(), db, schemas.Migrations)
			if err != nil {
				return fmt.Errorf("database.Migrate() > %w", err)
			}
			for _, file := range applied {
				_, _ = foundColor.Fprintf(cmd.OutOrStdout(), "Applied %s\n", file)
			}
			return nil
		},
	}
}
