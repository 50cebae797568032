package main

import (
	"event-ticketing/config"
	"event-ticketing/internal/database"

	"github.com/spf13/cobra"
)

func migrateCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Migrates database to the latest version",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := database.InitDatabase(&cfg.Database)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := database.Migrate(pool); err != nil {
				return err
			}
			log.Info("database migrated")
			return nil
		},
	}
}
