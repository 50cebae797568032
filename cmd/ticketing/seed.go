package main

import (
	"encoding/json"

	"event-ticketing/config"
	"event-ticketing/internal/identity"
	"event-ticketing/internal/repository"
	"event-ticketing/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func seedCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Loads demo categories, users, events and a ticket (idempotent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			pool, err := connectPostgres(cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			eventRepo := repository.NewEventRepository(pool)
			ticketRepo := repository.NewTicketRepository(pool)
			userRepo := repository.NewUserRepository(pool)

			// seed 不接 Redis：快取會在下次查詢時回填
			eventService := service.NewEventService(eventRepo, ticketRepo, nil)
			ticketService := service.NewTicketService(pool, ticketRepo, eventRepo, userRepo, nil, cfg.Ticketing)
			seeder := service.NewSeederService(
				repository.NewCategoryRepository(pool),
				userRepo,
				eventService,
				ticketService,
				identity.NewBcryptStore(cfg.Identity.BcryptCost),
				cfg.Seeder,
			)

			summary, err := seeder.Run(ctx)
			if err != nil {
				log.Error("seed failed", zap.Error(err))
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		},
	}
}
