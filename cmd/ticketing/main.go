// Package main 票務服務的 CLI 入口：serve、migrate、seed、figma
package main

import (
	"os"

	"event-ticketing/config"
	"event-ticketing/internal/database"
	"event-ticketing/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var log = logger.WithComponent("cli")

func connectPostgres(cfg *config.Config) (*pgxpool.Pool, error) {
	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func connectRedis(cfg *config.Config) (*redis.Client, func(), error) {
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	return rdb, func() {
		if err := rdb.Close(); err != nil {
			log.Warn("could not close redis client", zap.Error(err))
		}
	}, nil
}

func main() {
	cfg := config.LoadConfig()
	logger.SetLevel(cfg.LogLevel)

	rootCmd := &cobra.Command{
		Use:          "ticketing",
		Short:        "Event ticketing service",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(
		serveCommand(cfg),
		migrateCommand(cfg),
		seedCommand(cfg),
		figmaCommand(cfg),
	)

	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
