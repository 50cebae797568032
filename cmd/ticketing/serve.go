package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"event-ticketing/config"
	"event-ticketing/internal/cache"
	"event-ticketing/internal/handler"
	"event-ticketing/internal/queue"
	"event-ticketing/internal/repository"
	"event-ticketing/internal/service"
	"event-ticketing/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newTicketQueue(cfg *config.Config, rdb *redis.Client) (queue.TicketQueue, error) {
	if cfg.Queue.Driver == "memory" {
		return queue.NewMemoryTicketQueue(cfg.Queue.BufferSize), nil
	}
	return queue.NewRedisStreamTicketQueue(rdb, "", nil)
}

func serveCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Starts the HTTP API and the availability worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			pool, err := connectPostgres(cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			rdb, closeRedis, err := connectRedis(cfg)
			if err != nil {
				return err
			}
			defer closeRedis()

			ticketQueue, err := newTicketQueue(cfg, rdb)
			if err != nil {
				return err
			}

			eventRepo := repository.NewEventRepository(pool)
			ticketRepo := repository.NewTicketRepository(pool)
			userRepo := repository.NewUserRepository(pool)
			availability := cache.NewRedisAvailabilityCache(rdb, cache.DefaultAvailabilityTTL)

			eventService := service.NewEventService(eventRepo, ticketRepo, availability)
			ticketService := service.NewTicketService(pool, ticketRepo, eventRepo, userRepo, ticketQueue, cfg.Ticketing)

			if err := worker.NewAvailabilityWorker(eventService, ticketQueue).Start(ctx); err != nil {
				return err
			}

			router := gin.New()
			router.Use(gin.Recovery(), handler.RequestLogger())
			router.GET("/ping", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "pong"})
			})
			router.GET("/metrics", gin.WrapH(promhttp.Handler()))
			handler.NewEventHandler(eventService).RegisterRoutes(router)
			handler.NewTicketHandler(ticketService).RegisterRoutes(router)

			server := &http.Server{
				Addr:    cfg.HTTP.Addr,
				Handler: router,
			}
			go func() {
				log.Info("starting webserver", zap.String("addr", cfg.HTTP.Addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("could not start webserver", zap.Error(err))
					stop()
				}
			}()

			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
			defer cancel()
			log.Info("stopping webserver")
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Error("could not stop webserver", zap.Error(err))
				return err
			}
			return nil
		},
	}
}
