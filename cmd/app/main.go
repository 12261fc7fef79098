package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	httpadapter "github.com/suchimauz/clinic-slots-engine/internal/adapters/in/http"
	"github.com/suchimauz/clinic-slots-engine/internal/adapters/in/rabbitmq"
	"github.com/suchimauz/clinic-slots-engine/internal/adapters/out/cache"
	"github.com/suchimauz/clinic-slots-engine/internal/adapters/out/logger"
	"github.com/suchimauz/clinic-slots-engine/internal/adapters/out/postgres"
	"github.com/suchimauz/clinic-slots-engine/internal/config"
	"github.com/suchimauz/clinic-slots-engine/internal/core/ports/out"
	"github.com/suchimauz/clinic-slots-engine/internal/core/services/schedule_service"
)

func main() {
	// .env подхватываем только если он есть, в проде конфиг приходит из окружения
	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	mainLogger, err := logger.NewConsoleLogger(cfg.App.Timezone)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log := mainLogger.WithModule("Main")

	log.Info("app.starting", out.LogFields{
		"version":         cfg.App.Version,
		"env":             cfg.App.Env,
		"timezone":        cfg.App.Timezone,
		"rabbitmqEnabled": cfg.RabbitMQ.Enabled,
		"cacheEnabled":    cfg.Cache.Enabled,
	})

	if cfg.IsNotLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Подключение к хранилищу статусов слотов
	pool, err := pgxpool.New(ctx, cfg.Postgres.URL)
	if err != nil {
		log.Error("app.postgres.connect_failed", out.LogFields{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer pool.Close()

	migrator, err := postgres.NewMigrator(pool, cfg.Postgres.MigrationsPath, mainLogger)
	if err != nil {
		log.Error("app.migrations.init_failed", out.LogFields{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	if err := migrator.Run(ctx); err != nil {
		log.Error("app.migrations.failed", out.LogFields{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	migrator.Close()

	slotStore := postgres.NewSlotStoreAdapter(pool, mainLogger)

	var cacheAdapter out.CachePort
	if cfg.Cache.Enabled {
		lruAdapter, err := cache.NewLRUCacheAdapter(cfg, mainLogger)
		if err != nil {
			log.Error("app.cache.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		cacheAdapter = lruAdapter
	}

	scheduleService := schedule_service.NewScheduleService(
		slotStore,
		cacheAdapter,
		mainLogger,
		cfg,
	)

	router := gin.Default()
	controller := httpadapter.NewScheduleController(scheduleService, cfg)
	controller.RegisterRoutes(router)

	if cfg.RabbitMQ.Enabled {
		listener, err := rabbitmq.NewAppointmentListener(
			scheduleService,
			cfg,
			mainLogger.WithModule("RabbitMQListener"),
		)
		if err != nil {
			log.Error("app.rabbitmq.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		if err := listener.Start(ctx); err != nil {
			log.Error("app.rabbitmq.start_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		defer func() {
			if err := listener.Stop(); err != nil {
				log.Error("app.rabbitmq.stop_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("app.http.starting", out.LogFields{
			"host": cfg.HTTP.Host,
			"port": cfg.HTTP.Port,
		})

		if err := router.Run(cfg.HTTP.Host + ":" + cfg.HTTP.Port); err != nil {
			log.Error("app.http.failed", out.LogFields{
				"error": err.Error(),
			})
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	log.Info("app.shutdown.initiated", out.LogFields{
		"signal": sig.String(),
	})
}
