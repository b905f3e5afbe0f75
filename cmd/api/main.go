// @title                       Restaurant Reservations API
// @version                     1.0
// @description                 Restaurants, staff, tables and reservations behind a policy pipeline.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/restobook/restaurant-api/docs"
	"github.com/restobook/restaurant-api/internal/api"
	"github.com/restobook/restaurant-api/internal/core/ports"
	"github.com/restobook/restaurant-api/internal/infrastructure/db/memory"
	mongorepo "github.com/restobook/restaurant-api/internal/infrastructure/db/mongo"
	redislock "github.com/restobook/restaurant-api/internal/infrastructure/db/redis"
	"github.com/restobook/restaurant-api/internal/infrastructure/messaging/kafka"
	"github.com/restobook/restaurant-api/internal/infrastructure/queue"
	"github.com/restobook/restaurant-api/internal/pkg/config"
	"github.com/restobook/restaurant-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.New(logger.Options{})
		boot.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.Production(),
		Service: "restaurant-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	opts := api.Options{
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
		Log:       log,
	}

	// --- Events ---
	var publisher ports.EventPublisher = kafka.NewLogPublisher(log)
	if len(cfg.Kafka.Brokers) > 0 {
		kp := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.TopicPrefix)
		defer kp.Close()
		publisher = kp
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Msg("publishing events to kafka")
	}

	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Events.Workers, publisher, log)
	dispatcher.Start(dispatcherCtx)
	defer func() {
		stopDispatcher()
		dispatcher.Wait()
	}()
	opts.Events = dispatcher

	// --- Stores ---
	var stores api.Stores
	switch cfg.StoreDriver {
	case config.StoreMemory:
		stores = api.MemoryStores()
		log.Warn().Msg("using in-memory store; data is lost on restart")

	case config.StoreMongo:
		client, db, err := mongorepo.Connect(ctx, mongorepo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(dctx)
		}()
		if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
			return err
		}
		opts.Mongo = db

		var locker ports.SlotLocker
		if cfg.Redis.Addr != "" {
			rdb, err := redislock.Connect(ctx, redislock.Config{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			if err != nil {
				return err
			}
			defer rdb.Close()
			opts.Redis = rdb
			locker = redislock.NewSlotLocker(rdb, cfg.Redis.SlotLockTTL)
		} else {
			log.Warn().Msg("REDIS_ADDR not set; slot locks only hold within this process")
			locker = memory.NewSlotLocker()
		}
		stores = api.MongoStores(db, locker)
	}

	// --- HTTP ---
	e := api.NewRouter(stores, opts)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
