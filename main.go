package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"cinema-seating/cmd"
	"cinema-seating/internal/data/repository"
	"cinema-seating/internal/queue"
	"cinema-seating/internal/wire"
	"cinema-seating/pkg/appconfig"
	"cinema-seating/pkg/database"
	"cinema-seating/pkg/lock"
	"cinema-seating/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("storage", config.Storage.Driver),
		zap.String("lock", config.Lock.Backend),
	)

	seatingCfg, err := appconfig.Shared(appconfig.Options{Path: config.App.SeatingConfigPath})
	if err != nil {
		logger.Fatal("Failed to load seating configuration", zap.Error(err))
	}
	go reloadOnHangup(seatingCfg, logger)

	deps := wire.Dependencies{Seating: seatingCfg}

	// Storage
	switch config.Storage.Driver {
	case utils.StorageDriverMemory:
		deps.Repo = repository.NewMemoryRepository(logger)
		logger.Warn("Using in-memory booking storage, bookings are lost on restart")
	default:
		db, err := database.InitDB(config.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := database.EnsureSchema(context.Background(), db); err != nil {
			logger.Fatal("Failed to prepare database schema", zap.Error(err))
		}
		logger.Info("Database connected successfully")

		deps.Repo = repository.NewRepository(db, config.Storage.Timeout, logger)
		deps.Ping = db.Ping
	}

	// Lock
	switch config.Lock.Backend {
	case utils.LockBackendRedis:
		client, err := database.InitRedis(config.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer client.Close()

		deps.Locker = lock.NewRedisLocker(client, config.Lock.TTL, config.Lock.Wait, logger)
		logger.Info("Redis lock backend ready", zap.String("addr", config.Redis.Addr))
	default:
		deps.Locker = lock.NewLocalLocker()
	}

	// Booking events
	if config.Queue.URL != "" {
		publisher, err := queue.NewAMQPPublisher(config.Queue.URL, logger)
		if err != nil {
			logger.Fatal("Failed to connect to message broker", zap.Error(err))
		}
		defer publisher.Close()
		deps.Publisher = publisher
	} else {
		deps.Publisher = queue.NoopPublisher{}
	}

	// Wire all dependencies
	app, err := wire.Wiring(deps, logger)
	if err != nil {
		logger.Fatal("Failed to wire application", zap.Error(err))
	}

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped", zap.Error(err))
	}
}

// reloadOnHangup re-reads the seating configuration on SIGHUP. Symbols and
// plan limits are read per request; seat status codes are fixed at startup.
func reloadOnHangup(store *appconfig.Store, logger *zap.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)

	for range hup {
		if err := store.Reload(); err != nil {
			logger.Error("Failed to reload seating configuration", zap.Error(err))
			continue
		}
		logger.Info("Seating configuration reloaded")
	}
}
