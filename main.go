package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"movie-watchlist/cmd"
	"movie-watchlist/internal/data/repository"
	"movie-watchlist/internal/wire"
	"movie-watchlist/pkg/database"
	"movie-watchlist/pkg/utils"

	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.Name, config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("db_driver", config.Database.Driver),
		zap.Bool("debug", config.App.Debug),
	)

	repos, ping, closeStore, err := openStore(config.Database, logger)
	if err != nil {
		logger.Fatal("Failed to open data store", zap.Error(err))
	}
	defer closeStore()

	app, err := wire.Wiring(repos, ping, config, logger)
	if err != nil {
		logger.Fatal("Failed to wire application", zap.Error(err))
	}

	if err := cmd.APIServer(app.Router, config.App.Port, config.App.ShutdownTimeout, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
	}
}

// openStore connects the configured driver and returns its repositories,
// a health probe and a cleanup func.
func openStore(config utils.DatabaseConfig, logger *zap.Logger) (*repository.Repository, wire.PingFunc, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	switch config.Driver {
	case utils.DriverPostgres:
		db, err := database.InitDB(ctx, config, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("Database connected successfully", zap.String("driver", config.Driver))
		return repository.NewRepository(db, logger), db.Ping, db.Close, nil

	case utils.DriverMongo:
		client, db, err := database.InitMongo(ctx, config, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		repos, err := repository.NewMongoRepository(ctx, db, logger)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, nil, err
		}
		logger.Info("Database connected successfully", zap.String("driver", config.Driver))

		ping := func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Warn("Failed to disconnect mongo", zap.Error(err))
			}
		}
		return repos, ping, closeFn, nil

	case utils.DriverMemory:
		logger.Warn("Using in-memory store; data is lost on restart")
		return repository.NewMemoryRepository(), nil, func() {}, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown DB_DRIVER %q", config.Driver)
	}
}
