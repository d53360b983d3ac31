package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/SebInfo/AeroportsProches/airports"
	"github.com/SebInfo/AeroportsProches/api"
	"github.com/SebInfo/AeroportsProches/config"
	"github.com/SebInfo/AeroportsProches/db"
	"github.com/SebInfo/AeroportsProches/pkg/cache"
	"github.com/SebInfo/AeroportsProches/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Init(logger.Config{Level: "info", Format: "text"})
		logger.Fatal(err, "Failed to load configuration")
	}

	logger.Init(logger.Config{
		Level:  cfg.LoggingConfig.Level,
		Format: cfg.LoggingConfig.Format,
	})

	// Resolve the dataset source and load the collection. A load failure is
	// fatal: the service must not answer queries over a broken dataset.
	source, closeSource, err := newSource(cfg)
	if err != nil {
		logger.Fatal(err, "Failed to initialize dataset source")
	}
	if closeSource != nil {
		defer closeSource()
	}

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 2*time.Minute)
	col, stats, err := airports.Load(loadCtx, source)
	cancelLoad()
	if err != nil {
		logger.Fatal(err, "Failed to load airport dataset", "source", source.Name())
	}
	logger.Info("Airport dataset loaded",
		"source", source.Name(),
		"rows", stats.Rows,
		"loaded", stats.Loaded,
		"skipped", stats.Skipped,
	)
	if stats.Skipped > 0 {
		logger.Warn("Some dataset rows were skipped", "skipped", stats.Skipped)
	}

	// Optional Redis-backed response cache
	var cacheManager *cache.CacheManager
	if cfg.RedisConfig.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisConfig.Host + ":" + cfg.RedisConfig.Port,
			Password: cfg.RedisConfig.Password,
			DB:       cfg.RedisConfig.DB,
		})
		defer client.Close()

		if err := client.Ping(context.Background()).Err(); err != nil {
			logger.Fatal(err, "Failed to connect to Redis")
		}
		cacheManager = cache.NewCacheManager(cache.NewRedisCache(client, "airports"))
		logger.Info("Response cache enabled", "ttl", cfg.RedisConfig.CacheTTL)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	api.RegisterRoutes(router, col, stats, cacheManager, cfg)

	// Start HTTP server
	srv := &http.Server{
		Addr:    cfg.HTTPBindAddr + ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(err, "Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal(err, "Server forced to shutdown")
	}

	logger.Info("Server exited properly")
}

// newSource builds the configured dataset source. The returned close
// function, when non-nil, releases the source's backing connection and must
// run after loading finishes.
func newSource(cfg *config.Config) (airports.Source, func(), error) {
	switch cfg.DatasetConfig.Source {
	case "embedded":
		return airports.EmbeddedSource{}, nil, nil
	case "file":
		return airports.FileSource{Path: cfg.DatasetConfig.Path}, nil, nil
	case "http":
		return airports.HTTPSource{URL: cfg.DatasetConfig.URL}, nil, nil
	case "postgres":
		pg, err := db.NewPostgresDB(cfg.PostgresConfig)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.InitSchema(); err != nil {
			pg.Close()
			return nil, nil, err
		}
		return airports.PostgresSource{DB: pg}, func() { pg.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown dataset source %q", cfg.DatasetConfig.Source)
	}
}
