package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/KrisMoody/stryktipset-predictor-sub006/internal/config"
	"github.com/KrisMoody/stryktipset-predictor-sub006/internal/engine"
	"github.com/KrisMoody/stryktipset-predictor-sub006/internal/logger"
	"github.com/KrisMoody/stryktipset-predictor-sub006/internal/server"
	"github.com/KrisMoody/stryktipset-predictor-sub006/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Init("info", "text")
		logger.Fatal("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Init("info", "text")
		logger.Fatal("invalid config: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("starting predictor, model version %s", cfg.Model.Version)

	ctx := context.Background()

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		logger.Fatal("open database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		logger.Fatal("ping database: %v", err)
	}
	logger.Info("connected to Postgres")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("connect to Redis: %v", err)
	}
	logger.Info("connected to Redis")

	st := store.NewStore(db)
	if err := st.EnsureSchema(ctx); err != nil {
		logger.Fatal("ensure schema: %v", err)
	}

	cache := store.NewCache(redisClient, cfg.Redis.CacheTTL, cfg.Redis.Stream)

	orch := engine.New(cfg.Model, engine.Repositories{
		Ratings:      st,
		Calculations: st,
		Matches:      st,
		Odds:         st,
		Standings:    st,
		History:      st,
	}, cache)

	srv := server.New(cfg.Server, orch, st)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("listening on %s", cfg.Server.Addr)
		errChan <- srv.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server: %v", err)
		}
	case sig := <-sigChan:
		logger.Info("received %v, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown: %v", err)
		os.Exit(1)
	}

	logger.Info("predictor stopped")
}
