package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"planets-mapgen/internal/galaxy"
	"planets-mapgen/internal/middleware"
	"planets-mapgen/internal/server"
	serverHandlers "planets-mapgen/internal/server/handlers"
	"planets-mapgen/internal/shared/config"
	"planets-mapgen/internal/shared/database"
	"planets-mapgen/internal/shared/logger"
	"planets-mapgen/internal/shared/redis"
	"planets-mapgen/internal/system"
)

func main() {
	if err := config.Init(); err != nil {
		slog.Error("Failed to initialize configuration", "error", err)
		os.Exit(1)
	}
	logger.Init()

	if err := run(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.GlobalConfig
	log := slog.Default()

	if err := cfg.ValidateAuth(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}()

	if err := db.RunMigrations(ctx, cfg.Database.MigrationsPath, log); err != nil {
		return err
	}

	cache, err := redis.Connect(ctx, cfg.Redis, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := cache.Close(); err != nil {
			log.Error("Failed to close Redis", "error", err)
		}
	}()

	systemRepo := system.NewRepository(db, log)
	galaxyRepo := galaxy.NewRepository(db, systemRepo, log)
	galaxyService := galaxy.NewService(galaxyRepo, cache, cfg.Redis.CacheTTL, galaxy.Defaults{
		Params: cfg.Generator.Params(),
		Seed:   cfg.Generator.Seed,
		Name:   cfg.Generator.DefaultGalaxyName,
	}, log)

	var cachePinger serverHandlers.CachePinger
	if cache != nil {
		cachePinger = cache
	}
	health := serverHandlers.NewHealthHandler(db, cachePinger, log)

	authenticator := middleware.NewAuthenticator(cfg.Auth.JWTSecret, log)
	mux := server.NewRoutes(health, galaxyService, authenticator, log).Setup()

	rateLimiter := middleware.NewRateLimiter(ctx, cfg.RateLimit, log)
	cors := middleware.NewCORS(cfg.Frontend, log)
	handler := middleware.RequestID(cors.Middleware(rateLimiter.Middleware(mux)))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Map generator server starting",
			"port", cfg.Server.Port,
			"environment", cfg.Server.Environment,
		)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("Server stopped")
	return nil
}
