package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"planets-mapgen/internal/cli"
	"planets-mapgen/internal/galaxy"
	"planets-mapgen/internal/shared/config"
	"planets-mapgen/internal/shared/logger"

	"github.com/joho/godotenv"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	// stdout carries the generated output, so logs go to stderr
	log := logger.New(cfg.Logging, os.Stderr)

	defaults := galaxy.Defaults{
		Params: cfg.Generator.Params(),
		Seed:   cfg.Generator.Seed,
		Name:   cfg.Generator.DefaultGalaxyName,
	}

	deps := cli.Dependencies{
		Galaxies:  galaxy.NewService(nil, nil, 0, defaults, log),
		JWTSecret: cfg.Auth.JWTSecret,
		TokenTTL:  cfg.Auth.TokenExpiration,
		Version:   version,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	exitCode := cli.Execute(ctx, os.Args[1:], deps, os.Stdout, os.Stderr)
	stop()
	os.Exit(exitCode)
}
