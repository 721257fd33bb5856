package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sangkips/duka-pos/internal/cli"
	"github.com/sangkips/duka-pos/internal/config"
	"github.com/sangkips/duka-pos/internal/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if err := logger.Setup(logger.LogConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}

	log := logger.WithComponent("main")
	for _, warning := range cfg.Warnings {
		log.Warn().Msg(warning)
	}

	// Cancel the running command on SIGINT/SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Info().Msg("shutting down")
		cancel()
	}()

	err := cli.Execute(ctx, cfg)
	cancel()
	if err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
