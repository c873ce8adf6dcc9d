// Package main is the entry point for the ticker analysis server: it wires
// the container (store, providers, invoker, ingestion scheduler, compiled
// analysis graph), starts the HTTP/websocket surface, and shuts everything
// down in dependency order on SIGINT/SIGTERM.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/bourseiq/internal/config"
	"github.com/aristath/bourseiq/internal/di"
	"github.com/aristath/bourseiq/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	container, err := di.Wire(ctx, cfg)
	if err != nil {
		os.Stderr.WriteString("wiring: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := container.Log

	container.Scheduler.Start()

	srv := server.New(server.Config{
		Port:        cfg.Port,
		DevMode:     cfg.DevMode,
		Log:         log,
		Graph:       container.Graph,
		Checkpoints: container.Checkpoints,
		Events:      container.Events,
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Error().Err(err).Msg("server stopped unexpectedly")
		}
	}()
	log.Info().Int("port", cfg.Port).Bool("backup_enabled", cfg.BackupEnabled()).Msg("server ready")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal received")

	cancel()
	container.Scheduler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	if err := container.Close(); err != nil {
		log.Error().Err(err).Msg("error closing store")
	}
	log.Info().Msg("shutdown complete")
}
