// main is the entry point of the seplayers application.
// It initializes the configuration and logger, then serves the player list of the configured game server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/seplayers/internal/config"
	"github.com/woozymasta/seplayers/internal/game"
	"github.com/woozymasta/seplayers/internal/logger"
	"github.com/woozymasta/seplayers/internal/server"
	"github.com/woozymasta/seplayers/internal/vars"
)

func main() {
	cfg := config.Parse()

	logger.Setup(cfg.Logger)
	log.Info().Str("version", vars.Version).Msg("Starting seplayers service...")

	protocol, err := game.ParseProtocol(cfg.Target.Protocol)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid target protocol")
	}

	target := game.Target{
		Protocol: protocol,
		Host:     cfg.Target.Host,
		Port:     cfg.Target.Port,
	}
	log.Info().
		Str("protocol", target.Protocol.String()).
		Str("target", target.Addr()).
		Msg("Query target configured")

	srvHandler := server.New(game.NewA2SQuerier(cfg.A2S), target, cfg)

	// No write timeout: a slow upstream query holds the response open
	httpServer := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           srvHandler.Run(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("address", cfg.Server.Address).Msg("Server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
