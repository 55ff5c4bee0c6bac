package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"apexfit-relay/internal/config"
	"apexfit-relay/internal/logging"
	"apexfit-relay/internal/server"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const shutdownGrace = 5 * time.Second

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if !cfg.HasAPIKey() {
		// The process still starts; the plan routes answer 500 until a key is set.
		log.Warn().Msg("GEMINI_API_KEY is not set")
	}

	apiServer := server.NewServer(cfg)

	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().
			Int("port", cfg.Port).
			Str("model", cfg.Model).
			Bool("structured_output", cfg.StructuredOutput).
			Msg("Listening")
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()

		log.Info().Msg("shutting down gracefully, press Ctrl+C again to force")
		stop() // Allow Ctrl+C to force shutdown

		// The server has shutdownGrace to finish in-flight requests.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return apiServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("http server error")
		os.Exit(1)
	}

	log.Info().Msg("Graceful shutdown complete.")
}
