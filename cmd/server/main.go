package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/coerce/internal/config"
	"github.com/JonMunkholm/coerce/internal/core"
	_ "github.com/JonMunkholm/coerce/internal/core/decoders" // Register all formats
	"github.com/JonMunkholm/coerce/internal/logging"
	"github.com/JonMunkholm/coerce/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"decode_max_concurrent", cfg.Decode.MaxConcurrent,
		"decode_max_body_size", cfg.Decode.MaxBodySize,
		"date_format", cfg.Coerce.DateFormat,
	)
	slog.Debug("configuration", "config", cfg.String())

	for _, def := range core.All() {
		slog.Debug("format registered", "key", def.Info.Key, "content_types", def.Info.ContentTypes)
	}
	slog.Info("formats registered", "count", core.FormatCount())

	server := web.NewServer(cfg)

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
			return
		}
		slog.Info("all decodes completed")
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	<-done
}
