package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"

	"github.com/danielhkuo/party-registry/cliparse"
	"github.com/danielhkuo/party-registry/db"
	"github.com/danielhkuo/party-registry/logging"
	"github.com/danielhkuo/party-registry/registry"
	"github.com/danielhkuo/party-registry/router"
	"github.com/danielhkuo/party-registry/store"
	"github.com/danielhkuo/party-registry/uploads"
)

func main() {
	// A missing .env is fine; the environment may already be set
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	logCloser, err := logging.Setup(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if err != nil {
		slog.Error("logger setup failed", "error", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	if err := run(cfg); err != nil {
		slog.Error("server stopped", "error", err)
		logCloser.Close()
		os.Exit(1)
	}
}

func run(cfg cliparse.Config) error {
	ctx := context.Background()

	// Connect and verify
	conn, err := db.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(ctx, conn); err != nil {
		return err
	}
	slog.Info("Database schema ready", "driver", conn.DriverName())

	files, err := uploads.New(cfg.UploadDir, cfg.MaxUploadSize)
	if err != nil {
		return err
	}
	slog.Info("Upload storage ready",
		"dir", cfg.UploadDir,
		"max_size", humanize.Bytes(uint64(cfg.MaxUploadSize)),
	)

	reg := registry.New(store.New(conn, cfg.MaxOpenConns, cfg.QueueTimeout), files)

	// Create server
	server := http.Server{
		Handler:           router.NewRouter(reg, files, cfg),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "origins", cfg.AllowedOrigins)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("Server closed")
	return nil
}
