package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/studiokit/studio/internal/commitlog"
	"github.com/studiokit/studio/internal/config"
	"github.com/studiokit/studio/internal/document"
	"github.com/studiokit/studio/internal/store"
	"github.com/studiokit/studio/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	for _, path := range []string{cfg.Storage.ProjectsPath, cfg.Storage.TemplatesPath, cfg.Storage.CommitsPath} {
		if err := ensureDir(path); err != nil {
			logger.Error("failed to prepare storage path", "path", path, "error", err)
			os.Exit(1)
		}
	}

	// Each logical store loads its durable snapshot once at startup and
	// write-through persists from then on.
	projStore, err := store.New[json.RawMessage](store.NewFilePersister[json.RawMessage](cfg.Storage.ProjectsPath), logger)
	if err != nil {
		logger.Error("failed to load projects store", "error", err)
		os.Exit(1)
	}
	tmplStore, err := store.New[json.RawMessage](store.NewFilePersister[json.RawMessage](cfg.Storage.TemplatesPath), logger)
	if err != nil {
		logger.Error("failed to load templates store", "error", err)
		os.Exit(1)
	}
	commitStore, err := store.New[[]commitlog.Commit](store.NewFilePersister[[]commitlog.Commit](cfg.Storage.CommitsPath), logger)
	if err != nil {
		logger.Error("failed to load commit store", "error", err)
		os.Exit(1)
	}

	router := transport.NewRouter(
		document.NewService(projStore, logger),
		document.NewService(tmplStore, logger),
		commitlog.NewLog(commitStore, logger),
		logger,
	)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
