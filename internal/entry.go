// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/ansuz/internal/analyzer"
	"github.com/starford/ansuz/internal/api"
	"github.com/starford/ansuz/internal/graphcfg"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/mcpserver"
	"github.com/starford/ansuz/internal/report"
	"github.com/starford/ansuz/internal/sse"
	"github.com/starford/ansuz/internal/storage"
	"github.com/starford/ansuz/internal/watch"
)

// graphConfigPath is where Logseq keeps a graph's settings, relative to the
// graph root.
const graphConfigPath = "logseq/config.edn"

// Run analyzes the graph and, depending on the options, exits, serves the
// results over HTTP, re-analyzes on file changes, or speaks MCP on stdio.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("graph_path", cfg.Graph.Path),
		slog.String("output_dir", cfg.Output.Dir),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize storage over the graph directory.
	store, err := storage.NewFS(cfg.Graph.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	// Read the graph's own settings.
	gcfg := graphcfg.Defaults()
	if data, readErr := store.Read(graphConfigPath); readErr == nil {
		gcfg = graphcfg.Parse(string(data), logger)
	} else {
		logger.Warn("graph config.edn not readable, using defaults",
			slog.String("path", graphConfigPath),
			slog.String("error", readErr.Error()))
	}
	if cfg.Journal.PageTitleFormat != "" {
		gcfg.JournalPageTitleFormat = cfg.Journal.PageTitleFormat
	}
	if cfg.Journal.FileNameFormat != "" {
		gcfg.JournalFileNameFormat = cfg.Journal.FileNameFormat
	}

	// Initialize SQLite index.
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	a := analyzer.New(gcfg, logger)

	// analyze runs one full pass and writes the reports. A mutex keeps the
	// watcher's re-analysis from overlapping the initial run.
	var analyzeMu sync.Mutex
	analyze := func() (*analyzer.Result, error) {
		analyzeMu.Lock()
		defer analyzeMu.Unlock()
		res, runErr := a.Run(store, db)
		if runErr != nil {
			return nil, runErr
		}
		if wErr := report.Write(cfg.Output.Dir, res, a.PageTitleFormat()); wErr != nil {
			return nil, wErr
		}
		return res, nil
	}

	res, err := analyze()
	if err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	logger.Info("Analysis complete",
		slog.Int("files", res.Files),
		slog.Int("changed", res.Changed),
		slog.Int("timeline_days", len(res.Journal.Timeline)),
		slog.Int("dangling_links", len(res.Dangling)))

	// MCP mode owns stdio and runs instead of the HTTP/watch modes.
	if app.mcp {
		logger.Info("Serving MCP on stdio")
		return mcpserver.New(store, db).ServeStdio()
	}

	if !app.serve && !app.watch {
		return nil
	}

	g, gCtx := errgroup.WithContext(ctx)

	var broker *sse.Broker
	if app.serve {
		broker = sse.NewBroker(2 * time.Second)
		defer broker.Close()

		svc := api.NewService(store, db)
		apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.RealIP)
		r.Use(middleware.Logger)
		r.Use(middleware.Recoverer)

		// Health check endpoints (unauthenticated).
		r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})

		r.Mount("/api", apiRouter)

		httpServer := &http.Server{
			Addr:    cfg.App.HTTP.Address(),
			Handler: r,
		}

		g.Go(func() error {
			logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("HTTP server error: %w", err)
			}
			return nil
		})

		g.Go(func() error {
			<-gCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	if app.watch {
		g.Go(func() error {
			return watch.Watch(gCtx, cfg.Graph.Path, logger, func() {
				res, runErr := analyze()
				if runErr != nil {
					logger.Error("re-analysis failed", slog.String("error", runErr.Error()))
					return
				}
				logger.Info("Re-analysis complete",
					slog.Int("changed", res.Changed),
					slog.Int("removed", res.Removed))
				if broker != nil {
					broker.PublishRun(res.Changed, res.Removed, len(res.Dangling))
				}
			})
		})
	}

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			return context.Canceled
		case <-gCtx.Done():
			return nil
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Stopped successfully")
	return nil
}
