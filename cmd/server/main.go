package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gyaneshwarpardhi/modgraph/internal/api"
	"github.com/gyaneshwarpardhi/modgraph/internal/bundle"
	"github.com/gyaneshwarpardhi/modgraph/internal/config"
	"github.com/gyaneshwarpardhi/modgraph/internal/engine"
	"github.com/gyaneshwarpardhi/modgraph/internal/graph"
)

func main() {
	cfgPath := flag.String("config", "", "Path to service YAML config (empty = defaults)")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	bundlePath := flag.String("bundle", "", "Path to graph bundle JSON (overrides config)")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(*logLevel)}))
	slog.SetDefault(logger)

	// ── Load config ──────────────────────────────────────────────────────────
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *bundlePath != "" {
		cfg.Bundle.Path = *bundlePath
	}

	// ── Load bundle and build the graph ──────────────────────────────────────
	loader, err := bundle.NewLoader(cfg.Bundle.Path)
	if err != nil {
		slog.Error("failed to load bundle", "err", err)
		os.Exit(1)
	}
	g, err := graph.Build(loader.Bundle())
	if err != nil {
		slog.Error("failed to build graph", "err", err)
		os.Exit(1)
	}
	slog.Info("graph built",
		"path", cfg.Bundle.Path,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"modules", g.ModuleCount(),
	)
	warnAmbiguous(g)

	// ── Engine ────────────────────────────────────────────────────────────────
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng := engine.New(ctx, g, cfg)

	// ── Hot-reload watcher ────────────────────────────────────────────────────
	loader.OnChange(func(b *bundle.Bundle) {
		newGraph, err := eng.LoadBundle(b)
		if err != nil {
			slog.Warn("hot-reload skipped: graph build failed", "err", err)
			return
		}
		slog.Info("graph hot-reloaded", "nodes", newGraph.NodeCount(), "edges", newGraph.EdgeCount())
		warnAmbiguous(newGraph)
	})
	if cfg.Bundle.Watch {
		stopWatch, err := loader.Watch()
		if err != nil {
			slog.Warn("bundle watcher unavailable (hot-reload disabled)", "err", err)
		} else {
			defer stopWatch()
		}
	}

	// ── Idle session expiry ───────────────────────────────────────────────────
	if ttl := cfg.Engine.SessionTTL(); ttl > 0 {
		go func() {
			ticker := time.NewTicker(ttl / 4)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if n := eng.ExpireIdle(); n > 0 {
						slog.Info("expired idle sessions", "count", n)
					}
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	// ── HTTP server ───────────────────────────────────────────────────────────
	handler := api.New(eng, loader, cfg)
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout(),
		WriteTimeout: cfg.Server.WriteTimeout(),
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down…")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	cancel() // stop batch workers and session expiry
	eng.Shutdown()
	slog.Info("goodbye")
}

// warnAmbiguous logs labels shared by several nodes; lookups by such a
// label resolve to the first node.
func warnAmbiguous(g *graph.Graph) {
	if labels := g.AmbiguousLabels(); len(labels) > 0 {
		slog.Warn("duplicate node labels, first node wins", "count", len(labels), "labels", labels)
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
