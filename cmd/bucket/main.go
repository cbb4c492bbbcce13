package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tailored-agentic-units/bucket/bucket"
	"github.com/tailored-agentic-units/bucket/config"
	"github.com/tailored-agentic-units/bucket/ingress"
	"github.com/tailored-agentic-units/bucket/metrics"
	"github.com/tailored-agentic-units/bucket/network"
	"github.com/tailored-agentic-units/bucket/observability"
)

func main() {
	var (
		configFile  = flag.String("config", "", "Path to config file, JSON or YAML (optional)")
		listenAddr  = flag.String("listen", "", "Ingress listen address (overrides config)")
		metricsAddr = flag.String("metrics", "", "Metrics listen address; \"off\" disables (overrides config)")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging to stderr")
	)
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}

	if *listenAddr != "" {
		cfg.Ingress.Addr = *listenAddr
	}
	if *metricsAddr == "off" {
		cfg.Metrics.Addr = ""
	} else if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	cfg.Bucket.Logger = logger
	cfg.Network.Logger = logger

	registry := prometheus.NewRegistry()
	observability.RegisterObserver("metrics", metrics.New(registry))
	observability.RegisterObserver("slog", observability.NewSlogObserver(logger))
	cfg.Bucket.Observers = withMetrics(cfg.Bucket.Observers)
	cfg.Network.Observers = withMetrics(cfg.Network.Observers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	net, err := network.New(ctx, cfg.Network)
	if err != nil {
		log.Fatalf("Failed to create network: %v", err)
	}

	b, err := bucket.New(cfg.Bucket)
	if err != nil {
		log.Fatalf("Failed to create bucket: %v", err)
	}
	if err := net.Add(b); err != nil {
		log.Fatalf("Failed to add bucket: %v", err)
	}

	cfg.Ingress.Target = b.Name()
	server, err := ingress.NewServer(net, cfg.Ingress, logger)
	if err != nil {
		log.Fatalf("Failed to create ingress: %v", err)
	}

	if err := net.Start(); err != nil {
		log.Fatalf("Failed to start network: %v", err)
	}
	go server.Run(ctx)

	httpServer := &http.Server{
		Addr:              cfg.Ingress.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("serving ingress", slog.String("addr", cfg.Ingress.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("ingress server failed", slog.String("error", err.Error()))
			stop()
		}
	}()

	var metricsServer *metrics.Server
	if cfg.Metrics.Addr != "" {
		metricsServer = metrics.NewServer(cfg.Metrics.Addr, cfg.Metrics.Path, registry, logger)
		go metricsServer.Start()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Network.ShutdownTimeout.Std())
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("ingress shutdown failed", slog.String("error", err.Error()))
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics shutdown failed", slog.String("error", err.Error()))
		}
	}
	if err := net.Shutdown(0); err != nil {
		logger.Error("network shutdown failed", slog.String("error", err.Error()))
	}
}

// withMetrics adds the metrics observer to names, replacing a lone "noop".
func withMetrics(names []string) []string {
	if slices.Contains(names, "metrics") {
		return names
	}
	if len(names) == 1 && names[0] == "noop" {
		return []string{"metrics"}
	}
	return append(slices.Clone(names), "metrics")
}
