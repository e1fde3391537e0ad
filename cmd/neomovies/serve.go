package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/shapedtime/neomovies/internal/api"
	"github.com/shapedtime/neomovies/internal/auth"
	"github.com/shapedtime/neomovies/internal/metrics"
)

func (e *env) serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the companion REST server",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Usage: "HTTP port, overrides the config file"},
			&cli.IntFlag{Name: "metrics-port", Usage: "metrics port, 0 keeps the config value"},
		},
		Action: e.serve,
	}
}

func (e *env) serve(c *cli.Context) error {
	port := e.cfg.Server.HTTPPort
	if p := c.Int("port"); p > 0 {
		port = p
	}
	metricsPort := e.cfg.Metrics.Port
	if p := c.Int("metrics-port"); p > 0 {
		metricsPort = p
	}

	unsubscribe := e.auth.Bus().Subscribe(func(ev auth.Event) {
		slog.Info("Auth state changed", "kind", ev.Kind, "state", ev.State)
	})
	defer unsubscribe()

	apiServer := api.NewServer(e.auth, e.client, e.routes, e.cfg.Locale)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: apiServer.Handler(),
	}

	go func() {
		slog.Info("Starting REST API server", "port", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("REST API server error", "error", err)
		}
	}()

	metricsCtx, stopMetrics := context.WithCancel(context.Background())
	metricsDone := make(chan struct{})
	if metricsPort > 0 {
		go func() {
			defer close(metricsDone)
			if err := metrics.NewServer(metricsPort, e.reg).Run(metricsCtx, nil); err != nil {
				slog.Error("Metrics server error", "error", err)
			}
		}()
	} else {
		close(metricsDone)
	}

	slog.Info("neomovies is ready",
		"api_url", fmt.Sprintf("http://localhost:%d/api", port),
		"remote", e.client.BaseURL(),
		"session", e.auth.State(),
	)

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down", "signal", sig)
	case <-c.Context.Done():
		slog.Info("Context cancelled, shutting down")
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("REST API server shutdown error", "error", err)
	}
	stopMetrics()
	<-metricsDone

	slog.Info("neomovies stopped")
	return nil
}
