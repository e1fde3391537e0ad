package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

// Server exposes a registry on its own port, apart from the companion API.
type Server struct {
	addr string
	srv  *http.Server
	log  *slog.Logger
}

// NewServer serves reg at /metrics on port. Port 0 picks a free one.
func NewServer(port int, reg *prometheus.Registry) *Server {
	addr := fmt.Sprintf(":%d", port)
	return &Server{
		addr: addr,
		srv: &http.Server{
			Handler:           Handler(reg),
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: slog.With("component", "metrics-server", "addr", addr),
	}
}

// Handler returns the /metrics mux for reg. Scrape errors are logged and the
// remaining metrics are still served.
func Handler(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	}))
	return mux
}

// Run serves until ctx is done, then shuts down gracefully. ready, when not
// nil, receives the bound address once the listener is up.
func (s *Server) Run(ctx context.Context, ready chan<- string) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("metrics listen: %w", err)
	}
	s.log.Info("Serving metrics", "bound", ln.Addr().String())
	if ready != nil {
		ready <- ln.Addr().String()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		s.log.Error("Metrics server error", "error", err)
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("metrics shutdown: %w", err)
	}
	return nil
}
