package setup

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// metricsServer serves the Prometheus exposition endpoint.
type metricsServer struct {
	srv      *http.Server
	listener net.Listener
}

// startMetricsServer starts the /metrics HTTP endpoint on the given address.
func startMetricsServer(addr string, logger *zap.Logger) (*metricsServer, error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics listener: %w", err)
	}

	go func() {
		logger.Info("Starting metrics server", zap.String("address", addr))

		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", zap.Error(err))
		}
	}()

	return &metricsServer{
		srv:      srv,
		listener: listener,
	}, nil
}
