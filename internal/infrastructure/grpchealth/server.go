// Package grpchealth serves the standard gRPC health protocol for the service.
//
// Status follows the database: a failed ping flips both the overall ("") and the
// named service to NOT_SERVING until the next successful probe.
package grpchealth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name reported alongside the overall status.
const ServiceName = "taskdesk"

// Default configuration values.
const (
	DefaultProbeInterval = 10 * time.Second
	DefaultProbeTimeout  = 2 * time.Second
)

// Pinger checks a dependency the service cannot work without.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config holds health server configuration.
type Config struct {
	ProbeInterval time.Duration
	ProbeTimeout  time.Duration
}

// Server is a gRPC server exposing only the health service.
type Server struct {
	grpc   *grpc.Server
	health *health.Server
	pinger Pinger
	config Config
}

// New creates a health server. Zero config values get defaults.
func New(pinger Pinger, config Config) *Server {
	if config.ProbeInterval <= 0 {
		config.ProbeInterval = DefaultProbeInterval
	}
	if config.ProbeTimeout <= 0 {
		config.ProbeTimeout = DefaultProbeTimeout
	}

	gs := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)

	return &Server{grpc: gs, health: hs, pinger: pinger, config: config}
}

// Serve probes the dependency, then serves on lis until ctx is cancelled.
// Returns nil after a graceful stop.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	s.Probe(ctx)

	errc := make(chan error, 1)
	go func() {
		errc <- s.grpc.Serve(lis)
	}()
	slog.InfoContext(ctx, "gRPC health server listening", "address", lis.Addr().String())

	ticker := time.NewTicker(s.config.ProbeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Probe(ctx)
		case err := <-errc:
			if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("gRPC health server failed: %w", err)
			}
			return nil
		case <-ctx.Done():
			s.health.Shutdown()
			s.grpc.GracefulStop()
			return nil
		}
	}
}

// Probe pings the dependency once and publishes the result.
func (s *Server) Probe(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, s.config.ProbeTimeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.pinger.Ping(pingCtx); err != nil {
		slog.WarnContext(ctx, "health probe failed", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
