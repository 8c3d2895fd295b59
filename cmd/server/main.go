package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rezkam/taskdesk/internal/application/auth"
	"github.com/rezkam/taskdesk/internal/application/permission"
	"github.com/rezkam/taskdesk/internal/application/profile"
	"github.com/rezkam/taskdesk/internal/application/task"
	"github.com/rezkam/taskdesk/internal/application/team"
	"github.com/rezkam/taskdesk/internal/config"
	"github.com/rezkam/taskdesk/internal/domain"
	"github.com/rezkam/taskdesk/internal/infrastructure/grpchealth"
	httpserver "github.com/rezkam/taskdesk/internal/infrastructure/http"
	"github.com/rezkam/taskdesk/internal/infrastructure/http/handler"
	"github.com/rezkam/taskdesk/internal/infrastructure/observability"
	"github.com/rezkam/taskdesk/internal/infrastructure/persistence/postgres"
	"github.com/rezkam/taskdesk/internal/storage/fs"
	"github.com/rezkam/taskdesk/internal/storage/gcs"
)

const defaultShutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	shutdownTimeout := cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}

	// Root context cancels on SIGTERM/SIGINT.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	providers, err := observability.Setup(ctx, observability.Config{
		Enabled:     cfg.Observability.OTelEnabled,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("failed to init observability: %w", err)
	}
	defer func() {
		// Bounded so an unreachable collector cannot hang exit.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "failed to shutdown telemetry: %v\n", err)
		}
	}()
	slog.SetDefault(providers.Logger)

	slog.InfoContext(ctx, "starting taskdesk")

	store, err := postgres.NewStoreWithConfig(ctx, postgres.DBConfig{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	})
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	slog.InfoContext(ctx, "storage initialized", "url", maskPassword(cfg.Database.DSN))

	reports, reportCloser, err := openReportStore(ctx, cfg.Reports)
	if err != nil {
		_ = store.Close()
		return fmt.Errorf("failed to open report store: %w", err)
	}

	resolver := permission.NewResolver(cfg.Tasks.ManagerPositions, store)
	tasks := task.NewService(store, resolver, task.Config{
		PageSize:      cfg.Tasks.PageSize,
		MaxBoardTasks: cfg.Tasks.MaxBoardTasks,
	})
	profiles := profile.NewService(store, reports, profile.Config{
		ActiveTaskLimit: cfg.Tasks.ActiveTaskLimit,
		WeeklyBasis:     domain.StatsBasis(cfg.Tasks.WeeklyBasis),
	})
	teams := team.NewService(store, resolver)

	authenticator := auth.NewAuthenticator(ctx, store, auth.Config{
		OperationTimeout: cfg.Auth.OperationTimeout,
		UpdateQueueSize:  cfg.Auth.UpdateQueueSize,
	})

	serverCfg := httpserver.ServerConfig{
		Host:              cfg.HTTP.Host,
		Port:              cfg.HTTP.Port,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		MaxBodyBytes:      cfg.HTTP.MaxBodyBytes,
	}
	if cfg.HTTP.TLSEnabled {
		serverCfg.TLSCertFile = cfg.HTTP.TLSCertFile
		serverCfg.TLSKeyFile = cfg.HTTP.TLSKeyFile
	}
	api := httpserver.NewAPIServer(handler.New(tasks, profiles, teams).Routes(), authenticator, serverCfg)

	var healthLis net.Listener
	if cfg.Health.GRPCPort != "" {
		healthLis, err = net.Listen("tcp", ":"+cfg.Health.GRPCPort)
		if err != nil {
			newCleanup(ctx, authenticator, reportCloser, store)()
			return fmt.Errorf("failed to listen for health checks: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := api.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve HTTP: %w", err)
		}
		return nil
	})

	if healthLis != nil {
		health := grpchealth.New(store, grpchealth.Config{})
		g.Go(func() error {
			return health.Serve(gctx, healthLis)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		// The root context is already cancelled, so shutdown gets a fresh window.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := api.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown HTTP server", "error", err)
		}
		newCleanup(shutdownCtx, authenticator, reportCloser, store)()
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("shutdown complete")
	return nil
}

// openReportStore returns the configured export backend. The closer is nil
// for backends that hold no connections.
func openReportStore(ctx context.Context, cfg config.ReportsConfig) (profile.ReportStore, io.Closer, error) {
	switch cfg.Store {
	case config.ReportStoreFS:
		s, err := fs.NewStore(cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		slog.InfoContext(ctx, "profile exports enabled", "store", "fs", "dir", cfg.Dir)
		return s, nil, nil
	case config.ReportStoreGCS:
		s, err := gcs.NewStore(ctx, cfg.GCSBucket)
		if err != nil {
			return nil, nil, err
		}
		slog.InfoContext(ctx, "profile exports enabled", "store", "gcs", "bucket", cfg.GCSBucket)
		return s, s, nil
	default:
		// A nil interface, not a typed nil, so the profile service sees exports as disabled.
		return nil, nil, nil
	}
}

// maskPassword masks the password in a connection string for logging.
func maskPassword(connStr string) string {
	u, err := url.Parse(connStr)
	if err != nil {
		return "[REDACTED]"
	}
	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), "xxxxxx")
		}
	}
	return u.String()
}
