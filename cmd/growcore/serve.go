package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"growcore/internal/adapters/guides"
	"growcore/internal/adapters/httpapi"
	"growcore/internal/blob"
	"growcore/internal/core"
	"growcore/internal/education"
	"growcore/internal/mailer"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the guide export worker and the education watcher",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg, logger := a.cfg, a.logger

	store, closeStore, err := core.OpenKVStore(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("close storage", zap.Error(err))
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom, err := core.NewPrometheusRecorder(reg)
	if err != nil {
		return err
	}
	recorders := []core.MetricsRecorder{prom}
	var vars http.Handler
	if cfg.Telemetry.ExpvarName != "" {
		recorders = append(recorders, core.NewExpvarMetricsRecorder(cfg.Telemetry.ExpvarName))
		vars = expvar.Handler()
	}
	metrics := core.FanoutMetrics(recorders...)

	var tracer core.Tracer
	if cfg.Telemetry.TracePath != "" {
		f, err := os.OpenFile(cfg.Telemetry.TracePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open trace file: %w", err)
		}
		defer f.Close()
		tracer = core.NewJSONTracer(f)
	}

	audit := core.NewMemoryAuditLog(0)
	svc := core.NewService(store,
		core.WithLogger(logger.Named("service")),
		core.WithMetricsRecorder(metrics),
		core.WithTracer(tracer),
		core.WithAuditRecorder(audit),
	)

	artifacts, err := blob.Open(ctx, cfg.Blob)
	if err != nil {
		return fmt.Errorf("open artifact store: %w", err)
	}
	worker := guides.NewWorker(artifacts,
		guides.WithLogger(logger.Named("exports")),
		guides.WithAuditRecorder(audit),
		guides.WithMetricsRecorder(metrics),
		guides.WithQueueSize(cfg.Exports.QueueSize),
	)

	relayOpts := []mailer.RelayOption{mailer.WithLogger(logger.Named("relay"))}
	if host := cfg.Mail.APIHost; host != "" {
		relayOpts = append(relayOpts, mailer.WithMailerFactory(func(key string) mailer.Mailer {
			return mailer.NewSendGridAt(key, host)
		}))
	}
	relay := mailer.NewRelay(mailer.Config{
		APIKey:    cfg.Mail.APIKey,
		FromEmail: cfg.Mail.FromEmail,
		ToEmail:   cfg.Mail.ToEmail,
	}, relayOpts...)

	lib, err := education.Open(cfg.Education.Path, logger.Named("education"))
	if err != nil {
		logger.Warn("education search disabled", zap.String("path", cfg.Education.Path), zap.Error(err))
		lib = nil
	}

	loc, err := cfg.Server.Location()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: httpapi.NewRouter(httpapi.Dependencies{
			Service:        svc,
			Relay:          relay,
			Exports:        worker,
			Education:      lib,
			Metrics:        promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			Vars:           vars,
			Logger:         logger.Named("http"),
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Location:       loc,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	worker.Start()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http listening", zap.String("addr", cfg.Server.Addr),
			zap.String("storage", string(cfg.Storage.Driver)), zap.String("artifacts", string(artifacts.Driver())))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return errors.Join(srv.Shutdown(shutdownCtx), worker.Stop(shutdownCtx))
	})
	if lib != nil && cfg.Education.Watch {
		g.Go(func() error { return lib.Watch(gctx) })
	}
	err = g.Wait()
	logger.Info("shutdown complete", zap.Int("audit_entries", len(audit.Entries())))
	return err
}

// openOutput returns stdout for "-" and a created file otherwise.
func openOutput(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{stdout}, nil
	}
	return os.Create(path)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
