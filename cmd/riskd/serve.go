package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bibbank/risk-service/internal/domain/port"
	"github.com/bibbank/risk-service/internal/infrastructure/messaging"
	"github.com/bibbank/risk-service/internal/infrastructure/subscriber"
	grpcpresentation "github.com/bibbank/risk-service/internal/presentation/grpc"
	"github.com/bibbank/risk-service/internal/presentation/rest"
	pkgkafka "github.com/bibbank/risk-service/pkg/kafka"
	"github.com/bibbank/risk-service/pkg/observability"
	"github.com/bibbank/risk-service/pkg/tlsutil"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the gRPC API and the HTTP health/metrics server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.validated(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, a)
		},
	}
}

func runServe(ctx context.Context, a *app) error {
	cfg, logger := a.cfg, a.logger
	logger.Info("starting risk service", "version", version, "storage", cfg.Storage.Driver)

	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		Enabled:     cfg.Tracing.Enabled,
		Insecure:    true,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Warn("failed to flush traces", "error", err)
		}
	}()

	metrics, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: cfg.ServiceName})
	if err != nil {
		return err
	}
	defer func() { _ = metrics.Provider.Shutdown(context.Background()) }()

	store, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.close()

	dispatcher := newDispatcher(store.history, logger)
	recorder, err := subscriber.NewMetricsRecorder(metrics.Meter(cfg.ServiceName))
	if err != nil {
		return err
	}
	dispatcher.Subscribe(recorder)

	checks := map[string]port.HealthChecker{"database": store.health}
	if cfg.Kafka.Enabled {
		producer, err := pkgkafka.NewProducer(cfg.KafkaClient())
		if err != nil {
			return fmt.Errorf("failed to create kafka producer: %w", err)
		}
		defer func() {
			if err := producer.Close(); err != nil {
				logger.Warn("failed to close kafka producer", "error", err)
			}
		}()
		notifier := messaging.NewKafkaNotifier(producer, cfg.Kafka.Topic, logger)
		dispatcher.Subscribe(notifier)
		logger.Info("forwarding risk events to kafka", "topic", notifier.Topic(), "brokers", cfg.Kafka.Brokers)
	}

	handler := grpcpresentation.NewRiskHandler(
		newUseCases(store.risks, store.history, dispatcher, cfg.ScoreStrategy, logger),
		logger,
	)
	serverCfg := grpcpresentation.ServerConfig{
		Port:        cfg.GRPCPort,
		ServiceName: cfg.ServiceName,
		Reflection:  cfg.GRPCReflection,
	}
	if cfg.GRPCTLSCertFile != "" {
		creds, err := tlsutil.ServerCredentials(cfg.GRPCTLSCertFile, cfg.GRPCTLSKeyFile)
		if err != nil {
			return err
		}
		serverCfg.Credentials = creds
	}
	grpcServer := grpcpresentation.NewServer(handler, serverCfg, logger)

	mux := http.NewServeMux()
	rest.NewHealthHandler(cfg.ServiceName, checks, logger).RegisterRoutes(mux, metrics.Handler)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(grpcServer.Start)
	g.Go(func() error {
		logger.Info("HTTP health server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down servers")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		grpcServer.Stop()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("risk service stopped with error", "error", err)
		return err
	}
	logger.Info("risk service stopped")
	return nil
}
