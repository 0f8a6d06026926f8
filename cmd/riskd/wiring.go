package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/risk-service/internal/application/usecase"
	"github.com/bibbank/risk-service/internal/domain/event"
	"github.com/bibbank/risk-service/internal/domain/port"
	"github.com/bibbank/risk-service/internal/infrastructure/config"
	"github.com/bibbank/risk-service/internal/infrastructure/memory"
	"github.com/bibbank/risk-service/internal/infrastructure/messaging"
	"github.com/bibbank/risk-service/internal/infrastructure/postgres"
	"github.com/bibbank/risk-service/internal/infrastructure/sqlite"
	"github.com/bibbank/risk-service/internal/infrastructure/subscriber"
	grpcpresentation "github.com/bibbank/risk-service/internal/presentation/grpc"
	pkgpostgres "github.com/bibbank/risk-service/pkg/postgres"
)

// backend is the storage selected by STORAGE_DRIVER.
type backend struct {
	risks   port.RiskRepository
	history port.RiskHistoryRepository
	health  port.HealthChecker
	// pg is set only for the postgres driver.
	pg    *postgres.Store
	close func()
}

func openBackend(ctx context.Context, cfg config.Config, logger *slog.Logger) (*backend, error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		pool, err := pkgpostgres.NewPool(ctx, cfg.Postgres())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		logger.Info("connected to database", "database", cfg.Database.Database)

		store := postgres.NewStore(pool)
		return &backend{
			risks:   store.Risks,
			history: store.History,
			health:  store,
			pg:      store,
			close:   pool.Close,
		}, nil

	case config.StorageSQLite:
		db, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		store, err := sqlite.NewStore(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Info("opened sqlite database", "path", cfg.Storage.SQLitePath)
		return &backend{
			risks:   store.Risks,
			history: store.History,
			health:  store,
			close:   func() { _ = db.Close() },
		}, nil

	case config.StorageMemory:
		risks := memory.NewRiskRepository()
		logger.Warn("using in-memory storage, data is lost on exit")
		return &backend{
			risks:   risks,
			history: memory.NewRiskHistoryRepository(),
			health:  risks,
			close:   func() {},
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// newDispatcher wires the in-process subscribers every command needs.
func newDispatcher(history port.RiskHistoryRepository, logger *slog.Logger) *messaging.Dispatcher {
	d := messaging.NewDispatcher(logger)
	d.Subscribe(subscriber.NewAuditRecorder(history, logger))
	d.SubscribeTo(event.TypeRiskStatusChanged, subscriber.NewStatusLogger(logger))
	return d
}

func newUseCases(
	risks port.RiskRepository,
	history port.RiskHistoryRepository,
	publisher port.EventPublisher,
	scoreStrategy string,
	logger *slog.Logger,
) grpcpresentation.UseCases {
	status := usecase.NewChangeRiskStatusUseCase(risks, publisher, logger)
	return grpcpresentation.UseCases{
		Create:         usecase.NewCreateRiskUseCase(risks, publisher, logger),
		Get:            usecase.NewGetRiskUseCase(risks, logger),
		List:           usecase.NewListRisksUseCase(risks, logger),
		Update:         usecase.NewUpdateRiskUseCase(risks, publisher, logger),
		Assess:         usecase.NewAssessRiskUseCase(risks, publisher, logger),
		ChangeStatus:   status,
		Close:          usecase.NewCloseRiskUseCase(status),
		Assign:         usecase.NewAssignRiskUseCase(risks, logger),
		Delete:         usecase.NewDeleteRiskUseCase(risks, logger),
		History:        usecase.NewGetRiskHistoryUseCase(risks, history, logger),
		CalculateScore: usecase.NewCalculateScoreUseCase(scoreStrategy, logger),
	}
}
