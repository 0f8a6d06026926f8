package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	pkgpostgres "github.com/bibbank/risk-service/pkg/postgres"
)

// Store groups the repositories sharing one pool.
type Store struct {
	pool    *pgxpool.Pool
	Risks   *RiskRepository
	History *RiskHistoryRepository
}

// NewStore creates repositories over pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:    pool,
		Risks:   NewRiskRepository(pool),
		History: NewRiskHistoryRepository(pool),
	}
}

// InTx runs fn with repositories bound to a single transaction. Everything
// fn writes is committed together or not at all.
func (s *Store) InTx(ctx context.Context, fn func(risks *RiskRepository, history *RiskHistoryRepository) error) error {
	return pkgpostgres.WithTransaction(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(NewRiskRepository(tx), NewRiskHistoryRepository(tx))
	})
}

// Ping implements port.HealthChecker.
func (s *Store) Ping(ctx context.Context) error {
	return pkgpostgres.HealthCheck(ctx, s.pool)
}
