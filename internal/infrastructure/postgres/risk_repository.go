// Package postgres implements the risk repositories on PostgreSQL with pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bibbank/risk-service/internal/domain/model"
	"github.com/bibbank/risk-service/internal/domain/port"
	"github.com/bibbank/risk-service/internal/domain/valueobject"
	pkgpostgres "github.com/bibbank/risk-service/pkg/postgres"
)

var _ port.RiskRepository = (*RiskRepository)(nil)

const riskColumns = `id, title, description, type, severity, probability, status,
	site_id, assigned_to_id, created_at, updated_at`

// RiskRepository implements port.RiskRepository using PostgreSQL.
type RiskRepository struct {
	db pkgpostgres.Querier
}

// NewRiskRepository creates a repository over a pool or a transaction.
func NewRiskRepository(db pkgpostgres.Querier) *RiskRepository {
	return &RiskRepository{db: db}
}

// Save inserts an unsaved risk and returns it with its new id, or updates an
// existing one.
func (r *RiskRepository) Save(ctx context.Context, risk model.Risk) (model.Risk, error) {
	if !risk.IsPersisted() {
		return r.insert(ctx, risk)
	}

	query := `
		UPDATE risks SET
			title = $2,
			description = $3,
			type = $4,
			severity = $5,
			probability = $6,
			score = $7,
			status = $8,
			site_id = $9,
			assigned_to_id = $10,
			updated_at = $11
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		risk.ID(),
		risk.Title(),
		nullString(risk.Description()),
		risk.Type().String(),
		risk.Severity().Int(),
		risk.Probability().Int(),
		risk.Score().Int(),
		risk.Status().String(),
		nullInt64(risk.SiteID()),
		nullInt64(risk.AssignedToID()),
		risk.UpdatedAt(),
	)
	if err != nil {
		return model.Risk{}, fmt.Errorf("failed to update risk: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.Risk{}, model.RiskNotFound(risk.ID())
	}
	return risk, nil
}

func (r *RiskRepository) insert(ctx context.Context, risk model.Risk) (model.Risk, error) {
	query := `
		INSERT INTO risks (
			title, description, type, severity, probability, score, status,
			site_id, assigned_to_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		risk.Title(),
		nullString(risk.Description()),
		risk.Type().String(),
		risk.Severity().Int(),
		risk.Probability().Int(),
		risk.Score().Int(),
		risk.Status().String(),
		nullInt64(risk.SiteID()),
		nullInt64(risk.AssignedToID()),
		risk.CreatedAt(),
		risk.UpdatedAt(),
	).Scan(&id)
	if err != nil {
		return model.Risk{}, fmt.Errorf("failed to insert risk: %w", err)
	}
	return risk.WithID(id), nil
}

// Delete removes a risk. Its history rows are kept.
func (r *RiskRepository) Delete(ctx context.Context, risk model.Risk) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM risks WHERE id = $1`, risk.ID())
	if err != nil {
		return fmt.Errorf("failed to delete risk: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.RiskNotFound(risk.ID())
	}
	return nil
}

// FindByID retrieves a risk by its identifier.
func (r *RiskRepository) FindByID(ctx context.Context, id int64) (model.Risk, error) {
	query := `SELECT ` + riskColumns + ` FROM risks WHERE id = $1`

	risk, err := scanRisk(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Risk{}, model.RiskNotFound(id)
	}
	if err != nil {
		return model.Risk{}, err
	}
	return risk, nil
}

// FindAll returns every risk, newest first.
func (r *RiskRepository) FindAll(ctx context.Context) ([]model.Risk, error) {
	return r.query(ctx, `SELECT `+riskColumns+` FROM risks ORDER BY created_at DESC, id DESC`)
}

// FindByStatus returns risks in the given status, newest first.
func (r *RiskRepository) FindByStatus(ctx context.Context, status valueobject.RiskStatus) ([]model.Risk, error) {
	return r.query(ctx,
		`SELECT `+riskColumns+` FROM risks WHERE status = $1 ORDER BY created_at DESC, id DESC`,
		status.String(),
	)
}

// FindBySite returns risks linked to the site, newest first.
func (r *RiskRepository) FindBySite(ctx context.Context, siteID int64) ([]model.Risk, error) {
	return r.query(ctx,
		`SELECT `+riskColumns+` FROM risks WHERE site_id = $1 ORDER BY created_at DESC, id DESC`,
		siteID,
	)
}

// FindCriticalRisks returns risks scoring at least port.CriticalScoreThreshold,
// highest score first.
func (r *RiskRepository) FindCriticalRisks(ctx context.Context) ([]model.Risk, error) {
	return r.query(ctx,
		`SELECT `+riskColumns+` FROM risks WHERE score >= $1 ORDER BY score DESC, created_at DESC`,
		port.CriticalScoreThreshold,
	)
}

func (r *RiskRepository) query(ctx context.Context, query string, args ...any) ([]model.Risk, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query risks: %w", err)
	}
	defer rows.Close()

	risks := make([]model.Risk, 0)
	for rows.Next() {
		risk, err := scanRisk(rows)
		if err != nil {
			return nil, err
		}
		risks = append(risks, risk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate risks: %w", err)
	}
	return risks, nil
}

// scanRisk reads one row of riskColumns. pgx.ErrNoRows is returned unwrapped.
func scanRisk(row pgx.Row) (model.Risk, error) {
	var (
		id           int64
		title        string
		description  *string
		riskType     string
		severity     int
		probability  int
		status       string
		siteID       *int64
		assignedToID *int64
		createdAt    time.Time
		updatedAt    time.Time
	)

	err := row.Scan(
		&id, &title, &description, &riskType, &severity, &probability, &status,
		&siteID, &assignedToID, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Risk{}, err
		}
		return model.Risk{}, fmt.Errorf("failed to scan risk: %w", err)
	}

	return reconstructRisk(
		id, title, derefString(description), riskType,
		severity, probability, status,
		derefInt64(siteID), derefInt64(assignedToID),
		createdAt, updatedAt,
	)
}

// reconstructRisk maps raw column values back into the aggregate.
func reconstructRisk(
	id int64,
	title, description, riskType string,
	severity, probability int,
	status string,
	siteID, assignedToID int64,
	createdAt, updatedAt time.Time,
) (model.Risk, error) {
	rt, err := valueobject.NewRiskType(riskType)
	if err != nil {
		return model.Risk{}, fmt.Errorf("failed to parse risk type: %w", err)
	}
	sev, err := valueobject.NewSeverity(severity)
	if err != nil {
		return model.Risk{}, fmt.Errorf("failed to parse severity: %w", err)
	}
	prob, err := valueobject.NewProbability(probability)
	if err != nil {
		return model.Risk{}, fmt.Errorf("failed to parse probability: %w", err)
	}
	st, err := valueobject.NewRiskStatus(status)
	if err != nil {
		return model.Risk{}, fmt.Errorf("failed to parse status: %w", err)
	}

	return model.ReconstructRisk(
		id, title, description, rt, sev, prob, st,
		siteID, assignedToID, createdAt, updatedAt,
	), nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullInt64(v int64) *int64 {
	if v == 0 {
		return nil
	}
	return &v
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt64(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
