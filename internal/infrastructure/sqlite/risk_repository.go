package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bibbank/risk-service/internal/domain/model"
	"github.com/bibbank/risk-service/internal/domain/port"
	"github.com/bibbank/risk-service/internal/domain/valueobject"
)

var _ port.RiskRepository = (*RiskRepository)(nil)

const riskColumns = `id, title, description, type, severity, probability, status, site_id, assigned_to_id, created_at, updated_at`

// RiskRepository implements port.RiskRepository using SQLite.
type RiskRepository struct {
	db *sql.DB
}

// NewRiskRepository creates a repository. The schema must already exist; see NewStore.
func NewRiskRepository(db *sql.DB) *RiskRepository {
	return &RiskRepository{db: db}
}

// Save inserts an unsaved risk or updates an existing one.
func (r *RiskRepository) Save(ctx context.Context, risk model.Risk) (model.Risk, error) {
	if !risk.IsPersisted() {
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO risks (title, description, type, severity, probability, score, status, site_id, assigned_to_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			risk.Title(),
			nullString(risk.Description()),
			risk.Type().String(),
			risk.Severity().Int(),
			risk.Probability().Int(),
			risk.Score().Int(),
			risk.Status().String(),
			nullInt64(risk.SiteID()),
			nullInt64(risk.AssignedToID()),
			formatTime(risk.CreatedAt()),
			formatTime(risk.UpdatedAt()),
		)
		if err != nil {
			return model.Risk{}, fmt.Errorf("failed to insert risk: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return model.Risk{}, fmt.Errorf("failed to read risk id: %w", err)
		}
		return risk.WithID(id), nil
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE risks SET title = ?, description = ?, type = ?, severity = ?, probability = ?, score = ?,
			status = ?, site_id = ?, assigned_to_id = ?, updated_at = ?
		WHERE id = ?`,
		risk.Title(),
		nullString(risk.Description()),
		risk.Type().String(),
		risk.Severity().Int(),
		risk.Probability().Int(),
		risk.Score().Int(),
		risk.Status().String(),
		nullInt64(risk.SiteID()),
		nullInt64(risk.AssignedToID()),
		formatTime(risk.UpdatedAt()),
		risk.ID(),
	)
	if err != nil {
		return model.Risk{}, fmt.Errorf("failed to update risk: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.Risk{}, model.RiskNotFound(risk.ID())
	}
	return risk, nil
}

// Delete removes a risk. Its history rows are kept.
func (r *RiskRepository) Delete(ctx context.Context, risk model.Risk) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM risks WHERE id = ?`, risk.ID())
	if err != nil {
		return fmt.Errorf("failed to delete risk: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.RiskNotFound(risk.ID())
	}
	return nil
}

// FindByID retrieves a risk by its identifier.
func (r *RiskRepository) FindByID(ctx context.Context, id int64) (model.Risk, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+riskColumns+` FROM risks WHERE id = ?`, id)
	risk, err := scanRisk(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Risk{}, model.RiskNotFound(id)
	}
	return risk, err
}

// FindAll returns every risk, newest first.
func (r *RiskRepository) FindAll(ctx context.Context) ([]model.Risk, error) {
	return r.query(ctx, `SELECT `+riskColumns+` FROM risks ORDER BY created_at DESC, id DESC`)
}

// FindByStatus returns risks in the given status, newest first.
func (r *RiskRepository) FindByStatus(ctx context.Context, status valueobject.RiskStatus) ([]model.Risk, error) {
	return r.query(ctx,
		`SELECT `+riskColumns+` FROM risks WHERE status = ? ORDER BY created_at DESC, id DESC`,
		status.String(),
	)
}

// FindBySite returns risks linked to the site, newest first.
func (r *RiskRepository) FindBySite(ctx context.Context, siteID int64) ([]model.Risk, error) {
	return r.query(ctx,
		`SELECT `+riskColumns+` FROM risks WHERE site_id = ? ORDER BY created_at DESC, id DESC`,
		siteID,
	)
}

// FindCriticalRisks returns risks scoring at least port.CriticalScoreThreshold,
// highest score first.
func (r *RiskRepository) FindCriticalRisks(ctx context.Context) ([]model.Risk, error) {
	return r.query(ctx,
		`SELECT `+riskColumns+` FROM risks WHERE score >= ? ORDER BY score DESC, created_at DESC`,
		port.CriticalScoreThreshold,
	)
}

func (r *RiskRepository) query(ctx context.Context, query string, args ...any) ([]model.Risk, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query risks: %w", err)
	}
	defer func() { _ = rows.Close() }()

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

type scanner interface {
	Scan(dest ...any) error
}

// scanRisk reads one row of riskColumns. sql.ErrNoRows is returned unwrapped.
func scanRisk(row scanner) (model.Risk, error) {
	var (
		id                   int64
		title, riskType      string
		description          sql.NullString
		severity, prob       int
		status               string
		siteID, assignedToID sql.NullInt64
		createdAt, updatedAt string
	)
	err := row.Scan(&id, &title, &description, &riskType, &severity, &prob, &status,
		&siteID, &assignedToID, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Risk{}, err
	}
	if err != nil {
		return model.Risk{}, fmt.Errorf("failed to scan risk: %w", err)
	}

	rt, err := valueobject.NewRiskType(riskType)
	if err != nil {
		return model.Risk{}, fmt.Errorf("failed to parse risk type: %w", err)
	}
	s, err := valueobject.NewSeverity(severity)
	if err != nil {
		return model.Risk{}, fmt.Errorf("failed to parse severity: %w", err)
	}
	p, err := valueobject.NewProbability(prob)
	if err != nil {
		return model.Risk{}, fmt.Errorf("failed to parse probability: %w", err)
	}
	st, err := valueobject.NewRiskStatus(status)
	if err != nil {
		return model.Risk{}, fmt.Errorf("failed to parse status: %w", err)
	}
	created, err := parseTime(createdAt)
	if err != nil {
		return model.Risk{}, err
	}
	updated, err := parseTime(updatedAt)
	if err != nil {
		return model.Risk{}, err
	}

	return model.ReconstructRisk(
		id, title, description.String, rt, s, p, st,
		siteID.Int64, assignedToID.Int64, created, updated,
	), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v != 0}
}
