// Package fixtures loads sample risks and replays them through the use cases.
package fixtures

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/bibbank/risk-service/internal/application/dto"
)

//go:embed risks.yaml
var defaultRisks []byte

var validate = validator.New(validator.WithRequiredStructEnabled())

// Risk is one sample risk. Transitions are applied in order after creation.
type Risk struct {
	Title        string   `yaml:"title" validate:"required,min=3,max=255"`
	Type         string   `yaml:"type" validate:"required,oneof=security environment social cyber"`
	Severity     int      `yaml:"severity" validate:"min=1,max=5"`
	Probability  int      `yaml:"probability" validate:"min=1,max=5"`
	Description  string   `yaml:"description"`
	SiteID       int64    `yaml:"site_id" validate:"min=0"`
	AssignedToID int64    `yaml:"assigned_to_id" validate:"min=0"`
	Transitions  []string `yaml:"transitions" validate:"dive,oneof=open assessed mitigated closed"`
}

type document struct {
	Risks []Risk `yaml:"risks" validate:"dive"`
}

// Load decodes and validates a fixture document.
func Load(r io.Reader) ([]Risk, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("fixtures: decode: %w", err)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("fixtures: validate: %w", err)
	}
	return doc.Risks, nil
}

// Default returns the embedded sample risks.
func Default() ([]Risk, error) {
	return Load(bytes.NewReader(defaultRisks))
}

// RiskCreator is satisfied by *usecase.CreateRiskUseCase.
type RiskCreator interface {
	Execute(ctx context.Context, req dto.CreateRiskRequest) (dto.RiskResponse, error)
}

// StatusChanger is satisfied by *usecase.ChangeRiskStatusUseCase.
type StatusChanger interface {
	Execute(ctx context.Context, req dto.ChangeRiskStatusRequest) (dto.RiskResponse, error)
}

// Seeder replays fixtures through the use cases so that events fire and the
// audit trail is recorded as for any other client.
type Seeder struct {
	create  RiskCreator
	status  StatusChanger
	actorID int64
	logger  *slog.Logger
}

// NewSeeder creates a Seeder. actorID is stamped on every request.
func NewSeeder(create RiskCreator, status StatusChanger, actorID int64, logger *slog.Logger) *Seeder {
	return &Seeder{
		create:  create,
		status:  status,
		actorID: actorID,
		logger:  logger,
	}
}

// Seed creates every risk and walks it through its transitions. It stops at
// the first failure and returns the risks created so far.
func (s *Seeder) Seed(ctx context.Context, risks []Risk) ([]dto.RiskResponse, error) {
	out := make([]dto.RiskResponse, 0, len(risks))
	for i, r := range risks {
		req := dto.CreateRiskRequest{
			Title:       r.Title,
			Description: r.Description,
			Type:        r.Type,
			Severity:    r.Severity,
			Probability: r.Probability,
			ActorID:     s.actorID,
		}
		if r.SiteID != 0 {
			req.SiteID = &r.SiteID
		}
		if r.AssignedToID != 0 {
			req.AssignedToID = &r.AssignedToID
		}

		resp, err := s.create.Execute(ctx, req)
		if err != nil {
			return out, fmt.Errorf("fixtures: create risk %d (%s): %w", i+1, r.Title, err)
		}

		riskID := resp.ID
		for _, target := range r.Transitions {
			resp, err = s.status.Execute(ctx, dto.ChangeRiskStatusRequest{
				RiskID:  riskID,
				Status:  target,
				ActorID: s.actorID,
			})
			if err != nil {
				return out, fmt.Errorf("fixtures: move risk %d to %s: %w", riskID, target, err)
			}
		}

		s.logger.InfoContext(ctx, "risk seeded",
			slog.Int64("risk_id", resp.ID),
			slog.String("status", resp.Status),
			slog.Int("score", resp.Score),
		)
		out = append(out, resp)
	}
	return out, nil
}
