package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/risk-service/internal/application/dto"
	"github.com/bibbank/risk-service/internal/domain/service"
	"github.com/bibbank/risk-service/internal/domain/valueobject"
)

// CalculateScoreUseCase previews the score a strategy would assign. It does
// not touch any stored risk.
type CalculateScoreUseCase struct {
	defaultStrategy string
	logger          *slog.Logger
}

// NewCalculateScoreUseCase creates a new CalculateScoreUseCase. defaultStrategy
// is used when a request names none.
func NewCalculateScoreUseCase(defaultStrategy string, logger *slog.Logger) *CalculateScoreUseCase {
	if defaultStrategy == "" {
		defaultStrategy = service.CalculatorSimple
	}
	return &CalculateScoreUseCase{
		defaultStrategy: defaultStrategy,
		logger:          logger,
	}
}

// Execute computes the score.
func (uc *CalculateScoreUseCase) Execute(_ context.Context, req dto.CalculateScoreRequest) (dto.CalculateScoreResponse, error) {
	name := req.Strategy
	if name == "" {
		name = uc.defaultStrategy
	}

	calc, err := service.NewScoreCalculator(name)
	if err != nil {
		return dto.CalculateScoreResponse{}, err
	}

	severity, err := valueobject.NewSeverity(req.Severity)
	if err != nil {
		return dto.CalculateScoreResponse{}, fmt.Errorf("invalid severity: %w", err)
	}
	probability, err := valueobject.NewProbability(req.Probability)
	if err != nil {
		return dto.CalculateScoreResponse{}, fmt.Errorf("invalid probability: %w", err)
	}

	score := calc.Calculate(severity, probability)
	uc.logger.Debug("score calculated", "strategy", calc.Name(), "score", score.Int())

	return dto.CalculateScoreResponse{
		Strategy:   calc.Name(),
		Score:      score.Int(),
		ScoreLevel: string(score.Level()),
	}, nil
}
