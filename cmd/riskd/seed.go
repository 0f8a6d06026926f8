package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bibbank/risk-service/internal/application/dto"
	"github.com/bibbank/risk-service/internal/application/usecase"
	"github.com/bibbank/risk-service/internal/domain/port"
	"github.com/bibbank/risk-service/internal/infrastructure/fixtures"
	"github.com/bibbank/risk-service/internal/infrastructure/postgres"
)

type seedFlags struct {
	file    string
	actorID int64
	noTx    bool
}

func newSeedCmd(a *app) *cobra.Command {
	var flags seedFlags
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load sample risks through the regular use cases",
		Long: "Creates the bundled sample risks (or those of --file) and walks each one through " +
			"its workflow so that history records are written. With postgres the whole load " +
			"runs in one transaction unless --no-tx is given.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.validated(); err != nil {
				return err
			}
			items, err := loadFixtures(flags.file)
			if err != nil {
				return codeError(2, "loading fixtures: %s", err)
			}

			ctx := cmd.Context()
			store, err := openBackend(ctx, a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer store.close()

			var created []dto.RiskResponse
			if store.pg != nil && !flags.noTx {
				err = store.pg.InTx(ctx, func(risks *postgres.RiskRepository, history *postgres.RiskHistoryRepository) error {
					var seedErr error
					created, seedErr = seedInto(ctx, risks, history, items, flags.actorID, a.logger)
					return seedErr
				})
			} else {
				created, err = seedInto(ctx, store.risks, store.history, items, flags.actorID, a.logger)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, r := range created {
				fmt.Fprintf(out, "%d\t%-9s\t%2d %-8s\t%s\n", r.ID, r.Status, r.Score, r.ScoreLevel, r.Title)
			}
			fmt.Fprintf(out, "seeded %d risks\n", len(created))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.file, "file", "", "YAML fixtures file (defaults to the bundled sample risks)")
	f.Int64Var(&flags.actorID, "actor", 0, "Actor ID recorded on every history entry")
	f.BoolVar(&flags.noTx, "no-tx", false, "Do not wrap the postgres load in a transaction")
	return cmd
}

func loadFixtures(path string) ([]fixtures.Risk, error) {
	if path == "" {
		return fixtures.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return fixtures.Load(f)
}

// seedInto replays fixtures against the given repositories with the audit
// trail subscribed, so history is written alongside the risks.
func seedInto(
	ctx context.Context,
	risks port.RiskRepository,
	history port.RiskHistoryRepository,
	items []fixtures.Risk,
	actorID int64,
	logger *slog.Logger,
) ([]dto.RiskResponse, error) {
	dispatcher := newDispatcher(history, logger)
	seeder := fixtures.NewSeeder(
		usecase.NewCreateRiskUseCase(risks, dispatcher, logger),
		usecase.NewChangeRiskStatusUseCase(risks, dispatcher, logger),
		actorID,
		logger,
	)
	return seeder.Seed(ctx, items)
}
