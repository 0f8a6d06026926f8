package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bibbank/risk-service/internal/application/dto"
	"github.com/bibbank/risk-service/internal/application/usecase"
	"github.com/bibbank/risk-service/internal/domain/service"
)

type scoreFlags struct {
	strategy string
	all      bool
	json     bool
}

func newScoreCmd(a *app) *cobra.Command {
	var flags scoreFlags
	cmd := &cobra.Command{
		Use:   "score <severity> <probability>",
		Short: "Preview a risk score without storing anything",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			severity, err := strconv.Atoi(args[0])
			if err != nil {
				return codeError(2, "severity must be an integer, got %q", args[0])
			}
			probability, err := strconv.Atoi(args[1])
			if err != nil {
				return codeError(2, "probability must be an integer, got %q", args[1])
			}

			strategies := []string{flags.strategy}
			if flags.all {
				strategies = service.ScoreCalculatorNames()
			}

			uc := usecase.NewCalculateScoreUseCase(a.cfg.ScoreStrategy, a.logger)
			results := make([]dto.CalculateScoreResponse, 0, len(strategies))
			for _, name := range strategies {
				resp, err := uc.Execute(cmd.Context(), dto.CalculateScoreRequest{
					Strategy:    name,
					Severity:    severity,
					Probability: probability,
				})
				if err != nil {
					return codeError(2, "%s", err)
				}
				results = append(results, resp)
			}

			out := cmd.OutOrStdout()
			if flags.json {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}
			for _, r := range results {
				fmt.Fprintf(out, "%-8s %2d %s\n", r.Strategy, r.Score, r.ScoreLevel)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.strategy, "strategy", "", "Score strategy: simple, matrix or advanced (defaults to SCORE_STRATEGY)")
	f.BoolVar(&flags.all, "all", false, "Print the score of every strategy")
	f.BoolVar(&flags.json, "json", false, "Print JSON instead of text")
	return cmd
}
