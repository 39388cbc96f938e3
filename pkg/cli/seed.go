package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/gots/slice"
	"github.com/secmon-lab/pipewatch/pkg/cli/config"
	"github.com/secmon-lab/pipewatch/pkg/domain/model"
	"github.com/secmon-lab/pipewatch/pkg/domain/types"
	"github.com/secmon-lab/pipewatch/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func seedCommand() *cli.Command {
	var (
		analysisID string
		store      config.Store
	)

	return &cli.Command{
		Name:  "seed",
		Usage: "Create a PENDING analysis in the store, for local testing",
		Flags: slice.Flatten(
			[]cli.Flag{
				&cli.StringFlag{
					Name:        "analysis-id",
					Usage:       "ID of the analysis to create. A random ID is used when empty",
					Aliases:     []string{"i"},
					Destination: &analysisID,
				},
			},
			store.Flags(),
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, closeStore, err := openStore(ctx, &store)
			if err != nil {
				return err
			}
			defer closeStore()

			analysis, err := seedAnalysis(ctx, repo, types.AnalysisID(analysisID))
			if err != nil {
				return err
			}

			logging.From(ctx).Info("analysis created",
				slog.String("analysis_id", analysis.ID.String()),
				slog.String("status", string(analysis.Status)),
			)
			return nil
		},
	}
}

type analysisCreator interface {
	Create(ctx context.Context, analysis *model.Analysis) error
}

func seedAnalysis(ctx context.Context, repo analysisCreator, id types.AnalysisID) (*model.Analysis, error) {
	if id == "" {
		id = types.NewAnalysisID()
	}

	now := logging.CtxTime(ctx)
	analysis := &model.Analysis{
		ID:        id,
		Status:    types.AnalysisStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Create(ctx, analysis); err != nil {
		return nil, err
	}
	return analysis, nil
}
