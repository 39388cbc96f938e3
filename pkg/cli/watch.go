package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pipewatch/pkg/domain/types"
	"github.com/secmon-lab/pipewatch/pkg/poller"
	"github.com/secmon-lab/pipewatch/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func watchCommand() *cli.Command {
	var (
		baseURL    string
		analysisID string
		interval   time.Duration
	)

	return &cli.Command{
		Name:    "watch",
		Aliases: []string{"w"},
		Usage:   "Follow one analysis until it reaches a terminal status",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "url",
				Usage:       "Base URL of the pipewatch server",
				Value:       "http://127.0.0.1:8000",
				Sources:     cli.EnvVars("PIPEWATCH_URL"),
				Destination: &baseURL,
			},
			&cli.StringFlag{
				Name:        "analysis-id",
				Usage:       "ID of the analysis to follow",
				Aliases:     []string{"i"},
				Required:    true,
				Destination: &analysisID,
			},
			&cli.DurationFlag{
				Name:        "interval",
				Usage:       "Polling interval",
				Value:       poller.DefaultInterval,
				Sources:     cli.EnvVars("PIPEWATCH_WATCH_INTERVAL"),
				Destination: &interval,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			client, err := poller.New(baseURL, poller.WithInterval(interval))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			final, err := watchAnalysis(ctx, client, types.AnalysisID(analysisID))
			if err != nil {
				return err
			}

			logging.From(ctx).Info("analysis finished",
				slog.String("analysis_id", analysisID),
				slog.String("status", string(final.Analysis.Status)),
				slog.Int("vulnerabilities", final.Analysis.VulnerabilitiesFound),
			)
			return nil
		},
	}
}

// watchAnalysis logs every status change and new log entry of the analysis and
// returns the terminal state. It returns an error if ctx is done first.
func watchAnalysis(ctx context.Context, client *poller.Client, id types.AnalysisID) (*poller.State, error) {
	logger := logging.From(ctx).With(slog.String("analysis_id", id.String()))

	changed := make(chan struct{}, 1)
	sub := client.Subscribe(ctx, id, true, func(poller.State) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer sub.Close()

	var (
		lastStatus types.AnalysisStatus
		seenLogs   int
	)
	for {
		select {
		case <-ctx.Done():
			return nil, goerr.Wrap(ctx.Err(), "watch interrupted", goerr.V("analysis_id", id))

		case <-changed:
			st := sub.State()
			if st.Analysis == nil {
				continue
			}

			if st.Analysis.Status != lastStatus {
				logger.Info("status", slog.String("status", string(st.Analysis.Status)))
				lastStatus = st.Analysis.Status
			}
			logs := st.Analysis.Logs
			for _, entry := range logs[min(seenLogs, len(logs)):] {
				logger.Info(entry.Message,
					slog.String("step", entry.Step),
					slog.String("level", string(entry.Level)),
					slog.Time("timestamp", entry.Timestamp),
				)
			}
			seenLogs = max(seenLogs, len(logs))

			if st.IsTerminal {
				return &st, nil
			}
		}
	}
}
