package config

import (
	"log/slog"

	"github.com/secmon-lab/pipewatch/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Worker holds the credentials of the analysis worker that posts callbacks.
type Worker struct {
	apiKey types.WorkerAPIKey `masq:"secret"`
}

func (x *Worker) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "worker-api-key",
			Usage:       "Shared secret the analysis worker sends in the x-api-key header. Callbacks are rejected when empty",
			Category:    "Worker",
			Destination: (*string)(&x.apiKey),
			Sources:     cli.EnvVars("PIPEWATCH_WORKER_API_KEY"),
		},
	}
}

func (x *Worker) APIKey() types.WorkerAPIKey {
	return x.apiKey
}

func (x *Worker) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("APIKey.len", len(x.apiKey)),
	)
}
