package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pipewatch/pkg/domain/types"
	"github.com/secmon-lab/pipewatch/pkg/repository/firestore"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"
)

type Firestore struct {
	projectID       string
	databaseID      string
	credentialsFile string
}

func (x *Firestore) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore project ID (required for --store firestore)",
			Category:    "Firestore",
			Sources:     cli.EnvVars("PIPEWATCH_FIRESTORE_PROJECT_ID"),
			Destination: &x.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore database ID",
			Category:    "Firestore",
			Sources:     cli.EnvVars("PIPEWATCH_FIRESTORE_DATABASE_ID"),
			Value:       "(default)",
			Destination: &x.databaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-credentials",
			Usage:       "Service account key file. Application default credentials are used when empty",
			Category:    "Firestore",
			Sources:     cli.EnvVars("PIPEWATCH_FIRESTORE_CREDENTIALS"),
			Destination: &x.credentialsFile,
		},
	}
}

func (x *Firestore) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("projectID", x.projectID),
		slog.Any("databaseID", x.databaseID),
		slog.Bool("credentialsFile", x.credentialsFile != ""),
	)
}

func (x *Firestore) NewRepository(ctx context.Context) (*firestore.AnalysisRepository, error) {
	if x.projectID == "" {
		return nil, goerr.Wrap(types.ErrInvalidOption, "firestore-project-id is required")
	}
	var opts []option.ClientOption
	if x.credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(x.credentialsFile))
	}
	return firestore.New(ctx, x.projectID, x.databaseID, opts...)
}
