package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pipewatch/pkg/domain/types"
	"github.com/secmon-lab/pipewatch/pkg/repository/postgres"
	"github.com/urfave/cli/v3"
)

type Postgres struct {
	dsn     string `masq:"secret"`
	migrate bool
}

func (x *Postgres) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "postgres-dsn",
			Usage:       "PostgreSQL connection string (required for --store postgres)",
			Category:    "PostgreSQL",
			Sources:     cli.EnvVars("PIPEWATCH_POSTGRES_DSN"),
			Destination: &x.dsn,
		},
		&cli.BoolFlag{
			Name:        "postgres-migrate",
			Usage:       "Create the analyses table on startup if it does not exist",
			Category:    "PostgreSQL",
			Sources:     cli.EnvVars("PIPEWATCH_POSTGRES_MIGRATE"),
			Destination: &x.migrate,
		},
	}
}

func (x *Postgres) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("DSN.len", len(x.dsn)),
		slog.Bool("migrate", x.migrate),
	)
}

func (x *Postgres) NewRepository(ctx context.Context) (*postgres.AnalysisRepository, error) {
	if x.dsn == "" {
		return nil, goerr.Wrap(types.ErrInvalidOption, "postgres-dsn is required")
	}

	repo, err := postgres.New(ctx, x.dsn)
	if err != nil {
		return nil, err
	}

	if x.migrate {
		if err := repo.Migrate(ctx); err != nil {
			_ = repo.Close()
			return nil, err
		}
	}

	return repo, nil
}
