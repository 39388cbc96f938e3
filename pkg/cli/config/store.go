package config

import (
	"context"
	"io"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pipewatch/pkg/domain/interfaces"
	"github.com/secmon-lab/pipewatch/pkg/domain/types"
	"github.com/secmon-lab/pipewatch/pkg/repository/memory"
	"github.com/urfave/cli/v3"
)

const (
	StoreMemory    = "memory"
	StorePostgres  = "postgres"
	StoreFirestore = "firestore"
)

// Store selects the analysis repository backend.
type Store struct {
	backend   string
	postgres  Postgres
	firestore Firestore
}

func (x *Store) Flags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "store",
			Usage:       "Analysis store [memory|postgres|firestore]",
			Category:    "Store",
			Value:       StoreMemory,
			Sources:     cli.EnvVars("PIPEWATCH_STORE"),
			Destination: &x.backend,
		},
	}
	flags = append(flags, x.postgres.Flags()...)
	return append(flags, x.firestore.Flags()...)
}

func (x *Store) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("backend", x.backend)}
	switch x.backend {
	case StorePostgres:
		attrs = append(attrs, slog.Any("postgres", &x.postgres))
	case StoreFirestore:
		attrs = append(attrs, slog.Any("firestore", &x.firestore))
	}
	return slog.GroupValue(attrs...)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewRepository opens the selected backend. The returned closer releases its
// connections.
func (x *Store) NewRepository(ctx context.Context) (interfaces.AnalysisRepository, io.Closer, error) {
	switch x.backend {
	case "", StoreMemory:
		return memory.New(), nopCloser{}, nil

	case StorePostgres:
		repo, err := x.postgres.NewRepository(ctx)
		if err != nil {
			return nil, nil, err
		}
		return repo, repo, nil

	case StoreFirestore:
		repo, err := x.firestore.NewRepository(ctx)
		if err != nil {
			return nil, nil, err
		}
		return repo, repo, nil

	default:
		return nil, nil, goerr.Wrap(types.ErrInvalidOption, "unknown store", goerr.V("store", x.backend))
	}
}
