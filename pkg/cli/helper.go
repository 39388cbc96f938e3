package cli

import (
	"context"
	"log/slog"

	"github.com/secmon-lab/pipewatch/pkg/cli/config"
	"github.com/secmon-lab/pipewatch/pkg/domain/interfaces"
	"github.com/secmon-lab/pipewatch/pkg/utils/logging"
	"github.com/secmon-lab/pipewatch/pkg/utils/safe"
)

// openStore opens the configured repository and returns a cleanup function
// that must be called once the command is done with it.
func openStore(ctx context.Context, store *config.Store) (interfaces.AnalysisRepository, func(), error) {
	repo, closer, err := store.NewRepository(ctx)
	if err != nil {
		return nil, nil, err
	}

	logging.From(ctx).Debug("analysis store opened", slog.Any("store", store))
	return repo, func() { safe.Close(ctx, closer) }, nil
}
