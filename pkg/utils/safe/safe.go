package safe

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/secmon-lab/pipewatch/pkg/utils/logging"
)

// Close closes closer and logs the error with the logger bound to ctx. It is
// meant for deferred cleanup where the error cannot be returned.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil && !errors.Is(err, io.EOF) {
		logging.From(ctx).Warn("fail to close resource", slog.Any("error", err))
	}
}
