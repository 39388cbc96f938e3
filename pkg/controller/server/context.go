package server

import (
	"context"

	"github.com/secmon-lab/pipewatch/pkg/utils/logging"
)

// DetachContext returns a context that is not cancelled with ctx but carries
// its logger, request ID and time function.
func DetachContext(ctx context.Context) context.Context {
	bgCtx := logging.With(context.Background(), logging.From(ctx))
	return logging.InheritContextValues(bgCtx, ctx)
}
