package errutil_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pipewatch/pkg/utils/errutil"
	"github.com/secmon-lab/pipewatch/pkg/utils/logging"
)

func TestHandleError(t *testing.T) {
	t.Run("plain error", func(t *testing.T) {
		errutil.HandleError(context.Background(), "ingest failed", errors.New("connection reset"))
	})

	t.Run("goerr with values and request ID", func(t *testing.T) {
		_, ctx := logging.CtxRequestID(context.Background())
		err := goerr.New("update failed", goerr.V("analysis_id", "a-1"))
		errutil.HandleError(ctx, "ingest failed", err)
	})

	t.Run("nil error is ignored", func(t *testing.T) {
		errutil.HandleError(context.Background(), "ingest failed", nil)
	})
}
