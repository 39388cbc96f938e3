package server

import (
	"net/http"
	"time"

	"log/slog"

	"github.com/secmon-lab/pipewatch/pkg/domain/types"
	"github.com/secmon-lab/pipewatch/pkg/utils/logging"
)

const requestIDHeader = "X-Request-ID"

// preProcess binds a request scoped logger to the context and writes one
// access log line per request. An X-Request-ID sent by the caller is reused so
// worker and server logs can be correlated.
func preProcess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if given := r.Header.Get(requestIDHeader); given != "" {
			ctx = logging.CtxWithRequestID(ctx, types.RequestID(given))
		}
		reqID, ctx := logging.CtxRequestID(ctx)

		logger := logging.Default().With(slog.String("request_id", string(reqID)))
		ctx = logging.With(ctx, logger)
		w.Header().Set(requestIDHeader, string(reqID))

		lw := &statusCodeLogger{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		requestedAt := time.Now()
		next.ServeHTTP(lw, r.WithContext(ctx))

		logger.Info("http access",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr),
			slog.Int("status_code", lw.statusCode),
			slog.Int64("content_length", r.ContentLength),
			slog.String("user_agent", r.UserAgent()),
			slog.Duration("elapsed", time.Since(requestedAt)),
		)
	})
}

type statusCodeLogger struct {
	http.ResponseWriter
	statusCode int
}

func (x *statusCodeLogger) WriteHeader(code int) {
	x.statusCode = code
	x.ResponseWriter.WriteHeader(code)
}
