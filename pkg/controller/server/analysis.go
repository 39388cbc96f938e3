package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/pipewatch/pkg/domain/interfaces"
	"github.com/secmon-lab/pipewatch/pkg/domain/model"
	"github.com/secmon-lab/pipewatch/pkg/domain/types"
	"github.com/secmon-lab/pipewatch/pkg/utils/logging"
)

const workerAPIKeyHeader = "x-api-key"

// requireWorkerAPIKey rejects requests whose x-api-key does not match key. An
// empty key rejects everything.
func requireWorkerAPIKey(key types.WorkerAPIKey) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			given := r.Header.Get(workerAPIKeyHeader)
			if key == "" || subtle.ConstantTimeCompare([]byte(given), []byte(key)) != 1 {
				logging.From(r.Context()).Warn("worker callback rejected",
					slog.String("remote_addr", r.RemoteAddr),
					slog.Bool("key_configured", key != ""),
				)
				writeFailure(w, http.StatusUnauthorized, msgInvalidAPIKey)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func handleAnalysisCallback(uc interfaces.UseCase, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input model.AnalysisCallback
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			logging.From(r.Context()).Warn("invalid callback body", slog.Any("error", err))
			writeFailure(w, http.StatusBadRequest, msgInvalidBody)
			return
		}
		if err := input.Validate(); err != nil {
			writeFailure(w, http.StatusBadRequest, msgAnalysisIDRequired)
			return
		}

		// The read-decide-write must not be aborted halfway when the worker
		// drops the connection.
		ctx, cancel := context.WithTimeout(DetachContext(r.Context()), timeout)
		defer cancel()

		result, err := uc.IngestAnalysisCallback(ctx, &input)
		if err != nil {
			writeError(r.Context(), w, "fail to ingest analysis callback", err)
			return
		}

		writeData(w, result)
	}
}

func handleGetAnalysis(uc interfaces.UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := types.AnalysisID(chi.URLParam(r, "analysisID"))

		analysis, err := uc.GetAnalysis(r.Context(), id)
		if err != nil {
			writeError(r.Context(), w, "fail to get analysis", err)
			return
		}

		writeData(w, analysis.Snapshot())
	}
}

func handleSuggestFixes(uc interfaces.UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := types.AnalysisID(chi.URLParam(r, "analysisID"))

		suggestions, err := uc.SuggestFixes(r.Context(), id)
		if err != nil {
			writeError(r.Context(), w, "fail to suggest fixes", err)
			return
		}

		writeData(w, suggestions)
	}
}
