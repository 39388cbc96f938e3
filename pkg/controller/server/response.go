package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"github.com/secmon-lab/pipewatch/pkg/domain/types"
	"github.com/secmon-lab/pipewatch/pkg/repository"
	"github.com/secmon-lab/pipewatch/pkg/utils/errutil"
	"github.com/secmon-lab/pipewatch/pkg/utils/logging"
)

const (
	msgAnalysisIDRequired = "analysis_id is required"
	msgInvalidAPIKey      = "Invalid API key"
	msgAnalysisNotFound   = "Analysis not found"
	msgInvalidBody        = "Invalid request body"
	msgUnavailable        = "Service temporarily unavailable"
	msgInternal           = "Internal server error"
)

// envelope is the body of every API response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, body envelope) {
	raw, err := json.Marshal(body)
	if err != nil {
		logging.Default().Error("fail to marshal response", slog.Any("error", err))
		code = http.StatusInternalServerError
		raw = []byte(`{"success":false,"error":"` + msgInternal + `"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	safeWrite(w, code, raw)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

func writeFailure(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, envelope{Success: false, Error: msg})
}

// writeError maps a use case error to a failure envelope. Only unexpected
// errors are reported through errutil.
func writeError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, types.ErrValidationFailed):
		writeFailure(w, http.StatusBadRequest, msgAnalysisIDRequired)
	case errors.Is(err, types.ErrAuthentication):
		writeFailure(w, http.StatusUnauthorized, msgInvalidAPIKey)
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrInvalidInput):
		// an ID the store cannot hold cannot name an existing analysis
		writeFailure(w, http.StatusNotFound, msgAnalysisNotFound)
	case errors.Is(err, types.ErrServiceUnavailable):
		logging.From(ctx).Warn(msg, slog.Any("error", err))
		writeFailure(w, http.StatusServiceUnavailable, msgUnavailable)
	default:
		errutil.HandleError(ctx, msg, err)
		writeFailure(w, http.StatusInternalServerError, msgInternal)
	}
}
