package pipeline

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/secmon-lab/pipewatch/pkg/domain/model"
	"github.com/secmon-lab/pipewatch/pkg/domain/types"
)

var stepLabels = map[types.AnalysisStatus]string{
	types.AnalysisStatusPending:         "queue",
	types.AnalysisStatusCloning:         "repository clone",
	types.AnalysisStatusStaticAnalysis:  "static analysis",
	types.AnalysisStatusBuilding:        "build",
	types.AnalysisStatusPenetrationTest: "penetration test",
	types.AnalysisStatusCompleted:       "completion",
	types.AnalysisStatusFailed:          "failure",
	types.AnalysisStatusCancelled:       "cancellation",
}

// StepLabel returns the human label of the pipeline step for a status.
func StepLabel(status types.AnalysisStatus) string {
	if label, ok := stepLabels[status]; ok {
		return label
	}
	return "pipeline"
}

// LogInput describes what happened in one callback.
type LogInput struct {
	Transition Transition
	From       types.AnalysisStatus

	Message string
	Level   types.LogLevel
	Error   string

	Now time.Time
}

// AppendLogs returns stored followed by the entries produced by one callback:
// a transition line when the status changed, the explicit message if any, and
// an error line if any. Entries are never deduplicated, so a replayed callback
// logs twice.
func AppendLogs(stored json.RawMessage, in LogInput) []model.LogEntry {
	entries := model.ParseLogs(stored)
	step := StepLabel(in.Transition.Status)

	if in.Transition.Changed {
		entries = append(entries, model.LogEntry{
			Timestamp: in.Now,
			Step:      step,
			Level:     types.LogLevelInfo,
			Message:   fmt.Sprintf("state changed: %s → %s", in.From, in.Transition.Status),
		})
	}

	if in.Message != "" {
		level := in.Level
		if level == "" {
			level = types.LogLevelInfo
		}
		entries = append(entries, model.LogEntry{
			Timestamp: in.Now,
			Step:      step,
			Level:     level,
			Message:   in.Message,
		})
	}

	if in.Error != "" {
		entries = append(entries, model.LogEntry{
			Timestamp: in.Now,
			Step:      step,
			Level:     types.LogLevelError,
			Message:   in.Error,
		})
	}

	return entries
}
