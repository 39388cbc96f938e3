package model

import (
	"encoding/json"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pipewatch/pkg/domain/types"
)

// LogEntry is one line of the analysis audit log. Entries are never modified
// after being appended.
type LogEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Step      string         `json:"step"`
	Level     types.LogLevel `json:"level"`
	Message   string         `json:"message"`
	RawOutput string         `json:"rawOutput,omitempty"`
}

// ParseLogs decodes a stored log sequence. It never fails: nil, "null" and
// malformed input all yield an empty sequence.
func ParseLogs(raw json.RawMessage) []LogEntry {
	if len(raw) == 0 {
		return []LogEntry{}
	}

	var entries []LogEntry
	if err := json.Unmarshal(raw, &entries); err != nil || entries == nil {
		return []LogEntry{}
	}
	return entries
}

func MarshalLogs(entries []LogEntry) (json.RawMessage, error) {
	if entries == nil {
		entries = []LogEntry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal logs", goerr.V("count", len(entries)))
	}
	return raw, nil
}
