package model

import (
	"encoding/json"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pipewatch/pkg/domain/types"
)

// AnalysisCallback is the body the analysis worker posts to report progress.
type AnalysisCallback struct {
	AnalysisID types.AnalysisID `json:"analysis_id"`
	Status     string           `json:"status,omitempty"`
	LogMessage string           `json:"log_message,omitempty"`
	LogLevel   string           `json:"log_level,omitempty"`
	Error      string           `json:"error,omitempty"`

	StaticAnalysisReport  json.RawMessage `json:"static_analysis_report,omitempty"`
	PenetrationTestReport json.RawMessage `json:"penetration_test_report,omitempty"`

	VulnerabilitiesFound *int `json:"vulnerabilities_found,omitempty"`
	CriticalCount        *int `json:"critical_count,omitempty"`
	HighCount            *int `json:"high_count,omitempty"`
	MediumCount          *int `json:"medium_count,omitempty"`
	LowCount             *int `json:"low_count,omitempty"`
}

func (x *AnalysisCallback) Validate() error {
	if x.AnalysisID == "" {
		return goerr.Wrap(types.ErrValidationFailed, "analysis_id is required")
	}
	return nil
}

// CallbackResult is what the ingestion returns to the worker.
type CallbackResult struct {
	ID          types.AnalysisID     `json:"id"`
	Status      types.AnalysisStatus `json:"status"`
	CompletedAt *time.Time           `json:"completedAt,omitempty"`
	LogCount    int                  `json:"logCount"`
}
