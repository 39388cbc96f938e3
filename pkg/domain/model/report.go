package model

import (
	"bytes"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pipewatch/pkg/domain/types"
)

// ReportBlob is a serialized scan report as it is stored. An empty blob means
// no report has been stored yet.
type ReportBlob string

func (x ReportBlob) IsEmpty() bool {
	return x == ""
}

// Parse decodes the blob. Malformed blobs return an error; callers decide how
// to degrade.
func (x ReportBlob) Parse() (*Report, error) {
	var report Report
	if err := json.Unmarshal([]byte(x), &report); err != nil {
		return nil, goerr.Wrap(err, "failed to parse report")
	}
	return &report, nil
}

// MarshalJSON emits the stored report as a JSON value when it is valid JSON,
// and as a JSON string otherwise, so a malformed stored blob never breaks a
// response.
func (x ReportBlob) MarshalJSON() ([]byte, error) {
	if x.IsEmpty() {
		return []byte("null"), nil
	}
	if json.Valid([]byte(x)) {
		return []byte(x), nil
	}
	return json.Marshal(string(x))
}

// UnmarshalJSON accepts what MarshalJSON produces: null, a JSON string or any
// other JSON value.
func (x *ReportBlob) UnmarshalJSON(data []byte) error {
	if !HasPayload(data) {
		*x = ""
		return nil
	}
	*x = NewReportBlob(data)
	return nil
}

// NewReportBlob turns an incoming report payload into the stored form. The
// worker sends either a structured report or a report that was already
// serialized into a JSON string; both end up as the same blob. Anything that
// is not a JSON string is kept verbatim.
func NewReportBlob(raw json.RawMessage) ReportBlob {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return ReportBlob(s)
		}
	}
	return ReportBlob(trimmed)
}

// HasPayload reports whether a JSON field was actually sent. Absent fields and
// explicit nulls are both treated as "not sent".
func HasPayload(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// Report is the structured form of a scanner result.
type Report struct {
	Tool       string          `json:"tool"`
	Findings   []Finding       `json:"findings"`
	Total      int             `json:"total"`
	Summary    json.RawMessage `json:"summary,omitempty"`
	StepResult *StepResult     `json:"step_result,omitempty"`
}

// StepResult is the scanner's own verdict on its step. A report without it is
// a legacy report from a successful run.
type StepResult struct {
	Status        types.StepStatus `json:"status"`
	FindingsCount *int             `json:"findings_count,omitempty"`
	Error         string           `json:"error,omitempty"`
}

type Finding struct {
	ID          string `json:"id,omitempty"`
	RuleID      string `json:"rule_id,omitempty"`
	Title       string `json:"title,omitempty"`
	Severity    string `json:"severity,omitempty"`
	Description string `json:"description,omitempty"`
	File        string `json:"file,omitempty"`
	Line        int    `json:"line,omitempty"`
	URL         string `json:"url,omitempty"`
	CWE         string `json:"cwe,omitempty"`
}

// StepSucceeded is true for an explicit success and for legacy reports
// without a step result.
func (x *Report) StepSucceeded() bool {
	return x.StepResult == nil || x.StepResult.Status == types.StepStatusSuccess
}

func (x *Report) Skipped() bool {
	return x.StepResult != nil && x.StepResult.Status == types.StepStatusSkipped
}
