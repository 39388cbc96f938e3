package model

import (
	"time"

	"github.com/secmon-lab/pipewatch/pkg/domain/types"
)

// AnalysisSnapshot is the read model returned by the status-read endpoint and
// consumed by the polling client. Logs are decoded and reports are emitted as
// JSON values.
type AnalysisSnapshot struct {
	ID           types.AnalysisID     `json:"id"`
	Status       types.AnalysisStatus `json:"status"`
	LegacyStatus types.LegacyStatus   `json:"legacyStatus,omitempty"`
	Logs         []LogEntry           `json:"logs"`

	StaticAnalysisReport  ReportBlob `json:"staticAnalysisReport"`
	PenetrationTestReport ReportBlob `json:"penetrationTestReport"`

	VulnerabilitiesFound int `json:"vulnerabilitiesFound"`
	CriticalCount        int `json:"criticalCount"`
	HighCount            int `json:"highCount"`
	MediumCount          int `json:"mediumCount"`
	LowCount             int `json:"lowCount"`

	CompletedAt *time.Time `json:"completedAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (x *Analysis) Snapshot() *AnalysisSnapshot {
	return &AnalysisSnapshot{
		ID:                    x.ID,
		Status:                x.Status,
		LegacyStatus:          x.LegacyStatus,
		Logs:                  x.LogEntries(),
		StaticAnalysisReport:  x.StaticAnalysisReport,
		PenetrationTestReport: x.PenetrationTestReport,
		VulnerabilitiesFound:  x.VulnerabilitiesFound,
		CriticalCount:         x.CriticalCount,
		HighCount:             x.HighCount,
		MediumCount:           x.MediumCount,
		LowCount:              x.LowCount,
		CompletedAt:           x.CompletedAt,
		UpdatedAt:             x.UpdatedAt,
	}
}

// IsTerminal is false for a nil snapshot.
func (x *AnalysisSnapshot) IsTerminal() bool {
	return x != nil && x.Status.IsTerminal()
}
