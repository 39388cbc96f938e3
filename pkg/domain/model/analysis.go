package model

import (
	"encoding/json"
	"time"

	"github.com/secmon-lab/pipewatch/pkg/domain/types"
)

// Analysis is one run of the security pipeline against a repository. Only the
// fields below are owned by the synchronization core; the rest of the record
// belongs to the dashboard.
type Analysis struct {
	ID           types.AnalysisID     `json:"id" firestore:"id"`
	Status       types.AnalysisStatus `json:"status" firestore:"status"`
	LegacyStatus types.LegacyStatus   `json:"legacyStatus,omitempty" firestore:"legacy_status"`

	// Logs is kept exactly as stored. It may be empty or even unparseable;
	// use LogEntries to read it.
	Logs json.RawMessage `json:"-" firestore:"logs"`

	StaticAnalysisReport  ReportBlob `json:"-" firestore:"static_analysis_report"`
	PenetrationTestReport ReportBlob `json:"-" firestore:"penetration_test_report"`

	VulnerabilitiesFound int `json:"vulnerabilitiesFound" firestore:"vulnerabilities_found"`
	CriticalCount        int `json:"criticalCount" firestore:"critical_count"`
	HighCount            int `json:"highCount" firestore:"high_count"`
	MediumCount          int `json:"mediumCount" firestore:"medium_count"`
	LowCount             int `json:"lowCount" firestore:"low_count"`

	CompletedAt *time.Time `json:"completedAt" firestore:"completed_at"`
	CreatedAt   time.Time  `json:"createdAt" firestore:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" firestore:"updated_at"`
}

// LogEntries decodes the stored audit log. Absent or unparseable logs are
// treated as empty.
func (x *Analysis) LogEntries() []LogEntry {
	if x == nil {
		return []LogEntry{}
	}
	return ParseLogs(x.Logs)
}

// AnalysisUpdate is a partial write. Nil fields are left untouched by the
// repository.
type AnalysisUpdate struct {
	Status       *types.AnalysisStatus
	LegacyStatus *types.LegacyStatus
	Logs         []LogEntry

	StaticAnalysisReport  *ReportBlob
	PenetrationTestReport *ReportBlob

	VulnerabilitiesFound *int
	CriticalCount        *int
	HighCount            *int
	MediumCount          *int
	LowCount             *int

	CompletedAt *time.Time
}

// Apply returns a copy of base with the update applied. Repositories without
// native partial updates use it to build the new snapshot.
func (x *AnalysisUpdate) Apply(base Analysis, now time.Time) (Analysis, error) {
	if x.Status != nil {
		base.Status = *x.Status
	}
	if x.LegacyStatus != nil {
		base.LegacyStatus = *x.LegacyStatus
	}
	if x.Logs != nil {
		raw, err := MarshalLogs(x.Logs)
		if err != nil {
			return base, err
		}
		base.Logs = raw
	}
	if x.StaticAnalysisReport != nil {
		base.StaticAnalysisReport = *x.StaticAnalysisReport
	}
	if x.PenetrationTestReport != nil {
		base.PenetrationTestReport = *x.PenetrationTestReport
	}

	setInt(&base.VulnerabilitiesFound, x.VulnerabilitiesFound)
	setInt(&base.CriticalCount, x.CriticalCount)
	setInt(&base.HighCount, x.HighCount)
	setInt(&base.MediumCount, x.MediumCount)
	setInt(&base.LowCount, x.LowCount)

	if x.CompletedAt != nil {
		t := *x.CompletedAt
		base.CompletedAt = &t
	}
	base.UpdatedAt = now

	return base, nil
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
