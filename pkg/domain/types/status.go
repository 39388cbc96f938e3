package types

// AnalysisStatus is the pipeline stage an analysis is in.
type AnalysisStatus string

const (
	AnalysisStatusPending         AnalysisStatus = "PENDING"
	AnalysisStatusCloning         AnalysisStatus = "CLONING"
	AnalysisStatusStaticAnalysis  AnalysisStatus = "STATIC_ANALYSIS"
	AnalysisStatusBuilding        AnalysisStatus = "BUILDING"
	AnalysisStatusPenetrationTest AnalysisStatus = "PENETRATION_TEST"
	AnalysisStatusCompleted       AnalysisStatus = "COMPLETED"
	AnalysisStatusFailed          AnalysisStatus = "FAILED"
	AnalysisStatusCancelled       AnalysisStatus = "CANCELLED"
)

var analysisStatuses = map[AnalysisStatus]struct{}{
	AnalysisStatusPending:         {},
	AnalysisStatusCloning:         {},
	AnalysisStatusStaticAnalysis:  {},
	AnalysisStatusBuilding:        {},
	AnalysisStatusPenetrationTest: {},
	AnalysisStatusCompleted:       {},
	AnalysisStatusFailed:          {},
	AnalysisStatusCancelled:       {},
}

// ParseAnalysisStatus returns false for empty or unknown values.
func ParseAnalysisStatus(v string) (AnalysisStatus, bool) {
	s := AnalysisStatus(v)
	if _, ok := analysisStatuses[s]; !ok {
		return "", false
	}
	return s, true
}

// IsTerminal reports whether no further progress callbacks are expected.
func (x AnalysisStatus) IsTerminal() bool {
	switch x {
	case AnalysisStatusCompleted, AnalysisStatusFailed, AnalysisStatusCancelled:
		return true
	}
	return false
}

// LegacyStatus is the lower-case status consumed by the worker-facing contract.
type LegacyStatus string

const (
	LegacyStatusCompleted LegacyStatus = "completed"
	LegacyStatusFailed    LegacyStatus = "failed"
)

type LogLevel string

const (
	LogLevelInfo    LogLevel = "info"
	LogLevelWarn    LogLevel = "warn"
	LogLevelError   LogLevel = "error"
	LogLevelSuccess LogLevel = "success"
)

// ParseLogLevel falls back to info for empty or unknown levels.
func ParseLogLevel(v string) LogLevel {
	switch l := LogLevel(v); l {
	case LogLevelInfo, LogLevelWarn, LogLevelError, LogLevelSuccess:
		return l
	}
	return LogLevelInfo
}

// StepStatus is the outcome a scanner reports for its own step.
type StepStatus string

const (
	StepStatusSuccess StepStatus = "success"
	StepStatusFailed  StepStatus = "failed"
	StepStatusSkipped StepStatus = "skipped"
)
