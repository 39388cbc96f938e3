package pipeline

import (
	"github.com/secmon-lab/pipewatch/pkg/domain/model"
)

// IsAuthoritative reports whether a report reflects a completed run with
// findings, as opposed to a skipped or empty placeholder.
func IsAuthoritative(report *model.Report) bool {
	if report == nil {
		return false
	}
	return report.StepSucceeded() && len(report.Findings) > 0
}

// ShouldReplaceReport decides whether incoming may overwrite stored.
//
//   - nothing stored: always replace, even with an empty or skipped report
//   - incoming unparseable: replace, the payload is kept verbatim
//   - incoming skipped: keep stored
//   - incoming authoritative: replace
//   - stored not authoritative (or unparseable): replace
//   - otherwise keep stored
func ShouldReplaceReport(stored, incoming model.ReportBlob) bool {
	if stored.IsEmpty() {
		return true
	}

	in, err := incoming.Parse()
	if err != nil {
		return true
	}
	if in.Skipped() {
		return false
	}
	if IsAuthoritative(in) {
		return true
	}

	current, err := stored.Parse()
	if err != nil {
		return true
	}
	return !IsAuthoritative(current)
}

// MergeReport returns the blob to write, or nil when the field must be left
// out of the update.
func MergeReport(stored, incoming model.ReportBlob) *model.ReportBlob {
	if !ShouldReplaceReport(stored, incoming) {
		return nil
	}
	return &incoming
}
