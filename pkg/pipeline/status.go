// Package pipeline holds the decision logic applied to worker callbacks. All
// functions are total: malformed input degrades to a safe default instead of
// an error.
package pipeline

import (
	"github.com/secmon-lab/pipewatch/pkg/domain/types"
)

// Transition is the outcome of applying a requested status.
type Transition struct {
	// Status is the status to persist.
	Status types.AnalysisStatus
	// Applied is true when the requested status was accepted, even if it
	// equals the current one.
	Applied bool
	// Changed is true when Status differs from the current status.
	Changed bool
	// MarkCompleted is true when completedAt must be set by this write.
	MarkCompleted bool
	// LegacyStatus is set when the worker-facing status must be mirrored.
	LegacyStatus *types.LegacyStatus
}

// DecideStatus applies requested to current. A terminal analysis only accepts
// another terminal status (late correction from a reprocessing pass); stale
// progress callbacks arriving after completion are ignored. Non-terminal
// statuses accept anything recognized, in any order.
func DecideStatus(current types.AnalysisStatus, requested string, completedAtSet bool) Transition {
	result := Transition{Status: current}

	next, ok := types.ParseAnalysisStatus(requested)
	if !ok {
		return result
	}
	if current.IsTerminal() && !next.IsTerminal() {
		return result
	}

	result.Status = next
	result.Applied = true
	result.Changed = next != current
	result.MarkCompleted = next.IsTerminal() && !completedAtSet

	switch next {
	case types.AnalysisStatusCompleted:
		legacy := types.LegacyStatusCompleted
		result.LegacyStatus = &legacy
	case types.AnalysisStatusFailed:
		legacy := types.LegacyStatusFailed
		result.LegacyStatus = &legacy
	}

	return result
}
