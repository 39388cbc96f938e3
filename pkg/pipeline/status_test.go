package pipeline_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/pipewatch/pkg/domain/types"
	"github.com/secmon-lab/pipewatch/pkg/pipeline"
)

var (
	terminalStatuses = []types.AnalysisStatus{
		types.AnalysisStatusCompleted,
		types.AnalysisStatusFailed,
		types.AnalysisStatusCancelled,
	}
	progressStatuses = []types.AnalysisStatus{
		types.AnalysisStatusPending,
		types.AnalysisStatusCloning,
		types.AnalysisStatusStaticAnalysis,
		types.AnalysisStatusBuilding,
		types.AnalysisStatusPenetrationTest,
	}
)

func allStatuses() []types.AnalysisStatus {
	return append(append([]types.AnalysisStatus{}, progressStatuses...), terminalStatuses...)
}

func TestDecideStatus(t *testing.T) {
	t.Run("terminal status ignores progress updates", func(t *testing.T) {
		for _, current := range terminalStatuses {
			for _, requested := range progressStatuses {
				got := pipeline.DecideStatus(current, string(requested), true)
				gt.V(t, got.Status).Equal(current)
				gt.False(t, got.Applied)
				gt.False(t, got.Changed)
				gt.False(t, got.MarkCompleted)
				gt.V(t, got.LegacyStatus).Equal(nil)
			}
		}
	})

	t.Run("terminal status accepts terminal corrections", func(t *testing.T) {
		for _, current := range terminalStatuses {
			for _, requested := range terminalStatuses {
				got := pipeline.DecideStatus(current, string(requested), true)
				gt.V(t, got.Status).Equal(requested)
				gt.True(t, got.Applied)
				gt.V(t, got.Changed).Equal(current != requested)
				gt.False(t, got.MarkCompleted)
			}
		}
	})

	t.Run("non-terminal status accepts anything recognized in any order", func(t *testing.T) {
		for _, current := range progressStatuses {
			for _, requested := range allStatuses() {
				got := pipeline.DecideStatus(current, string(requested), false)
				gt.V(t, got.Status).Equal(requested)
				gt.True(t, got.Applied)
			}
		}

		got := pipeline.DecideStatus(types.AnalysisStatusBuilding, "CLONING", false)
		gt.V(t, got.Status).Equal(types.AnalysisStatusCloning)
		gt.True(t, got.Changed)
	})

	t.Run("absent or unknown request keeps current status", func(t *testing.T) {
		for _, current := range allStatuses() {
			for _, requested := range []string{"", "running", "completed", "DONE"} {
				got := pipeline.DecideStatus(current, requested, false)
				gt.V(t, got.Status).Equal(current)
				gt.False(t, got.Applied)
				gt.False(t, got.Changed)
			}
		}
	})

	t.Run("first terminal status marks completion", func(t *testing.T) {
		got := pipeline.DecideStatus(types.AnalysisStatusPenetrationTest, "COMPLETED", false)
		gt.True(t, got.MarkCompleted)

		got = pipeline.DecideStatus(types.AnalysisStatusCompleted, "FAILED", true)
		gt.False(t, got.MarkCompleted)

		got = pipeline.DecideStatus(types.AnalysisStatusCloning, "BUILDING", false)
		gt.False(t, got.MarkCompleted)
	})

	t.Run("completed and failed are mirrored to legacy status", func(t *testing.T) {
		got := pipeline.DecideStatus(types.AnalysisStatusBuilding, "COMPLETED", false)
		gt.V(t, *got.LegacyStatus).Equal(types.LegacyStatusCompleted)

		got = pipeline.DecideStatus(types.AnalysisStatusCompleted, "FAILED", true)
		gt.V(t, *got.LegacyStatus).Equal(types.LegacyStatusFailed)

		got = pipeline.DecideStatus(types.AnalysisStatusBuilding, "CANCELLED", false)
		gt.V(t, got.LegacyStatus).Equal(nil)
	})
}
