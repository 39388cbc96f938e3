package pipeline_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/pipewatch/pkg/domain/model"
	"github.com/secmon-lab/pipewatch/pkg/domain/types"
	"github.com/secmon-lab/pipewatch/pkg/pipeline"
)

var logNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func storedLogs(t *testing.T, entries ...model.LogEntry) json.RawMessage {
	t.Helper()
	return gt.R1(model.MarshalLogs(entries)).NoError(t)
}

func TestAppendLogs(t *testing.T) {
	existing := []model.LogEntry{
		{Step: "queue", Level: types.LogLevelInfo, Message: "queued"},
		{Step: "repository clone", Level: types.LogLevelWarn, Message: "slow mirror"},
	}

	t.Run("status change appends one transition line", func(t *testing.T) {
		tr := pipeline.DecideStatus(types.AnalysisStatusPending, "CLONING", false)
		got := pipeline.AppendLogs(nil, pipeline.LogInput{
			Transition: tr,
			From:       types.AnalysisStatusPending,
			Now:        logNow,
		})

		gt.A(t, got).Length(1)
		gt.V(t, got[0].Level).Equal(types.LogLevelInfo)
		gt.V(t, got[0].Step).Equal("repository clone")
		gt.V(t, got[0].Message).Equal("state changed: PENDING → CLONING")
		gt.V(t, got[0].Timestamp).Equal(logNow)
	})

	t.Run("explicit message is appended without status change", func(t *testing.T) {
		tr := pipeline.DecideStatus(types.AnalysisStatusBuilding, "", false)
		got := pipeline.AppendLogs(storedLogs(t, existing...), pipeline.LogInput{
			Transition: tr,
			From:       types.AnalysisStatusBuilding,
			Message:    "compiling",
			Level:      types.LogLevelWarn,
			Now:        logNow,
		})

		gt.A(t, got).Length(3)
		gt.V(t, got[2].Message).Equal("compiling")
		gt.V(t, got[2].Level).Equal(types.LogLevelWarn)
		gt.V(t, got[2].Step).Equal("build")
	})

	t.Run("message level defaults to info", func(t *testing.T) {
		got := pipeline.AppendLogs(nil, pipeline.LogInput{
			Transition: pipeline.Transition{Status: types.AnalysisStatusBuilding},
			Message:    "hello",
			Now:        logNow,
		})
		gt.V(t, got[0].Level).Equal(types.LogLevelInfo)
	})

	t.Run("error gets its own error line after the others", func(t *testing.T) {
		tr := pipeline.DecideStatus(types.AnalysisStatusCompleted, "FAILED", true)
		got := pipeline.AppendLogs(nil, pipeline.LogInput{
			Transition: tr,
			From:       types.AnalysisStatusCompleted,
			Message:    "reprocessing",
			Error:      "timeout",
			Now:        logNow,
		})

		gt.A(t, got).Length(3)
		gt.True(t, strings.Contains(got[0].Message, "COMPLETED"))
		gt.True(t, strings.Contains(got[0].Message, "FAILED"))
		gt.V(t, got[1].Message).Equal("reprocessing")
		gt.V(t, got[2].Level).Equal(types.LogLevelError)
		gt.V(t, got[2].Message).Equal("timeout")
	})

	t.Run("nothing to log returns stored entries", func(t *testing.T) {
		got := pipeline.AppendLogs(storedLogs(t, existing...), pipeline.LogInput{
			Transition: pipeline.Transition{Status: types.AnalysisStatusBuilding},
			Now:        logNow,
		})
		gt.A(t, got).Length(2)
	})

	t.Run("unparseable stored logs are treated as empty", func(t *testing.T) {
		got := pipeline.AppendLogs(json.RawMessage(`{broken`), pipeline.LogInput{
			Transition: pipeline.Transition{Status: types.AnalysisStatusBuilding},
			Error:      "boom",
			Now:        logNow,
		})
		gt.A(t, got).Length(1)
		gt.V(t, got[0].Message).Equal("boom")
	})

	t.Run("stored entries are an unchanged prefix", func(t *testing.T) {
		inputs := []pipeline.LogInput{
			{Transition: pipeline.DecideStatus(types.AnalysisStatusPending, "CLONING", false), From: types.AnalysisStatusPending},
			{Transition: pipeline.DecideStatus(types.AnalysisStatusCloning, "", false), Message: "m"},
			{Transition: pipeline.DecideStatus(types.AnalysisStatusCloning, "FAILED", false), Error: "e"},
			{Transition: pipeline.DecideStatus(types.AnalysisStatusFailed, "BUILDING", true)},
		}

		for _, in := range inputs {
			in.Now = logNow
			got := pipeline.AppendLogs(storedLogs(t, existing...), in)
			gt.True(t, len(got) >= len(existing))
			for i := range existing {
				gt.V(t, got[i]).Equal(existing[i])
			}
		}
	})

	t.Run("replayed callback logs twice", func(t *testing.T) {
		in := pipeline.LogInput{
			Transition: pipeline.Transition{Status: types.AnalysisStatusBuilding},
			Message:    "step done",
			Now:        logNow,
		}
		first := pipeline.AppendLogs(nil, in)
		second := pipeline.AppendLogs(storedLogs(t, first...), in)
		gt.A(t, second).Length(2)
		gt.V(t, second[0].Message).Equal(second[1].Message)
	})
}

func TestStepLabel(t *testing.T) {
	gt.V(t, pipeline.StepLabel(types.AnalysisStatusCloning)).Equal("repository clone")
	gt.V(t, pipeline.StepLabel(types.AnalysisStatusStaticAnalysis)).Equal("static analysis")
	gt.V(t, pipeline.StepLabel(types.AnalysisStatusBuilding)).Equal("build")
	gt.V(t, pipeline.StepLabel(types.AnalysisStatusPenetrationTest)).Equal("penetration test")
	gt.V(t, pipeline.StepLabel("UNKNOWN")).Equal("pipeline")
}
