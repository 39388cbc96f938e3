package usecase_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/pipewatch/pkg/domain/interfaces"
	"github.com/secmon-lab/pipewatch/pkg/domain/mock"
	"github.com/secmon-lab/pipewatch/pkg/domain/model"
	"github.com/secmon-lab/pipewatch/pkg/domain/types"
	"github.com/secmon-lab/pipewatch/pkg/infra"
	"github.com/secmon-lab/pipewatch/pkg/repository"
	"github.com/secmon-lab/pipewatch/pkg/repository/memory"
	"github.com/secmon-lab/pipewatch/pkg/usecase"
	"github.com/secmon-lab/pipewatch/pkg/utils/logging"
)

var callbackNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func setupIngest(t *testing.T, seed *model.Analysis) (*usecase.UseCase, interfaces.AnalysisRepository, context.Context) {
	t.Helper()
	ctx := logging.CtxWithTime(context.Background(), func() time.Time { return callbackNow })

	repo := memory.New()
	if seed != nil {
		gt.NoError(t, repo.Create(ctx, seed))
	}
	return usecase.New(infra.New(infra.WithAnalysisRepository(repo))), repo, ctx
}

func intPtr(v int) *int { return &v }

const authoritativeSAST = `{"tool":"semgrep","findings":[{"id":"f-1","title":"SQL injection","severity":"HIGH"}],"total":1,"step_result":{"status":"success","findings_count":1}}`

func TestIngestAnalysisCallback(t *testing.T) {
	t.Run("PENDING to CLONING appends transition log", func(t *testing.T) {
		id := types.NewAnalysisID()
		uc, repo, ctx := setupIngest(t, &model.Analysis{ID: id, Status: types.AnalysisStatusPending})

		result := gt.R1(uc.IngestAnalysisCallback(ctx, &model.AnalysisCallback{
			AnalysisID: id,
			Status:     "CLONING",
		})).NoError(t)
		gt.V(t, result.Status).Equal(types.AnalysisStatusCloning)
		gt.V(t, result.LogCount).Equal(1)
		gt.V(t, result.CompletedAt == nil).Equal(true)

		stored := gt.R1(repo.FindByID(ctx, id)).NoError(t)
		logs := stored.LogEntries()
		gt.A(t, logs).Length(1)
		gt.V(t, logs[0].Message).Equal("state changed: PENDING → CLONING")
		gt.V(t, logs[0].Level).Equal(types.LogLevelInfo)
		gt.V(t, logs[0].Step).Equal("repository clone")
		gt.V(t, logs[0].Timestamp.Equal(callbackNow)).Equal(true)
	})

	t.Run("stale progress after completion is ignored but message is logged", func(t *testing.T) {
		id := types.NewAnalysisID()
		completedAt := callbackNow.Add(-time.Hour)
		uc, repo, ctx := setupIngest(t, &model.Analysis{
			ID:          id,
			Status:      types.AnalysisStatusCompleted,
			CompletedAt: &completedAt,
		})

		result := gt.R1(uc.IngestAnalysisCallback(ctx, &model.AnalysisCallback{
			AnalysisID: id,
			Status:     "BUILDING",
			LogMessage: "late build output",
		})).NoError(t)
		gt.V(t, result.Status).Equal(types.AnalysisStatusCompleted)
		gt.V(t, result.LogCount).Equal(1)

		stored := gt.R1(repo.FindByID(ctx, id)).NoError(t)
		gt.V(t, stored.Status).Equal(types.AnalysisStatusCompleted)
		gt.V(t, stored.CompletedAt.Equal(completedAt)).Equal(true)
		gt.V(t, stored.LogEntries()[0].Message).Equal("late build output")
		gt.V(t, stored.LogEntries()[0].Step).Equal("completion")
	})

	t.Run("COMPLETED corrected to FAILED keeps completedAt", func(t *testing.T) {
		id := types.NewAnalysisID()
		completedAt := callbackNow.Add(-time.Minute)
		uc, repo, ctx := setupIngest(t, &model.Analysis{
			ID:           id,
			Status:       types.AnalysisStatusCompleted,
			LegacyStatus: types.LegacyStatusCompleted,
			CompletedAt:  &completedAt,
		})

		result := gt.R1(uc.IngestAnalysisCallback(ctx, &model.AnalysisCallback{
			AnalysisID: id,
			Status:     "FAILED",
			Error:      "timeout",
		})).NoError(t)
		gt.V(t, result.Status).Equal(types.AnalysisStatusFailed)
		gt.V(t, result.LogCount).Equal(2)

		stored := gt.R1(repo.FindByID(ctx, id)).NoError(t)
		gt.V(t, stored.LegacyStatus).Equal(types.LegacyStatusFailed)
		gt.V(t, stored.CompletedAt.Equal(completedAt)).Equal(true)

		logs := stored.LogEntries()
		gt.A(t, logs).Length(2)
		gt.V(t, logs[0].Message).Equal("state changed: COMPLETED → FAILED")
		gt.V(t, logs[1].Message).Equal("timeout")
		gt.V(t, logs[1].Level).Equal(types.LogLevelError)
		gt.V(t, logs[1].Step).Equal("failure")
	})

	t.Run("first terminal status sets completedAt and legacy status", func(t *testing.T) {
		id := types.NewAnalysisID()
		uc, repo, ctx := setupIngest(t, &model.Analysis{ID: id, Status: types.AnalysisStatusPenetrationTest})

		result := gt.R1(uc.IngestAnalysisCallback(ctx, &model.AnalysisCallback{
			AnalysisID:           id,
			Status:               "COMPLETED",
			LogMessage:           "done",
			LogLevel:             "success",
			VulnerabilitiesFound: intPtr(3),
			HighCount:            intPtr(2),
			LowCount:             intPtr(1),
		})).NoError(t)
		gt.V(t, result.CompletedAt).NotEqual(nil)
		gt.V(t, result.CompletedAt.Equal(callbackNow)).Equal(true)

		stored := gt.R1(repo.FindByID(ctx, id)).NoError(t)
		gt.V(t, stored.LegacyStatus).Equal(types.LegacyStatusCompleted)
		gt.V(t, stored.VulnerabilitiesFound).Equal(3)
		gt.V(t, stored.HighCount).Equal(2)
		gt.V(t, stored.LowCount).Equal(1)
		gt.V(t, stored.CriticalCount).Equal(0)
		gt.V(t, stored.LogEntries()[1].Level).Equal(types.LogLevelSuccess)
	})

	t.Run("unknown status and unknown level are tolerated", func(t *testing.T) {
		id := types.NewAnalysisID()
		uc, repo, ctx := setupIngest(t, &model.Analysis{ID: id, Status: types.AnalysisStatusBuilding})

		result := gt.R1(uc.IngestAnalysisCallback(ctx, &model.AnalysisCallback{
			AnalysisID: id,
			Status:     "DEPLOYING",
			LogMessage: "hello",
			LogLevel:   "debug",
		})).NoError(t)
		gt.V(t, result.Status).Equal(types.AnalysisStatusBuilding)

		stored := gt.R1(repo.FindByID(ctx, id)).NoError(t)
		gt.A(t, stored.LogEntries()).Length(1)
		gt.V(t, stored.LogEntries()[0].Level).Equal(types.LogLevelInfo)
	})

	t.Run("existing logs are preserved in order", func(t *testing.T) {
		id := types.NewAnalysisID()
		existing := gt.R1(model.MarshalLogs([]model.LogEntry{
			{Step: "queue", Level: types.LogLevelInfo, Message: "first"},
		})).NoError(t)
		uc, repo, ctx := setupIngest(t, &model.Analysis{ID: id, Status: types.AnalysisStatusPending, Logs: existing})

		gt.R1(uc.IngestAnalysisCallback(ctx, &model.AnalysisCallback{AnalysisID: id, LogMessage: "second"})).NoError(t)
		gt.R1(uc.IngestAnalysisCallback(ctx, &model.AnalysisCallback{AnalysisID: id, LogMessage: "second"})).NoError(t)

		logs := gt.R1(repo.FindByID(ctx, id)).NoError(t).LogEntries()
		gt.A(t, logs).Length(3)
		gt.V(t, logs[0].Message).Equal("first")
		gt.V(t, logs[1].Message).Equal("second")
		gt.V(t, logs[2].Message).Equal("second")
	})

	t.Run("skipped report does not replace authoritative report", func(t *testing.T) {
		id := types.NewAnalysisID()
		uc, repo, ctx := setupIngest(t, &model.Analysis{
			ID:                   id,
			Status:               types.AnalysisStatusStaticAnalysis,
			StaticAnalysisReport: model.ReportBlob(authoritativeSAST),
		})

		gt.R1(uc.IngestAnalysisCallback(ctx, &model.AnalysisCallback{
			AnalysisID:           id,
			StaticAnalysisReport: json.RawMessage(`{"tool":"semgrep","findings":[],"total":0,"step_result":{"status":"skipped"}}`),
		})).NoError(t)

		stored := gt.R1(repo.FindByID(ctx, id)).NoError(t)
		gt.V(t, string(stored.StaticAnalysisReport)).Equal(authoritativeSAST)
	})

	t.Run("malformed report over authoritative report is stored and warned", func(t *testing.T) {
		id := types.NewAnalysisID()
		uc, repo, ctx := setupIngest(t, &model.Analysis{
			ID:                   id,
			Status:               types.AnalysisStatusStaticAnalysis,
			StaticAnalysisReport: model.ReportBlob(authoritativeSAST),
		})
		var buf bytes.Buffer
		ctx = logging.With(ctx, slog.New(slog.NewJSONHandler(&buf, nil)))

		gt.R1(uc.IngestAnalysisCallback(ctx, &model.AnalysisCallback{
			AnalysisID:           id,
			StaticAnalysisReport: json.RawMessage(`"semgrep crashed: exit 2"`),
		})).NoError(t)

		stored := gt.R1(repo.FindByID(ctx, id)).NoError(t)
		gt.V(t, string(stored.StaticAnalysisReport)).Equal("semgrep crashed: exit 2")

		var warned bool
		for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
			var rec map[string]any
			gt.NoError(t, json.Unmarshal(line, &rec))
			if rec["msg"] == "static analysis report replaced by malformed payload" {
				warned = true
				gt.V(t, rec["level"]).Equal("WARN")
				gt.V(t, rec["stored_findings"]).Equal(float64(1))
			}
		}
		gt.True(t, warned)
	})

	t.Run("malformed report over empty slot is not warned", func(t *testing.T) {
		id := types.NewAnalysisID()
		uc, _, ctx := setupIngest(t, &model.Analysis{ID: id, Status: types.AnalysisStatusStaticAnalysis})
		var buf bytes.Buffer
		ctx = logging.With(ctx, slog.New(slog.NewJSONHandler(&buf, nil)))

		gt.R1(uc.IngestAnalysisCallback(ctx, &model.AnalysisCallback{
			AnalysisID:           id,
			StaticAnalysisReport: json.RawMessage(`"semgrep crashed: exit 2"`),
		})).NoError(t)
		gt.False(t, bytes.Contains(buf.Bytes(), []byte("replaced by malformed payload")))
	})

	t.Run("report sent as JSON string is stored unwrapped", func(t *testing.T) {
		id := types.NewAnalysisID()
		uc, repo, ctx := setupIngest(t, &model.Analysis{ID: id, Status: types.AnalysisStatusStaticAnalysis})

		encoded := gt.R1(json.Marshal(authoritativeSAST)).NoError(t)
		gt.R1(uc.IngestAnalysisCallback(ctx, &model.AnalysisCallback{
			AnalysisID:            id,
			StaticAnalysisReport:  encoded,
			PenetrationTestReport: json.RawMessage(`null`),
		})).NoError(t)

		stored := gt.R1(repo.FindByID(ctx, id)).NoError(t)
		gt.V(t, string(stored.StaticAnalysisReport)).Equal(authoritativeSAST)
		gt.True(t, stored.PenetrationTestReport.IsEmpty())
	})

	t.Run("missing analysis_id is a validation error", func(t *testing.T) {
		uc, _, ctx := setupIngest(t, nil)
		_, err := uc.IngestAnalysisCallback(ctx, &model.AnalysisCallback{Status: "CLONING"})
		gt.Error(t, err)
		gt.True(t, errors.Is(err, types.ErrValidationFailed))
	})

	t.Run("unknown analysis is not found", func(t *testing.T) {
		uc, _, ctx := setupIngest(t, nil)
		_, err := uc.IngestAnalysisCallback(ctx, &model.AnalysisCallback{
			AnalysisID: types.NewAnalysisID(),
			Status:     "CLONING",
		})
		gt.Error(t, err)
		gt.True(t, errors.Is(err, repository.ErrNotFound))
	})

	t.Run("exactly one read and one write per callback", func(t *testing.T) {
		id := types.NewAnalysisID()
		repo := &mock.AnalysisRepositoryMock{
			FindByIDFunc: func(ctx context.Context, id types.AnalysisID) (*model.Analysis, error) {
				return &model.Analysis{ID: id, Status: types.AnalysisStatusCloning}, nil
			},
			UpdateFunc: func(ctx context.Context, id types.AnalysisID, update *model.AnalysisUpdate) (*model.Analysis, error) {
				return &model.Analysis{ID: id, Status: *update.Status}, nil
			},
		}
		uc := usecase.New(infra.New(infra.WithAnalysisRepository(repo)))

		gt.R1(uc.IngestAnalysisCallback(context.Background(), &model.AnalysisCallback{
			AnalysisID: id,
			Status:     "STATIC_ANALYSIS",
		})).NoError(t)

		gt.A(t, repo.FindByIDCalls()).Length(1)
		gt.A(t, repo.UpdateCalls()).Length(1)
		update := repo.UpdateCalls()[0].Update
		gt.V(t, *update.Status).Equal(types.AnalysisStatusStaticAnalysis)
		gt.V(t, update.CompletedAt == nil).Equal(true)
		gt.V(t, update.LegacyStatus == nil).Equal(true)
		gt.V(t, update.StaticAnalysisReport == nil).Equal(true)
		gt.V(t, update.VulnerabilitiesFound == nil).Equal(true)
	})

	t.Run("update failure is returned", func(t *testing.T) {
		repo := &mock.AnalysisRepositoryMock{
			FindByIDFunc: func(ctx context.Context, id types.AnalysisID) (*model.Analysis, error) {
				return &model.Analysis{ID: id, Status: types.AnalysisStatusCloning}, nil
			},
			UpdateFunc: func(ctx context.Context, id types.AnalysisID, update *model.AnalysisUpdate) (*model.Analysis, error) {
				return nil, errors.New("connection reset")
			},
		}
		uc := usecase.New(infra.New(infra.WithAnalysisRepository(repo)))

		_, err := uc.IngestAnalysisCallback(context.Background(), &model.AnalysisCallback{
			AnalysisID: types.NewAnalysisID(),
			Status:     "BUILDING",
		})
		gt.Error(t, err)
	})
}

func TestGetAnalysis(t *testing.T) {
	id := types.NewAnalysisID()
	uc, _, ctx := setupIngest(t, &model.Analysis{ID: id, Status: types.AnalysisStatusBuilding})

	t.Run("found", func(t *testing.T) {
		got := gt.R1(uc.GetAnalysis(ctx, id)).NoError(t)
		gt.V(t, got.Status).Equal(types.AnalysisStatusBuilding)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := uc.GetAnalysis(ctx, types.NewAnalysisID())
		gt.True(t, errors.Is(err, repository.ErrNotFound))
	})
}
