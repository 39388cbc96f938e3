package testhelper

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/pipewatch/pkg/domain/interfaces"
	"github.com/secmon-lab/pipewatch/pkg/domain/model"
	"github.com/secmon-lab/pipewatch/pkg/domain/types"
	"github.com/secmon-lab/pipewatch/pkg/repository"
)

// TestAll runs all test cases for AnalysisRepository
// This is the main entry point for testing any AnalysisRepository implementation
func TestAll(t *testing.T, repo interfaces.AnalysisRepository) {
	t.Run("CreateAndFind", func(t *testing.T) {
		TestCreateAndFind(t, repo)
	})
	t.Run("FindNotFound", func(t *testing.T) {
		TestFindNotFound(t, repo)
	})
	t.Run("CreateDuplicate", func(t *testing.T) {
		TestCreateDuplicate(t, repo)
	})
	t.Run("PartialUpdate", func(t *testing.T) {
		TestPartialUpdate(t, repo)
	})
	t.Run("UpdateLogsAndReports", func(t *testing.T) {
		TestUpdateLogsAndReports(t, repo)
	})
	t.Run("UpdateNotFound", func(t *testing.T) {
		TestUpdateNotFound(t, repo)
	})
}

func newAnalysis() *model.Analysis {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &model.Analysis{
		ID:        types.AnalysisID(fmt.Sprintf("analysis-%s", uuid.NewString())),
		Status:    types.AnalysisStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TestCreateAndFind tests that a created analysis can be read back
func TestCreateAndFind(t *testing.T, repo interfaces.AnalysisRepository) {
	ctx := context.Background()
	analysis := newAnalysis()
	analysis.HighCount = 2

	gt.NoError(t, repo.Create(ctx, analysis))

	found, err := repo.FindByID(ctx, analysis.ID)
	gt.NoError(t, err)
	gt.V(t, found.ID).Equal(analysis.ID)
	gt.V(t, found.Status).Equal(types.AnalysisStatusPending)
	gt.V(t, found.HighCount).Equal(2)
	gt.V(t, found.CompletedAt == nil).Equal(true)
	gt.A(t, found.LogEntries()).Length(0)
	gt.True(t, found.StaticAnalysisReport.IsEmpty())
}

// TestFindNotFound tests that a missing analysis is reported with ErrNotFound
func TestFindNotFound(t *testing.T, repo interfaces.AnalysisRepository) {
	ctx := context.Background()

	_, err := repo.FindByID(ctx, types.AnalysisID("missing-"+uuid.NewString()))
	gt.Error(t, err)
	gt.True(t, errors.Is(err, repository.ErrNotFound))
}

// TestCreateDuplicate tests that an ID can only be created once
func TestCreateDuplicate(t *testing.T, repo interfaces.AnalysisRepository) {
	ctx := context.Background()
	analysis := newAnalysis()

	gt.NoError(t, repo.Create(ctx, analysis))

	err := repo.Create(ctx, analysis)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, repository.ErrAlreadyExists))
}

// TestPartialUpdate tests that only set fields are written
func TestPartialUpdate(t *testing.T, repo interfaces.AnalysisRepository) {
	ctx := context.Background()
	analysis := newAnalysis()
	analysis.CriticalCount = 4
	analysis.StaticAnalysisReport = `{"tool":"semgrep","findings":[{"id":"f1"}],"total":1}`
	gt.NoError(t, repo.Create(ctx, analysis))

	status := types.AnalysisStatusCloning
	high := 7
	updated, err := repo.Update(ctx, analysis.ID, &model.AnalysisUpdate{
		Status:    &status,
		HighCount: &high,
	})
	gt.NoError(t, err)
	gt.V(t, updated.Status).Equal(types.AnalysisStatusCloning)
	gt.V(t, updated.HighCount).Equal(7)
	gt.V(t, updated.CriticalCount).Equal(4)
	gt.V(t, updated.StaticAnalysisReport).Equal(analysis.StaticAnalysisReport)

	found, err := repo.FindByID(ctx, analysis.ID)
	gt.NoError(t, err)
	gt.V(t, found.Status).Equal(types.AnalysisStatusCloning)
	gt.V(t, found.HighCount).Equal(7)
	gt.V(t, found.CriticalCount).Equal(4)
}

// TestUpdateLogsAndReports tests logs, reports and completion fields
func TestUpdateLogsAndReports(t *testing.T, repo interfaces.AnalysisRepository) {
	ctx := context.Background()
	analysis := newAnalysis()
	gt.NoError(t, repo.Create(ctx, analysis))

	completedAt := time.Now().UTC().Truncate(time.Millisecond)
	status := types.AnalysisStatusCompleted
	legacy := types.LegacyStatusCompleted
	sast := model.ReportBlob(`{"tool":"semgrep","findings":[],"total":0}`)
	dast := model.ReportBlob(`not json at all`)
	logs := []model.LogEntry{
		{Timestamp: completedAt, Step: "repository clone", Level: types.LogLevelInfo, Message: "state changed: PENDING → CLONING"},
		{Timestamp: completedAt, Step: "completion", Level: types.LogLevelSuccess, Message: "done"},
	}

	_, err := repo.Update(ctx, analysis.ID, &model.AnalysisUpdate{
		Status:                &status,
		LegacyStatus:          &legacy,
		Logs:                  logs,
		StaticAnalysisReport:  &sast,
		PenetrationTestReport: &dast,
		CompletedAt:           &completedAt,
	})
	gt.NoError(t, err)

	found, err := repo.FindByID(ctx, analysis.ID)
	gt.NoError(t, err)
	gt.V(t, found.Status).Equal(types.AnalysisStatusCompleted)
	gt.V(t, found.LegacyStatus).Equal(types.LegacyStatusCompleted)
	gt.V(t, found.StaticAnalysisReport).Equal(sast)
	gt.V(t, found.PenetrationTestReport).Equal(dast)
	gt.True(t, found.CompletedAt != nil)
	gt.True(t, found.CompletedAt.Equal(completedAt))

	entries := found.LogEntries()
	gt.A(t, entries).Length(2)
	gt.V(t, entries[0].Message).Equal(logs[0].Message)
	gt.V(t, entries[1].Level).Equal(types.LogLevelSuccess)
}

// TestUpdateNotFound tests that updating a missing analysis fails with ErrNotFound
func TestUpdateNotFound(t *testing.T, repo interfaces.AnalysisRepository) {
	ctx := context.Background()
	status := types.AnalysisStatusCloning

	_, err := repo.Update(ctx, types.AnalysisID("missing-"+uuid.NewString()), &model.AnalysisUpdate{Status: &status})
	gt.Error(t, err)
	gt.True(t, errors.Is(err, repository.ErrNotFound))
}
