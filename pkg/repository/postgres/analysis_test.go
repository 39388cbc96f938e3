package postgres_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/pipewatch/pkg/domain/model"
	"github.com/secmon-lab/pipewatch/pkg/domain/types"
	"github.com/secmon-lab/pipewatch/pkg/repository/postgres"
	"github.com/secmon-lab/pipewatch/pkg/repository/testhelper"
	"github.com/secmon-lab/pipewatch/pkg/utils/testutil"
)

func TestPostgresAnalysisRepository(t *testing.T) {
	dsn := testutil.GetEnvOrSkip(t, "TEST_POSTGRES_DSN")

	ctx := context.Background()
	repo, err := postgres.New(ctx, dsn)
	gt.NoError(t, err)
	t.Cleanup(func() { gt.NoError(t, repo.Close()) })

	gt.NoError(t, repo.Migrate(ctx))

	testhelper.TestAll(t, repo)
}

func TestBuildSetClause(t *testing.T) {
	t.Run("only set fields are included in order", func(t *testing.T) {
		status := types.AnalysisStatusBuilding
		high := 3
		set, args, err := postgres.BuildSetClauseForTest(&model.AnalysisUpdate{
			Status:    &status,
			HighCount: &high,
		})
		gt.NoError(t, err)
		gt.A(t, set).Length(2)
		gt.V(t, set[0]).Equal("status=$1")
		gt.V(t, set[1]).Equal("high_count=$2")
		gt.V(t, args[0]).Equal(any("BUILDING"))
		gt.V(t, args[1]).Equal(any(3))
	})

	t.Run("logs are serialized", func(t *testing.T) {
		set, args, err := postgres.BuildSetClauseForTest(&model.AnalysisUpdate{
			Logs: []model.LogEntry{},
		})
		gt.NoError(t, err)
		gt.V(t, set[0]).Equal("logs=$1")
		gt.V(t, args[0]).Equal(any("[]"))
	})

	t.Run("empty update only touches updated_at", func(t *testing.T) {
		set, args, err := postgres.BuildSetClauseForTest(&model.AnalysisUpdate{})
		gt.NoError(t, err)
		gt.A(t, set).Length(0)
		gt.A(t, args).Length(0)
	})
}
