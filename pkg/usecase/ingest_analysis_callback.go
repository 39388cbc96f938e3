package usecase

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pipewatch/pkg/domain/model"
	"github.com/secmon-lab/pipewatch/pkg/domain/types"
	"github.com/secmon-lab/pipewatch/pkg/pipeline"
	"github.com/secmon-lab/pipewatch/pkg/utils/logging"
)

// IngestAnalysisCallback applies one progress callback of the analysis worker:
// it reads the current record, decides the new status, appends audit log
// entries, merges reports and writes everything back in a single update.
//
// There is no lock between the read and the write. Two concurrent callbacks
// for the same analysis are last-write-wins and one of them may lose its log
// entries.
func (x *UseCase) IngestAnalysisCallback(ctx context.Context, input *model.AnalysisCallback) (*model.CallbackResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	repo := x.clients.AnalysisRepository()
	if repo == nil {
		return nil, goerr.New("analysis repository is not configured")
	}

	current, err := repo.FindByID(ctx, input.AnalysisID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load analysis", goerr.V("analysis_id", input.AnalysisID))
	}

	now := logging.CtxTime(ctx)
	transition := pipeline.DecideStatus(current.Status, input.Status, current.CompletedAt != nil)

	logger := logging.From(ctx).With(slog.String("analysis_id", input.AnalysisID.String()))
	if input.Status != "" && !transition.Applied {
		logger.Info("status update ignored",
			slog.String("current", string(current.Status)),
			slog.String("requested", input.Status),
		)
	}

	update := &model.AnalysisUpdate{
		Logs: pipeline.AppendLogs(current.Logs, pipeline.LogInput{
			Transition: transition,
			From:       current.Status,
			Message:    input.LogMessage,
			Level:      types.ParseLogLevel(input.LogLevel),
			Error:      input.Error,
			Now:        now,
		}),
		VulnerabilitiesFound: input.VulnerabilitiesFound,
		CriticalCount:        input.CriticalCount,
		HighCount:            input.HighCount,
		MediumCount:          input.MediumCount,
		LowCount:             input.LowCount,
	}

	if transition.Applied {
		status := transition.Status
		update.Status = &status
		update.LegacyStatus = transition.LegacyStatus
	}
	if transition.MarkCompleted {
		completedAt := now
		update.CompletedAt = &completedAt
	}

	if model.HasPayload(input.StaticAnalysisReport) {
		update.StaticAnalysisReport = mergeReport(logger, "static analysis report",
			current.StaticAnalysisReport, model.NewReportBlob(input.StaticAnalysisReport))
	}
	if model.HasPayload(input.PenetrationTestReport) {
		update.PenetrationTestReport = mergeReport(logger, "penetration test report",
			current.PenetrationTestReport, model.NewReportBlob(input.PenetrationTestReport))
	}

	updated, err := repo.Update(ctx, input.AnalysisID, update)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update analysis", goerr.V("analysis_id", input.AnalysisID))
	}

	if transition.Changed {
		logger.Info("analysis status changed",
			slog.String("from", string(current.Status)),
			slog.String("to", string(transition.Status)),
		)
	}

	return &model.CallbackResult{
		ID:          updated.ID,
		Status:      updated.Status,
		CompletedAt: updated.CompletedAt,
		LogCount:    len(update.Logs),
	}, nil
}

// mergeReport wraps pipeline.MergeReport with audit logging. A malformed
// report is stored verbatim even over an authoritative one, which loses the
// stored findings, so that case is logged at warn level.
func mergeReport(logger *slog.Logger, name string, stored, incoming model.ReportBlob) *model.ReportBlob {
	merged := pipeline.MergeReport(stored, incoming)
	if merged == nil {
		logger.Info(name+" kept", slog.String("reason", "stored report is authoritative"))
		return nil
	}

	if _, err := incoming.Parse(); err != nil {
		if current, perr := stored.Parse(); perr == nil && pipeline.IsAuthoritative(current) {
			logger.Warn(name+" replaced by malformed payload",
				slog.Int("stored_findings", len(current.Findings)),
				slog.Any("parse_error", err),
			)
		}
	}
	return merged
}

// GetAnalysis returns the stored analysis.
func (x *UseCase) GetAnalysis(ctx context.Context, id types.AnalysisID) (*model.Analysis, error) {
	repo := x.clients.AnalysisRepository()
	if repo == nil {
		return nil, goerr.New("analysis repository is not configured")
	}

	analysis, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load analysis", goerr.V("analysis_id", id))
	}
	return analysis, nil
}
