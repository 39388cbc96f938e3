package usecase

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pipewatch/pkg/domain/model"
	"github.com/secmon-lab/pipewatch/pkg/domain/types"
	"github.com/secmon-lab/pipewatch/pkg/utils/logging"
)

const maxSuggestions = 5

// SuggestFixes asks the fix suggester for a remediation of the first findings
// of the analysis. The static analysis report is used when it has findings,
// the penetration test report otherwise. Every provider call goes through the
// fix breaker; once it is open the remaining findings are not attempted and
// ErrServiceUnavailable is returned.
func (x *UseCase) SuggestFixes(ctx context.Context, id types.AnalysisID) ([]*model.FixSuggestion, error) {
	suggester := x.clients.FixSuggester()
	if suggester == nil {
		return nil, goerr.Wrap(types.ErrServiceUnavailable, "fix suggester is not configured")
	}

	analysis, err := x.GetAnalysis(ctx, id)
	if err != nil {
		return nil, err
	}

	tool, findings := selectFindings(analysis)
	if len(findings) > maxSuggestions {
		findings = findings[:maxSuggestions]
	}

	logger := logging.From(ctx).With(slog.String("analysis_id", id.String()))
	suggestions := make([]*model.FixSuggestion, 0, len(findings))

	for _, finding := range findings {
		if !x.fixBreaker.CanExecute() {
			return nil, goerr.Wrap(types.ErrServiceUnavailable, "fix suggester circuit is open",
				goerr.V("analysis_id", id),
				goerr.V("state", x.fixBreaker.State()),
			)
		}

		text, err := suggester.SuggestFix(ctx, tool, finding)
		if err != nil {
			x.fixBreaker.OnFailure()
			return nil, goerr.Wrap(err, "failed to get fix suggestion",
				goerr.V("analysis_id", id),
				goerr.V("finding", finding.ID),
			)
		}
		x.fixBreaker.OnSuccess()

		suggestions = append(suggestions, &model.FixSuggestion{
			Finding:    finding,
			Suggestion: text,
		})
	}

	logger.Info("fix suggestions generated", slog.Int("count", len(suggestions)), slog.String("tool", tool))
	return suggestions, nil
}

// selectFindings picks the report to suggest fixes for. Unparseable reports
// are treated as having no findings.
func selectFindings(analysis *model.Analysis) (string, []model.Finding) {
	for _, blob := range []model.ReportBlob{analysis.StaticAnalysisReport, analysis.PenetrationTestReport} {
		if blob.IsEmpty() {
			continue
		}
		report, err := blob.Parse()
		if err != nil || len(report.Findings) == 0 {
			continue
		}
		return report.Tool, report.Findings
	}
	return "", nil
}
