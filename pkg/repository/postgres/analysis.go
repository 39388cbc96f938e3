package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pipewatch/pkg/domain/interfaces"
	"github.com/secmon-lab/pipewatch/pkg/domain/model"
	"github.com/secmon-lab/pipewatch/pkg/domain/types"
	"github.com/secmon-lab/pipewatch/pkg/repository"
	"github.com/secmon-lab/pipewatch/pkg/utils/logging"
)

const uniqueViolation = "23505"

const selectColumns = `id, status, legacy_status, logs, static_analysis_report, penetration_test_report,
	vulnerabilities_found, critical_count, high_count, medium_count, low_count,
	completed_at, created_at, updated_at`

type AnalysisRepository struct {
	db *sql.DB
}

var _ interfaces.AnalysisRepository = (*AnalysisRepository)(nil)

func (r *AnalysisRepository) Create(ctx context.Context, analysis *model.Analysis) error {
	if analysis.ID == "" {
		return goerr.Wrap(repository.ErrInvalidInput, "analysis ID is empty")
	}

	const q = `
INSERT INTO analyses
(id, status, legacy_status, logs, static_analysis_report, penetration_test_report,
 vulnerabilities_found, critical_count, high_count, medium_count, low_count,
 completed_at, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14);`

	_, err := r.db.ExecContext(ctx, q,
		analysis.ID, analysis.Status, analysis.LegacyStatus,
		nullString(string(analysis.Logs)),
		nullString(string(analysis.StaticAnalysisReport)),
		nullString(string(analysis.PenetrationTestReport)),
		analysis.VulnerabilitiesFound, analysis.CriticalCount, analysis.HighCount,
		analysis.MediumCount, analysis.LowCount,
		analysis.CompletedAt, analysis.CreatedAt, analysis.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return goerr.Wrap(repository.ErrAlreadyExists, "analysis already exists",
				goerr.V("analysisID", analysis.ID),
			)
		}
		return goerr.Wrap(err, "failed to insert analysis", goerr.V("analysisID", analysis.ID))
	}

	return nil
}

func (r *AnalysisRepository) FindByID(ctx context.Context, id types.AnalysisID) (*model.Analysis, error) {
	q := `SELECT ` + selectColumns + ` FROM analyses WHERE id=$1 LIMIT 1;`

	analysis, err := scanAnalysis(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(repository.ErrNotFound, "analysis not found",
				goerr.V("analysisID", id),
			)
		}
		return nil, goerr.Wrap(err, "failed to get analysis", goerr.V("analysisID", id))
	}

	return analysis, nil
}

// Update issues a single UPDATE ... RETURNING with only the fields set in
// update, so concurrent writers of disjoint fields do not clobber each other.
func (r *AnalysisRepository) Update(ctx context.Context, id types.AnalysisID, update *model.AnalysisUpdate) (*model.Analysis, error) {
	set, args, err := buildSetClause(update)
	if err != nil {
		return nil, err
	}

	args = append(args, logging.CtxTime(ctx).UTC())
	set = append(set, fmt.Sprintf("updated_at=$%d", len(args)))
	args = append(args, id)

	q := fmt.Sprintf(`UPDATE analyses SET %s WHERE id=$%d RETURNING %s;`,
		strings.Join(set, ", "), len(args), selectColumns)

	analysis, err := scanAnalysis(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(repository.ErrNotFound, "analysis not found",
				goerr.V("analysisID", id),
			)
		}
		return nil, goerr.Wrap(err, "failed to update analysis", goerr.V("analysisID", id))
	}

	return analysis, nil
}

func buildSetClause(update *model.AnalysisUpdate) ([]string, []any, error) {
	var (
		set  []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	if update.Status != nil {
		add("status", string(*update.Status))
	}
	if update.LegacyStatus != nil {
		add("legacy_status", string(*update.LegacyStatus))
	}
	if update.Logs != nil {
		raw, err := model.MarshalLogs(update.Logs)
		if err != nil {
			return nil, nil, err
		}
		add("logs", string(raw))
	}
	if update.StaticAnalysisReport != nil {
		add("static_analysis_report", nullString(string(*update.StaticAnalysisReport)))
	}
	if update.PenetrationTestReport != nil {
		add("penetration_test_report", nullString(string(*update.PenetrationTestReport)))
	}

	counters := []struct {
		column string
		value  *int
	}{
		{"vulnerabilities_found", update.VulnerabilitiesFound},
		{"critical_count", update.CriticalCount},
		{"high_count", update.HighCount},
		{"medium_count", update.MediumCount},
		{"low_count", update.LowCount},
	}
	for _, c := range counters {
		if c.value != nil {
			add(c.column, *c.value)
		}
	}

	if update.CompletedAt != nil {
		add("completed_at", update.CompletedAt.UTC())
	}

	return set, args, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (*model.Analysis, error) {
	var (
		a                  model.Analysis
		logs, sast, dast   sql.NullString
		completedAt        sql.NullTime
		createdAt, updated time.Time
	)

	if err := row.Scan(
		&a.ID, &a.Status, &a.LegacyStatus, &logs, &sast, &dast,
		&a.VulnerabilitiesFound, &a.CriticalCount, &a.HighCount, &a.MediumCount, &a.LowCount,
		&completedAt, &createdAt, &updated,
	); err != nil {
		return nil, err
	}

	if logs.Valid {
		a.Logs = []byte(logs.String)
	}
	a.StaticAnalysisReport = model.ReportBlob(sast.String)
	a.PenetrationTestReport = model.ReportBlob(dast.String)
	if completedAt.Valid {
		t := completedAt.Time
		a.CompletedAt = &t
	}
	a.CreatedAt = createdAt
	a.UpdatedAt = updated

	return &a, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
