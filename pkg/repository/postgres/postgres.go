package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pipewatch/pkg/utils/safe"
)

// Schema is the minimal table the repository needs. Logs and reports are TEXT
// rather than JSONB because a stored value is not guaranteed to be valid JSON.
const Schema = `
CREATE TABLE IF NOT EXISTS analyses (
	id                      TEXT PRIMARY KEY,
	status                  TEXT NOT NULL,
	legacy_status           TEXT NOT NULL DEFAULT '',
	logs                    TEXT,
	static_analysis_report  TEXT,
	penetration_test_report TEXT,
	vulnerabilities_found   INTEGER NOT NULL DEFAULT 0,
	critical_count          INTEGER NOT NULL DEFAULT 0,
	high_count              INTEGER NOT NULL DEFAULT 0,
	medium_count            INTEGER NOT NULL DEFAULT 0,
	low_count               INTEGER NOT NULL DEFAULT 0,
	completed_at            TIMESTAMPTZ,
	created_at              TIMESTAMPTZ NOT NULL,
	updated_at              TIMESTAMPTZ NOT NULL
);`

// New opens a connection pool and checks it with a ping.
func New(ctx context.Context, dsn string) (*AnalysisRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open postgres")
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		safe.Close(ctx, db)
		return nil, goerr.Wrap(err, "failed to ping postgres")
	}

	return &AnalysisRepository{db: db}, nil
}

// Migrate creates the analyses table if it does not exist.
func (r *AnalysisRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return goerr.Wrap(err, "failed to create analyses table")
	}
	return nil
}

func (r *AnalysisRepository) Close() error {
	return r.db.Close()
}
