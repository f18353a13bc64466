package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/gowikibot/wikibot/internal/model"
)

// ErrRunNotFound is returned when no run matches the requested ID.
var ErrRunNotFound = errors.New("run not found")

// RunDB provides SQLite-backed storage for run history. One database
// file serves all families; rows carry the family name.
type RunDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures RunDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a RunDB in the given directory.
func Open(dbDir string, opts Options) (*RunDB, error) {
	dbPath := filepath.Join(dbDir, "wikibot.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection strings: mode=rw refuses to create
	// a new file, mode=rwc allows it.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports only one writer; more connections just contend.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RunDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Close closes the database connection.
func (rdb *RunDB) Close() error {
	return rdb.db.Close()
}

// createTables creates the schema if it doesn't exist.
func (rdb *RunDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		family TEXT NOT NULL,
		origin_site TEXT NOT NULL,
		dry_run INTEGER NOT NULL DEFAULT 0,
		started DATETIME NOT NULL,
		finished DATETIME NOT NULL,
		api_requests INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_site ON runs(origin_site);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started);

	CREATE TABLE IF NOT EXISTS page_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id),
		origin TEXT NOT NULL,
		status TEXT NOT NULL,
		reason TEXT,
		detail TEXT NOT NULL,
		UNIQUE(run_id, origin)
	);

	CREATE INDEX IF NOT EXISTS idx_results_run ON page_results(run_id);
	CREATE INDEX IF NOT EXISTS idx_results_origin ON page_results(origin);
	`
	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord is a stored run header.
type RunRecord struct {
	ID          int64
	Family      string
	OriginSite  string
	DryRun      bool
	Started     time.Time
	Finished    time.Time
	APIRequests int
}

// SaveRun stores a run summary with all its page results, in one
// transaction. The run ID is returned.
func (rdb *RunDB) SaveRun(ctx context.Context, summary *model.RunSummary) (int64, error) {
	tx, err := rdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	res, err := tx.ExecContext(ctx, `
	INSERT INTO runs (family, origin_site, dry_run, started, finished, api_requests)
	VALUES (?, ?, ?, ?, ?, ?)`,
		summary.Family, summary.OriginSite, summary.DryRun,
		summary.Started.UTC(), summary.Finished.UTC(), summary.APIRequests,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	for i := range summary.Results {
		r := &summary.Results[i]
		detail, err := json.Marshal(r)
		if err != nil {
			return 0, fmt.Errorf("failed to serialize result for %s: %w", r.Origin, err)
		}
		_, err = tx.ExecContext(ctx, `
		INSERT INTO page_results (run_id, origin, status, reason, detail)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_id, origin) DO UPDATE SET
			status = excluded.status,
			reason = excluded.reason,
			detail = excluded.detail`,
			runID, r.Origin.String(), r.Status.String(), r.Reason, string(detail),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert result for %s: %w", r.Origin, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// LatestRuns returns up to limit run headers, newest first. A non-empty
// originSite filters by site.
func (rdb *RunDB) LatestRuns(ctx context.Context, originSite string, limit int) ([]RunRecord, error) {
	query := `
	SELECT id, family, origin_site, dry_run, started, finished, api_requests
	FROM runs`
	args := []any{}
	if originSite != "" {
		query += " WHERE origin_site = ?"
		args = append(args, originSite)
	}
	query += " ORDER BY started DESC LIMIT ?"
	args = append(args, limit)

	rows, err := rdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.ID, &r.Family, &r.OriginSite, &r.DryRun,
			&r.Started, &r.Finished, &r.APIRequests); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// ResultsForRun returns the page results stored for a run.
func (rdb *RunDB) ResultsForRun(ctx context.Context, runID int64) ([]model.PageResult, error) {
	rows, err := rdb.db.QueryContext(ctx, `
	SELECT detail FROM page_results WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []model.PageResult
	for rows.Next() {
		var detail string
		if err := rows.Scan(&detail); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		var r model.PageResult
		if err := json.Unmarshal([]byte(detail), &r); err != nil {
			return nil, fmt.Errorf("failed to decode result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		if exists, err := rdb.runExists(ctx, runID); err != nil {
			return nil, err
		} else if !exists {
			return nil, fmt.Errorf("%w: %d", ErrRunNotFound, runID)
		}
	}
	return results, nil
}

// ResultHistory returns the stored results for one origin across runs,
// newest first, up to limit entries.
func (rdb *RunDB) ResultHistory(ctx context.Context, origin string, limit int) ([]model.PageResult, []int64, error) {
	rows, err := rdb.db.QueryContext(ctx, `
	SELECT pr.run_id, pr.detail
	FROM page_results pr
	JOIN runs r ON r.id = pr.run_id
	WHERE pr.origin = ?
	ORDER BY r.started DESC
	LIMIT ?`, origin, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var results []model.PageResult
	var runIDs []int64
	for rows.Next() {
		var runID int64
		var detail string
		if err := rows.Scan(&runID, &detail); err != nil {
			return nil, nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		var r model.PageResult
		if err := json.Unmarshal([]byte(detail), &r); err != nil {
			return nil, nil, fmt.Errorf("failed to decode history row: %w", err)
		}
		results = append(results, r)
		runIDs = append(runIDs, runID)
	}
	return results, runIDs, rows.Err()
}

// runExists reports whether a run row exists.
func (rdb *RunDB) runExists(ctx context.Context, runID int64) (bool, error) {
	var one int
	err := rdb.db.QueryRowContext(ctx, `SELECT 1 FROM runs WHERE id = ?`, runID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check run: %w", err)
	}
	return true, nil
}
