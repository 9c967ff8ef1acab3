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

	"github.com/cadkit/stlexport/internal/model"
)

// HistoryDB stores export run history in a single SQLite database file.
//
// Design decision: one database for all designs rather than one per design.
// This keeps the history command a single query and simplifies backups.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in the given directory.
// If CreateIfNotExists is false and the database doesn't exist, an error is
// returned instead of creating an empty history.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, "stlexport.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("history database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
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

	// SQLite supports only one writer; a second connection would just block.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- One row per export run
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		design_name TEXT NOT NULL,
		folder TEXT NOT NULL,
		strategy TEXT NOT NULL,
		refinement TEXT NOT NULL,
		binary_format INTEGER NOT NULL DEFAULT 1,
		started DATETIME NOT NULL,
		finished DATETIME NOT NULL,
		succeeded INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		skipped INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_design ON runs(design_name);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started);

	-- One row per planned item within a run
	CREATE TABLE IF NOT EXISTS run_files (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		kind TEXT NOT NULL,
		filename TEXT,
		outcome TEXT NOT NULL,
		reason TEXT,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		triangles INTEGER NOT NULL DEFAULT -1
	);

	CREATE INDEX IF NOT EXISTS idx_run_files_run ON run_files(run_id);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord is a stored export run.
type RunRecord struct {
	ID         int64
	DesignName string
	Folder     string
	Strategy   string
	Refinement string
	Binary     bool
	Started    time.Time
	Finished   time.Time
	Succeeded  int
	Failed     int
	Skipped    int
}

// FileRecord is a stored per-item result.
type FileRecord struct {
	ID        int64
	RunID     int64
	Name      string
	Kind      string
	Filename  string
	Outcome   string
	Reason    string
	Duration  time.Duration
	Triangles int64
}

// SaveRun stores a complete run report and returns the new run ID.
// The run row and its file rows are written in one transaction.
func (hdb *HistoryDB) SaveRun(ctx context.Context, report *model.ExportReport) (int64, error) {
	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	res, err := tx.ExecContext(ctx, `
	INSERT INTO runs (design_name, folder, strategy, refinement, binary_format, started, finished, succeeded, failed, skipped)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		report.DesignName,
		report.Folder,
		report.Strategy,
		report.Refinement,
		boolToInt(report.Binary),
		report.Started.UTC().Format(time.RFC3339Nano),
		report.Finished.UTC().Format(time.RFC3339Nano),
		report.Succeeded(),
		report.Failed(),
		report.Skipped(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO run_files (run_id, name, kind, filename, outcome, reason, duration_ms, triangles)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare file insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range report.Results {
		if _, err := stmt.ExecContext(ctx,
			runID,
			r.Name,
			r.KindText,
			r.Filename,
			r.OutcomeText,
			r.Reason,
			r.Duration.Milliseconds(),
			r.Triangles,
		); err != nil {
			return 0, fmt.Errorf("failed to insert run file: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	return runID, nil
}

// ListRuns returns stored runs, newest first.
// An empty designName matches all designs; limit <= 0 means no limit.
func (hdb *HistoryDB) ListRuns(ctx context.Context, designName string, limit int) ([]RunRecord, error) {
	query := `
	SELECT id, design_name, folder, strategy, refinement, binary_format, started, finished, succeeded, failed, skipped
	FROM runs
	WHERE 1=1
	`
	args := make([]interface{}, 0)

	if designName != "" {
		query += " AND design_name = ?"
		args = append(args, designName)
	}

	query += " ORDER BY started DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var run RunRecord
		var binary int
		var started, finished string

		if err := rows.Scan(
			&run.ID,
			&run.DesignName,
			&run.Folder,
			&run.Strategy,
			&run.Refinement,
			&binary,
			&started,
			&finished,
			&run.Succeeded,
			&run.Failed,
			&run.Skipped,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		run.Binary = binary != 0
		run.Started = parseTimestamp(started)
		run.Finished = parseTimestamp(finished)
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// GetRun retrieves a single run by ID, or nil if it doesn't exist.
func (hdb *HistoryDB) GetRun(ctx context.Context, id int64) (*RunRecord, error) {
	query := `
	SELECT id, design_name, folder, strategy, refinement, binary_format, started, finished, succeeded, failed, skipped
	FROM runs
	WHERE id = ?
	`

	var run RunRecord
	var binary int
	var started, finished string

	err := hdb.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID,
		&run.DesignName,
		&run.Folder,
		&run.Strategy,
		&run.Refinement,
		&binary,
		&started,
		&finished,
		&run.Succeeded,
		&run.Failed,
		&run.Skipped,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	run.Binary = binary != 0
	run.Started = parseTimestamp(started)
	run.Finished = parseTimestamp(finished)
	return &run, nil
}

// GetRunFiles retrieves the per-item results of a run, in insertion order.
func (hdb *HistoryDB) GetRunFiles(ctx context.Context, runID int64) ([]FileRecord, error) {
	query := `
	SELECT id, run_id, name, kind, filename, outcome, reason, duration_ms, triangles
	FROM run_files
	WHERE run_id = ?
	ORDER BY id
	`

	rows, err := hdb.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run files: %w", err)
	}
	defer rows.Close()

	var files []FileRecord
	for rows.Next() {
		var f FileRecord
		var durationMS int64
		var filename, reason sql.NullString

		if err := rows.Scan(
			&f.ID,
			&f.RunID,
			&f.Name,
			&f.Kind,
			&filename,
			&f.Outcome,
			&reason,
			&durationMS,
			&f.Triangles,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run file: %w", err)
		}

		f.Filename = filename.String
		f.Reason = reason.String
		f.Duration = time.Duration(durationMS) * time.Millisecond
		files = append(files, f)
	}

	return files, rows.Err()
}

// ListDesigns returns the distinct design names present in the history.
func (hdb *HistoryDB) ListDesigns(ctx context.Context) ([]string, error) {
	rows, err := hdb.db.QueryContext(ctx, `SELECT DISTINCT design_name FROM runs ORDER BY design_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list designs: %w", err)
	}
	defer rows.Close()

	var designs []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan design name: %w", err)
		}
		designs = append(designs, d)
	}

	return designs, rows.Err()
}

// MarshalRun renders a run and its files as a JSON document.
// Used by the history command's --json output.
func MarshalRun(run *RunRecord, files []FileRecord) ([]byte, error) {
	doc := struct {
		Run   *RunRecord   `json:"run"`
		Files []FileRecord `json:"files"`
	}{Run: run, Files: files}
	return json.MarshalIndent(doc, "", "  ")
}

// parseTimestamp parses the timestamp formats SQLite hands back.
// RFC3339 is what SaveRun writes; the space-separated form appears when
// rows were written by DATETIME defaults.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// boolToInt converts a bool to the 0/1 SQLite convention.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
