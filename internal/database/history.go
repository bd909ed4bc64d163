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

	"github.com/nao1215/gdpdash/internal/model"
)

// DefaultFileName is the database file created inside the database directory.
const DefaultFileName = "history.db"

// timestampLayout has a fixed width so started_at sorts as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// HistoryDB stores run reports in SQLite.
type HistoryDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file when missing.
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

// Open opens or creates the history database in dbDir.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, DefaultFileName)

	mode := "rw"
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		mode = "rwc"
	} else if _, err := os.Stat(dbPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("history database %s: %w", dbPath, model.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to check database path: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?mode="+mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite has a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	h := &HistoryDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := h.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return h, nil
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

func (h *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		region TEXT NOT NULL DEFAULT '',
		year TEXT NOT NULL,
		operation TEXT NOT NULL,
		result REAL NOT NULL,
		filtered INTEGER NOT NULL,
		records INTEGER NOT NULL,
		checksum TEXT NOT NULL DEFAULT '',
		data_path TEXT NOT NULL DEFAULT '',
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_runs_query ON runs(region, year, operation);
	`
	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// RunSummary is one row of the run history.
type RunSummary struct {
	ID        string
	StartedAt time.Time
	Region    string
	Year      string
	Operation model.Operation
	Result    float64
	Filtered  int
	Records   int
	Checksum  string
	DataPath  string
}

// SaveRun stores report. Saving the same run ID twice replaces the row.
func (h *HistoryDB) SaveRun(ctx context.Context, report *model.RunReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	query := `
	INSERT INTO runs (id, started_at, region, year, operation, result, filtered, records, checksum, data_path, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		result = excluded.result,
		filtered = excluded.filtered,
		records = excluded.records,
		checksum = excluded.checksum,
		report_json = excluded.report_json
	`
	_, err = h.db.ExecContext(ctx, query,
		report.ID,
		report.StartedAt.UTC().Format(timestampLayout),
		report.Config.Region,
		report.Config.Year,
		report.Config.Operation.String(),
		report.Result,
		report.Filtered,
		report.Records,
		report.Checksum,
		report.DataPath,
		string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// GetRun loads the full report of run id.
func (h *HistoryDB) GetRun(ctx context.Context, id string) (*model.RunReport, error) {
	var reportJSON string
	err := h.db.QueryRowContext(ctx, `SELECT report_json FROM runs WHERE id = ?`, id).Scan(&reportJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("run %s: %w", id, model.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var report model.RunReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &report, nil
}

// ListRuns returns the most recent runs, newest first. A limit of zero or
// less returns every run.
func (h *HistoryDB) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	query := summaryColumns + ` FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return h.querySummaries(ctx, query, args...)
}

// RunsForQuery returns the runs that computed the same statistic, oldest
// first, so a result can be followed across dataset revisions.
func (h *HistoryDB) RunsForQuery(ctx context.Context, region, year string, op model.Operation) ([]RunSummary, error) {
	query := summaryColumns + ` FROM runs WHERE region = ? AND year = ? AND operation = ? ORDER BY started_at ASC`
	return h.querySummaries(ctx, query, region, year, op.String())
}

// DeleteRun removes run id.
func (h *HistoryDB) DeleteRun(ctx context.Context, id string) error {
	res, err := h.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("run %s: %w", id, model.ErrNotFound)
	}
	return nil
}

const summaryColumns = `SELECT id, started_at, region, year, operation, result, filtered, records, checksum, data_path`

func (h *HistoryDB) querySummaries(ctx context.Context, query string, args ...any) ([]RunSummary, error) {
	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			s         RunSummary
			startedAt string
			op        string
		)
		if err := rows.Scan(&s.ID, &startedAt, &s.Region, &s.Year, &op, &s.Result, &s.Filtered, &s.Records, &s.Checksum, &s.DataPath); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		s.StartedAt = parseTimestamp(startedAt)
		s.Operation = model.Operation(op)
		out = append(out, s)
	}
	return out, rows.Err()
}

// parseTimestamp tries the formats SQLite and this package write.
func parseTimestamp(s string) time.Time {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
