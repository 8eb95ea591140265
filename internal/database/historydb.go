package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/codefactor/internal/model"
)

// FileName is the name of the database file inside the database directory.
const FileName = "codefactor.db"

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

// HistoryDB stores processing runs and the outcome of every file in them.
//
// All runs share one database file so that a content hash can be looked up
// across runs and directories.
type HistoryDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if they don't exist.
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

// Open opens or creates a HistoryDB in dbDir.
// With CreateIfNotExists false a missing database is an error and nothing is created.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (run `codefactor process` first)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{db: db, dbPath: dbPath}

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
	-- One row per invocation over a root directory
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		root TEXT NOT NULL,
		log_path TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		total INTEGER NOT NULL,
		validated INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		syntax_errors INTEGER NOT NULL,
		summary_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_root ON runs(root);

	-- One row per processed file
	CREATE TABLE IF NOT EXISTS files (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		path TEXT NOT NULL,
		backup_path TEXT,
		new_path TEXT,
		hash TEXT,
		tags TEXT,
		state TEXT NOT NULL,
		validated INTEGER NOT NULL,
		syntax_error INTEGER NOT NULL,
		errors TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_files_run ON files(run_id);
	CREATE INDEX IF NOT EXISTS idx_files_hash ON files(hash);
	`
	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord is the stored summary of one run.
type RunRecord struct {
	ID           int64
	Root         string
	LogPath      string
	StartedAt    time.Time
	FinishedAt   time.Time
	Total        int
	Validated    int
	Failed       int
	SyntaxErrors int
}

// FileRecord is the stored outcome of one file.
type FileRecord struct {
	ID          int64
	RunID       int64
	Path        string
	BackupPath  string
	NewPath     string
	Hash        string
	Tags        []string
	State       model.FileState
	Validated   bool
	SyntaxError bool
	Errors      []string
}

// SaveRun stores summary and its files in one transaction and returns the run ID.
// The ID is also written to summary.ID.
func (h *HistoryDB) SaveRun(ctx context.Context, summary *model.RunSummary) (id int64, err error) {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize run: %w", err)
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	result, err := tx.ExecContext(ctx, `
	INSERT INTO runs (root, log_path, started_at, finished_at, total, validated, failed, syntax_errors, summary_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		summary.Root,
		summary.LogPath,
		formatTimestamp(summary.StartedAt),
		formatTimestamp(summary.FinishedAt),
		summary.Total(),
		summary.ValidatedCount(),
		summary.FailedCount(),
		summary.SyntaxErrorCount(),
		string(summaryJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	id, err = result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO files (run_id, path, backup_path, new_path, hash, tags, state, validated, syntax_error, errors)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare file insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range summary.Files {
		errorsJSON, err := json.Marshal(f.Errors)
		if err != nil {
			return 0, fmt.Errorf("failed to serialize errors of %s: %w", f.Path, err)
		}
		if _, err := stmt.ExecContext(ctx,
			id,
			f.Path,
			f.BackupPath,
			f.NewPath,
			f.Hash,
			strings.Join(f.Tags, ","),
			f.State.String(),
			f.Validated,
			f.SyntaxError,
			string(errorsJSON),
		); err != nil {
			return 0, fmt.Errorf("failed to insert file %s: %w", f.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	summary.ID = id
	return id, nil
}

// ListRuns returns the most recent runs first. A non-positive limit returns all runs.
func (h *HistoryDB) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `
	SELECT id, root, log_path, started_at, finished_at, total, validated, failed, syntax_errors
	FROM runs
	ORDER BY id DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var started, finished string
		if err := rows.Scan(&r.ID, &r.Root, &r.LogPath, &started, &finished,
			&r.Total, &r.Validated, &r.Failed, &r.SyntaxErrors); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.StartedAt = parseTimestamp(started)
		r.FinishedAt = parseTimestamp(finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns the full summary stored for a run.
// It returns ErrRunNotFound when id does not exist.
func (h *HistoryDB) GetRun(ctx context.Context, id int64) (*model.RunSummary, error) {
	var summaryJSON string
	err := h.db.QueryRowContext(ctx, `SELECT summary_json FROM runs WHERE id = ?`, id).Scan(&summaryJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var summary model.RunSummary
	if err := json.Unmarshal([]byte(summaryJSON), &summary); err != nil {
		return nil, fmt.Errorf("failed to parse run: %w", err)
	}
	summary.ID = id
	return &summary, nil
}

// GetRunFiles returns the files of a run in processing order.
func (h *HistoryDB) GetRunFiles(ctx context.Context, runID int64) ([]FileRecord, error) {
	return h.queryFiles(ctx, `WHERE run_id = ? ORDER BY id`, runID)
}

// FindByHash returns every stored file with the given content hash, newest first.
func (h *HistoryDB) FindByHash(ctx context.Context, hash string) ([]FileRecord, error) {
	return h.queryFiles(ctx, `WHERE hash = ? ORDER BY id DESC`, hash)
}

func (h *HistoryDB) queryFiles(ctx context.Context, where string, args ...any) ([]FileRecord, error) {
	query := `
	SELECT id, run_id, path, backup_path, new_path, hash, tags, state, validated, syntax_error, errors
	FROM files
	` + where

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer rows.Close()

	var files []FileRecord
	for rows.Next() {
		var (
			f                                     FileRecord
			backup, newPath, hash, tags, errsJSON sql.NullString
			state                                 string
		)
		if err := rows.Scan(&f.ID, &f.RunID, &f.Path, &backup, &newPath, &hash, &tags,
			&state, &f.Validated, &f.SyntaxError, &errsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		f.BackupPath = backup.String
		f.NewPath = newPath.String
		f.Hash = hash.String
		if tags.String != "" {
			f.Tags = strings.Split(tags.String, ",")
		}
		f.State, _ = model.ParseFileState(state)
		if errsJSON.Valid && errsJSON.String != "" {
			if err := json.Unmarshal([]byte(errsJSON.String), &f.Errors); err != nil {
				f.Errors = []string{errsJSON.String}
			}
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// formatTimestamp stores times as UTC RFC 3339 text.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// timestampFormats contains the timestamp formats the runs table may hold.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp tries each known format and returns the zero time when none match.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
