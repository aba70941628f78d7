// Package history persists analysis runs in SQLite so past reports can be
// recalled and compared. The store keeps the summary and planned actions as
// JSON columns alongside queryable metadata.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/avelasco/docscout/internal/analysis"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// ─── Types ───────────────────────────────────────────────────────────────────

// Run is one persisted analysis run.
type Run struct {
	ID            string                         `json:"id"`
	Repo          string                         `json:"repo"`
	PRNumber      int                            `json:"pr_number"`
	TotalFiles    int                            `json:"total_files"`
	BreakingCount int                            `json:"breaking_count"`
	ActionCount   int                            `json:"action_count"`
	Summary       analysis.ChangeSetSummary      `json:"summary"`
	Actions       []analysis.DocumentationAction `json:"actions"`
	CreatedAt     string                         `json:"created_at"`
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the run-history engine backed by SQLite.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the history database at path, enables WAL mode,
// and runs migrations. The parent directory is created if needed.
func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("history: create data dir: %w", err)
		}
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	// SQLite performance pragmas
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("history: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("history: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id             TEXT PRIMARY KEY,
			repo           TEXT    NOT NULL,
			pr_number      INTEGER NOT NULL,
			total_files    INTEGER NOT NULL,
			breaking_count INTEGER NOT NULL,
			action_count   INTEGER NOT NULL,
			summary_json   TEXT    NOT NULL,
			actions_json   TEXT    NOT NULL,
			created_at     TEXT    NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_runs_repo    ON runs(repo, pr_number);
		CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ─── Operations ──────────────────────────────────────────────────────────────

// Save persists one run. CreatedAt is set here if empty.
func (s *Store) Save(run Run) error {
	if run.ID == "" {
		return fmt.Errorf("history: run id is required")
	}
	if run.CreatedAt == "" {
		run.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	summaryJSON, err := json.Marshal(run.Summary)
	if err != nil {
		return fmt.Errorf("history: marshal summary: %w", err)
	}
	actionsJSON, err := json.Marshal(run.Actions)
	if err != nil {
		return fmt.Errorf("history: marshal actions: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO runs (id, repo, pr_number, total_files, breaking_count, action_count, summary_json, actions_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Repo, run.PRNumber, run.TotalFiles, run.BreakingCount, run.ActionCount,
		string(summaryJSON), string(actionsJSON), run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("history: insert run: %w", err)
	}
	return nil
}

// Get returns one run by id, or sql.ErrNoRows wrapped if absent.
func (s *Store) Get(id string) (*Run, error) {
	row := s.db.QueryRow(`
		SELECT id, repo, pr_number, total_files, breaking_count, action_count, summary_json, actions_json, created_at
		FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if err != nil {
		return nil, fmt.Errorf("history: get run %s: %w", id, err)
	}
	return run, nil
}

// Recent returns the latest runs, newest first.
func (s *Store) Recent(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(`
		SELECT id, repo, pr_number, total_files, breaking_count, action_count, summary_json, actions_json, created_at
		FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query recent: %w", err)
	}
	defer rows.Close()

	return collectRuns(rows)
}

// ByRepo returns the latest runs for one repository, newest first.
func (s *Store) ByRepo(repo string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(`
		SELECT id, repo, pr_number, total_files, breaking_count, action_count, summary_json, actions_json, created_at
		FROM runs WHERE repo = ? ORDER BY created_at DESC, id LIMIT ?`, repo, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query by repo: %w", err)
	}
	defer rows.Close()

	return collectRuns(rows)
}

// ─── Scanning ────────────────────────────────────────────────────────────────

type scannable interface {
	Scan(dest ...any) error
}

func scanRun(row scannable) (*Run, error) {
	var run Run
	var summaryJSON, actionsJSON string

	err := row.Scan(&run.ID, &run.Repo, &run.PRNumber, &run.TotalFiles,
		&run.BreakingCount, &run.ActionCount, &summaryJSON, &actionsJSON, &run.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(summaryJSON), &run.Summary); err != nil {
		return nil, fmt.Errorf("unmarshal summary: %w", err)
	}
	if err := json.Unmarshal([]byte(actionsJSON), &run.Actions); err != nil {
		return nil, fmt.Errorf("unmarshal actions: %w", err)
	}
	return &run, nil
}

func collectRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate runs: %w", err)
	}
	return runs, nil
}
