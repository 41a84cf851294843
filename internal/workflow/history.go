package workflow

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// History indexes workflow runs in SQLite so listing and status queries do
// not have to parse every JSON state file.
type History struct {
	db *sql.DB
	mu sync.Mutex
}

// timeLayout is RFC 3339 with fixed nanosecond precision. RFC3339Nano
// trims trailing zeros, which breaks the lexicographic ordering the
// created_at index relies on ("05Z" sorts after "05.5Z").
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// RunSummary is one row of the history index.
type RunSummary struct {
	ID          string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Status      string
	CurrentStep int
	Market      string
	Broker      string
}

// NewHistory opens (or creates) the index database at path.
func NewHistory(path string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	h := &History{db: db}
	if err := h.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return h, nil
}

func (h *History) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS workflow_runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		status TEXT NOT NULL,
		current_step INTEGER NOT NULL,
		market TEXT NOT NULL DEFAULT '',
		broker TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON workflow_runs(created_at);
	`
	if _, err := h.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return nil
}

// Record upserts the index row for a run. Called after every saved step.
func (h *History) Record(s *State) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.db.Exec(
		`INSERT INTO workflow_runs (id, created_at, updated_at, status, current_step, market, broker)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   updated_at = excluded.updated_at,
		   status = excluded.status,
		   current_step = excluded.current_step,
		   market = excluded.market,
		   broker = excluded.broker`,
		s.ID,
		s.CreatedAt.UTC().Format(timeLayout),
		s.UpdatedAt.UTC().Format(timeLayout),
		s.Status(),
		s.CurrentStep,
		s.Selections.Market,
		s.Selections.Broker,
	)
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", s.ID, err)
	}
	return nil
}

// List returns up to limit runs, newest first.
func (h *History) List(limit int) ([]RunSummary, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := h.db.Query(
		`SELECT id, created_at, updated_at, status, current_step, market, broker
		 FROM workflow_runs
		 ORDER BY created_at DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		var created, updated string
		if err := rows.Scan(&r.ID, &created, &updated, &r.Status, &r.CurrentStep, &r.Market, &r.Broker); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		r.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Count returns run totals by status.
func (h *History) Count() (total, complete int, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	row := h.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)
		 FROM workflow_runs`, StatusComplete)
	if err := row.Scan(&total, &complete); err != nil {
		return 0, 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return total, complete, nil
}

// Close closes the underlying database.
func (h *History) Close() error {
	return h.db.Close()
}
