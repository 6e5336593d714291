/*
Package sqlite provides a SQLite-backed payroll.Cache.

PURPOSE:
  Persists memoized computations across restarts. A computation is keyed
  by the input fingerprint, which already carries the engine version, so a
  row never needs updating: a rule change produces new fingerprints and the
  old rows age out through Prune.

KEY TABLES:
  computations: fingerprint -> output JSON, hit counter, timestamps
  prune_runs:   audit trail of the cache maintenance job

CONCURRENCY:
  Uses sync.RWMutex around the connection. Get takes the write lock because
  a hit also bumps the counter.

WAL MODE:
  File databases are opened with WAL. ":memory:" is pinned to a single
  connection, otherwise every pooled connection would see its own empty
  database.

USAGE:
  store, err := sqlite.New("./data/netpay.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  memo := payroll.NewMemo(store)

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - payroll/memo.go: Cache interface and fingerprints
  - store/memory: In-process implementation
  - api/pruner.go: Scheduled Prune
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/netpay-engine/payroll"
)

// Store implements payroll.Cache using SQLite.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	misses atomic.Int64
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000"
	if dbPath == ":memory:" {
		dsn = dbPath
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Memoized computations
	CREATE TABLE IF NOT EXISTS computations (
		fingerprint TEXT PRIMARY KEY,
		fiscal_year INTEGER NOT NULL,
		output_json TEXT NOT NULL,
		hits INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		last_hit_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_computations_created_at
		ON computations(created_at);

	-- Cache maintenance audit
	CREATE TABLE IF NOT EXISTS prune_runs (
		id TEXT PRIMARY KEY,
		cutoff TEXT NOT NULL,
		status TEXT NOT NULL,
		removed INTEGER NOT NULL DEFAULT 0,
		error TEXT,
		started_at TEXT NOT NULL,
		completed_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_prune_runs_started_at
		ON prune_runs(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// COMPUTATIONS - payroll.Cache
// =============================================================================

// Get returns payroll.ErrCacheMiss for an unknown fingerprint and counts
// a hit otherwise.
func (s *Store) Get(ctx context.Context, fingerprint string) (payroll.Output, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT output_json FROM computations WHERE fingerprint = ?`, fingerprint,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		s.misses.Add(1)
		return payroll.Output{}, payroll.ErrCacheMiss
	}
	if err != nil {
		return payroll.Output{}, err
	}

	var out payroll.Output
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return payroll.Output{}, fmt.Errorf("decode cached output %s: %w", fingerprint, err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE computations SET hits = hits + 1, last_hit_at = ? WHERE fingerprint = ?`,
		time.Now().UTC().Format(time.RFC3339), fingerprint,
	)
	return out, err
}

// Put stores out. An existing row keeps its counters.
func (s *Store) Put(ctx context.Context, fingerprint string, out payroll.Output) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO computations (fingerprint, fiscal_year, output_json, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(fingerprint) DO UPDATE SET output_json = excluded.output_json
	`, fingerprint, out.FiscalYear, string(raw), time.Now().UTC().Format(time.RFC3339))
	return err
}

// Hits returns the hit counter of one computation.
func (s *Store) Hits(ctx context.Context, fingerprint string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var hits int64
	err := s.db.QueryRowContext(ctx,
		`SELECT hits FROM computations WHERE fingerprint = ?`, fingerprint,
	).Scan(&hits)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, payroll.ErrCacheMiss
	}
	return hits, err
}

// Stats summarises the table. Misses are counted since the store opened.
func (s *Store) Stats(ctx context.Context) (payroll.CacheStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st payroll.CacheStats
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(hits), 0) FROM computations`,
	).Scan(&st.Entries, &st.Hits)
	if err != nil {
		return payroll.CacheStats{}, err
	}
	st.Misses = s.misses.Load()
	return st, nil
}

// Prune deletes computations created before cutoff and returns how many
// rows went away.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM computations WHERE created_at < ?`,
		cutoff.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Reset clears all data. Use with caution!
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM computations; DELETE FROM prune_runs;`)
	if err == nil {
		s.misses.Store(0)
	}
	return err
}

// =============================================================================
// PRUNE RUNS
// =============================================================================

// PruneRun records one execution of the maintenance job.
type PruneRun struct {
	ID          string     `json:"id"`
	Cutoff      time.Time  `json:"cutoff"`
	Status      string     `json:"status"` // running, completed, failed
	Removed     int64      `json:"removed"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// SavePruneRun inserts or updates a run.
func (s *Store) SavePruneRun(ctx context.Context, r PruneRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO prune_runs (id, cutoff, status, removed, error, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			removed = excluded.removed,
			error = excluded.error,
			completed_at = excluded.completed_at
	`

	var completedAt *string
	if r.CompletedAt != nil {
		s := r.CompletedAt.UTC().Format(time.RFC3339)
		completedAt = &s
	}

	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.Cutoff.UTC().Format(time.RFC3339), r.Status, r.Removed,
		nullString(r.Error), r.StartedAt.UTC().Format(time.RFC3339), completedAt,
	)
	return err
}

// GetPruneRuns returns the most recent runs first.
func (s *Store) GetPruneRuns(ctx context.Context, limit int) ([]PruneRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, cutoff, status, removed, error, started_at, completed_at
		FROM prune_runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []PruneRun
	for rows.Next() {
		var r PruneRun
		var cutoff, startedAt string
		var errText, completedAt sql.NullString
		if err := rows.Scan(&r.ID, &cutoff, &r.Status, &r.Removed, &errText, &startedAt, &completedAt); err != nil {
			return nil, err
		}

		if r.Cutoff, err = time.Parse(time.RFC3339, cutoff); err != nil {
			return nil, fmt.Errorf("prune run %s: cutoff: %w", r.ID, err)
		}
		if r.StartedAt, err = time.Parse(time.RFC3339, startedAt); err != nil {
			return nil, fmt.Errorf("prune run %s: started_at: %w", r.ID, err)
		}
		r.Error = errText.String
		if completedAt.Valid {
			t, err := time.Parse(time.RFC3339, completedAt.String)
			if err != nil {
				return nil, fmt.Errorf("prune run %s: completed_at: %w", r.ID, err)
			}
			r.CompletedAt = &t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
