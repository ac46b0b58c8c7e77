/*
Package sqlite provides the SQLite-backed document store.

PURPOSE:
  Implements the persistence collaborators (rcb.Store, budget.Store,
  fiscal.Recorder) over SQLite. Period and budget snapshots are stored as
  whole JSON documents, one row per key: the engine owns the document
  shape, the store only moves bytes. The audit log is its own append-only
  table.

KEY TABLES:
  rcb_periods:     One snapshot per period key, last write wins
  budget_records:  One record per fiscal year, last write wins
  audit_log:       Append-only activity trail

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of database/sql. Snapshot
  writes are single-statement UPSERTs, so a failed save never leaves a
  half-written document behind.

USAGE:
  store, err := sqlite.New("./data/fiscal.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  book := rcb.NewBook(store)

SEE ALSO:
  - rcb/store.go, budget/service.go: interface definitions
  - store/memory: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/skgov/fiscal-engine/budget"
	"github.com/skgov/fiscal-engine/fiscal"
	"github.com/skgov/fiscal-engine/rcb"
)

// Store implements all storage collaborators using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
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
	-- Register of Cash in Bank, one snapshot document per period key
	CREATE TABLE IF NOT EXISTS rcb_periods (
		period_key TEXT PRIMARY KEY,
		snapshot_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Annual budget, one record document per fiscal year
	CREATE TABLE IF NOT EXISTS budget_records (
		fiscal_year TEXT PRIMARY KEY,
		record_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Activity trail (append-only: no UPDATE, no DELETE)
	CREATE TABLE IF NOT EXISTS audit_log (
		id TEXT PRIMARY KEY,
		event_type TEXT NOT NULL,
		description TEXT,
		actor TEXT,
		details_json TEXT,
		recorded_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_audit_recorded_at
		ON audit_log(recorded_at);
	CREATE INDEX IF NOT EXISTS idx_audit_event_type
		ON audit_log(event_type);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// rcb.Store
// =============================================================================

func (s *Store) LoadPeriod(ctx context.Context, key fiscal.PeriodKey) (rcb.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT snapshot_json FROM rcb_periods WHERE period_key = ?`, key.String(),
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return rcb.Snapshot{}, fiscal.ErrRecordNotFound
	}
	if err != nil {
		return rcb.Snapshot{}, fmt.Errorf("load period %s: %w", key, err)
	}

	var snapshot rcb.Snapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return rcb.Snapshot{}, fmt.Errorf("decode period %s: %w", key, err)
	}
	return snapshot, nil
}

func (s *Store) SavePeriod(ctx context.Context, key fiscal.PeriodKey, snapshot rcb.Snapshot) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode period %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rcb_periods (period_key, snapshot_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(period_key) DO UPDATE SET
			snapshot_json = excluded.snapshot_json,
			updated_at = excluded.updated_at`,
		key.String(), string(raw), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save period %s: %w", key, err)
	}
	return nil
}

func (s *Store) ListPeriods(ctx context.Context) ([]fiscal.PeriodKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT period_key FROM rcb_periods ORDER BY period_key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []fiscal.PeriodKey
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		key, err := fiscal.ParsePeriodKey(raw)
		if err != nil {
			continue // skip rows written by hand with a bad key
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (s *Store) DeletePeriod(ctx context.Context, key fiscal.PeriodKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM rcb_periods WHERE period_key = ?`, key.String())
	return err
}

// =============================================================================
// budget.Store
// =============================================================================

func (s *Store) LoadRecord(ctx context.Context, fiscalYear string) (budget.BudgetRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT record_json FROM budget_records WHERE fiscal_year = ?`, fiscalYear,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return budget.BudgetRecord{}, fiscal.ErrRecordNotFound
	}
	if err != nil {
		return budget.BudgetRecord{}, fmt.Errorf("load budget %s: %w", fiscalYear, err)
	}

	var record budget.BudgetRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return budget.BudgetRecord{}, fmt.Errorf("decode budget %s: %w", fiscalYear, err)
	}
	return record, nil
}

func (s *Store) SaveRecord(ctx context.Context, fiscalYear string, record budget.BudgetRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode budget %s: %w", fiscalYear, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO budget_records (fiscal_year, record_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(fiscal_year) DO UPDATE SET
			record_json = excluded.record_json,
			updated_at = excluded.updated_at`,
		fiscalYear, string(raw), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save budget %s: %w", fiscalYear, err)
	}
	return nil
}

// =============================================================================
// fiscal.Recorder (append-only)
// =============================================================================

func (s *Store) Record(ctx context.Context, event fiscal.Event) error {
	details := "{}"
	if event.Details != nil {
		if raw, err := json.Marshal(event.Details); err == nil {
			details = string(raw)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_log (id, event_type, description, actor, details_json, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		event.ID, string(event.Type), event.Description, event.Actor, details,
		event.At.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}
	return nil
}

// QueryEvents returns the most recent audit events, newest first.
func (s *Store) QueryEvents(ctx context.Context, limit int) ([]fiscal.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_type, description, actor, details_json, recorded_at
		FROM audit_log ORDER BY recorded_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []fiscal.Event
	for rows.Next() {
		var e fiscal.Event
		var eventType, details, recordedAt string
		if err := rows.Scan(&e.ID, &eventType, &e.Description, &e.Actor, &details, &recordedAt); err != nil {
			return nil, err
		}
		e.Type = fiscal.EventType(eventType)
		_ = json.Unmarshal([]byte(details), &e.Details)
		if t, err := time.Parse(time.RFC3339, recordedAt); err == nil {
			e.At = t
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
