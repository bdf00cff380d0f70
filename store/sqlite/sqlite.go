/*
Package sqlite provides the SQLite-backed Snapshotter.

PURPOSE:
  Durable session persistence for the bank's four collections. Each
  collection is stored as a single JSON payload row keyed by collection
  name: load once at startup, replace on every save. This mirrors the
  key-value snapshot contract rather than normalizing records into tables -
  the in-memory core is the source of truth and the store is only asked to
  get the last session back.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so frequent snapshot
  writes don't block concurrent readers and crash recovery is cleaner.

CONCURRENCY:
  Uses sync.RWMutex around the connection. The core already serializes
  mutations, so this guards only direct store users (tests, tooling).

USAGE:
  store, err := sqlite.New("./data/bank.db")   // or ":memory:"
  if err != nil { log.Fatal(err) }
  defer store.Close()
  bank, err := ledger.NewBank(ctx, store)

SEE ALSO:
  - ledger/snapshot.go: the Snapshotter contract
  - store/memory: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store implements ledger.Snapshotter on a SQLite database.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the database at dbPath and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
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

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		collection TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		saved_at   TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load unmarshals the stored snapshot for key into out. A missing row is
// not an error: the caller's default (empty) collection stands.
func (s *Store) Load(ctx context.Context, key string, out any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM snapshots WHERE collection = ?", key,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load snapshot %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("failed to decode snapshot %s: %w", key, err)
	}
	return nil
}

// Save replaces the snapshot for key with the given records.
func (s *Store) Save(ctx context.Context, key string, records any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot %s: %w", key, err)
	}

	query := `
		INSERT INTO snapshots (collection, payload, saved_at)
		VALUES (?, ?, ?)
		ON CONFLICT(collection) DO UPDATE SET
			payload = excluded.payload,
			saved_at = excluded.saved_at
	`
	_, err = s.db.ExecContext(ctx, query,
		key, string(payload), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", key, err)
	}
	return nil
}
