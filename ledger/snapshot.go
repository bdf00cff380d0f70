/*
snapshot.go - Persistence contract for the four collections

PURPOSE:
  The Bank persists each collection as a whole snapshot under a well-known
  key: load once at startup, save after every mutation. Durability is
  best-effort; a failed save is logged and the in-memory state remains the
  source of truth for the session.

IMPLEMENTATIONS:
  - store/memory: map-backed, for tests and ephemeral runs
  - store/sqlite: one JSON payload row per collection

SEE ALSO:
  - core.go: calls Load in NewBank and Save after each mutation
*/
package ledger

import "context"

// Collection keys. One snapshot per key.
const (
	KeyAccounts     = "bankAccounts"
	KeyTransactions = "bankTransactions"
	KeyLoans        = "bankLoans"
	KeyCredits      = "bankCredits"
)

// Snapshotter loads and saves whole collections keyed by name.
//
// Load unmarshals the stored snapshot for key into out (a pointer to a
// slice); a missing key leaves out untouched so the caller's default stands.
// Save replaces the snapshot for key with records.
type Snapshotter interface {
	Load(ctx context.Context, key string, out any) error
	Save(ctx context.Context, key string, records any) error
}

// NopSnapshotter discards saves and loads nothing. Useful when a caller
// wants a purely in-memory Bank without wiring a store.
type NopSnapshotter struct{}

func (NopSnapshotter) Load(context.Context, string, any) error { return nil }
func (NopSnapshotter) Save(context.Context, string, any) error { return nil }
