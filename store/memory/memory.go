// Package memory provides an in-memory Snapshotter for tests and
// ephemeral runs.
package memory

import (
	"context"
	"encoding/json"
	"sync"
)

// Store keeps each collection snapshot as marshaled JSON, mirroring what a
// durable adapter would persist so that round-trip behavior matches.
type Store struct {
	mu        sync.RWMutex
	snapshots map[string][]byte

	// FailSaves makes every Save return an error. Tests use it to verify
	// that persistence failures never surface from mutating operations.
	FailSaves bool
}

func New() *Store {
	return &Store{snapshots: make(map[string][]byte)}
}

func (s *Store) Load(_ context.Context, key string, out any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payload, ok := s.snapshots[key]
	if !ok {
		return nil
	}
	return json.Unmarshal(payload, out)
}

func (s *Store) Save(_ context.Context, key string, records any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailSaves {
		return errSaveFailed
	}

	payload, err := json.Marshal(records)
	if err != nil {
		return err
	}
	s.snapshots[key] = payload
	return nil
}

type saveError struct{}

func (saveError) Error() string { return "save failed" }

var errSaveFailed = saveError{}
