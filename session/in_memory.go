package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hupe1980/researchmesh/core"
)

// InMemoryStore is a volatile SessionStore implementation storing records in
// a process local map. It is safe for concurrent access and best suited for
// tests or ephemeral demo servers. Returned records are copies, preventing
// external mutation of internal state.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]core.Record
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]core.Record)}
}

// Save persists a completed run and returns the stored record.
func (s *InMemoryStore) Save(_ context.Context, query, report, ownerID string) (*core.Record, error) {
	rec := core.Record{
		ID:        core.NewID(),
		OwnerID:   ownerID,
		Query:     query,
		Report:    report,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.records[rec.ID] = rec
	s.mu.Unlock()
	return &rec, nil
}

// List returns the owner's records, most recent first.
func (s *InMemoryStore) List(_ context.Context, ownerID string) ([]core.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Record, 0)
	for _, rec := range s.records {
		if rec.OwnerID == ownerID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Get returns a single record or core.ErrRecordNotFound. Records owned by a
// different owner are reported as absent.
func (s *InMemoryStore) Get(_ context.Context, id, ownerID string) (*core.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok || rec.OwnerID != ownerID {
		return nil, core.ErrRecordNotFound
	}
	return &rec, nil
}

// Delete removes a record, reporting whether a record was deleted.
func (s *InMemoryStore) Delete(_ context.Context, id, ownerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok || rec.OwnerID != ownerID {
		return false, nil
	}
	delete(s.records, id)
	return true, nil
}
