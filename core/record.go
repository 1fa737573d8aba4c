package core

import (
	"context"
	"fmt"
	"time"
)

// ErrRecordNotFound is returned when a record for the given id / owner pair
// does not exist in the underlying store.
var ErrRecordNotFound = fmt.Errorf("record not found")

// Record is a completed research session as persisted by a SessionStore.
type Record struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Query     string    `json:"query"`
	Report    string    `json:"report"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionStore persists completed research sessions. All operations are
// scoped to an owner identity; implementations must reject cross-owner access
// by treating foreign records as absent.
type SessionStore interface {
	// Save persists a completed run and returns the stored record.
	Save(ctx context.Context, query, report, ownerID string) (*Record, error)
	// List returns the owner's records, most recent first.
	List(ctx context.Context, ownerID string) ([]Record, error)
	// Get returns a single record or ErrRecordNotFound.
	Get(ctx context.Context, id, ownerID string) (*Record, error)
	// Delete removes a record, reporting whether a record was deleted.
	Delete(ctx context.Context, id, ownerID string) (bool, error)
}
