// Package store persists calendar events to a document store. The web layer
// talks to the Store interface only; MongoStore is the production
// implementation.
package store

import (
	"context"
	"errors"
	"time"

	"calweb/internal/model"
)

// ErrNotFound is returned when an event does not exist or is soft-deleted.
var ErrNotFound = errors.New("event not found")

// Store is the persistence collaborator for calendar events.
type Store interface {
	// Create inserts a new event and returns it with its assigned ID and
	// timestamps populated.
	Create(ctx context.Context, ev *model.Event) (*model.Event, error)

	// Get returns a single event by its hex ID.
	Get(ctx context.Context, id string) (*model.Event, error)

	// Update replaces the mutable fields of an existing event.
	Update(ctx context.Context, id string, ev *model.Event) (*model.Event, error)

	// Delete soft-deletes an event. The tombstone is removed permanently
	// by PurgeDeleted.
	Delete(ctx context.Context, id string) error

	// List returns events overlapping [from, to), ordered by start time.
	List(ctx context.Context, from, to time.Time) ([]model.Event, error)

	// PurgeDeleted permanently removes tombstones older than the given
	// cutoff and reports how many were removed.
	PurgeDeleted(ctx context.Context, olderThan time.Time) (int64, error)
}
