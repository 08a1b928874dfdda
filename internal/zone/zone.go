// Package zone implements a logical event stream — typically a thread
// or isolate — with its own event store and ancillary indexes.
package zone

import (
	"sync"

	"github.com/google/uuid"
	"github.com/mvijayanand/tracing-framework/internal/eventtype"
	"github.com/mvijayanand/tracing-framework/internal/store"
)

// Zone is the triple (name, type, location) plus exactly one event
// store and its registered ancillary indexes. Distinct zones have
// independent event stores; a zone lives as long as its database.
type Zone struct {
	ID       uuid.UUID
	Name     string
	Type     string
	Location string

	Store *store.EventStore

	mu          sync.Mutex
	invalidated chan struct{}
	valid       bool
}

// New creates an empty zone backed by the database's shared event-type
// table, so pre-declared and on-demand types resolve the same way in
// every zone.
func New(name, typ, location string, types *eventtype.Table) *Zone {
	return &Zone{
		ID:          uuid.New(),
		Name:        name,
		Type:        typ,
		Location:    location,
		Store:       store.New(types),
		invalidated: make(chan struct{}),
		valid:       true,
	}
}

// Rebuild runs the event store's three-phase rebuild and then emits
// an invalidation on success, so consumers know to re-read.
func (z *Zone) Rebuild() error {
	if err := z.Store.Rebuild(); err != nil {
		return err
	}
	z.emitInvalidated()
	return nil
}

// Invalidated returns a channel that is closed the next time this
// zone's rebuild completes; callers re-read the current channel after
// each receive, the same broadcast-and-replace pattern used for
// shutdown signaling elsewhere in this codebase.
func (z *Zone) Invalidated() <-chan struct{} {
	z.mu.Lock()
	defer z.mu.Unlock()
	return z.invalidated
}

func (z *Zone) emitInvalidated() {
	z.mu.Lock()
	defer z.mu.Unlock()
	close(z.invalidated)
	z.invalidated = make(chan struct{})
}

// Invalidate marks the zone unusable after a resource-exhaustion
// failure. Existing committed data remains readable.
func (z *Zone) Invalidate() {
	z.mu.Lock()
	z.valid = false
	z.mu.Unlock()
	z.emitInvalidated()
}

// Valid reports whether the zone has not been marked invalid by
// Invalidate. Insertion does not consult it.
func (z *Zone) Valid() bool {
	z.mu.Lock()
	defer z.mu.Unlock()
	return z.valid
}
