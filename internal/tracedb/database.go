// Package tracedb implements the top-level database: zone registry,
// ingestion orchestration, and aggregated invalidation.
package tracedb

import (
	"sort"
	"sync"

	"github.com/mvijayanand/tracing-framework/internal/argdata"
	"github.com/mvijayanand/tracing-framework/internal/errors"
	"github.com/mvijayanand/tracing-framework/internal/eventtype"
	"github.com/mvijayanand/tracing-framework/internal/zone"
)

// Database owns one shared event-type table and any number of zones,
// created lazily as data sources reference them by name.
type Database struct {
	mu    sync.Mutex
	types *eventtype.Table
	zones map[string]*zone.Zone

	invalidated chan struct{}
}

// New creates an empty database.
func New() *Database {
	return &Database{
		types:       eventtype.New(),
		zones:       make(map[string]*zone.Zone),
		invalidated: make(chan struct{}),
	}
}

// Types returns the shared event-type table (implements
// source.EventSink).
func (d *Database) Types() *eventtype.Table {
	return d.types
}

// AddEvent implements source.EventSink: it resolves (or creates) the
// named zone and inserts the event into its store. A zone created here
// gets the zone reference as its type and an empty location; callers
// that need richer zone
// metadata should call EnsureZone directly before ingestion.
func (d *Database) AddEvent(zoneRef string, et *eventtype.EventType, timeUs int64, args *argdata.ArgumentData) {
	z := d.EnsureZone(zoneRef, zoneRef, "")
	z.Store.Insert(et, timeUs, args)
}

// EnsureZone returns the named zone, creating it on first reference.
func (d *Database) EnsureZone(name, typ, location string) *zone.Zone {
	d.mu.Lock()
	defer d.mu.Unlock()
	if z, ok := d.zones[name]; ok {
		return z
	}
	z := zone.New(name, typ, location, d.types)
	d.zones[name] = z
	return z
}

// Zone returns the named zone, or nil if it does not exist.
func (d *Database) Zone(name string) *zone.Zone {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.zones[name]
}

// Zones returns every zone, ordered by name for deterministic
// iteration (query scans and stats walks depend on a stable order).
func (d *Database) Zones() []*zone.Zone {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*zone.Zone, 0, len(d.zones))
	for _, z := range d.zones {
		out = append(out, z)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Commit rebuilds every zone's event store in turn, then emits the
// database's own invalidation aggregating all zones.
//
// A zone whose rebuild fails is marked invalid rather than aborting
// the whole commit; its existing committed data remains readable.
func (d *Database) Commit() error {
	zones := d.Zones()

	var firstErr error
	for _, z := range zones {
		if err := z.Rebuild(); err != nil {
			z.Invalidate()
			if firstErr == nil {
				firstErr = errors.Wrap(errors.CategoryStore, errors.CodeCapacityExhausted, "zone rebuild failed: "+z.Name, err)
			}
		}
	}

	d.emitInvalidated()
	return firstErr
}

// Invalidated returns a channel closed the next time Commit completes.
func (d *Database) Invalidated() <-chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.invalidated
}

func (d *Database) emitInvalidated() {
	d.mu.Lock()
	defer d.mu.Unlock()
	close(d.invalidated)
	d.invalidated = make(chan struct{})
}
