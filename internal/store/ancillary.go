package store

import "github.com/mvijayanand/tracing-framework/internal/eventtype"

// AncillaryIndex is the pluggable contract by which derived lists
// (frames, marks, time ranges) subscribe to specific event types and
// are rebuilt after every ingestion batch. Concrete implementations
// live in internal/ancillary; the interface is declared here, at the
// producer, to avoid an import cycle between the store and its
// subscribers.
type AncillaryIndex interface {
	// BeginRebuild declares the event types this index cares about.
	// The position of each returned type in the slice is the stable
	// type_index passed back on HandleEvent; a nil entry means "not
	// yet defined in this database" and will never be dispatched.
	BeginRebuild(types *eventtype.Table) []*eventtype.EventType

	// HandleEvent is invoked once per matching event in post-sort
	// order. iter must not be advanced by the implementation; the
	// driver performs a fresh Seek between dispatches.
	HandleEvent(typeIndex int, et *eventtype.EventType, iter *EventIterator)

	// EndRebuild finalizes the index after the last HandleEvent of a
	// pass. Neither the store nor the lists in internal/ancillary emit
	// a per-index invalidation; the zone's Invalidated channel fires
	// after a full Rebuild, not after a late-registration rebuild.
	EndRebuild()
}
