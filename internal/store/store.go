package store

import (
	"sync"

	"github.com/mvijayanand/tracing-framework/internal/argdata"
	"github.com/mvijayanand/tracing-framework/internal/errors"
	"github.com/mvijayanand/tracing-framework/internal/eventtype"
)

// Well-known type names the rescope pass dispatches on. The store never
// defines these types itself: they are interned by whatever ingests an
// event of that name, and rescope recognizes them by name.
const (
	TypeScopeEnter      = "wtf.scope#enter"
	TypeScopeLeave      = "wtf.scope#leave"
	TypeScopeAppendData = "wtf.scope#appendData"
	TypeTraceTimeStamp  = "wtf.trace#timeStamp"
)

// EventStore is a growable column buffer of fixed-width event records
// plus the per-store argument intern table, cached first/last times,
// and the maximum observed scope depth.
type EventStore struct {
	mu sync.Mutex

	types *eventtype.Table
	args  *argdata.InternTable
	buf   *recordBuffer

	firstTimeUs int64
	lastTimeUs  int64
	maxDepth    uint32

	// committed is the count as of the last successful Rebuild; records
	// at [committed, buf.count) are unsorted appends awaiting rebuild.
	committed uint32

	ancillary []AncillaryIndex

	generation uint64 // bumped on every reallocation or Rebuild
}

// New creates an empty event store backed by the given (shared)
// event-type table — types have database lifetime, stores have zone
// lifetime.
func New(types *eventtype.Table) *EventStore {
	return &EventStore{
		types: types,
		args:  argdata.NewInternTable(),
		buf:   newRecordBuffer(),
	}
}

// Insert appends a record with PARENT = sentinel, NEXT_SIBLING = 0,
// END_TIME = 0. No ordering guarantees hold until Rebuild runs.
func (s *EventStore) Insert(et *eventtype.EventType, timeUs int64, args *argdata.ArgumentData) {
	s.mu.Lock()
	defer s.mu.Unlock()

	grew := s.buf.reserve(s.buf.count + 1)
	if grew {
		s.generation++
	}

	r, _ := s.buf.append()
	r.setID(0xFFFFFFFF) // renumbered on Rebuild
	r.setType(et.ID)
	r.setParent(parentSentinel)
	r.setTime(uint32(timeUs))
	r.setNextSibling(0)
	r.setArguments(s.args.Intern(args))
}

// Count returns the number of records currently held, committed or not.
func (s *EventStore) Count() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.count
}

// MaxDepth returns the maximum scope nesting depth observed by the
// last Rebuild.
func (s *EventStore) MaxDepth() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxDepth
}

// FirstTimeMs / LastTimeMs return the cached bounds of the last
// Rebuild, in milliseconds. The store keeps microseconds internally;
// every public time accessor converts at the boundary.
func (s *EventStore) FirstTimeMs() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.firstTimeUs / 1000
}

func (s *EventStore) LastTimeMs() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTimeUs / 1000
}

// RawCells returns a copy of the committed records' packed cells, 12
// uint32 per record in post-sort order. Used by the storage-snapshot
// interface to serialize a zone without re-deriving iterator state.
func (s *EventStore) RawCells() []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]uint32, int(s.committed)*structSize)
	copy(out, s.buf.cells[:int(s.committed)*structSize])
	return out
}

// GetArguments returns the interned argument bag for id, or nil.
func (s *EventStore) GetArguments(id uint32) *argdata.ArgumentData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.args.Get(id)
}

// RegisterAncillary subscribes idx to this store. If the store already
// has committed events, a single-index rebuild runs immediately,
// reusing the same dispatch mechanism as a full Rebuild.
func (s *EventStore) RegisterAncillary(idx AncillaryIndex) {
	s.mu.Lock()
	hadCommitted := s.committed > 0
	s.ancillary = append(s.ancillary, idx)
	committed := s.committed
	s.mu.Unlock()

	if hadCommitted {
		s.runAncillaryRebuild([]AncillaryIndex{idx}, committed)
	}
}

// UnregisterAncillary removes idx from the subscriber list.
func (s *EventStore) UnregisterAncillary(idx AncillaryIndex) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.ancillary {
		if a == idx {
			s.ancillary = append(s.ancillary[:i], s.ancillary[i+1:]...)
			return
		}
	}
}

// Rebuild runs the three phases in order: resort, re-scope, ancillary
// rebuild. It must run to completion without yielding; no reader may
// hold an iterator across this call.
func (s *EventStore) Rebuild() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.buf.count == 0 {
		s.committed = 0
		return nil
	}

	if err := s.resort(); err != nil {
		return errors.NewStoreError(errors.CodeCapacityExhausted, "resort failed", err)
	}
	s.rescope()
	s.committed = s.buf.count
	s.generation++

	s.runAncillaryRebuildLocked(s.ancillary, s.committed)
	return nil
}
