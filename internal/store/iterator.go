package store

import (
	"github.com/mvijayanand/tracing-framework/internal/argdata"
	"github.com/mvijayanand/tracing-framework/internal/eventtype"
	"github.com/mvijayanand/tracing-framework/pkg/tracetypes"
)

// EventIterator is a cursor into an event store, bounded by
// [firstIndex, lastIndex]. When order is non-nil it advances through
// that explicit index order instead of raw index order — used by
// query results.
//
// Iterators capture the backing buffer identity (via generation) at
// construction time. They are invalidated by the next Rebuild or by
// an Insert that grows capacity; after invalidation, accessor methods
// return zero values rather than panicking.
type EventIterator struct {
	store      *EventStore
	cells      []uint32
	generation uint64

	firstIndex uint32
	lastIndex  uint32
	order      []uint32 // optional indirection table
	pos        int      // position within order, if set

	cur   uint32
	atEnd bool

	cachedParent *EventIterator
}

func (s *EventStore) newIteratorLocked(first, last uint32) *EventIterator {
	it := &EventIterator{
		store:      s,
		cells:      s.buf.cells,
		generation: s.generation,
		firstIndex: first,
		lastIndex:  last,
	}
	if s.committed == 0 {
		it.atEnd = true
		return it
	}
	it.cur = first
	return it
}

func (s *EventStore) newOrderedIteratorLocked(order []uint32) *EventIterator {
	it := &EventIterator{
		store:      s,
		cells:      s.buf.cells,
		generation: s.generation,
		order:      order,
	}
	if len(order) == 0 {
		it.atEnd = true
		return it
	}
	it.cur = order[0]
	return it
}

// Begin returns an iterator over the full committed range of the
// store.
func (s *EventStore) Begin() *EventIterator {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.committed == 0 {
		return s.newIteratorLocked(0, 0)
	}
	return s.newIteratorLocked(0, s.committed-1)
}

// BeginEventRange returns an iterator bounded to [lo, hi] inclusive.
func (s *EventStore) BeginEventRange(lo, hi uint32) *EventIterator {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.committed == 0 {
		return s.newIteratorLocked(0, 0)
	}
	if hi >= s.committed {
		hi = s.committed - 1
	}
	return s.newIteratorLocked(lo, hi)
}

// BeginOrdered returns an iterator that walks the given explicit
// record-index order, used by query results.
func (s *EventStore) BeginOrdered(order []uint32) *EventIterator {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.newOrderedIteratorLocked(order)
}

// GetEvent returns an iterator positioned at exactly record id.
func (s *EventStore) GetEvent(id uint32) *EventIterator {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.committed == 0 || id >= s.committed {
		it := s.newIteratorLocked(0, 0)
		it.atEnd = true
		return it
	}
	it := s.newIteratorLocked(0, s.committed-1)
	it.cur = id
	return it
}

// valid reports whether the iterator's backing buffer is still
// current; a stale iterator behaves as an empty/done cursor rather
// than crashing.
func (it *EventIterator) valid() bool {
	return it.store != nil && it.generation == it.store.generation
}

func (it *EventIterator) rec() record {
	return recordAt(it.cells, it.cur)
}

// Done reports whether the cursor has advanced past its bound.
func (it *EventIterator) Done() bool {
	return it.atEnd || !it.valid()
}

// Seek repositions the cursor at record index i (or at position i
// within the indirection table, if one is set).
func (it *EventIterator) Seek(i uint32) {
	if !it.valid() {
		it.atEnd = true
		return
	}
	if it.order != nil {
		if int(i) >= len(it.order) {
			it.atEnd = true
			return
		}
		it.pos = int(i)
		it.cur = it.order[i]
		it.atEnd = false
		return
	}
	it.cur = i
	it.atEnd = i < it.firstIndex || i > it.lastIndex
}

// Next advances to the following record in the iterator's order.
func (it *EventIterator) Next() {
	if it.Done() {
		return
	}
	if it.order != nil {
		it.pos++
		if it.pos >= len(it.order) {
			it.atEnd = true
			return
		}
		it.cur = it.order[it.pos]
		return
	}
	if it.cur >= it.lastIndex {
		it.atEnd = true
		return
	}
	it.cur++
}

// NextScope advances to the next record whose END_TIME cell is
// non-zero.
func (it *EventIterator) NextScope() {
	for {
		it.Next()
		if it.Done() || it.IsScope() {
			return
		}
	}
}

// NextInstance advances to the next record whose END_TIME cell is
// zero.
func (it *EventIterator) NextInstance() {
	for {
		it.Next()
		if it.Done() || it.IsInstance() {
			return
		}
	}
}

// NextSibling follows the NEXT_SIBLING cell, or marks the cursor done
// if it is 0 (last sibling).
func (it *EventIterator) NextSibling() {
	if it.Done() {
		return
	}
	next := it.rec().nextSibling()
	if next == 0 {
		it.atEnd = true
		return
	}
	it.order = nil
	it.cur = next
}

// MoveToParent follows the PARENT cell, or marks the cursor done at a
// root record.
func (it *EventIterator) MoveToParent() {
	if it.Done() {
		return
	}
	p := it.rec().parent()
	if p == parentSentinel {
		it.atEnd = true
		return
	}
	it.order = nil
	it.cur = p
}

// Parent returns an iterator at this record's parent. With fast=true
// the cursor's own cached parent iterator is reused instead of
// allocating a new one; the caller must not retain the returned
// cursor across another Parent(true) call on the same iterator.
func (it *EventIterator) Parent(fast bool) *EventIterator {
	if it.Done() {
		return nil
	}
	p := it.rec().parent()
	if p == parentSentinel {
		return nil
	}
	if fast {
		if it.cachedParent == nil {
			it.cachedParent = &EventIterator{store: it.store, cells: it.cells, generation: it.generation, firstIndex: it.firstIndex, lastIndex: it.lastIndex}
		}
		it.cachedParent.cur = p
		it.cachedParent.atEnd = false
		return it.cachedParent
	}
	return &EventIterator{store: it.store, cells: it.cells, generation: it.generation, firstIndex: it.firstIndex, lastIndex: it.lastIndex, cur: p}
}

// ID returns the record's self-referential index.
func (it *EventIterator) ID() uint32 {
	if it.Done() {
		return 0
	}
	return it.rec().id()
}

func (it *EventIterator) eventType() *eventtype.EventType {
	if it.Done() {
		return nil
	}
	return it.store.types.ByID(it.rec().typ())
}

// TypeName returns the interned name of this record's event type.
func (it *EventIterator) TypeName() string {
	if et := it.eventType(); et != nil {
		return et.Name
	}
	return ""
}

// TypeFlags implements tracetypes.EventView.
func (it *EventIterator) TypeFlags() tracetypes.TypeFlags {
	if et := it.eventType(); et != nil {
		return et.Flags
	}
	return 0
}

// IsScope reports whether this record's END_TIME cell is non-zero.
func (it *EventIterator) IsScope() bool {
	if it.Done() {
		return false
	}
	return it.rec().isScope()
}

// IsInstance reports whether this record's END_TIME cell is zero.
func (it *EventIterator) IsInstance() bool {
	if it.Done() {
		return false
	}
	return !it.rec().isScope()
}

// Depth returns the nesting depth from the root (root = 0).
func (it *EventIterator) Depth() uint32 {
	if it.Done() {
		return 0
	}
	return it.rec().depth()
}

// TimeMs returns the record's start/occurrence time in milliseconds
// (the store keeps microseconds internally).
func (it *EventIterator) TimeMs() int64 {
	if it.Done() {
		return 0
	}
	return int64(it.rec().time()) / 1000
}

// EndTimeMs returns the scope end time in milliseconds, or 0 for an
// instance event.
func (it *EventIterator) EndTimeMs() int64 {
	if it.Done() {
		return 0
	}
	return int64(it.rec().endTime()) / 1000
}

// TotalDurationMs = END_TIME - TIME.
func (it *EventIterator) TotalDurationMs() float64 {
	if it.Done() || !it.IsScope() {
		return 0
	}
	r := it.rec()
	return float64(r.endTime()-r.time()) / 1000
}

// UserDurationMs = total - SYSTEM_TIME.
func (it *EventIterator) UserDurationMs() float64 {
	if it.Done() || !it.IsScope() {
		return 0
	}
	r := it.rec()
	totalUs := float64(r.endTime() - r.time())
	return (totalUs - float64(r.systemTime())) / 1000
}

// OwnDurationMs = total - CHILD_TIME.
func (it *EventIterator) OwnDurationMs() float64 {
	if it.Done() || !it.IsScope() {
		return 0
	}
	r := it.rec()
	totalUs := float64(r.endTime() - r.time())
	return (totalUs - float64(r.childTime())) / 1000
}

// TotalDurationUs / UserDurationUs return the same quantities as
// TotalDurationMs / UserDurationMs in whole microseconds, avoiding the
// float round-trip through milliseconds — used by the statistics
// aggregator, which must sum exact microsecond durations.
func (it *EventIterator) TotalDurationUs() uint32 {
	if it.Done() || !it.IsScope() {
		return 0
	}
	r := it.rec()
	return r.endTime() - r.time()
}

func (it *EventIterator) UserDurationUs() uint32 {
	if it.Done() || !it.IsScope() {
		return 0
	}
	r := it.rec()
	return (r.endTime() - r.time()) - r.systemTime()
}

// Arguments returns the record's interned argument bag, or nil.
func (it *EventIterator) Arguments() *argdata.ArgumentData {
	if it.Done() {
		return nil
	}
	return it.store.args.Get(it.rec().arguments())
}

// Argument looks up a single named argument on this record.
func (it *EventIterator) Argument(key string) (argdata.Value, bool) {
	args := it.Arguments()
	if args == nil {
		return argdata.Value{}, false
	}
	return args.Get(key)
}

// GetTag / SetTag expose the application-defined TAG cell.
func (it *EventIterator) GetTag() uint32 {
	if it.Done() {
		return 0
	}
	return it.rec().tag()
}

func (it *EventIterator) SetTag(v uint32) {
	if it.Done() {
		return
	}
	it.rec().setTag(v)
}

// Value returns the application-opaque VALUE cell.
func (it *EventIterator) Value() uint32 {
	if it.Done() {
		return 0
	}
	return it.rec().value()
}
