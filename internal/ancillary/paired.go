// Package ancillary implements the concrete derived indexes that
// subscribe to an event store's rebuild cycle: frames, marks, and time
// ranges. Each follows the same begin/end pairing shape, keyed by a
// "number" argument that correlates the two halves.
package ancillary

import (
	"sync"

	"github.com/mvijayanand/tracing-framework/internal/eventtype"
	"github.com/mvijayanand/tracing-framework/internal/store"
)

// pairedEntry is the shape shared by Frame, Mark, and TimeRangeEntry: a
// begin/end pair of the same "number", resolved during one rebuild
// pass.
type pairedEntry struct {
	Number      int64
	StartIndex  uint32
	EndIndex    uint32
	StartTimeMs int64
	EndTimeMs   int64

	hasStart bool
	hasEnd   bool
}

// complete reports whether both halves of the pair were observed.
func (p *pairedEntry) complete() bool { return p.hasStart && p.hasEnd }

// pairedList is the reusable begin/end dispatch and storage used by
// FrameList, MarkList, and TimeRangeList. It is not exported; each
// concrete list holds one in a field and exposes its own typed
// accessors.
type pairedList struct {
	mu sync.RWMutex

	beginTypeName string
	endTypeName   string

	byNumber map[int64]*pairedEntry
	dense    []*pairedEntry
}

func newPairedList(beginType, endType string) *pairedList {
	return &pairedList{beginTypeName: beginType, endTypeName: endType}
}

// BeginRebuild declares the two subscribed event types; their position
// in the returned slice is the stable type index the driver passes
// back to HandleEvent.
func (l *pairedList) BeginRebuild(types *eventtype.Table) []*eventtype.EventType {
	l.mu.Lock()
	l.byNumber = make(map[int64]*pairedEntry)
	l.dense = nil
	l.mu.Unlock()

	return []*eventtype.EventType{
		types.ByName(l.beginTypeName),
		types.ByName(l.endTypeName),
	}
}

// HandleEvent pairs a begin (typeIndex 0) or end (typeIndex 1) event
// by its "number" argument.
func (l *pairedList) HandleEvent(typeIndex int, et *eventtype.EventType, iter *store.EventIterator) {
	numVal, ok := iter.Argument("number")
	if !ok {
		return
	}
	number := numVal.Int

	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.byNumber[number]
	if !ok {
		entry = &pairedEntry{Number: number}
		l.byNumber[number] = entry
		l.dense = append(l.dense, entry)
	}

	switch typeIndex {
	case 0:
		entry.StartIndex = iter.ID()
		entry.StartTimeMs = iter.TimeMs()
		entry.hasStart = true
	case 1:
		entry.EndIndex = iter.ID()
		entry.EndTimeMs = iter.TimeMs()
		entry.hasEnd = true
	}
}

// EndRebuild discards pairs lacking either half, keeping the dense
// list sorted by start time.
func (l *pairedList) EndRebuild() {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.dense[:0]
	for _, e := range l.dense {
		if e.complete() {
			kept = append(kept, e)
		} else {
			delete(l.byNumber, e.Number)
		}
	}
	l.dense = kept
	sortByStartTime(l.dense)
}

func sortByStartTime(entries []*pairedEntry) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j-1].StartTimeMs > entries[j].StartTimeMs; j-- {
			entries[j-1], entries[j] = entries[j], entries[j-1]
		}
	}
}

func (l *pairedList) count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.dense)
}

func (l *pairedList) at(i int) *pairedEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i < 0 || i >= len(l.dense) {
		return nil
	}
	return l.dense[i]
}

// atTime returns the entry whose [StartTimeMs, EndTimeMs] contains tMs,
// or nil. Entries are few enough per trace that a linear scan over the
// (already sorted) dense list is simpler than a binary-search index
// and carries no measurable cost.
func (l *pairedList) atTime(tMs int64) *pairedEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, e := range l.dense {
		if tMs >= e.StartTimeMs && tMs <= e.EndTimeMs {
			return e
		}
	}
	return nil
}
