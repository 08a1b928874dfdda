// Package stats implements the statistics aggregator: per-event-type
// counters and a latency histogram, rebuilt over a time window and
// walked in one of three sort orders.
package stats

import (
	"math"
	"sort"
	"sync"

	"github.com/mvijayanand/tracing-framework/internal/zone"
	"github.com/mvijayanand/tracing-framework/pkg/tracetypes"
)

const histogramBuckets = 1000

// EntryKind distinguishes a ScopeEntry's duration-bearing bookkeeping
// from an InstanceEntry's plain count.
type EntryKind int

const (
	KindScope EntryKind = iota
	KindInstance
)

// Entry is one event type's accumulated statistics. Scope types carry
// duration totals and a histogram; instance types carry only a count.
type Entry struct {
	TypeName string
	Flags    tracetypes.TypeFlags
	Kind     EntryKind

	Count       uint64
	totalTimeUs uint64
	userTimeUs  uint64
	buckets     [histogramBuckets]uint64
}

// TotalTimeMs / UserTimeMs return the summed durations in
// milliseconds.
func (e *Entry) TotalTimeMs() float64 { return float64(e.totalTimeUs) / 1000 }
func (e *Entry) UserTimeMs() float64  { return float64(e.userTimeUs) / 1000 }

// MeanTimeMs implements the mean-time sort key: total_time/count for
// SYSTEM_TIME-flagged types, user_time/count otherwise.
func (e *Entry) MeanTimeMs() float64 {
	if e.Count == 0 {
		return 0
	}
	if e.Flags.Has(tracetypes.FlagSystemTime) {
		return e.TotalTimeMs() / float64(e.Count)
	}
	return e.UserTimeMs() / float64(e.Count)
}

// Bucket returns the count of scope occurrences whose user duration
// rounds to i milliseconds, 0 <= i < 1000.
func (e *Entry) Bucket(i int) uint64 {
	if i < 0 || i >= histogramBuckets {
		return 0
	}
	return e.buckets[i]
}

// Frequency computes count / (windowEndMs - windowStartMs), the
// events-per-millisecond rate over the window the entry was built
// from; zero-width windows return 0.
func (e *Entry) Frequency(windowStartMs, windowEndMs int64) float64 {
	width := windowEndMs - windowStartMs
	if width <= 0 {
		return 0
	}
	return float64(e.Count) / float64(width)
}

// Aggregator accumulates per-type statistics over a time window across
// any number of zones.
type Aggregator struct {
	mu sync.Mutex

	entries  map[string]*Entry
	order    []*Entry
	startMs  int64
	endMs    int64
	lastSort tracetypes.SortMode
	sorted   bool
}

// New creates an empty aggregator.
func New() *Aggregator {
	return &Aggregator{entries: make(map[string]*Entry)}
}

// Rebuild walks each zone's [startMs, endMs] time range, skipping
// events carrying the INTERNAL or BUILTIN flag and any event rejected
// by filter, accumulating one Entry per distinct event type.
func (a *Aggregator) Rebuild(zones []*zone.Zone, startMs, endMs int64, filter tracetypes.Filter) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.entries = make(map[string]*Entry)
	a.order = nil
	a.startMs, a.endMs = startMs, endMs
	a.sorted = false

	for _, z := range zones {
		it := z.Store.BeginTimeRange(startMs, endMs, false)
		for !it.Done() {
			flags := it.TypeFlags()
			if flags.Has(tracetypes.FlagInternal) || flags.Has(tracetypes.FlagBuiltin) {
				it.Next()
				continue
			}
			if filter != nil && !filter(it) {
				it.Next()
				continue
			}
			a.record(it.TypeName(), flags, it.IsScope(), it.UserDurationUs(), it.TotalDurationUs())
			it.Next()
		}
	}
}

func (a *Aggregator) record(name string, flags tracetypes.TypeFlags, isScope bool, userUs, totalUs uint32) {
	e, ok := a.entries[name]
	if !ok {
		kind := KindInstance
		if isScope {
			kind = KindScope
		}
		e = &Entry{TypeName: name, Flags: flags, Kind: kind}
		a.entries[name] = e
		a.order = append(a.order, e)
	}
	e.Count++
	if !isScope {
		return
	}
	e.totalTimeUs += uint64(totalUs)
	e.userTimeUs += uint64(userUs)
	bucket := int(math.Round(float64(userUs) / 1000))
	if bucket > histogramBuckets-1 {
		bucket = histogramBuckets - 1
	}
	if bucket < 0 {
		bucket = 0
	}
	e.buckets[bucket]++
}

// Get returns the entry for a type name, or nil.
func (a *Aggregator) Get(name string) *Entry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.entries[name]
}

// Len returns the number of distinct event types with an entry.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.order)
}

// ForEach sorts the internal list lazily — only when sortMode differs
// from the last call — and invokes cb for every entry in that order.
func (a *Aggregator) ForEach(sortMode tracetypes.SortMode, cb func(*Entry)) {
	a.mu.Lock()
	if !a.sorted || a.lastSort != sortMode {
		sortEntries(a.order, sortMode)
		a.lastSort = sortMode
		a.sorted = true
	}
	snapshot := make([]*Entry, len(a.order))
	copy(snapshot, a.order)
	a.mu.Unlock()

	for _, e := range snapshot {
		cb(e)
	}
}

func sortEntries(entries []*Entry, mode tracetypes.SortMode) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch mode {
		case tracetypes.SortByCount:
			return a.Count > b.Count
		case tracetypes.SortByTotalTime:
			if a.Kind != b.Kind {
				return a.Kind == KindScope
			}
			if a.Kind == KindScope {
				return a.totalTimeUs > b.totalTimeUs
			}
			return a.Count > b.Count
		case tracetypes.SortByMeanTime:
			if a.Kind != b.Kind {
				return a.Kind == KindScope
			}
			if a.Kind == KindScope {
				return a.MeanTimeMs() > b.MeanTimeMs()
			}
			return a.Count > b.Count
		default:
			return false
		}
	})
}
