package tracetypes

// TimeRange is a closed interval in milliseconds, as exposed to callers
// at the public API boundary (the store keeps times in microseconds
// internally).
type TimeRange struct {
	StartMs int64
	EndMs   int64
}

// Contains reports whether t falls within [r.StartMs, r.EndMs].
func (r TimeRange) Contains(t int64) bool {
	return t >= r.StartMs && t <= r.EndMs
}

// EventView is the minimal read-only surface a Filter predicate needs;
// implemented by the store's EventIterator so packages that only
// filter events (stats, query) don't import the store package's full
// iterator API.
type EventView interface {
	TypeName() string
	TypeFlags() TypeFlags
	IsScope() bool
	TimeMs() int64
	EndTimeMs() int64
}

// Filter is an optional predicate applied by the statistics aggregator
// and the query engine. A nil Filter accepts every event.
type Filter func(EventView) bool
