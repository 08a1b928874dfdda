package ancillary

import (
	"github.com/mvijayanand/tracing-framework/internal/eventtype"
	"github.com/mvijayanand/tracing-framework/internal/store"
)

// TimeRangeEntry is a user-delimited range annotation, paired from
// wtf.timeRange#begin and wtf.timeRange#end events sharing a "number"
// argument — the same begin/end shape as FrameList.
type TimeRangeEntry struct {
	Number      int64
	StartIndex  uint32
	EndIndex    uint32
	StartTimeMs int64
	EndTimeMs   int64
}

// TimeRangeList subscribes to the time-range event pair and maintains
// a dense, time-ordered list of complete ranges.
type TimeRangeList struct {
	paired *pairedList
}

func NewTimeRangeList() *TimeRangeList {
	return &TimeRangeList{paired: newPairedList("wtf.timeRange#begin", "wtf.timeRange#end")}
}

func (r *TimeRangeList) BeginRebuild(types *eventtype.Table) []*eventtype.EventType {
	return r.paired.BeginRebuild(types)
}

func (r *TimeRangeList) HandleEvent(typeIndex int, et *eventtype.EventType, iter *store.EventIterator) {
	r.paired.HandleEvent(typeIndex, et, iter)
}

func (r *TimeRangeList) EndRebuild() {
	r.paired.EndRebuild()
}

// Count returns the number of complete ranges.
func (r *TimeRangeList) Count() int { return r.paired.count() }

// At returns the i'th range in start-time order, or nil.
func (r *TimeRangeList) At(i int) *TimeRangeEntry { return toTimeRange(r.paired.at(i)) }

// RangeAtTime returns the range whose span contains tMs, or nil.
func (r *TimeRangeList) RangeAtTime(tMs int64) *TimeRangeEntry {
	return toTimeRange(r.paired.atTime(tMs))
}

func toTimeRange(p *pairedEntry) *TimeRangeEntry {
	if p == nil {
		return nil
	}
	return &TimeRangeEntry{
		Number:      p.Number,
		StartIndex:  p.StartIndex,
		EndIndex:    p.EndIndex,
		StartTimeMs: p.StartTimeMs,
		EndTimeMs:   p.EndTimeMs,
	}
}
