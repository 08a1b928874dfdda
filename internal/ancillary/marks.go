package ancillary

import (
	"github.com/mvijayanand/tracing-framework/internal/eventtype"
	"github.com/mvijayanand/tracing-framework/internal/store"
)

// Mark is a named interval annotation, paired from wtf.mark#begin and
// wtf.mark#end events sharing a "number" argument — the same
// begin/end shape as FrameList, applied to a different event pair.
type Mark struct {
	Number      int64
	StartIndex  uint32
	EndIndex    uint32
	StartTimeMs int64
	EndTimeMs   int64
}

// MarkList subscribes to the mark event pair and maintains a dense,
// time-ordered list of complete marks.
type MarkList struct {
	paired *pairedList
}

func NewMarkList() *MarkList {
	return &MarkList{paired: newPairedList("wtf.mark#begin", "wtf.mark#end")}
}

func (m *MarkList) BeginRebuild(types *eventtype.Table) []*eventtype.EventType {
	return m.paired.BeginRebuild(types)
}

func (m *MarkList) HandleEvent(typeIndex int, et *eventtype.EventType, iter *store.EventIterator) {
	m.paired.HandleEvent(typeIndex, et, iter)
}

func (m *MarkList) EndRebuild() {
	m.paired.EndRebuild()
}

// Count returns the number of complete marks.
func (m *MarkList) Count() int { return m.paired.count() }

// At returns the i'th mark in start-time order, or nil.
func (m *MarkList) At(i int) *Mark { return toMark(m.paired.at(i)) }

// MarkAtTime returns the mark whose span contains tMs, or nil.
func (m *MarkList) MarkAtTime(tMs int64) *Mark { return toMark(m.paired.atTime(tMs)) }

func toMark(p *pairedEntry) *Mark {
	if p == nil {
		return nil
	}
	return &Mark{
		Number:      p.Number,
		StartIndex:  p.StartIndex,
		EndIndex:    p.EndIndex,
		StartTimeMs: p.StartTimeMs,
		EndTimeMs:   p.EndTimeMs,
	}
}
