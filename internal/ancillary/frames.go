package ancillary

import (
	"github.com/mvijayanand/tracing-framework/internal/eventtype"
	"github.com/mvijayanand/tracing-framework/internal/store"
)

// Frame is a rendered animation frame, paired from wtf.timing#frameStart
// and wtf.timing#frameEnd events sharing a "number" argument.
type Frame struct {
	Number      int64
	StartIndex  uint32
	EndIndex    uint32
	StartTimeMs int64
	EndTimeMs   int64
}

// FrameList subscribes to the frame-timing event pair and maintains a
// dense, time-ordered list of complete frames.
type FrameList struct {
	paired *pairedList
}

// NewFrameList creates an empty frame list; register it with
// EventStore.RegisterAncillary to start tracking.
func NewFrameList() *FrameList {
	return &FrameList{paired: newPairedList("wtf.timing#frameStart", "wtf.timing#frameEnd")}
}

func (f *FrameList) BeginRebuild(types *eventtype.Table) []*eventtype.EventType {
	return f.paired.BeginRebuild(types)
}

func (f *FrameList) HandleEvent(typeIndex int, et *eventtype.EventType, iter *store.EventIterator) {
	f.paired.HandleEvent(typeIndex, et, iter)
}

func (f *FrameList) EndRebuild() {
	f.paired.EndRebuild()
}

// Count returns the number of complete frames.
func (f *FrameList) Count() int { return f.paired.count() }

// At returns the i'th frame in start-time order, or nil.
func (f *FrameList) At(i int) *Frame { return toFrame(f.paired.at(i)) }

// FrameAtTime returns the frame whose span contains tMs, or nil.
func (f *FrameList) FrameAtTime(tMs int64) *Frame { return toFrame(f.paired.atTime(tMs)) }

func toFrame(p *pairedEntry) *Frame {
	if p == nil {
		return nil
	}
	return &Frame{
		Number:      p.Number,
		StartIndex:  p.StartIndex,
		EndIndex:    p.EndIndex,
		StartTimeMs: p.StartTimeMs,
		EndTimeMs:   p.EndTimeMs,
	}
}
