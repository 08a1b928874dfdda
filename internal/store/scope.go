package store

import (
	"github.com/mvijayanand/tracing-framework/internal/eventtype"
	"github.com/mvijayanand/tracing-framework/pkg/tracetypes"
)

// scopeFrame tracks one open scope while rescope walks the sorted
// buffer forward.
type scopeFrame struct {
	idx          uint32
	et           *eventtype.EventType
	childTimeUs  uint64
	systemTimeUs uint64
}

// rescope implements Rebuild's second phase: a single forward pass
// that assigns PARENT/DEPTH/NEXT_SIBLING and closes out scopes,
// recording END_TIME/SYSTEM_TIME/CHILD_TIME.
func (s *EventStore) rescope() {
	n := s.buf.count
	var stack []scopeFrame
	var maxDepth uint32

	for i := uint32(0); i < n; i++ {
		r := s.buf.at(i)
		et := s.types.ByID(r.typ())

		if len(stack) == 0 {
			r.setParent(parentSentinel)
		} else {
			r.setParent(stack[len(stack)-1].idx)
		}
		r.setDepth(uint32(len(stack)))

		if i+1 < n {
			r.setNextSibling(i + 1)
		} else {
			r.setNextSibling(0)
		}

		if et == nil {
			continue
		}

		switch et.Name {
		case TypeScopeEnter:
			resolved := s.resolveOnDemand(r, tracetypes.ClassScope)
			r.setType(resolved.ID)
			stack = append(stack, scopeFrame{idx: i, et: resolved})
			if uint32(len(stack)) > maxDepth {
				maxDepth = uint32(len(stack))
			}

		case TypeScopeLeave:
			if len(stack) == 0 {
				// Stray leave with no open scope; record stays an
				// instance.
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			sRec := s.buf.at(top.idx)
			t := r.time()
			sRec.setEndTime(t)
			duration := t - sRec.time()
			sRec.setSystemTime(uint32(top.systemTimeUs))
			sRec.setChildTime(uint32(top.childTimeUs))

			sRec.setNextSibling(r.nextSibling())
			r.setNextSibling(0)

			if len(stack) > 0 {
				stack[len(stack)-1].childTimeUs += uint64(duration)
			}
			var systemTime uint32
			if top.et != nil && top.et.Flags.Has(tracetypes.FlagSystemTime) {
				systemTime = duration
			}
			if len(stack) > 0 {
				stack[len(stack)-1].systemTimeUs += top.systemTimeUs + uint64(systemTime)
			}

		case TypeScopeAppendData:
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			topRec := s.buf.at(top.idx)
			incoming := s.args.Get(r.arguments())
			if topRec.arguments() == 0 {
				topRec.setArguments(r.arguments())
				continue
			}
			existing := s.args.Get(topRec.arguments())
			merged := existing.Merge(incoming)
			s.args.Replace(topRec.arguments(), merged)

		case TypeTraceTimeStamp:
			resolved := s.resolveOnDemand(r, tracetypes.ClassInstance)
			r.setType(resolved.ID)

		default:
			if et.IsScope() {
				stack = append(stack, scopeFrame{idx: i, et: et})
				if uint32(len(stack)) > maxDepth {
					maxDepth = uint32(len(stack))
				}
			}
			// other instance-class events: no stack effect.
		}
	}

	s.maxDepth = maxDepth

	last := s.buf.at(n - 1)
	if last.endTime() > 0 {
		s.lastTimeUs = int64(last.endTime())
	} else {
		s.lastTimeUs = int64(last.time())
	}
}

// resolveOnDemand interns (or finds) the event type named by this
// record's "name" argument, materializing on-demand scope/instance
// types the same way pre-declared types are interned, so both paths
// share one type table.
func (s *EventStore) resolveOnDemand(r record, class tracetypes.EventClass) *eventtype.EventType {
	name, _ := s.args.Get(r.arguments()).GetString("name")
	if name == "" {
		name = "<unnamed>"
	}
	return s.types.Define(eventtype.Desc{Name: name, Class: class})
}
