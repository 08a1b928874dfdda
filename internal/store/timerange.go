package store

import "sort"

// indexOfEventNearTime binary-searches for the largest committed index
// whose TIME cell is <= tUs, returning 0 if none qualifies.
func (s *EventStore) indexOfEventNearTime(tUs uint32) uint32 {
	if s.committed == 0 {
		return 0
	}
	n := int(s.committed)
	i := sort.Search(n, func(i int) bool {
		return s.buf.at(uint32(i)).time() > tUs
	})
	if i == 0 {
		return 0
	}
	return uint32(i - 1)
}

// indexOfRootScopeIncludingTime walks up from the near-time index to
// its depth-0 ancestor; if that root is a scope spanning tUs, it is
// returned in place of the near-time index, so a scope that begins
// off-screen-left but still covers the viewport is found.
func (s *EventStore) indexOfRootScopeIncludingTime(tUs uint32) uint32 {
	near := s.indexOfEventNearTime(tUs)
	if s.committed == 0 {
		return near
	}
	cur := near
	for {
		r := s.buf.at(cur)
		if r.depth() == 0 {
			break
		}
		p := r.parent()
		if p == parentSentinel {
			break
		}
		cur = p
	}
	root := s.buf.at(cur)
	if root.isScope() && root.endTime() >= tUs {
		return cur
	}
	return near
}

// BeginTimeRange returns an iterator over [start_ms, end_ms]. When
// fromRoot is true, the lower bound is widened to the root scope
// covering start_ms, if one spans it.
func (s *EventStore) BeginTimeRange(startMs, endMs int64, fromRoot bool) *EventIterator {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.committed == 0 {
		return s.newIteratorLocked(0, 0)
	}

	startUs := uint32(startMs * 1000)
	endUs := uint32(endMs * 1000)

	var lo uint32
	if fromRoot {
		lo = s.indexOfRootScopeIncludingTime(startUs)
	} else {
		lo = s.indexOfEventNearTime(startUs)
	}

	hi := s.indexOfEventNearTime(endUs)
	if hi < lo {
		hi = lo
	}
	if hi >= s.committed {
		hi = s.committed - 1
	}
	return s.newIteratorLocked(lo, hi)
}
