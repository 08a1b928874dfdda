package store

import "sort"

// resort implements Rebuild's first phase: order committed plus
// newly-appended records by (TIME ascending, insertion-order
// ascending), materialize into a fresh backing buffer, and renumber
// each record's ID to its new index.
//
// Insertion order is exactly the pre-sort buffer index: Insert always
// appends at the end, so a stable sort on TIME alone reproduces
// (TIME, insertion-order) ordering without tracking insertion
// sequence numbers separately.
func (s *EventStore) resort() error {
	n := s.buf.count
	order := make([]uint32, n)
	for i := range order {
		order[i] = uint32(i)
	}

	sort.SliceStable(order, func(a, b int) bool {
		ra := s.buf.at(order[a])
		rb := s.buf.at(order[b])
		return ra.time() < rb.time()
	})

	fresh := newRecordBuffer()
	fresh.reserve(n)
	fresh.count = n

	for newIdx, oldIdx := range order {
		src := s.buf.at(oldIdx)
		dst := fresh.at(uint32(newIdx))
		copy(dst.cells, src.cells)
		dst.setID(uint32(newIdx))
	}

	s.buf = fresh
	s.firstTimeUs = int64(fresh.at(0).time())
	// last_time depends on END_TIME, which Phase 2 (rescope) may still
	// need to (re)compute for records newly appended since the last
	// Rebuild; it is finalized at the end of rescope, not here.

	return nil
}
