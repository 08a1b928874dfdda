package store

// runAncillaryRebuild acquires the store lock and delegates to
// runAncillaryRebuildLocked. Used by RegisterAncillary, which must not
// already be holding the lock when it calls back in.
func (s *EventStore) runAncillaryRebuild(indexes []AncillaryIndex, committed uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runAncillaryRebuildLocked(indexes, committed)
}

// runAncillaryRebuildLocked implements Rebuild's third phase: for
// each subscriber, run its own BeginRebuild/HandleEvent/
// EndRebuild cycle over the committed range, using one iterator per
// index that is re-seeked before every dispatch rather than advanced,
// since a subscriber must never be allowed to move the driver's cursor.
func (s *EventStore) runAncillaryRebuildLocked(indexes []AncillaryIndex, committed uint32) {
	if committed == 0 {
		return
	}

	for _, idx := range indexes {
		subs := idx.BeginRebuild(s.types)
		if len(subs) == 0 {
			idx.EndRebuild()
			continue
		}

		byID := make(map[uint32]int, len(subs))
		for typeIndex, et := range subs {
			if et != nil {
				byID[et.ID] = typeIndex
			}
		}

		iter := s.newIteratorLocked(0, committed-1)
		for i := uint32(0); i < committed; i++ {
			iter.Seek(i)
			et := s.types.ByID(iter.rec().typ())
			if et == nil {
				continue
			}
			if typeIndex, ok := byID[et.ID]; ok {
				idx.HandleEvent(typeIndex, et, iter)
			}
		}

		idx.EndRebuild()
	}
}
