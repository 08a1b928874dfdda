package argdata

import (
	"github.com/spaolacci/murmur3"
)

// InternTable interns ArgumentData values for a single event store;
// its lifetime is the owning store's. ID 0 means "no arguments" and is
// never assigned to a real entry.
//
// Duplicate argument bags are common across a trace — many
// scope#enter events share a byte-identical {name: "..."} bag — so
// lookups are keyed by a murmur3.Sum128 fingerprint of the bag's
// canonical encoding before falling back to an exact comparison.
type InternTable struct {
	entries []*ArgumentData // index 0 unused (sentinel)
	byHash  map[[2]uint64][]uint32
}

// NewInternTable creates an empty argument intern table.
func NewInternTable() *InternTable {
	return &InternTable{
		entries: []*ArgumentData{nil},
		byHash:  make(map[[2]uint64][]uint32),
	}
}

func fingerprint(d *ArgumentData) [2]uint64 {
	buf := d.encode(make([]byte, 0, 64))
	hi, lo := murmur3.Sum128(buf)
	return [2]uint64{hi, lo}
}

// Intern returns the ID for d, reusing an existing identical entry
// when one exists. A nil or empty d interns to 0.
func (t *InternTable) Intern(d *ArgumentData) uint32 {
	if d == nil || d.Len() == 0 {
		return 0
	}

	h := fingerprint(d)
	for _, id := range t.byHash[h] {
		if argDataEqual(t.entries[id], d) {
			return id
		}
	}

	id := uint32(len(t.entries))
	t.entries = append(t.entries, d)
	t.byHash[h] = append(t.byHash[h], id)
	return id
}

// Get returns the interned ArgumentData for id, or nil for id == 0 or
// an id past the table's end.
func (t *InternTable) Get(id uint32) *ArgumentData {
	if id == 0 || int(id) >= len(t.entries) {
		return nil
	}
	return t.entries[id]
}

// Replace overwrites the interned value at id in place — used by
// scope#appendData merges, which mutate the already-interned argument
// bag of an open scope rather than allocate a fresh ID.
func (t *InternTable) Replace(id uint32, d *ArgumentData) {
	if id == 0 || int(id) >= len(t.entries) {
		return
	}
	t.entries[id] = d
}

func argDataEqual(a, b *ArgumentData) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i, name := range a.names {
		bv, ok := b.Get(name)
		if !ok || !valueEqual(a.vals[i], bv) {
			return false
		}
	}
	return true
}

func valueEqual(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindInt64:
		return a.Int == b.Int
	case KindFloat64:
		return a.Float == b.Float
	case KindString:
		return a.Str == b.Str
	case KindBytes:
		return string(a.Bin) == string(b.Bin)
	case KindList:
		if len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if !valueEqual(a.List[i], b.List[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if a.Map == nil || b.Map == nil {
			return a.Map == b.Map
		}
		return argDataEqual(a.Map, b.Map)
	default:
		return false
	}
}
