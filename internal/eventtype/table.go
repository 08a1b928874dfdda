// Package eventtype interns event-type definitions and assigns them
// stable numeric IDs. A type is defined once per name; redefinition
// with the same name returns the existing entry — descriptor diffing
// is a future extension the core deliberately does not implement.
package eventtype

import (
	"sync"

	"github.com/mvijayanand/tracing-framework/pkg/tracetypes"
	"github.com/spaolacci/murmur3"
)

// ArgSignature describes the named, typed arguments an event type
// carries. It is advisory — the store does not enforce it against the
// ArgumentData actually attached to an event.
type ArgSignature struct {
	Names []string
	Kinds []string
}

// EventType is an immutable, interned event-type definition.
type EventType struct {
	ID    uint32
	Name  string
	Class tracetypes.EventClass
	Flags tracetypes.TypeFlags
	Args  ArgSignature
}

// IsScope reports whether this type demarcates a scope.
func (t *EventType) IsScope() bool { return t.Class == tracetypes.ClassScope }

const bucketCount = 256

// Table interns EventType definitions for the lifetime of a database.
// IDs are assigned monotonically starting at 1; 0 is the reserved
// sentinel.
//
// Lookup is bucketed on a murmur3 fingerprint of the name rather than
// relying solely on the backing Go map, since Define is called once
// per distinct name per trace load and traces commonly carry
// thousands of distinct scope/instance names.
type Table struct {
	mu      sync.RWMutex
	byName  map[string]*EventType
	byID    []*EventType // index 0 unused (sentinel)
	buckets [bucketCount][]*EventType
}

// New creates an empty event-type table.
func New() *Table {
	return &Table{
		byName: make(map[string]*EventType),
		byID:   []*EventType{nil},
	}
}

func fingerprint(name string) uint32 {
	return murmur3.Sum32([]byte(name))
}

// Desc describes a type to be interned.
type Desc struct {
	Name  string
	Class tracetypes.EventClass
	Flags tracetypes.TypeFlags
	Args  ArgSignature
}

// Define interns a type by name, returning the existing entry if the
// name was already defined (descriptors are not diffed; the first
// definition wins).
func (t *Table) Define(d Desc) *EventType {
	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.byName[d.Name]; ok {
		return existing
	}

	et := &EventType{
		ID:    uint32(len(t.byID)),
		Name:  d.Name,
		Class: d.Class,
		Flags: d.Flags,
		Args:  d.Args,
	}
	t.byName[d.Name] = et
	t.byID = append(t.byID, et)

	b := fingerprint(d.Name) % bucketCount
	t.buckets[b] = append(t.buckets[b], et)

	return et
}

// ByID returns the type with the given id, or nil if not defined.
func (t *Table) ByID(id uint32) *EventType {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if id == 0 || int(id) >= len(t.byID) {
		return nil
	}
	return t.byID[id]
}

// ByName returns the type with the given name, or nil if not defined.
// The bucketed fingerprint index is consulted first, comparing each
// entry of the bucket by exact name; the name map is consulted only
// when the bucket holds no match.
func (t *Table) ByName(name string) *EventType {
	t.mu.RLock()
	defer t.mu.RUnlock()

	b := fingerprint(name) % bucketCount
	for _, et := range t.buckets[b] {
		if et.Name == name {
			return et
		}
	}
	return t.byName[name]
}

// Len returns the number of interned types (excluding the sentinel).
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byID) - 1
}
