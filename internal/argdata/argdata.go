// Package argdata implements interned, ordered argument bags attached
// to events: an ordered mapping from argument name to a typed Value,
// addressed once interned by a non-zero integer ID.
package argdata

// ArgumentData is an ordered mapping from argument name to Value.
// Insertion order is preserved across Merge.
type ArgumentData struct {
	names []string
	index map[string]int
	vals  []Value
}

// New builds an ArgumentData from name/value pairs in the given order.
func New(pairs ...Pair) *ArgumentData {
	d := &ArgumentData{index: make(map[string]int, len(pairs))}
	for _, p := range pairs {
		d.Set(p.Name, p.Value)
	}
	return d
}

// Pair is a single named argument, used to construct an ArgumentData.
type Pair struct {
	Name  string
	Value Value
}

// Set inserts or overwrites a named value, preserving the position of
// an existing name and appending new names at the end.
func (d *ArgumentData) Set(name string, v Value) {
	if d.index == nil {
		d.index = make(map[string]int)
	}
	if i, ok := d.index[name]; ok {
		d.vals[i] = v
		return
	}
	d.index[name] = len(d.names)
	d.names = append(d.names, name)
	d.vals = append(d.vals, v)
}

// Get returns the value for name and whether it was present.
func (d *ArgumentData) Get(name string) (Value, bool) {
	if d == nil {
		return Value{}, false
	}
	i, ok := d.index[name]
	if !ok {
		return Value{}, false
	}
	return d.vals[i], true
}

// GetString is a convenience accessor for the common case of a
// string-valued argument (e.g. the "name" argument on on-demand
// scope/instance types).
func (d *ArgumentData) GetString(name string) (string, bool) {
	v, ok := d.Get(name)
	if !ok || v.Kind != KindString {
		return "", false
	}
	return v.Str, true
}

// Len returns the number of arguments.
func (d *ArgumentData) Len() int {
	if d == nil {
		return 0
	}
	return len(d.names)
}

// Names returns the argument names in insertion order. The returned
// slice must not be mutated by the caller.
func (d *ArgumentData) Names() []string {
	if d == nil {
		return nil
	}
	return d.names
}

// Merge returns a new ArgumentData containing d's entries overwritten
// by other's entries, with insertion order preserved: existing names
// keep their position, names new to d are appended in other's order.
func (d *ArgumentData) Merge(other *ArgumentData) *ArgumentData {
	if d == nil {
		d = New()
	}
	merged := d.clone()
	if other == nil {
		return merged
	}
	for i, name := range other.names {
		merged.Set(name, other.vals[i])
	}
	return merged
}

func (d *ArgumentData) clone() *ArgumentData {
	cp := &ArgumentData{
		names: append([]string(nil), d.names...),
		vals:  append([]Value(nil), d.vals...),
		index: make(map[string]int, len(d.index)),
	}
	for k, v := range d.index {
		cp.index[k] = v
	}
	return cp
}

func (d *ArgumentData) encode(buf []byte) []byte {
	buf = appendInt64(buf, int64(len(d.names)))
	for i, name := range d.names {
		buf = appendString(buf, name)
		buf = d.vals[i].encode(buf)
	}
	return buf
}

func (d *ArgumentData) render() string {
	out := "{"
	for i, name := range d.names {
		if i > 0 {
			out += ", "
		}
		out += name + ": " + d.vals[i].render()
	}
	return out + "}"
}
