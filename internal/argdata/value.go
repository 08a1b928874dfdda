package argdata

import (
	"fmt"
)

// Kind identifies the dynamic type of a Value.
type Kind int

const (
	KindInt64 Kind = iota
	KindFloat64
	KindString
	KindBytes
	KindList
	KindMap
)

// Value is a typed argument value: int, double, string, bytes, or a
// nested list/map of values.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Str   string
	Bin   []byte
	List  []Value
	Map   *ArgumentData
}

func Int64(v int64) Value       { return Value{Kind: KindInt64, Int: v} }
func Float(v float64) Value     { return Value{Kind: KindFloat64, Float: v} }
func String(v string) Value     { return Value{Kind: KindString, Str: v} }
func Bytes(v []byte) Value      { return Value{Kind: KindBytes, Bin: v} }
func List(v []Value) Value      { return Value{Kind: KindList, List: v} }
func Map(v *ArgumentData) Value { return Value{Kind: KindMap, Map: v} }

// render formats a Value as display text; Value.MarshalJSON uses it
// for byte values.
func (v Value) render() string {
	switch v.Kind {
	case KindInt64:
		return fmt.Sprintf("%d", v.Int)
	case KindFloat64:
		return fmt.Sprintf("%g", v.Float)
	case KindString:
		return v.Str
	case KindBytes:
		return fmt.Sprintf("<%d bytes>", len(v.Bin))
	case KindList:
		parts := make([]string, len(v.List))
		for i, e := range v.List {
			parts[i] = e.render()
		}
		return fmt.Sprintf("%v", parts)
	case KindMap:
		if v.Map == nil {
			return "{}"
		}
		return v.Map.render()
	default:
		return ""
	}
}

// encode appends a canonical, order-preserving byte encoding of v to
// buf, used only for intern-table fingerprinting (internal/argdata's
// InternTable), never for wire transport.
func (v Value) encode(buf []byte) []byte {
	buf = append(buf, byte(v.Kind))
	switch v.Kind {
	case KindInt64:
		buf = appendInt64(buf, v.Int)
	case KindFloat64:
		buf = appendInt64(buf, int64(v.Float*1e9))
	case KindString:
		buf = appendString(buf, v.Str)
	case KindBytes:
		buf = appendString(buf, string(v.Bin))
	case KindList:
		buf = appendInt64(buf, int64(len(v.List)))
		for _, e := range v.List {
			buf = e.encode(buf)
		}
	case KindMap:
		if v.Map != nil {
			buf = v.Map.encode(buf)
		}
	}
	return buf
}

func appendInt64(buf []byte, n int64) []byte {
	return append(buf,
		byte(n), byte(n>>8), byte(n>>16), byte(n>>24),
		byte(n>>32), byte(n>>40), byte(n>>48), byte(n>>56))
}

func appendString(buf []byte, s string) []byte {
	buf = appendInt64(buf, int64(len(s)))
	return append(buf, s...)
}
