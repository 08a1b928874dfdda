package argdata

import (
	"bytes"
	"encoding/json"
)

// MarshalJSON renders the bag as a JSON object with keys in insertion
// order. Key and scalar encoding is delegated to encoding/json; only
// the object framing is written by hand, since the standard library
// offers no order-preserving map encoding.
func (d *ArgumentData) MarshalJSON() ([]byte, error) {
	if d == nil || len(d.names) == 0 {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range d.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := d.vals[i].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON encodes the value's dynamic kind.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindInt64:
		return json.Marshal(v.Int)
	case KindFloat64:
		return json.Marshal(v.Float)
	case KindString:
		return json.Marshal(v.Str)
	case KindBytes:
		return json.Marshal(v.render())
	case KindList:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, e := range v.List {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := e.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case KindMap:
		return v.Map.MarshalJSON()
	default:
		return []byte("null"), nil
	}
}

// JSON renders the argument bag as a JSON object string, used by the
// query engine's CSV dump column.
func (d *ArgumentData) JSON() string {
	b, err := d.MarshalJSON()
	if err != nil {
		return "{}"
	}
	return string(b)
}
