// Package snapshot implements the storage-snapshot interface: a zone's
// committed records rendered as MIME-typed byte buffers for archival.
// The database itself is never persistent — all state is in-memory,
// rebuilt from source streams on load — so these producers are
// best-effort mirrors layered outside the in-memory path.
package snapshot

import (
	"encoding/binary"

	"github.com/golang/snappy"
	"github.com/mvijayanand/tracing-framework/internal/zone"
	"github.com/mvijayanand/tracing-framework/pkg/tracetypes"
)

// StreamBuffer pairs a MIME type with its payload bytes.
type StreamBuffer struct {
	MimeType string
	Bytes    []byte
}

// Producer captures one zone's committed records as a StreamBuffer.
// Snapshots are taken one zone at a time; this package has no function
// that collects the buffers of every zone of a database.
type Producer interface {
	Snapshot(z *zone.Zone) (StreamBuffer, error)
}

// Local serializes a zone's committed records into the packed binary
// cell layout and snappy-compresses the result.
type Local struct{}

// NewLocal creates the in-process snapshot producer. It has no
// configuration: it only ever reads the zone's already-committed
// buffer.
func NewLocal() *Local { return &Local{} }

// Snapshot returns the zone's committed records as a
// MimeWTFTrace-labeled, snappy-compressed buffer. The on-disk shape is
// this database's own cell layout, not the injector's wire format, so
// the snapshot only round-trips through this module, not through the
// upstream tooling the MIME type names.
func (l *Local) Snapshot(z *zone.Zone) (StreamBuffer, error) {
	cells := z.Store.RawCells()

	raw := make([]byte, 4+len(cells)*4)
	binary.LittleEndian.PutUint32(raw[0:4], uint32(len(cells)/12))
	for i, c := range cells {
		binary.LittleEndian.PutUint32(raw[4+i*4:8+i*4], c)
	}

	compressed := snappy.Encode(nil, raw)
	return StreamBuffer{MimeType: tracetypes.MimeWTFTrace, Bytes: compressed}, nil
}

// DecodeLocal reverses Local.Snapshot, returning the packed cells it
// encoded. Used by tests and by any reader that wants the raw layout
// back without re-ingesting through a DataSource.
func DecodeLocal(buf StreamBuffer) ([]uint32, error) {
	raw, err := snappy.Decode(nil, buf.Bytes)
	if err != nil {
		return nil, err
	}
	if len(raw) < 4 {
		return nil, errShortSnapshot
	}
	count := binary.LittleEndian.Uint32(raw[0:4])
	cells := make([]uint32, count*12)
	for i := range cells {
		off := 4 + i*4
		if off+4 > len(raw) {
			return nil, errShortSnapshot
		}
		cells[i] = binary.LittleEndian.Uint32(raw[off : off+4])
	}
	return cells, nil
}
