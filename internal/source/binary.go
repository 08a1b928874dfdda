package source

import (
	"encoding/binary"
	"io"

	"github.com/mvijayanand/tracing-framework/internal/errors"
	"github.com/mvijayanand/tracing-framework/pkg/tracetypes"
)

var binaryMagic = [4]byte{'W', 'T', 'F', '1'}

// BinarySource validates the envelope of a .wtf-trace recording
// (magic and version) and otherwise refuses to decode it.
// Parsing the binary wire format itself belongs to the injector; this
// type exists so flags, timebase, and time delay have a concrete
// ingestion path without re-implementing that protocol.
type BinarySource struct {
	sink        EventSink
	info        ContextInfo
	flags       tracetypes.DataSourceFlags
	timebaseSec float64
	timeDelay   float64
}

func NewBinarySource() *BinarySource { return &BinarySource{} }

func (b *BinarySource) Initialize(sink EventSink, info ContextInfo, flags tracetypes.DataSourceFlags, metadata map[string]string, timebaseSec, timeDelaySec float64) error {
	b.sink = sink
	b.info = info
	b.flags = flags
	b.timebaseSec = timebaseSec
	b.timeDelay = timeDelaySec
	return nil
}

// Load checks the envelope and always fails with ErrUnsupportedFormat
// once it passes validation — the binary payload itself is never
// decoded by this core.
func (b *BinarySource) Load(r io.Reader) error {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return errors.NewSourceError(errors.CodeParseFailed, "read wtf-trace envelope", err)
	}
	if magic != binaryMagic {
		return errors.NewSourceError(errors.CodeParseFailed, "bad wtf-trace magic", nil)
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return errors.NewSourceError(errors.CodeParseFailed, "read wtf-trace version", err)
	}

	return errors.Wrap(errors.CategorySource, errors.CodeUnsupportedFormat, "binary wtf-trace decoding is not implemented", errors.ErrUnsupportedFormat)
}
