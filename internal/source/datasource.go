// Package source implements the ingestion interface: an abstract
// DataSource lifecycle plus the reference adapters that exercise it
// end to end. Wire-format parsing internals belong to the injector,
// not this database; these adapters exist so AddEvent, flags,
// timebase, and time delay have real callers.
package source

import (
	"io"

	"github.com/mvijayanand/tracing-framework/internal/argdata"
	"github.com/mvijayanand/tracing-framework/internal/eventtype"
	"github.com/mvijayanand/tracing-framework/pkg/tracetypes"
)

// ContextInfo is the wire-format header metadata passed to Initialize.
type ContextInfo struct {
	Name        string
	Description string
}

// EventSink is the target a DataSource pushes decoded events into —
// implemented by internal/tracedb.Database. Declared here, at the
// consumer side, so source has no import dependency on tracedb.
type EventSink interface {
	// Types returns the shared event-type table events are resolved
	// against — the same table on-demand types are interned into.
	Types() *eventtype.Table
	// AddEvent pushes one decoded event into the named zone, creating
	// the zone on first reference.
	AddEvent(zoneRef string, et *eventtype.EventType, timeUs int64, args *argdata.ArgumentData)
}

// DataSource is the abstract ingestion handle: Initialize is called
// once after the wire-format header is parsed, then Load
// decodes the remaining payload and pushes events into the sink via
// EventSink.AddEvent.
type DataSource interface {
	Initialize(sink EventSink, info ContextInfo, flags tracetypes.DataSourceFlags, metadata map[string]string, timebaseSec, timeDelaySec float64) error
	Load(r io.Reader) error
}
