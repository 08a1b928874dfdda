package query

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/mvijayanand/tracing-framework/internal/argdata"
	"github.com/mvijayanand/tracing-framework/internal/errors"
)

// Format selects the output encoding for Result.Dump. CSV is the only
// encoding today; the type exists so callers state the format
// explicitly rather than Dump hard-coding one.
type Format int

const (
	FormatCSV Format = iota
)

var csvHeader = []string{"zone", "time_ms", "type_name", "duration_ms", "arguments"}

// Dump serializes the result to w: one row per matching event, columns
// (zone, time_ms, type_name, duration_ms, arguments-as-JSON).
func (r *Result) Dump(w io.Writer, format Format) error {
	switch format {
	case FormatCSV:
		return r.dumpCSV(w)
	default:
		return errors.NewQueryError(errors.CodeCompileError, "query: unsupported dump format")
	}
}

func (r *Result) dumpCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, zm := range r.Matches {
		it := zm.Zone.Store.BeginOrdered(zm.Indices)
		for !it.Done() {
			row := []string{
				zm.ZoneName,
				strconv.FormatInt(it.TimeMs(), 10),
				it.TypeName(),
				strconv.FormatFloat(it.TotalDurationMs(), 'f', -1, 64),
				argumentsJSON(it.Arguments()),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
			it.Next()
		}
	}
	cw.Flush()
	return cw.Error()
}

func argumentsJSON(a *argdata.ArgumentData) string {
	if a == nil {
		return "{}"
	}
	return a.JSON()
}
