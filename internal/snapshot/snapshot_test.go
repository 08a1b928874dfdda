package snapshot

import (
	"strings"
	"testing"

	"github.com/mvijayanand/tracing-framework/internal/source"
	"github.com/mvijayanand/tracing-framework/internal/tracedb"
	"github.com/mvijayanand/tracing-framework/pkg/tracetypes"
	"github.com/stretchr/testify/require"
)

func TestLocal_SnapshotRoundTrip(t *testing.T) {
	db := tracedb.New()
	src := source.NewJSONSource()
	require.NoError(t, src.Initialize(db, source.ContextInfo{}, 0, nil, 0, 0))
	require.NoError(t, src.Load(strings.NewReader(`[
		{"zone": "main", "name": "A", "time_us": 0}
	]`)))
	require.NoError(t, db.Commit())

	z := db.Zone("main")
	require.NotNil(t, z)

	l := NewLocal()
	buf, err := l.Snapshot(z)
	require.NoError(t, err)
	require.Equal(t, tracetypes.MimeWTFTrace, buf.MimeType)
	require.NotEmpty(t, buf.Bytes)

	cells, err := DecodeLocal(buf)
	require.NoError(t, err)
	require.Equal(t, z.Store.RawCells(), cells)
}

func TestNewS3Archiver_DisabledReturnsNil(t *testing.T) {
	a, err := NewS3Archiver(nil, S3Config{Enabled: false})
	require.NoError(t, err)
	require.Nil(t, a)
}
