package tracedb

import (
	"strings"
	"testing"

	"github.com/mvijayanand/tracing-framework/internal/source"
	"github.com/stretchr/testify/require"
)

const sampleTrace = `[
	{"zone":"main","name":"wtf.scope#enter","time_us":0,"args":{"name":"A"}},
	{"zone":"main","name":"wtf.scope#enter","time_us":100000,"args":{"name":"B"}},
	{"zone":"main","name":"wtf.scope#leave","time_us":400000},
	{"zone":"main","name":"wtf.scope#leave","time_us":500000}
]`

func TestDatabase_IngestAndCommit(t *testing.T) {
	db := New()
	js := source.NewJSONSource()
	require.NoError(t, js.Initialize(db, source.ContextInfo{Name: "test"}, 0, nil, 0, 0))
	require.NoError(t, js.Load(strings.NewReader(sampleTrace)))

	require.NoError(t, db.Commit())

	main := db.Zone("main")
	require.NotNil(t, main)
	require.Equal(t, uint32(4), main.Store.Count())

	a := main.Store.GetEvent(0)
	require.True(t, a.IsScope())
	require.Equal(t, int64(500), a.EndTimeMs())
}

func TestDatabase_EnsureZoneIsIdempotent(t *testing.T) {
	db := New()
	z1 := db.EnsureZone("main", "thread", "")
	z2 := db.EnsureZone("main", "thread", "")
	require.Same(t, z1, z2)
}

func TestDatabase_CommitEmitsInvalidation(t *testing.T) {
	db := New()
	db.EnsureZone("main", "thread", "")

	done := db.Invalidated()
	require.NoError(t, db.Commit())

	select {
	case <-done:
	default:
		t.Fatal("expected Invalidated channel to be closed after Commit")
	}
}
