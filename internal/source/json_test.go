package source_test

import (
	"strings"
	"testing"

	"github.com/mvijayanand/tracing-framework/internal/errors"
	"github.com/mvijayanand/tracing-framework/internal/source"
	"github.com/mvijayanand/tracing-framework/internal/tracedb"
	"github.com/stretchr/testify/require"
)

func initializedJSONSource(t *testing.T) (*source.JSONSource, *tracedb.Database) {
	t.Helper()
	db := tracedb.New()
	src := source.NewJSONSource()
	require.NoError(t, src.Initialize(db, source.ContextInfo{Name: "test"}, 0, nil, 0, 0))
	return src, db
}

func TestJSONSource_LoadPushesEventsIntoZones(t *testing.T) {
	src, db := initializedJSONSource(t)

	err := src.Load(strings.NewReader(`[
		{"zone": "main", "name": "wtf.scope#enter", "time_us": 0, "args": {"name": "A"}},
		{"zone": "main", "name": "wtf.scope#leave", "time_us": 100000},
		{"zone": "worker", "name": "app#tick", "time_us": 50}
	]`))
	require.NoError(t, err)
	require.NoError(t, db.Commit())

	main := db.Zone("main")
	require.NotNil(t, main)
	require.Equal(t, uint32(2), main.Store.Count())

	a := main.Store.GetEvent(0)
	require.True(t, a.IsScope())
	require.Equal(t, "A", a.TypeName())

	worker := db.Zone("worker")
	require.NotNil(t, worker)
	require.Equal(t, uint32(1), worker.Store.Count())
}

func TestJSONSource_DecodesTypedArguments(t *testing.T) {
	src, db := initializedJSONSource(t)

	err := src.Load(strings.NewReader(`[
		{"zone": "main", "name": "app#tick", "time_us": 0,
		 "args": {"count": 3, "ratio": 0.5, "label": "x", "flag": true,
		          "list": [1, 2], "nested": {"k": "v"}}}
	]`))
	require.NoError(t, err)
	require.NoError(t, db.Commit())

	it := db.Zone("main").Store.GetEvent(0)

	count, ok := it.Argument("count")
	require.True(t, ok)
	require.Equal(t, int64(3), count.Int)

	ratio, ok := it.Argument("ratio")
	require.True(t, ok)
	require.Equal(t, 0.5, ratio.Float)

	flag, ok := it.Argument("flag")
	require.True(t, ok)
	require.Equal(t, int64(1), flag.Int)

	list, ok := it.Argument("list")
	require.True(t, ok)
	require.Len(t, list.List, 2)

	nested, ok := it.Argument("nested")
	require.True(t, ok)
	v, ok := nested.Map.GetString("k")
	require.True(t, ok)
	require.Equal(t, "v", v)
}

func TestJSONSource_PreservesArgumentOrder(t *testing.T) {
	src, db := initializedJSONSource(t)

	err := src.Load(strings.NewReader(`[
		{"zone": "main", "name": "app#tick", "time_us": 0,
		 "args": {"zulu": 1, "alpha": 2, "mike": 3}}
	]`))
	require.NoError(t, err)
	require.NoError(t, db.Commit())

	it := db.Zone("main").Store.GetEvent(0)
	args := it.Arguments()
	require.NotNil(t, args)
	require.Equal(t, []string{"zulu", "alpha", "mike"}, args.Names())
}

func TestJSONSource_MalformedStreamReportsSourceError(t *testing.T) {
	src, _ := initializedJSONSource(t)

	err := src.Load(strings.NewReader(`[{"zone": "main", `))
	require.Error(t, err)
	require.Equal(t, errors.CategorySource, errors.GetCategory(err))
	require.Equal(t, errors.CodeParseFailed, errors.GetCode(err))
}

func TestJSONSource_LoadBeforeInitializeFails(t *testing.T) {
	src := source.NewJSONSource()
	err := src.Load(strings.NewReader(`[]`))
	require.Error(t, err)
	require.Equal(t, errors.CategorySource, errors.GetCategory(err))
}
