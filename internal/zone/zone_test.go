package zone

import (
	"testing"

	"github.com/mvijayanand/tracing-framework/internal/eventtype"
	"github.com/mvijayanand/tracing-framework/pkg/tracetypes"
	"github.com/stretchr/testify/require"
)

func TestNew_ZonesHaveIndependentStores(t *testing.T) {
	types := eventtype.New()
	a := New("main", "thread", "script.js", types)
	b := New("worker", "thread", "", types)

	require.NotEqual(t, a.ID, b.ID)
	require.NotSame(t, a.Store, b.Store)
	require.True(t, a.Valid())
}

func TestRebuild_EmitsInvalidated(t *testing.T) {
	types := eventtype.New()
	z := New("main", "thread", "", types)
	tick := types.Define(eventtype.Desc{Name: "app#tick", Class: tracetypes.ClassInstance})
	z.Store.Insert(tick, 0, nil)

	done := z.Invalidated()
	require.NoError(t, z.Rebuild())

	select {
	case <-done:
	default:
		t.Fatal("expected Invalidated channel to be closed after Rebuild")
	}

	// The channel is replaced after each emit; the new one is open.
	select {
	case <-z.Invalidated():
		t.Fatal("fresh Invalidated channel should be open")
	default:
	}
}

func TestInvalidate_MarksZoneInvalidAndEmits(t *testing.T) {
	types := eventtype.New()
	z := New("main", "thread", "", types)

	done := z.Invalidated()
	z.Invalidate()

	require.False(t, z.Valid())
	select {
	case <-done:
	default:
		t.Fatal("expected Invalidated channel to be closed after Invalidate")
	}
}
