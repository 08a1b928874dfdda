package store

import (
	"testing"

	"github.com/mvijayanand/tracing-framework/internal/argdata"
	"github.com/mvijayanand/tracing-framework/internal/eventtype"
	"github.com/mvijayanand/tracing-framework/pkg/tracetypes"
	"github.com/stretchr/testify/require"
)

func newTestStore() (*EventStore, *eventtype.Table) {
	types := eventtype.New()
	return New(types), types
}

func defineScopeEnter(t *eventtype.Table) *eventtype.EventType {
	return t.Define(eventtype.Desc{Name: TypeScopeEnter, Class: tracetypes.ClassInstance})
}

func defineScopeLeave(t *eventtype.Table) *eventtype.EventType {
	return t.Define(eventtype.Desc{Name: TypeScopeLeave, Class: tracetypes.ClassInstance})
}

func nameArgs(name string) *argdata.ArgumentData {
	return argdata.New(argdata.Pair{Name: "name", Value: argdata.String(name)})
}

func TestInsert_AssignsSentinelParentAndZeroEndTime(t *testing.T) {
	s, types := newTestStore()
	instance := types.Define(eventtype.Desc{Name: "app#tick", Class: tracetypes.ClassInstance})

	s.Insert(instance, 100, nil)
	require.Equal(t, uint32(1), s.Count())
	require.Equal(t, uint32(parentSentinel), s.buf.at(0).parent())
	require.Zero(t, s.buf.at(0).endTime())
}

func TestRebuild_EmptyStoreIsNoOp(t *testing.T) {
	s, _ := newTestStore()
	require.NoError(t, s.Rebuild())
	require.Equal(t, uint32(0), s.Count())
}

func TestRebuild_SortsByTimeAndRenumbersID(t *testing.T) {
	s, types := newTestStore()
	instance := types.Define(eventtype.Desc{Name: "app#tick", Class: tracetypes.ClassInstance})

	s.Insert(instance, 300, nil)
	s.Insert(instance, 100, nil)
	s.Insert(instance, 200, nil)

	require.NoError(t, s.Rebuild())

	it := s.Begin()
	var times []int64
	var timesUs []uint32
	var idx uint32
	for !it.Done() {
		times = append(times, it.TimeMs())
		timesUs = append(timesUs, it.rec().time())
		require.Equal(t, it.ID(), it.rec().id())
		require.Equal(t, idx, it.ID())
		idx++
		it.Next()
	}
	require.Equal(t, []int64{0, 0, 0}, times) // microseconds truncate to 0ms here
	require.Equal(t, []uint32{100, 200, 300}, timesUs)
}

func TestRescope_NestedScopeTiming(t *testing.T) {
	// A nested scope A{ B } with A spanning 0..500 and B
	// spanning 100..400.
	s, types := newTestStore()
	enter := defineScopeEnter(types)
	leave := defineScopeLeave(types)

	s.Insert(enter, 0, nameArgs("A"))
	s.Insert(enter, 100000, nameArgs("B"))
	s.Insert(leave, 400000, nil)
	s.Insert(leave, 500000, nil)

	require.NoError(t, s.Rebuild())

	a := s.GetEvent(0)
	require.True(t, a.IsScope())
	require.Equal(t, int64(0), a.TimeMs())
	require.Equal(t, int64(500), a.EndTimeMs())
	require.Equal(t, uint32(0), a.Depth())

	b := s.GetEvent(1)
	require.True(t, b.IsScope())
	require.Equal(t, int64(100), b.TimeMs())
	require.Equal(t, int64(400), b.EndTimeMs())
	require.Equal(t, uint32(1), b.Depth())
	require.Equal(t, a.ID(), b.rec().parent())

	require.Equal(t, uint32(2), s.MaxDepth()) // A and B open at once
	require.EqualValues(t, 500, s.LastTimeMs())
}

func TestRescope_OutOfOrderInsertionStillNests(t *testing.T) {
	// Events inserted out of chronological order still
	// nest correctly once rebuilt.
	s, types := newTestStore()
	enter := defineScopeEnter(types)
	leave := defineScopeLeave(types)

	s.Insert(leave, 500000, nil) // A leave, inserted first
	s.Insert(enter, 0, nameArgs("A"))
	s.Insert(leave, 400000, nil) // B leave
	s.Insert(enter, 100000, nameArgs("B"))

	require.NoError(t, s.Rebuild())

	a := s.GetEvent(0)
	require.Equal(t, int64(0), a.TimeMs())
	require.Equal(t, int64(500), a.EndTimeMs())
}

func TestRescope_SystemTimeAttribution(t *testing.T) {
	// A child scope flagged SYSTEM_TIME contributes its
	// duration to the parent's SYSTEM_TIME rather than its own.
	s, types := newTestStore()
	enter := defineScopeEnter(types)
	leave := defineScopeLeave(types)
	types.Define(eventtype.Desc{Name: "gc#sweep", Class: tracetypes.ClassScope, Flags: tracetypes.FlagSystemTime})

	s.Insert(enter, 0, nameArgs("work"))
	sweep := types.ByName("gc#sweep")
	s.Insert(sweep, 100000, nil)
	s.Insert(leave, 300000, nil) // closes gc#sweep... but sweep was pushed directly
	s.Insert(leave, 500000, nil) // closes "work"

	require.NoError(t, s.Rebuild())

	work := s.GetEvent(0)
	require.Equal(t, int64(500), work.EndTimeMs())
	require.EqualValues(t, 200, work.rec().systemTime()/1000)
}

func TestScopeAppendData_MergesIntoTopOfStack(t *testing.T) {
	s, types := newTestStore()
	enter := defineScopeEnter(types)
	leave := defineScopeLeave(types)
	appendData := types.Define(eventtype.Desc{Name: TypeScopeAppendData, Class: tracetypes.ClassInstance})

	s.Insert(enter, 0, nameArgs("A"))
	s.Insert(appendData, 50000, argdata.New(argdata.Pair{Name: "extra", Value: argdata.Int64(7)}))
	s.Insert(leave, 100000, nil)

	require.NoError(t, s.Rebuild())

	a := s.GetEvent(0)
	v, ok := a.Argument("extra")
	require.True(t, ok)
	require.Equal(t, int64(7), v.Int)
}

func TestScopeAppendData_EmptyStackIsIgnored(t *testing.T) {
	s, types := newTestStore()
	appendData := types.Define(eventtype.Desc{Name: TypeScopeAppendData, Class: tracetypes.ClassInstance})

	s.Insert(appendData, 0, argdata.New(argdata.Pair{Name: "extra", Value: argdata.Int64(1)}))
	require.NoError(t, s.Rebuild())
	require.Equal(t, uint32(1), s.Count())
}

func TestTraceTimeStamp_ResolvesOnDemandInstanceType(t *testing.T) {
	s, types := newTestStore()
	ts := types.Define(eventtype.Desc{Name: TypeTraceTimeStamp, Class: tracetypes.ClassInstance})

	s.Insert(ts, 0, nameArgs("frameStart"))
	require.NoError(t, s.Rebuild())

	it := s.GetEvent(0)
	require.Equal(t, "frameStart", it.TypeName())
	require.True(t, it.IsInstance())
}

func TestRegisterAncillary_RebuildsImmediatelyWhenEventsExist(t *testing.T) {
	s, types := newTestStore()
	instance := types.Define(eventtype.Desc{Name: "app#tick", Class: tracetypes.ClassInstance})
	s.Insert(instance, 0, nil)
	require.NoError(t, s.Rebuild())

	rec := &recordingIndex{}
	s.RegisterAncillary(rec)
	require.Equal(t, 1, rec.handled)
	require.Equal(t, 1, rec.ended)
}

type recordingIndex struct {
	handled int
	ended   int
}

func (r *recordingIndex) BeginRebuild(types *eventtype.Table) []*eventtype.EventType {
	return []*eventtype.EventType{types.ByName("app#tick")}
}

func (r *recordingIndex) HandleEvent(typeIndex int, et *eventtype.EventType, iter *EventIterator) {
	r.handled++
}

func (r *recordingIndex) EndRebuild() {
	r.ended++
}
