package argdata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSet_OverwritesInPlaceAndAppendsNew(t *testing.T) {
	d := New(
		Pair{Name: "name", Value: String("paint")},
		Pair{Name: "n", Value: Int64(1)},
	)
	d.Set("name", String("layout"))
	d.Set("extra", Int64(2))

	require.Equal(t, []string{"name", "n", "extra"}, d.Names())
	v, ok := d.GetString("name")
	require.True(t, ok)
	require.Equal(t, "layout", v)
}

func TestMerge_OverwritesAndPreservesOrder(t *testing.T) {
	base := New(
		Pair{Name: "a", Value: Int64(1)},
		Pair{Name: "b", Value: Int64(2)},
	)
	other := New(
		Pair{Name: "b", Value: Int64(20)},
		Pair{Name: "c", Value: Int64(30)},
	)

	merged := base.Merge(other)
	require.Equal(t, []string{"a", "b", "c"}, merged.Names())

	b, ok := merged.Get("b")
	require.True(t, ok)
	require.Equal(t, int64(20), b.Int)

	// The receiver is not mutated; Merge returns a fresh bag.
	orig, _ := base.Get("b")
	require.Equal(t, int64(2), orig.Int)
}

func TestMerge_NilReceiverAndNilOther(t *testing.T) {
	var nilBag *ArgumentData
	merged := nilBag.Merge(New(Pair{Name: "x", Value: Int64(1)}))
	require.Equal(t, 1, merged.Len())

	base := New(Pair{Name: "x", Value: Int64(1)})
	require.Equal(t, 1, base.Merge(nil).Len())
}

func TestInternTable_DeduplicatesIdenticalBags(t *testing.T) {
	tbl := NewInternTable()

	id1 := tbl.Intern(New(Pair{Name: "name", Value: String("paint")}))
	id2 := tbl.Intern(New(Pair{Name: "name", Value: String("paint")}))
	id3 := tbl.Intern(New(Pair{Name: "name", Value: String("layout")}))

	require.NotZero(t, id1)
	require.Equal(t, id1, id2)
	require.NotEqual(t, id1, id3)
}

func TestInternTable_ZeroMeansNoArguments(t *testing.T) {
	tbl := NewInternTable()
	require.Zero(t, tbl.Intern(nil))
	require.Zero(t, tbl.Intern(New()))
	require.Nil(t, tbl.Get(0))
	require.Nil(t, tbl.Get(99))
}

func TestInternTable_ReplaceMutatesInPlace(t *testing.T) {
	tbl := NewInternTable()
	id := tbl.Intern(New(Pair{Name: "name", Value: String("A")}))

	tbl.Replace(id, New(
		Pair{Name: "name", Value: String("A")},
		Pair{Name: "extra", Value: Int64(7)},
	))

	got := tbl.Get(id)
	require.Equal(t, 2, got.Len())
	v, ok := got.Get("extra")
	require.True(t, ok)
	require.Equal(t, int64(7), v.Int)
}

func TestJSON_RendersTypedValues(t *testing.T) {
	d := New(
		Pair{Name: "name", Value: String("pa\"int")},
		Pair{Name: "n", Value: Int64(3)},
		Pair{Name: "ratio", Value: Float(0.5)},
		Pair{Name: "list", Value: List([]Value{Int64(1), String("x")})},
		Pair{Name: "nested", Value: Map(New(Pair{Name: "k", Value: Int64(9)}))},
	)

	require.Equal(t,
		`{"name":"pa\"int","n":3,"ratio":0.5,"list":[1,"x"],"nested":{"k":9}}`,
		d.JSON())
}

func TestJSON_EscapesControlCharacters(t *testing.T) {
	d := New(Pair{Name: "text", Value: String("a\tb\rc\x00d")})
	require.Equal(t, `{"text":"a\tb\rc\u0000d"}`, d.JSON())
}

func TestJSON_EmptyBag(t *testing.T) {
	var nilBag *ArgumentData
	require.Equal(t, "{}", nilBag.JSON())
	require.Equal(t, "{}", New().JSON())
}
