package sbb

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestOpenSet_WorstFirst pops by descending bound, ties by ascending id, and
// keeps MinBound consistent under lazy deletion.
func TestOpenSet_WorstFirst(t *testing.T) {
	s := &openSet{}
	assert.True(t, math.IsInf(s.MinBound(), 1))

	for id, b := range []float64{3, 1, 5, 3, 2} {
		s.Push(&Node{ID: id, Bound: b})
	}
	require.Equal(t, 5, s.Len())
	assert.Equal(t, 1.0, s.MinBound())

	var got []int
	for s.Len() > 0 {
		got = append(got, s.PopWorst().ID)
		if s.Len() == 1 {
			assert.Equal(t, 1.0, s.MinBound())
		}
	}
	assert.Equal(t, []int{2, 0, 3, 4, 1}, got)
	assert.True(t, math.IsInf(s.MinBound(), 1))
}

// TestSearchState_Bounds covers incumbent updates and the lower bound rules.
func TestSearchState_Bounds(t *testing.T) {
	st := newSearchState(time.Now())
	assert.True(t, math.IsInf(st.Gap(), 1))
	assert.False(t, st.Incumbent.Found())

	// Nothing open: LB unchanged.
	st.refreshLower()
	assert.True(t, math.IsInf(st.Lower, -1))

	x := []float64{1, 2}
	assert.True(t, st.offer(x, 4))
	x[0] = 9
	assert.Equal(t, []float64{1, 2}, st.Incumbent.Point, "incumbent is copied")
	assert.False(t, st.offer([]float64{0, 0}, 4))
	assert.True(t, st.offer([]float64{0, 0}, 3))
	assert.Equal(t, 3.0, st.Upper)

	st.open.Push(&Node{ID: 1, Bound: 1})
	st.open.Push(&Node{ID: 2, Bound: 2})
	st.refreshLower()
	assert.Equal(t, 1.0, st.Lower)
	assert.Equal(t, 2.0, st.Gap())

	// Removing the smallest bound raises LB; retiring caps it.
	st.open.PopWorst()
	st.open.PopWorst()
	st.open.Push(&Node{ID: 3, Bound: 2.5})
	st.retire(&Node{ID: 4, Bound: 2})
	st.refreshLower()
	assert.Equal(t, 2.0, st.Lower)

	// Open bounds above the incumbent are capped at UB.
	st.floor = math.Inf(1)
	st.open.PopWorst()
	st.open.Push(&Node{ID: 5, Bound: 7})
	st.refreshLower()
	assert.Equal(t, 3.0, st.Lower)

	// LB never decreases.
	st.open.Push(&Node{ID: 6, Bound: 0})
	st.refreshLower()
	assert.Equal(t, 3.0, st.Lower)
}
