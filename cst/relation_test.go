package cst_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/satyls/satyls/cst"
)

func rng(sl, sc, el, ec uint32) cst.Range {
	return cst.Range{Start: cst.At(sl, sc), End: cst.At(el, ec)}
}

func TestRangeIncludes(t *testing.T) {
	t.Parallel()

	r := rng(1, 4, 2, 0)

	assert.True(t, r.Includes(cst.At(1, 4)), "start is inclusive")
	assert.True(t, r.Includes(cst.At(2, 0)), "end is inclusive")
	assert.True(t, r.Includes(cst.At(1, 100)))
	assert.False(t, r.Includes(cst.At(1, 3)))
	assert.False(t, r.Includes(cst.At(2, 1)))
}

func TestRangeRelations(t *testing.T) {
	t.Parallel()

	outer := rng(0, 0, 5, 0)
	inner := rng(1, 2, 3, 4)
	left := rng(0, 0, 1, 0)
	right := rng(1, 0, 2, 0)
	apart := rng(4, 0, 4, 5)

	assert.True(t, outer.Contains(inner))
	assert.True(t, inner.IsContainedIn(outer))
	assert.False(t, inner.Contains(outer))

	got, ok := left.Intersect(right)
	assert.True(t, ok)
	assert.Equal(t, rng(1, 0, 1, 0), got, "touching ranges share one position")

	_, ok = inner.Intersect(apart)
	assert.False(t, ok)
	assert.False(t, apart.HasIntersect(inner))
	assert.True(t, outer.HasIntersect(apart))
}

func TestPositionCompareIgnoresOffset(t *testing.T) {
	t.Parallel()

	a := cst.Position{Line: 1, Character: 2, Offset: 10}
	b := cst.At(1, 2)

	assert.Zero(t, a.Compare(b))
	assert.True(t, cst.At(0, 9).Before(cst.At(1, 0)))
	assert.Equal(t, "1:2", a.String())
}
