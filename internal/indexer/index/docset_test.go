package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocSetOperations(t *testing.T) {
	a := NewDocSet("1", "2", "3")
	b := NewDocSet("2", "3", "4")

	assert.Equal(t, []string{"2", "3"}, a.Intersect(b).Sorted())
	assert.Equal(t, []string{"1", "2", "3", "4"}, a.Union(b).Sorted())
	assert.Equal(t, []string{"1"}, a.Difference(b).Sorted())

	// operands are untouched
	assert.Equal(t, 3, a.Len())
	assert.Equal(t, 3, b.Len())
}

func TestDocSetEmpty(t *testing.T) {
	empty := NewDocSet()
	a := NewDocSet("x")
	assert.Equal(t, 0, empty.Intersect(a).Len())
	assert.True(t, empty.Union(a).Equal(a))
	assert.True(t, a.Difference(empty).Equal(a))
	assert.Empty(t, empty.Sorted())
}

func TestDocSetCloneIsIndependent(t *testing.T) {
	a := NewDocSet("x", "y")
	c := a.Clone()
	delete(c, "x")
	assert.True(t, a.Contains("x"))
	assert.False(t, a.Equal(c))
}
