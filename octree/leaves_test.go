package octree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLeafSetWithInitialSeedsOrigin(t *testing.T) {
	s := NewLeafSetWithInitial(5)
	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Contains(NewNode(0, 0, 0, 5)))
}

func TestInsertRemoveContains(t *testing.T) {
	s := NewLeafSet()
	n := NewNode(1, 2, 3, 4)

	assert.True(t, s.Insert(n))
	assert.False(t, s.Insert(n), "duplicate insert reports false")
	assert.True(t, s.Contains(n))
	assert.Equal(t, 1, s.Len())

	assert.True(t, s.Remove(n))
	assert.False(t, s.Remove(n), "removing absent node reports false")
	assert.False(t, s.Contains(n))
	assert.Equal(t, 0, s.Len())
}

func TestEffectiveMaxLOD(t *testing.T) {
	s := NewLeafSet()

	_, ok := s.EffectiveMaxLOD()
	assert.False(t, ok, "empty set has no effective max LOD")

	s.Insert(NewNode(0, 0, 0, 3))
	s.Insert(NewNode(1, 0, 0, 7))
	s.Insert(NewNode(0, 1, 0, 5))

	lod, ok := s.EffectiveMaxLOD()
	require.True(t, ok)
	assert.Equal(t, int32(7), lod)
}

func TestEffectiveMaxLODDistinguishesLodZeroFromEmpty(t *testing.T) {
	s := NewLeafSet()
	s.Insert(NewNode(0, 0, 0, 0))

	lod, ok := s.EffectiveMaxLOD()
	require.True(t, ok)
	assert.Equal(t, int32(0), lod)
}

func TestCloneIsIndependent(t *testing.T) {
	s := NewLeafSetWithInitial(2)
	c := s.Clone()

	c.Insert(NewNode(9, 9, 9, 2))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 2, c.Len())
}

func TestApplySubdivideGroup(t *testing.T) {
	parent := NewNode(0, 0, 0, 5)
	s := NewLeafSet()
	s.Insert(parent)

	g, ok := NewSubdivide(parent)
	require.True(t, ok)
	s.Apply(g)

	assert.False(t, s.Contains(parent))
	assert.Equal(t, 8, s.Len())
	children, _ := parent.Children()
	for _, c := range children {
		assert.True(t, s.Contains(c), "child %v", c)
	}
}

func TestApplyMergeGroup(t *testing.T) {
	parent := NewNode(0, 0, 0, 5)
	s := NewLeafSet()
	children, _ := parent.Children()
	for _, c := range children {
		s.Insert(c)
	}

	g, ok := NewMerge(parent)
	require.True(t, ok)
	s.Apply(g)

	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Contains(parent))
}

func TestRangeVisitsEveryLeaf(t *testing.T) {
	s := NewLeafSet()
	want := map[Node]struct{}{}
	for i := int32(0); i < 5; i++ {
		n := NewNode(i, -i, i*2, 1)
		s.Insert(n)
		want[n] = struct{}{}
	}

	got := map[Node]struct{}{}
	s.Range(func(n Node) bool {
		got[n] = struct{}{}
		return true
	})
	assert.Equal(t, want, got)

	// Early exit stops iteration.
	visited := 0
	s.Range(func(Node) bool {
		visited++
		return false
	})
	assert.Equal(t, 1, visited)
}
