package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/terralod/octree"
)

func TestBufferReleasesOnlyCompleteGroups(t *testing.T) {
	b := NewGroupBuffer()
	parent := octree.NewNode(0, 0, 0, 3)
	g, _ := octree.NewSubdivide(parent)
	b.Track(g)

	// 7 of 8 meshes: nothing comes out.
	for i := 0; i < 7; i++ {
		done, ok := b.Deliver(parent, g.Add.At(i), EmptyMesh())
		assert.False(t, ok)
		assert.Nil(t, done)
	}
	assert.Equal(t, 1, b.Pending())

	done, ok := b.Deliver(parent, g.Add.At(7), EmptyMesh())
	require.True(t, ok)
	assert.Same(t, g, done.Group)
	assert.Len(t, done.Meshes, 8)
	assert.Equal(t, 0, b.Pending())
}

func TestBufferHandlesOutOfOrderDelivery(t *testing.T) {
	b := NewGroupBuffer()
	g, _ := octree.NewSubdivide(octree.NewNode(0, 0, 0, 3))
	b.Track(g)

	// Reverse order, with a duplicate in the middle.
	order := []int{7, 3, 5, 3, 1, 0, 6, 2, 4}
	var completed *CompletedGroup
	for _, i := range order {
		if done, ok := b.Deliver(g.GroupKey, g.Add.At(i), EmptyMesh()); ok {
			completed = done
		}
	}
	require.NotNil(t, completed)
	assert.Len(t, completed.Meshes, 8)
}

func TestBufferDropsUntrackedDeliveries(t *testing.T) {
	b := NewGroupBuffer()

	_, ok := b.Deliver(octree.NewNode(0, 0, 0, 3), octree.NewNode(0, 0, 0, 2), EmptyMesh())
	assert.False(t, ok, "late result for a group never tracked")
	assert.Equal(t, 0, b.Pending())
}

func TestBufferDropsForeignNodes(t *testing.T) {
	b := NewGroupBuffer()
	g, _ := octree.NewMerge(octree.NewNode(0, 0, 0, 3))
	b.Track(g)

	// Not a node this group adds.
	_, ok := b.Deliver(g.GroupKey, octree.NewNode(9, 9, 9, 1), EmptyMesh())
	assert.False(t, ok)
	assert.Equal(t, 1, b.Pending())
}

func TestBufferMergeCompletesWithSingleMesh(t *testing.T) {
	b := NewGroupBuffer()
	parent := octree.NewNode(2, 2, 2, 4)
	g, _ := octree.NewMerge(parent)
	b.Track(g)

	done, ok := b.Deliver(parent, parent, EmptyMesh())
	require.True(t, ok)
	assert.Equal(t, octree.Merge, done.Group.Type)
}

func TestCancelDropsBufferedWork(t *testing.T) {
	b := NewGroupBuffer()
	g1, _ := octree.NewSubdivide(octree.NewNode(0, 0, 0, 3))
	g2, _ := octree.NewMerge(octree.NewNode(1, 0, 0, 3))
	b.Track(g1)
	b.Track(g2)
	b.Deliver(g1.GroupKey, g1.Add.At(0), EmptyMesh())

	assert.Equal(t, 2, b.Cancel())
	assert.Equal(t, 0, b.Pending())

	// Completing the cancelled group afterwards must not resurrect it.
	for i := 0; i < g1.Add.Len(); i++ {
		_, ok := b.Deliver(g1.GroupKey, g1.Add.At(i), EmptyMesh())
		assert.False(t, ok)
	}
}

func TestRetrackReplacesPartialGroup(t *testing.T) {
	b := NewGroupBuffer()
	parent := octree.NewNode(0, 0, 0, 3)
	g, _ := octree.NewSubdivide(parent)
	b.Track(g)
	for i := 0; i < 7; i++ {
		b.Deliver(parent, g.Add.At(i), EmptyMesh())
	}

	// Re-tracking restarts the count from zero.
	b.Track(g)
	_, ok := b.Deliver(parent, g.Add.At(7), EmptyMesh())
	assert.False(t, ok)
	assert.Equal(t, 1, b.Pending())
}
