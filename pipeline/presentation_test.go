package pipeline

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/terralod/octree"
)

type sceneEvent struct {
	kind string // "ready", "removed", "destroyed"
	node octree.Node
	hint PresentationHint
}

// recordingPresenter captures the exact callback sequence.
type recordingPresenter struct {
	events []sceneEvent
}

func (r *recordingPresenter) ChunkReady(_ uuid.UUID, node octree.Node, _ *MeshData, hint PresentationHint) {
	r.events = append(r.events, sceneEvent{kind: "ready", node: node, hint: hint})
}

func (r *recordingPresenter) ChunkRemoved(_ uuid.UUID, node octree.Node) {
	r.events = append(r.events, sceneEvent{kind: "removed", node: node})
}

func (r *recordingPresenter) WorldDestroyed(uuid.UUID) {
	r.events = append(r.events, sceneEvent{kind: "destroyed"})
}

func completedGroup(t *testing.T, g *octree.TransitionGroup) *CompletedGroup {
	t.Helper()
	meshes := make(map[octree.Node]*MeshData, g.Add.Len())
	for i := 0; i < g.Add.Len(); i++ {
		meshes[g.Add.At(i)] = EmptyMesh()
	}
	return &CompletedGroup{Group: g, Meshes: meshes}
}

func TestApplyGroupAddsBeforeRemoves(t *testing.T) {
	rec := &recordingPresenter{}
	scene := NewChunkScene(uuid.New(), rec)

	parent := octree.NewNode(0, 0, 0, 3)
	scene.ApplyChunk(parent, EmptyMesh())
	rec.events = nil

	g, _ := octree.NewSubdivide(parent)
	scene.ApplyGroup(completedGroup(t, g))

	require.Len(t, rec.events, 9)
	for _, e := range rec.events[:8] {
		assert.Equal(t, "ready", e.kind)
		assert.Equal(t, FadeIn, e.hint.Kind)
		assert.Equal(t, parent, e.hint.GroupKey)
	}
	assert.Equal(t, sceneEvent{kind: "removed", node: parent}, rec.events[8])

	assert.Equal(t, 8, scene.Len())
	assert.False(t, scene.Displays(parent))
}

func TestApplyMergeGroup(t *testing.T) {
	rec := &recordingPresenter{}
	scene := NewChunkScene(uuid.New(), rec)

	parent := octree.NewNode(0, 0, 0, 3)
	children, _ := parent.Children()
	for _, c := range children {
		scene.ApplyChunk(c, EmptyMesh())
	}
	rec.events = nil

	g, _ := octree.NewMerge(parent)
	scene.ApplyGroup(completedGroup(t, g))

	require.Len(t, rec.events, 9)
	assert.Equal(t, "ready", rec.events[0].kind)
	assert.Equal(t, FadeOut, rec.events[0].hint.Kind)
	for _, e := range rec.events[1:] {
		assert.Equal(t, "removed", e.kind)
	}

	assert.Equal(t, 1, scene.Len())
	assert.True(t, scene.Displays(parent))
}

func TestRemovingAbsentNodeIsSilent(t *testing.T) {
	rec := &recordingPresenter{}
	scene := NewChunkScene(uuid.New(), rec)

	// Merge whose children were never displayed: adds the parent,
	// removal of the 8 absent children emits nothing.
	g, _ := octree.NewMerge(octree.NewNode(0, 0, 0, 3))
	scene.ApplyGroup(completedGroup(t, g))

	require.Len(t, rec.events, 1)
	assert.Equal(t, "ready", rec.events[0].kind)
	assert.Equal(t, 1, scene.Len())
}

func TestSubdivideThenMergeRestoresScene(t *testing.T) {
	scene := NewChunkScene(uuid.New(), NullPresenter{})

	parent := octree.NewNode(0, 0, 0, 3)
	scene.ApplyChunk(parent, EmptyMesh())

	sub, _ := octree.NewSubdivide(parent)
	scene.ApplyGroup(completedGroup(t, sub))
	assert.Equal(t, 8, scene.Len())

	merge, _ := octree.NewMerge(parent)
	scene.ApplyGroup(completedGroup(t, merge))
	assert.Equal(t, 1, scene.Len())
	assert.True(t, scene.Displays(parent))
}

func TestDestroyClearsScene(t *testing.T) {
	rec := &recordingPresenter{}
	scene := NewChunkScene(uuid.New(), rec)
	scene.ApplyChunk(octree.NewNode(0, 0, 0, 1), EmptyMesh())

	scene.Destroy()

	assert.Equal(t, 0, scene.Len())
	assert.Equal(t, "destroyed", rec.events[len(rec.events)-1].kind)
}
