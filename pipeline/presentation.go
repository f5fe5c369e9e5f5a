package pipeline

import (
	"github.com/google/uuid"

	"github.com/gekko3d/terralod/octree"
)

// Presenter is the callback boundary towards an engine bridge. The
// scene drives it; implementations spawn and despawn renderable chunks.
// Callbacks may arrive from worker goroutines, implementations must be
// safe for concurrent use.
type Presenter interface {
	ChunkReady(worldID uuid.UUID, node octree.Node, mesh *MeshData, hint PresentationHint)
	ChunkRemoved(worldID uuid.UUID, node octree.Node)
	WorldDestroyed(worldID uuid.UUID)
}

// NullPresenter discards every event. Headless runs and tests.
type NullPresenter struct{}

func (NullPresenter) ChunkReady(uuid.UUID, octree.Node, *MeshData, PresentationHint) {}
func (NullPresenter) ChunkRemoved(uuid.UUID, octree.Node)                            {}
func (NullPresenter) WorldDestroyed(uuid.UUID)                                       {}

// ChunkScene tracks which nodes are currently displayed and applies
// completed transition groups atomically. Adds happen before removes:
// for one frame old and new geometry may coexist, which reads as a
// brief overlap instead of a hole in the world.
type ChunkScene struct {
	worldID   uuid.UUID
	presenter Presenter
	chunks    map[octree.Node]*MeshData
}

// NewChunkScene returns an empty scene bound to a presenter.
func NewChunkScene(worldID uuid.UUID, p Presenter) *ChunkScene {
	return &ChunkScene{
		worldID:   worldID,
		presenter: p,
		chunks:    make(map[octree.Node]*MeshData),
	}
}

// ApplyGroup applies one mesh-complete group in a single step.
//
// Every added node is inserted and announced first, then every removed
// node is taken out. Removing a node that is not displayed is a silent
// no-op: cascading merges can retire a sibling that an overlapping
// transition already removed.
func (s *ChunkScene) ApplyGroup(c *CompletedGroup) {
	hint := HintFor(c.Group)

	for i := 0; i < c.Group.Add.Len(); i++ {
		node := c.Group.Add.At(i)
		mesh := c.Meshes[node]
		s.chunks[node] = mesh
		s.presenter.ChunkReady(s.worldID, node, mesh, hint)
	}

	for i := 0; i < c.Group.Remove.Len(); i++ {
		node := c.Group.Remove.At(i)
		if _, ok := s.chunks[node]; !ok {
			continue
		}
		delete(s.chunks, node)
		s.presenter.ChunkRemoved(s.worldID, node)
	}
}

// ApplyChunk swaps a single chunk in place (invalidation work).
func (s *ChunkScene) ApplyChunk(node octree.Node, mesh *MeshData) {
	s.chunks[node] = mesh
	s.presenter.ChunkReady(s.worldID, node, mesh, ImmediateHint())
}

// Displays reports whether the node currently has a chunk in the scene.
func (s *ChunkScene) Displays(node octree.Node) bool {
	_, ok := s.chunks[node]
	return ok
}

// Len is the number of displayed chunks.
func (s *ChunkScene) Len() int {
	return len(s.chunks)
}

// Destroy removes every chunk and announces the world teardown.
func (s *ChunkScene) Destroy() {
	s.chunks = make(map[octree.Node]*MeshData)
	s.presenter.WorldDestroyed(s.worldID)
}
