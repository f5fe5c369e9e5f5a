// Package pipeline turns transition groups into renderer-ready chunks:
// sample, mesh, group, present. Refinement decides what changes; this
// package makes the change displayable without ever showing a void.
package pipeline

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/gekko3d/terralod/octree"
	"github.com/gekko3d/terralod/volume"
)

// WorkSource routes work through the pipeline. Refinement work is grouped
// and presented atomically per transition group; invalidation work (a
// terrain edit remeshing an existing leaf) bypasses grouping and swaps in
// place.
type WorkSource int

const (
	Refinement WorkSource = iota
	Invalidation
)

func (w WorkSource) String() string {
	if w == Invalidation {
		return "invalidation"
	}
	return "refinement"
}

// MeshConfig parameterizes one mesh generation call.
type MeshConfig struct {
	// VoxelSize scales cell-local coordinates to world units.
	VoxelSize float32

	// NeighborMask flags faces bordering coarser leaves, see
	// octree.NeighborMask for the bit layout.
	NeighborMask uint32
}

// MeshData is one chunk's generated geometry. A nil-geometry value (the
// empty marker) is still a valid, "ready" mesh: homogeneous chunks
// produce one so group completion needs no special case for empty space.
type MeshData struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Materials []uint8
	Indices   []uint32
}

// EmptyMesh returns the marker for a chunk with no surface.
func EmptyMesh() *MeshData {
	return &MeshData{}
}

// IsEmpty reports whether the mesh carries no geometry.
func (m *MeshData) IsEmpty() bool {
	return len(m.Indices) == 0
}

// Mesher converts a sampled volume into a triangle mesh, or the empty
// marker when no surface crosses the volume. Implementations must be
// pure and safe for concurrent use; nodes are meshed in parallel.
type Mesher interface {
	GenerateMesh(data *volume.Data, cfg MeshConfig) *MeshData
}

// HintKind tells the renderer how to bring a chunk in or out.
type HintKind int

const (
	// Immediate swaps the mesh in place (invalidation work).
	Immediate HintKind = iota

	// FadeIn introduces children appearing under a subdividing parent.
	FadeIn

	// FadeOut retires children absorbed by a merging parent.
	FadeOut
)

func (k HintKind) String() string {
	switch k {
	case FadeIn:
		return "fade-in"
	case FadeOut:
		return "fade-out"
	default:
		return "immediate"
	}
}

// PresentationHint pairs a hint kind with the transition group it
// belongs to. GroupKey is meaningful for FadeIn/FadeOut only.
type PresentationHint struct {
	Kind     HintKind
	GroupKey octree.Node
}

// ImmediateHint is the hint for ungrouped invalidation work.
func ImmediateHint() PresentationHint {
	return PresentationHint{Kind: Immediate}
}

// HintFor derives the presentation hint of a transition group.
func HintFor(g *octree.TransitionGroup) PresentationHint {
	if g.Type == octree.Merge {
		return PresentationHint{Kind: FadeOut, GroupKey: g.GroupKey}
	}
	return PresentationHint{Kind: FadeIn, GroupKey: g.GroupKey}
}

// ReadyChunk is one displayable chunk with its presentation hint.
type ReadyChunk struct {
	WorldID uuid.UUID
	Node    octree.Node
	Mesh    *MeshData
	Hint    PresentationHint
}
