package octree

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gekko3d/terralod/volume"
)

// VoxelsPerCell is the number of interior mesh-producing cells per node
// along each axis, fixed by the sample-volume layout.
const VoxelsPerCell = volume.InteriorCells

// Config holds the immutable parameters of one octree plus the geometry
// functions derived from them. It is shared by reference across a
// refinement step and never mutated; origin shifts produce a new value.
//
// All geometry here is float64. Distance comparisons at LOD 20-30 operate
// on coordinates far beyond float32 precision; only final mesh vertex
// data drops to float32.
type Config struct {
	// VoxelSize is the edge length of one LOD-0 voxel in world units.
	VoxelSize float64

	// WorldOrigin translates all node-space coordinates before use. It is
	// the integration point for a floating reference frame: re-centering
	// the world only moves this origin, node coordinates are untouched.
	WorldOrigin mgl64.Vec3

	// MinLOD is the finest level refinement may reach, typically 0.
	MinLOD int32

	// MaxLOD is the coarsest level allowed.
	MaxLOD int32

	// LodExponent scales distance thresholds:
	// threshold = cellSize * 2^LodExponent. One scalar trades detail
	// density for performance; cell size already doubles per LOD, so
	// thresholds double too and subdivision stays self-similar.
	LodExponent float64

	// Bounds optionally restricts refinement to a world region. Nodes
	// whose cells do not overlap the bounds are never candidates.
	// Nil means unbounded.
	Bounds *AABB
}

// DefaultConfig returns a unit-voxel configuration centered on the origin
// with the full LOD range.
func DefaultConfig() Config {
	return Config{
		VoxelSize:   1.0,
		WorldOrigin: mgl64.Vec3{},
		MinLOD:      0,
		MaxLOD:      30,
		LodExponent: 0.0,
	}
}

// CellSize returns the world-space edge length of a node cell at the
// given LOD: voxelSize * VoxelsPerCell * 2^lod.
func (c *Config) CellSize(lod int32) float64 {
	return c.VoxelSize * VoxelsPerCell * float64(uint64(1)<<uint(lod))
}

// VoxelSizeAt returns the sampling step at the given LOD:
// voxelSize * 2^lod.
func (c *Config) VoxelSizeAt(lod int32) float64 {
	return c.VoxelSize * float64(uint64(1)<<uint(lod))
}

// Threshold returns the refinement distance threshold for a LOD. A leaf
// closer than its own threshold subdivides; eight siblings merge once the
// viewer is at or beyond their parent's threshold.
func (c *Config) Threshold(lod int32) float64 {
	return c.CellSize(lod) * math.Pow(2, c.LodExponent)
}

// NodeMin returns the world-space minimum corner of a node's cell.
//
// Every consumer placing or scaling chunk output must use exactly this
// formula (and VoxelSizeAt) so adjacent-LOD placement is bit-for-bit
// consistent.
func (c *Config) NodeMin(n Node) mgl64.Vec3 {
	cs := c.CellSize(n.Lod)
	return c.WorldOrigin.Add(mgl64.Vec3{
		float64(n.X) * cs,
		float64(n.Y) * cs,
		float64(n.Z) * cs,
	})
}

// NodeCenter returns the world-space center of a node's cell.
func (c *Config) NodeCenter(n Node) mgl64.Vec3 {
	cs := c.CellSize(n.Lod)
	half := cs * 0.5
	return c.NodeMin(n).Add(mgl64.Vec3{half, half, half})
}

// NodeAABB returns the world-space cell of a node.
func (c *Config) NodeAABB(n Node) AABB {
	min := c.NodeMin(n)
	cs := c.CellSize(n.Lod)
	return AABB{Min: min, Max: min.Add(mgl64.Vec3{cs, cs, cs})}
}

// ShiftedOrigin returns a copy of the config with the world origin
// translated by delta. Re-centering a floating origin by -shift preserves
// all leaf-set state; only this translation changes.
func (c *Config) ShiftedOrigin(delta mgl64.Vec3) Config {
	out := *c
	out.WorldOrigin = c.WorldOrigin.Add(delta)
	if c.Bounds != nil {
		b := AABB{Min: c.Bounds.Min.Add(delta), Max: c.Bounds.Max.Add(delta)}
		out.Bounds = &b
	}
	return out
}

// inBounds reports whether the node's cell overlaps the configured world
// bounds. Always true when unbounded.
func (c *Config) inBounds(n Node) bool {
	if c.Bounds == nil {
		return true
	}
	return c.Bounds.Overlaps(c.NodeAABB(n))
}
