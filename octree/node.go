package octree

import "fmt"

// Node identifies a cubic region of space by integer grid coordinates at
// its own LOD level. LOD 0 is the finest level; each increment doubles the
// cell size. Coordinates may be negative, the grid is unbounded and
// centered on the origin.
//
// Node is a comparable value type and is used directly as a map key; the
// tree it belongs to is never stored, parent/child relationships are
// computed on demand.
type Node struct {
	X, Y, Z int32
	Lod     int32
}

// NewNode returns a node at the given grid position and LOD.
func NewNode(x, y, z, lod int32) Node {
	return Node{X: x, Y: y, Z: z, Lod: lod}
}

// Child returns the child node in the given octant at LOD-1.
//
// Octant bits select the positive-axis offset: bit 0 = +X, bit 1 = +Y,
// bit 2 = +Z. Returns ok == false at LOD 0 (cannot subdivide further).
func (n Node) Child(octant uint8) (Node, bool) {
	if n.Lod <= 0 {
		return Node{}, false
	}
	return Node{
		X:   n.X*2 + int32(octant&1),
		Y:   n.Y*2 + int32((octant>>1)&1),
		Z:   n.Z*2 + int32((octant>>2)&1),
		Lod: n.Lod - 1,
	}, true
}

// Children returns all 8 children of the node.
// Returns ok == false at LOD 0.
func (n Node) Children() ([8]Node, bool) {
	var out [8]Node
	if n.Lod <= 0 {
		return out, false
	}
	for octant := uint8(0); octant < 8; octant++ {
		out[octant], _ = n.Child(octant)
	}
	return out, true
}

// Parent returns the enclosing node at LOD+1.
//
// Returns ok == false at maxLod (cannot go coarser). Coordinates divide by
// two with floor semantics: the arithmetic shift rounds toward negative
// infinity, so negative coordinates stay on the correct side of the
// origin. Child-then-parent always recovers the original node;
// parent-then-child does not in general, since eight children share one
// parent.
func (n Node) Parent(maxLod int32) (Node, bool) {
	if n.Lod >= maxLod {
		return Node{}, false
	}
	return Node{
		X:   n.X >> 1,
		Y:   n.Y >> 1,
		Z:   n.Z >> 1,
		Lod: n.Lod + 1,
	}, true
}

func (n Node) String() string {
	return fmt.Sprintf("(%d,%d,%d)@%d", n.X, n.Y, n.Z, n.Lod)
}
