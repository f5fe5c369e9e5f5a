package octree

// TransitionType distinguishes the two atomic octree state changes.
type TransitionType uint8

const (
	// Subdivide replaces one parent with its 8 children (finer detail).
	Subdivide TransitionType = iota
	// Merge replaces 8 sibling children with their parent (coarser).
	Merge
)

func (t TransitionType) String() string {
	switch t {
	case Subdivide:
		return "subdivide"
	case Merge:
		return "merge"
	default:
		return "unknown"
	}
}

// NodeList is a fixed-capacity list of at most 8 nodes. The bound is a
// domain invariant (a transition never touches more than 8 nodes on
// either side), not an optimization.
type NodeList struct {
	nodes [8]Node
	n     int
}

// Len returns the number of nodes in the list.
func (l *NodeList) Len() int { return l.n }

// At returns the i-th node.
func (l *NodeList) At(i int) Node { return l.nodes[i] }

// Slice returns a view of the occupied portion of the list. The view is
// invalidated by further pushes; copy if retaining.
func (l *NodeList) Slice() []Node { return l.nodes[:l.n] }

func (l *NodeList) push(n Node) {
	l.nodes[l.n] = n
	l.n++
}

// TransitionGroup is one atomic unit of change: a parent subdividing into
// its 8 children, or 8 siblings merging into their parent. All nodes in a
// group transition together or not at all; that atomicity is a contract
// on the consumer (the presentation layer), not a runtime lock here.
//
// Groups are created fresh each refinement step, consumed by meshing and
// presentation, and never persisted.
type TransitionGroup struct {
	Type TransitionType

	// GroupKey is always the parent node, whether it is being created
	// (merge) or destroyed (subdivide).
	GroupKey Node

	// Add holds the leaves this group introduces: 8 children for a
	// subdivide, 1 parent for a merge.
	Add NodeList

	// Remove holds the leaves this group retires: 1 parent for a
	// subdivide, 8 children for a merge.
	Remove NodeList

	// neighborMasks parallel Add: the seam-stitching mask of each added
	// node, computed against the finalized leaf set after refinement.
	neighborMasks [8]uint32
}

// NewSubdivide builds a subdivide group for the given parent. Returns
// ok == false at LOD 0, where no finer level exists.
func NewSubdivide(parent Node) (*TransitionGroup, bool) {
	children, ok := parent.Children()
	if !ok {
		return nil, false
	}
	g := &TransitionGroup{Type: Subdivide, GroupKey: parent}
	for _, c := range children {
		g.Add.push(c)
	}
	g.Remove.push(parent)
	return g, true
}

// NewMerge builds a merge group collapsing the parent's 8 children into
// it. Returns ok == false at LOD 0. Whether all children are actually
// leaves is the refinement algorithm's validation, not checked here.
func NewMerge(parent Node) (*TransitionGroup, bool) {
	children, ok := parent.Children()
	if !ok {
		return nil, false
	}
	g := &TransitionGroup{Type: Merge, GroupKey: parent}
	g.Add.push(parent)
	for _, c := range children {
		g.Remove.push(c)
	}
	return g, true
}

// SetNeighborMask records the seam mask for the i-th added node.
func (g *TransitionGroup) SetNeighborMask(i int, mask uint32) {
	g.neighborMasks[i] = mask
}

// NeighborMask returns the seam mask for the i-th added node.
func (g *TransitionGroup) NeighborMask(i int) uint32 {
	return g.neighborMasks[i]
}
