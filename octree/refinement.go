package octree

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Refinement decides which leaves subdivide or merge for a given viewer
// position. It is a synchronous, pure computation: one call is one
// discrete state-machine step over the leaf set, and nothing else may
// mutate the set while it runs (the merge validation and the budgeted
// application read-then-write the same state).
//
// Scheduling is collapse-first: shedding distant detail is applied before
// adding nearby detail, so a fixed per-step budget keeps worst-case work
// bounded even under movement that only ever wants more detail.
//
// All distances are float64; squared distances order candidates.

// RefineInput carries one refinement step's inputs.
type RefineInput struct {
	// ViewerPos is the viewer position already translated into this
	// octree's local space by the caller.
	ViewerPos mgl64.Vec3

	// Config is shared read-only across the step.
	Config *Config

	// Leaves is the current leaf set. Refine does not mutate it.
	Leaves *LeafSet

	// Budget limits the work performed this step.
	Budget Budget
}

// RefineOutput is one step's result.
type RefineOutput struct {
	// Leaves is the updated leaf set.
	Leaves *LeafSet

	// Groups holds the transitions applied this step, sorted ascending by
	// squared viewer distance to each group key's center. The sort is a
	// presentation priority, independent of the order groups were applied.
	Groups []*TransitionGroup

	// Stats counts what was done.
	Stats Stats
}

// faceOffsets are the 6 face-neighbor directions.
var faceOffsets = [6][3]int32{
	{-1, 0, 0}, {1, 0, 0},
	{0, -1, 0}, {0, 1, 0},
	{0, 0, -1}, {0, 0, 1},
}

// Refine runs one refinement step.
//
// Phases, each gating the next:
//  1. identify subdivide candidates (closer than their own threshold) and
//     merge-candidate parents (viewer at or beyond the parent threshold)
//  2. validate merges: all 8 children must currently be leaves
//  3. sort: subdivisions closest-first, merges farthest-first
//  4. apply merges while budget remains
//  5. apply subdivisions with the remaining budget
//  6. enforce neighbor LOD gradation, then sort emitted groups by
//     proximity
//
// No phase fails: boundary exhaustion, invalid merges and spent budget
// all degrade to "no candidate" and the set stays consistent.
func Refine(in RefineInput) RefineOutput {
	cfg := in.Config
	next := in.Leaves.Clone()

	var toSubdivide []Node
	coarsenCandidates := make(map[Node]struct{})

	// Phase 1: candidates. Subdivision and coarsening use symmetric but
	// independently evaluated conditions (< own threshold to subdivide,
	// >= the parent's larger threshold to merge), which is the hysteresis
	// that keeps borderline nodes from oscillating.
	in.Leaves.Range(func(n Node) bool {
		if !cfg.inBounds(n) {
			return true
		}

		if n.Lod > cfg.MinLOD {
			dist := in.ViewerPos.Sub(cfg.NodeCenter(n)).Len()
			if dist < cfg.Threshold(n.Lod) {
				// A subdivide candidate never also nominates its parent for
				// merging, even in degenerate configs (negative exponent)
				// where a node can sit inside its own threshold yet outside
				// the parent's.
				toSubdivide = append(toSubdivide, n)
				return true
			}
		}

		if n.Lod < cfg.MaxLOD {
			if parent, ok := n.Parent(cfg.MaxLOD); ok {
				// The set deduplicates: all 8 siblings nominate the same
				// parent.
				parentDist := in.ViewerPos.Sub(cfg.NodeCenter(parent)).Len()
				if parentDist >= cfg.Threshold(parent.Lod) {
					coarsenCandidates[parent] = struct{}{}
				}
			}
		}
		return true
	})

	// Phase 2: a merge is valid only when every child is present.
	// Merging is never partial.
	validCoarsen := make([]Node, 0, len(coarsenCandidates))
	for parent := range coarsenCandidates {
		if allChildrenAreLeaves(parent, next) {
			validCoarsen = append(validCoarsen, parent)
		}
	}

	// Phase 3: priority. Nearby detail matters most, so subdivisions go
	// closest-first; merges shed the most distant detail first.
	distSq := func(n Node) float64 {
		d := in.ViewerPos.Sub(cfg.NodeCenter(n))
		return d.Dot(d)
	}
	sort.Slice(toSubdivide, func(i, j int) bool {
		return distSq(toSubdivide[i]) < distSq(toSubdivide[j])
	})
	sort.Slice(validCoarsen, func(i, j int) bool {
		return distSq(validCoarsen[i]) > distSq(validCoarsen[j])
	})

	var groups []*TransitionGroup
	var stats Stats

	// Phase 4: collapses first.
	for _, parent := range validCoarsen {
		if !in.Budget.canCollapse(stats) {
			break
		}
		if applyMerge(parent, next, &groups) {
			stats.Collapses++
		}
	}

	// Phase 5: subdivisions with whatever budget is left.
	for _, n := range toSubdivide {
		if !in.Budget.canSubdivide(stats) {
			break
		}
		// A collapse above may have absorbed this node already.
		if !next.Contains(n) {
			continue
		}
		if applySubdivide(n, next, &groups) {
			stats.Subdivisions++
		}
	}

	// Phase 6: neighbor gradation, then presentation ordering.
	stats.NeighborSubdivisions = enforceNeighborGradation(next, &groups, cfg, in.Budget, stats)

	sort.Slice(groups, func(i, j int) bool {
		return distSq(groups[i].GroupKey) < distSq(groups[j].GroupKey)
	})

	return RefineOutput{Leaves: next, Groups: groups, Stats: stats}
}

// allChildrenAreLeaves checks by coordinate computation, there are no
// stored child pointers to consult.
func allChildrenAreLeaves(parent Node, leaves *LeafSet) bool {
	children, ok := parent.Children()
	if !ok {
		return false
	}
	for _, c := range children {
		if !leaves.Contains(c) {
			return false
		}
	}
	return true
}

// applySubdivide removes the parent, inserts its 8 children, and emits
// the group. Reports whether a transition happened.
func applySubdivide(parent Node, leaves *LeafSet, groups *[]*TransitionGroup) bool {
	g, ok := NewSubdivide(parent)
	if !ok {
		return false
	}
	leaves.Apply(g)
	*groups = append(*groups, g)
	return true
}

// applyMerge removes the 8 children, inserts the parent, and emits the
// group. Reports whether a transition happened.
func applyMerge(parent Node, leaves *LeafSet, groups *[]*TransitionGroup) bool {
	g, ok := NewMerge(parent)
	if !ok {
		return false
	}
	leaves.Apply(g)
	*groups = append(*groups, g)
	return true
}

// FindFaceNeighbor returns the leaf adjacent to n across the given face
// direction (0..5 indexing -X,+X,-Y,+Y,-Z,+Z), at the same or a coarser
// LOD. Same-LOD is checked first, then progressively coarser levels up
// to maxLod. ok is false when no leaf borders that face.
func FindFaceNeighbor(n Node, dir int, leaves *LeafSet, maxLod int32) (Node, bool) {
	off := faceOffsets[dir]
	nx, ny, nz := n.X+off[0], n.Y+off[1], n.Z+off[2]

	same := NewNode(nx, ny, nz, n.Lod)
	if leaves.Contains(same) {
		return same, true
	}

	for lod := n.Lod + 1; lod <= maxLod; lod++ {
		shift := uint(lod - n.Lod)
		// Arithmetic shift floors toward negative infinity, matching
		// Parent's coordinate math.
		coarser := NewNode(nx>>shift, ny>>shift, nz>>shift, lod)
		if leaves.Contains(coarser) {
			return coarser, true
		}
	}
	return Node{}, false
}

// enforceNeighborGradation subdivides leaves whose face neighbor is more
// than MaxRelativeLOD levels coarser, iterating until convergence or the
// iteration cap. This is what prevents T-junction cracks at LOD borders.
// Returns the number of subdivisions performed.
func enforceNeighborGradation(
	leaves *LeafSet,
	groups *[]*TransitionGroup,
	cfg *Config,
	budget Budget,
	base Stats,
) int {
	if !budget.NeighborEnforcementEnabled() {
		return 0
	}

	maxIterations := budget.MaxNeighborIterations
	if maxIterations <= 0 {
		maxIterations = 4
	}

	performed := 0
	running := base
	for iter := 0; iter < maxIterations; iter++ {
		changed := false

		// Snapshot: the set mutates while we scan.
		for _, n := range leaves.Nodes() {
			for dir := 0; dir < 6; dir++ {
				neighbor, ok := FindFaceNeighbor(n, dir, leaves, cfg.MaxLOD)
				if !ok {
					continue
				}
				if neighbor.Lod-n.Lod <= budget.MaxRelativeLOD {
					continue
				}
				if neighbor.Lod <= cfg.MinLOD || !leaves.Contains(neighbor) {
					continue
				}
				if !budget.withinTotal(running) {
					return performed
				}
				if applySubdivide(neighbor, leaves, groups) {
					performed++
					running.NeighborSubdivisions++
					changed = true
				}
			}
		}

		if !changed {
			break
		}
	}
	return performed
}

// Seam-mask bit layout, shared with the mesher. Bit 0 flags "all
// neighbors at the same LOD" (displacement can be skipped entirely);
// bits 1..6 mark faces bordering a coarser leaf, in faceOffsets order.
// Bits 7..26 are reserved for corner and edge neighbors.
const (
	MaskAllSameLOD uint32 = 1 << 0
	MaskFaceShift         = 1
)

// NeighborMask computes the seam-stitching mask of a node against a
// finalized leaf set.
func NeighborMask(n Node, leaves *LeafSet, cfg *Config) uint32 {
	var mask uint32
	for dir := 0; dir < 6; dir++ {
		neighbor, ok := FindFaceNeighbor(n, dir, leaves, cfg.MaxLOD)
		if ok && neighbor.Lod > n.Lod {
			mask |= 1 << (MaskFaceShift + uint(dir))
		}
	}
	if mask == 0 {
		mask = MaskAllSameLOD
	}
	return mask
}
