package octree

// Budget rate-limits refinement. Unbounded cascades of subdivisions or
// merges cause frame spikes; capping per-step work defers the excess to
// later refine calls while the leaf set stays internally consistent.
//
// Zero means unlimited for every count field.
type Budget struct {
	// MaxTransitions caps the combined number of transitions (merges +
	// subdivisions, neighbor enforcement included) in one refine call.
	// Merges draw from the shared budget first; subdivisions take what
	// remains.
	MaxTransitions int

	// MaxSubdivisions and MaxCollapses additionally cap each kind on its
	// own.
	MaxSubdivisions int
	MaxCollapses    int

	// MaxRelativeLOD is the largest LOD difference allowed between face
	// neighbors; 1 prevents T-junction cracks. 0 disables neighbor
	// enforcement entirely.
	MaxRelativeLOD int32

	// MaxNeighborIterations bounds the gradation fixpoint loop per step.
	MaxNeighborIterations int
}

// DefaultBudget returns limits suitable for per-frame refinement.
func DefaultBudget() Budget {
	return Budget{
		MaxSubdivisions:       32,
		MaxCollapses:          32,
		MaxRelativeLOD:        1,
		MaxNeighborIterations: 4,
	}
}

// UnlimitedBudget removes all count limits, for tests and offline use.
func UnlimitedBudget() Budget {
	return Budget{MaxRelativeLOD: 1, MaxNeighborIterations: 4}
}

// SharedBudget caps only the combined transition count at n per step,
// with neighbor enforcement off.
func SharedBudget(n int) Budget {
	return Budget{MaxTransitions: n}
}

// NeighborEnforcementEnabled reports whether gradation runs at all.
func (b Budget) NeighborEnforcementEnabled() bool {
	return b.MaxRelativeLOD > 0
}

func (b Budget) canCollapse(s Stats) bool {
	if b.MaxCollapses != 0 && s.Collapses >= b.MaxCollapses {
		return false
	}
	return b.withinTotal(s)
}

func (b Budget) canSubdivide(s Stats) bool {
	if b.MaxSubdivisions != 0 && s.Subdivisions >= b.MaxSubdivisions {
		return false
	}
	return b.withinTotal(s)
}

func (b Budget) withinTotal(s Stats) bool {
	return b.MaxTransitions == 0 || s.TotalTransitions() < b.MaxTransitions
}

// Stats reports what one refine call actually did.
type Stats struct {
	// Subdivisions and Collapses are the distance-driven transitions.
	Subdivisions int
	Collapses    int

	// NeighborSubdivisions counts gradation-enforcement subdivisions,
	// tracked separately from the distance-driven ones.
	NeighborSubdivisions int
}

// TotalTransitions returns the combined transition count.
func (s Stats) TotalTransitions() int {
	return s.Subdivisions + s.Collapses + s.NeighborSubdivisions
}

// TotalSubdivisions returns subdivisions including neighbor enforcement.
func (s Stats) TotalSubdivisions() int {
	return s.Subdivisions + s.NeighborSubdivisions
}
