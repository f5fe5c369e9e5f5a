package octree

// LeafSet is the implicit octree: the set of currently-active leaf nodes
// is the entire tree state. Membership means "rendered at this resolution
// and not subdivided further". There are no parent/child pointers to keep
// in sync; relationships come from Node's coordinate algebra.
//
// Not safe for concurrent mutation. Refinement owns the set for the
// duration of a step.
type LeafSet struct {
	nodes map[Node]struct{}
}

// NewLeafSet returns an empty leaf set. An empty set means
// "uninitialized", not "world is empty"; seed with
// NewLeafSetWithInitial before refining.
func NewLeafSet() *LeafSet {
	return &LeafSet{nodes: make(map[Node]struct{})}
}

// NewLeafSetWithInitial seeds a set with the single node (0,0,0) at the
// given LOD. This is the only production construction path; pick the seed
// LOD to match the initial camera distance.
func NewLeafSetWithInitial(lod int32) *LeafSet {
	s := NewLeafSet()
	s.nodes[NewNode(0, 0, 0, lod)] = struct{}{}
	return s
}

// Len returns the number of leaves.
func (s *LeafSet) Len() int {
	return len(s.nodes)
}

// Contains reports whether the node is currently a leaf.
func (s *LeafSet) Contains(n Node) bool {
	_, ok := s.nodes[n]
	return ok
}

// Insert adds a leaf. Reports whether the node was newly added.
func (s *LeafSet) Insert(n Node) bool {
	if _, ok := s.nodes[n]; ok {
		return false
	}
	s.nodes[n] = struct{}{}
	return true
}

// Remove deletes a leaf. Reports whether the node was present.
func (s *LeafSet) Remove(n Node) bool {
	if _, ok := s.nodes[n]; !ok {
		return false
	}
	delete(s.nodes, n)
	return true
}

// Range calls fn for every leaf in unspecified order until fn returns
// false.
func (s *LeafSet) Range(fn func(Node) bool) {
	for n := range s.nodes {
		if !fn(n) {
			return
		}
	}
}

// Nodes returns the leaves as a freshly-allocated slice, unordered.
func (s *LeafSet) Nodes() []Node {
	out := make([]Node, 0, len(s.nodes))
	for n := range s.nodes {
		out = append(out, n)
	}
	return out
}

// Clone returns an independent copy of the set.
func (s *LeafSet) Clone() *LeafSet {
	out := &LeafSet{nodes: make(map[Node]struct{}, len(s.nodes))}
	for n := range s.nodes {
		out.nodes[n] = struct{}{}
	}
	return out
}

// EffectiveMaxLOD returns the coarsest LOD currently present.
// ok is false for an empty set; callers must treat that as
// "uninitialized" rather than LOD 0.
func (s *LeafSet) EffectiveMaxLOD() (int32, bool) {
	if len(s.nodes) == 0 {
		return 0, false
	}
	var max int32
	first := true
	for n := range s.nodes {
		if first || n.Lod > max {
			max = n.Lod
			first = false
		}
	}
	return max, true
}

// Apply mutates the set by one transition group: removals first, then
// insertions. This is the only mutation path refinement uses.
func (s *LeafSet) Apply(g *TransitionGroup) {
	for i := 0; i < g.Remove.Len(); i++ {
		s.Remove(g.Remove.At(i))
	}
	for i := 0; i < g.Add.Len(); i++ {
		s.Insert(g.Add.At(i))
	}
}
