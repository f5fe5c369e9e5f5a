package pipeline

import (
	"github.com/gekko3d/terralod/octree"
)

// GroupBuffer holds transition groups whose meshes are still being
// generated. A group is released only once a mesh (or empty marker)
// has arrived for every node it adds, so the scene never applies a
// partial transition. The buffer is owned by the presentation side and
// is not safe for concurrent use; deliveries are serialized by the
// caller.
type GroupBuffer struct {
	pending map[octree.Node]*pendingGroup
}

type pendingGroup struct {
	group  *octree.TransitionGroup
	meshes map[octree.Node]*MeshData
}

// CompletedGroup is a transition group with every added node's mesh.
type CompletedGroup struct {
	Group  *octree.TransitionGroup
	Meshes map[octree.Node]*MeshData
}

// NewGroupBuffer returns an empty buffer.
func NewGroupBuffer() *GroupBuffer {
	return &GroupBuffer{pending: make(map[octree.Node]*pendingGroup)}
}

// Track registers a group awaiting meshes. Tracking the same group key
// twice replaces the earlier entry and drops its partial meshes.
func (b *GroupBuffer) Track(g *octree.TransitionGroup) {
	b.pending[g.GroupKey] = &pendingGroup{
		group:  g,
		meshes: make(map[octree.Node]*MeshData, g.Add.Len()),
	}
}

// Deliver hands a finished mesh to its group. When this delivery
// completes the group, the group leaves the buffer and is returned.
// Deliveries for untracked groups or for nodes the group does not add
// are dropped: they are late results of cancelled or replaced work.
func (b *GroupBuffer) Deliver(groupKey, node octree.Node, mesh *MeshData) (*CompletedGroup, bool) {
	p, ok := b.pending[groupKey]
	if !ok {
		return nil, false
	}

	adds := false
	for i := 0; i < p.group.Add.Len(); i++ {
		if p.group.Add.At(i) == node {
			adds = true
			break
		}
	}
	if !adds {
		return nil, false
	}

	p.meshes[node] = mesh
	if len(p.meshes) < p.group.Add.Len() {
		return nil, false
	}

	delete(b.pending, groupKey)
	return &CompletedGroup{Group: p.group, Meshes: p.meshes}, true
}

// Pending reports the number of buffered groups.
func (b *GroupBuffer) Pending() int {
	return len(b.pending)
}

// Cancel drops every buffered group and its partial meshes, returning
// how many were dropped. Used at world teardown: in-flight work must
// never surface afterwards, and Deliver ignores late results for keys
// that are no longer tracked.
func (b *GroupBuffer) Cancel() int {
	n := len(b.pending)
	b.pending = make(map[octree.Node]*pendingGroup)
	return n
}
