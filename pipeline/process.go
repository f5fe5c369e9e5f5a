package pipeline

import (
	"math"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gekko3d/terralod/octree"
	"github.com/gekko3d/terralod/volume"
)

// GridOffset converts a node's world-space minimum corner to integer
// sample-grid coordinates. Adjacent chunks share identical integer
// offsets for overlapping samples; deriving offsets from float world
// positions instead would let the shared samples drift apart at large
// coordinates and open cracks.
func GridOffset(node octree.Node, cfg *octree.Config) [3]int64 {
	min := cfg.NodeMin(node)
	vs := cfg.VoxelSizeAt(node.Lod)
	return [3]int64{
		int64(math.Round(min.X() / vs)),
		int64(math.Round(min.Y() / vs)),
		int64(math.Round(min.Z() / vs)),
	}
}

// SampleForNode fills a 32³ volume for the node.
func SampleForNode(node octree.Node, s volume.Sampler, cfg *octree.Config) *volume.Data {
	out := new(volume.Data)
	s.SampleVolume(GridOffset(node, cfg), cfg.VoxelSizeAt(node.Lod), out)
	return out
}

// ProcessInput carries everything one processing pass needs.
type ProcessInput struct {
	WorldID uuid.UUID

	// Groups come from a refinement step, already priority-ordered.
	Groups []*octree.TransitionGroup

	Sampler volume.Sampler
	Mesher  Mesher

	// Leaves is the post-refinement leaf set, read for neighbor masks.
	Leaves *octree.LeafSet
	Config *octree.Config

	// Parallelism bounds concurrent sample+mesh workers. <= 0 uses
	// GOMAXPROCS.
	Parallelism int

	Logger *zap.Logger
}

type meshJob struct {
	node  octree.Node
	group int // index into Groups, -1 for ungrouped work
	mask  uint32
}

type meshJobResult struct {
	job  meshJob
	mesh *MeshData
}

// ProcessTransitions runs sample, homogeneity prefilter and meshing for
// every added node of every group, in parallel, and emits one ReadyChunk
// per added node. Homogeneous volumes become empty markers rather than
// being dropped, so a group's chunk count always equals its Add count
// and the presentation buffer can count instead of tracking absences.
//
// Output order follows the input group order (the refinement step's
// proximity order); chunks within a group follow the group's Add order.
func ProcessTransitions(in ProcessInput) []ReadyChunk {
	if len(in.Groups) == 0 {
		return nil
	}

	var jobs []meshJob
	for gi, g := range in.Groups {
		for ai := 0; ai < g.Add.Len(); ai++ {
			node := g.Add.At(ai)
			mask := octree.NeighborMask(node, in.Leaves, in.Config)
			g.SetNeighborMask(ai, mask)
			jobs = append(jobs, meshJob{node: node, group: gi, mask: mask})
		}
	}

	results := runMeshJobs(jobs, in)

	chunks := make([]ReadyChunk, 0, len(results))
	for _, r := range results {
		chunks = append(chunks, ReadyChunk{
			WorldID: in.WorldID,
			Node:    r.job.node,
			Mesh:    r.mesh,
			Hint:    HintFor(in.Groups[r.job.group]),
		})
	}

	if in.Logger != nil {
		in.Logger.Debug("processed transitions",
			zap.Stringer("source", Refinement),
			zap.Int("groups", len(in.Groups)),
			zap.Int("chunks", len(chunks)))
	}
	return chunks
}

// ProcessInvalidation remeshes existing leaves after a terrain edit.
// Results carry the Immediate hint and no group: edits swap in place,
// there is no old/new geometry pair to coordinate.
func ProcessInvalidation(in ProcessInput, nodes []octree.Node) []ReadyChunk {
	if len(nodes) == 0 {
		return nil
	}

	jobs := make([]meshJob, len(nodes))
	for i, n := range nodes {
		jobs[i] = meshJob{
			node:  n,
			group: -1,
			mask:  octree.NeighborMask(n, in.Leaves, in.Config),
		}
	}

	results := runMeshJobs(jobs, in)

	chunks := make([]ReadyChunk, 0, len(results))
	for _, r := range results {
		chunks = append(chunks, ReadyChunk{
			WorldID: in.WorldID,
			Node:    r.job.node,
			Mesh:    r.mesh,
			Hint:    ImmediateHint(),
		})
	}

	if in.Logger != nil {
		in.Logger.Debug("processed invalidation",
			zap.Stringer("source", Invalidation),
			zap.Int("chunks", len(chunks)))
	}
	return chunks
}

// runMeshJobs fans jobs out over a bounded worker pool. Results come
// back in job order.
func runMeshJobs(jobs []meshJob, in ProcessInput) []meshJobResult {
	workers := in.Parallelism
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	results := make([]meshJobResult, len(jobs))
	next := make(chan int)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range next {
				job := jobs[i]
				results[i] = meshJobResult{job: job, mesh: meshNode(job, in)}
			}
		}()
	}
	for i := range jobs {
		next <- i
	}
	close(next)
	wg.Wait()

	return results
}

// meshNode samples one node and meshes it unless the volume is
// homogeneous (all solid or all air produces no surface).
func meshNode(job meshJob, in ProcessInput) *MeshData {
	data := SampleForNode(job.node, in.Sampler, in.Config)
	if volume.IsHomogeneous(data) {
		return EmptyMesh()
	}

	cfg := MeshConfig{
		VoxelSize:    float32(in.Config.VoxelSizeAt(job.node.Lod)),
		NeighborMask: job.mask,
	}
	mesh := in.Mesher.GenerateMesh(data, cfg)
	if mesh == nil {
		return EmptyMesh()
	}
	return mesh
}
