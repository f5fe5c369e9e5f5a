// Package terralod manages level-of-detail for SDF voxel terrain: an
// implicit octree refined around a moving viewer, with atomic chunk
// transitions towards the renderer.
package terralod

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gekko3d/terralod/octree"
	"github.com/gekko3d/terralod/pipeline"
	"github.com/gekko3d/terralod/telemetry"
	"github.com/gekko3d/terralod/volume"
)

// World is one isolated voxel world: octree state, configuration,
// sampler and budget. Multiple worlds coexist independently (an
// overworld, dioramas, voxel props), each with its own id.
//
// World is not safe for concurrent use. Refine mutates the leaf set
// and must run alone; snapshot via LeafSet().Clone() to hand work to
// the async pipeline.
type World struct {
	ID      uuid.UUID
	Config  octree.Config
	Budget  octree.Budget
	Sampler volume.Sampler
	Mesher  pipeline.Mesher

	leaves *octree.LeafSet
	log    *zap.Logger
}

// NewWorld creates a world with an empty leaf set.
func NewWorld(cfg octree.Config, sampler volume.Sampler, mesher pipeline.Mesher, log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	return &World{
		ID:      uuid.New(),
		Config:  cfg,
		Budget:  octree.DefaultBudget(),
		Sampler: sampler,
		Mesher:  mesher,
		leaves:  octree.NewLeafSet(),
		log:     log,
	}
}

// NewWorldWithInitialLOD creates a world seeded with the single root
// leaf at the given LOD.
func NewWorldWithInitialLOD(cfg octree.Config, sampler volume.Sampler, mesher pipeline.Mesher, log *zap.Logger, initialLOD int32) *World {
	w := NewWorld(cfg, sampler, mesher, log)
	w.leaves = octree.NewLeafSetWithInitial(initialLOD)
	return w
}

// LeafSet exposes the current leaves. Callers must not mutate it while
// a refinement step runs.
func (w *World) LeafSet() *octree.LeafSet {
	return w.leaves
}

// EffectiveMaxLOD reports the coarsest LOD present. ok is false while
// the world is uninitialized (empty leaf set).
func (w *World) EffectiveMaxLOD() (int32, bool) {
	return w.leaves.EffectiveMaxLOD()
}

// Refine runs one refinement step for a viewer position already in this
// world's local space, updates the leaf set, and returns the step's
// output.
func (w *World) Refine(viewerPos mgl64.Vec3) octree.RefineOutput {
	start := time.Now()
	out := octree.Refine(octree.RefineInput{
		ViewerPos: viewerPos,
		Config:    &w.Config,
		Leaves:    w.leaves,
		Budget:    w.Budget,
	})
	w.leaves = out.Leaves

	telemetry.InstrumentRefine(w.ID.String(), w.leaves.Len(),
		out.Stats.TotalSubdivisions(), out.Stats.Collapses, start)

	if len(out.Groups) > 0 {
		w.log.Debug("refined",
			zap.Int("groups", len(out.Groups)),
			zap.Int("subdivisions", out.Stats.Subdivisions),
			zap.Int("collapses", out.Stats.Collapses),
			zap.Int("neighbor_subdivisions", out.Stats.NeighborSubdivisions),
			zap.Int("leaves", w.leaves.Len()))
	}
	return out
}

// Update runs refinement and mesh processing in one call: the primary
// synchronous entry point. Returned chunks follow the groups' proximity
// order.
func (w *World) Update(viewerPos mgl64.Vec3) ([]pipeline.ReadyChunk, octree.RefineOutput) {
	out := w.Refine(viewerPos)
	if len(out.Groups) == 0 {
		return nil, out
	}

	chunks := pipeline.ProcessTransitions(pipeline.ProcessInput{
		WorldID: w.ID,
		Groups:  out.Groups,
		Sampler: w.Sampler,
		Mesher:  w.Mesher,
		Leaves:  w.leaves,
		Config:  &w.Config,
		Logger:  w.log,
	})
	telemetry.InstrumentChunks(w.ID.String(), len(chunks))
	return chunks, out
}

// Invalidate remeshes leaves touched by a terrain edit. Nodes that are
// no longer leaves are skipped: a refinement step in between made the
// edit's work stale.
func (w *World) Invalidate(nodes []octree.Node) []pipeline.ReadyChunk {
	live := make([]octree.Node, 0, len(nodes))
	for _, n := range nodes {
		if w.leaves.Contains(n) {
			live = append(live, n)
		}
	}
	if len(live) == 0 {
		return nil
	}

	chunks := pipeline.ProcessInvalidation(pipeline.ProcessInput{
		WorldID: w.ID,
		Sampler: w.Sampler,
		Mesher:  w.Mesher,
		Leaves:  w.leaves,
		Config:  &w.Config,
		Logger:  w.log,
	}, live)
	telemetry.InstrumentChunks(w.ID.String(), len(chunks))
	return chunks
}

// ShiftOrigin translates the world origin, the integration point for a
// floating reference frame. Node coordinates stay put; only their world
// positions move.
func (w *World) ShiftOrigin(delta mgl64.Vec3) {
	w.Config = w.Config.ShiftedOrigin(delta)
	w.log.Info("origin shifted",
		zap.Float64("dx", delta.X()),
		zap.Float64("dy", delta.Y()),
		zap.Float64("dz", delta.Z()))
}
