package terralod

import (
	"context"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gekko3d/terralod/octree"
	"github.com/gekko3d/terralod/pipeline"
	"github.com/gekko3d/terralod/volume"
)

// AsyncRequest snapshots everything one async step needs. The leaf set
// and config are copies; the caller's world may keep rendering while
// the step runs.
type AsyncRequest struct {
	WorldID   uuid.UUID
	ViewerPos mgl64.Vec3
	Leaves    *octree.LeafSet
	Config    octree.Config
	Budget    octree.Budget
	Sampler   volume.Sampler
	Mesher    pipeline.Mesher
	Logger    *zap.Logger
}

// AsyncResult is one completed async step. The caller adopts Output.Leaves
// as the world's new leaf set and feeds Chunks to presentation.
type AsyncResult struct {
	WorldID uuid.UUID
	Output  octree.RefineOutput
	Chunks  []pipeline.ReadyChunk
}

// AsyncPipeline moves refinement and meshing off the caller's
// goroutine. At most one step is in flight: a frame loop starts a step,
// polls on subsequent frames, and applies the result when it lands.
//
// AsyncPipeline is intended for a single owning goroutine; Start, Poll
// and Cancel are not safe to call concurrently with each other.
type AsyncPipeline struct {
	results chan AsyncResult
	cancel  context.CancelFunc
}

// NewAsyncPipeline returns an idle pipeline.
func NewAsyncPipeline() *AsyncPipeline {
	return &AsyncPipeline{}
}

// Busy reports whether a step is in flight.
func (p *AsyncPipeline) Busy() bool {
	return p.results != nil
}

// Start launches one refine+mesh step. Returns false without starting
// anything if a step is already in flight.
func (p *AsyncPipeline) Start(req AsyncRequest) bool {
	if p.Busy() {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.results = make(chan AsyncResult, 1)
	results := p.results

	go func() {
		out := octree.Refine(octree.RefineInput{
			ViewerPos: req.ViewerPos,
			Config:    &req.Config,
			Leaves:    req.Leaves,
			Budget:    req.Budget,
		})

		// Skip meshing when the world was torn down mid-refine.
		if ctx.Err() != nil {
			return
		}

		var chunks []pipeline.ReadyChunk
		if len(out.Groups) > 0 {
			chunks = pipeline.ProcessTransitions(pipeline.ProcessInput{
				WorldID: req.WorldID,
				Groups:  out.Groups,
				Sampler: req.Sampler,
				Mesher:  req.Mesher,
				Leaves:  out.Leaves,
				Config:  &req.Config,
				Logger:  req.Logger,
			})
		}

		select {
		case results <- AsyncResult{WorldID: req.WorldID, Output: out, Chunks: chunks}:
		case <-ctx.Done():
			// Cancelled: the result is dropped, never presented.
		}
	}()

	return true
}

// Poll returns the finished step, if any, and frees the pipeline for
// the next Start. Non-blocking.
func (p *AsyncPipeline) Poll() (AsyncResult, bool) {
	if !p.Busy() {
		return AsyncResult{}, false
	}

	select {
	case res := <-p.results:
		p.finish()
		return res, true
	default:
		return AsyncResult{}, false
	}
}

// Cancel discards the in-flight step. Its result will never surface;
// buffered work is dropped. Safe to call when idle.
func (p *AsyncPipeline) Cancel() {
	if !p.Busy() {
		return
	}
	p.cancel()
	p.finish()
}

func (p *AsyncPipeline) finish() {
	p.cancel()
	p.cancel = nil
	p.results = nil
}
