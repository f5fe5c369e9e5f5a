// terrasim is a headless refinement simulator: it flies a viewer over
// procedural terrain and drives the full refine/mesh/present loop,
// logging transitions and exposing prometheus metrics. Meshes are empty
// markers, there is no renderer; the point is to observe LOD behavior
// and timing under a realistic flight path.
package main

import (
	"flag"
	"math"
	"net/http"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/gekko3d/terralod"
	"github.com/gekko3d/terralod/pipeline"
	"github.com/gekko3d/terralod/samplers"
	"github.com/gekko3d/terralod/telemetry"
	"github.com/gekko3d/terralod/volume"
)

// markerMesher stands in for a real surface extractor: every surface
// chunk becomes an empty marker, which is all the presentation protocol
// needs to run end to end.
type markerMesher struct{}

func (markerMesher) GenerateMesh(*volume.Data, pipeline.MeshConfig) *pipeline.MeshData {
	return pipeline.EmptyMesh()
}

func main() {
	var (
		configPath = flag.String("config", "terrasim.yaml", "settings file")
		ticks      = flag.Int("ticks", 600, "simulation steps")
		tickRate   = flag.Duration("tick", 16*time.Millisecond, "step interval")
	)
	flag.Parse()

	settings, err := terralod.LoadSettings(*configPath)
	if err != nil {
		panic(err)
	}

	log := telemetry.NewLogger(settings.Logging.Level,
		telemetry.DefaultFileConfig(settings.Logging.File))
	defer log.Sync()

	if settings.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			log.Info("metrics endpoint up", zap.String("addr", settings.Metrics.Addr))
			if err := http.ListenAndServe(settings.Metrics.Addr, mux); err != nil {
				log.Error("metrics endpoint failed", zap.Error(err))
			}
		}()
	}

	world := terralod.NewWorldWithInitialLOD(
		settings.OctreeConfig(),
		samplers.NewTerrain(settings.World.Seed),
		markerMesher{},
		log,
		settings.World.InitialLOD,
	)
	world.Budget = settings.RefinementBudget()

	scene := pipeline.NewChunkScene(world.ID, pipeline.NullPresenter{})
	buffer := pipeline.NewGroupBuffer()

	log.Info("world created",
		zap.String("world", world.ID.String()),
		zap.Float64("voxel_size", settings.World.VoxelSize),
		zap.Int32("initial_lod", settings.World.InitialLOD))

	start := time.Now()
	for tick := 0; tick < *ticks; tick++ {
		viewer := flightPath(float64(tick) * tickRate.Seconds())

		chunks, out := world.Update(viewer)
		if len(out.Groups) > 0 {
			log.Info("tick",
				zap.Int("n", tick),
				zap.Int("groups", len(out.Groups)),
				zap.Int("leaves", world.LeafSet().Len()),
				zap.Float64("x", viewer.X()),
				zap.Float64("y", viewer.Y()),
				zap.Float64("z", viewer.Z()))
		}

		for _, g := range out.Groups {
			buffer.Track(g)
		}
		for _, c := range chunks {
			if done, ok := buffer.Deliver(c.Hint.GroupKey, c.Node, c.Mesh); ok {
				scene.ApplyGroup(done)
			}
		}
		telemetry.InstrumentBufferDepth(world.ID.String(), buffer.Pending())

		time.Sleep(*tickRate)
	}

	log.Info("simulation complete",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("leaves", world.LeafSet().Len()),
		zap.Int("displayed", scene.Len()),
		zap.Int("buffered", buffer.Pending()))

	buffer.Cancel()
	scene.Destroy()
}

// flightPath traces a slow descending spiral: far and high at first,
// then low passes near the surface where the finest LODs kick in.
func flightPath(t float64) mgl64.Vec3 {
	angle := t * 0.1
	radius := 4096.0 * math.Exp(-t*0.01)
	height := 128.0 + 2048.0*math.Exp(-t*0.02)
	return mgl64.Vec3{
		radius * math.Cos(angle),
		height,
		radius * math.Sin(angle),
	}
}
