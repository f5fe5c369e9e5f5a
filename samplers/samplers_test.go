package samplers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gekko3d/terralod/volume"
)

func crossesSurface(d *volume.Data) bool {
	hasSolid, hasAir := false, false
	for _, v := range d.SDF {
		if v < 0 {
			hasSolid = true
		} else if v > 0 {
			hasAir = true
		}
	}
	return hasSolid && hasAir
}

func TestSphereSurfaceCrossesVolume(t *testing.T) {
	s := NewSphere(10.0)
	var d volume.Data
	s.SampleVolume([3]int64{-16, -16, -16}, 1.0, &d)
	assert.True(t, crossesSurface(&d))
}

func TestGroundPlaneSplitsVolume(t *testing.T) {
	p := NewGroundPlane(16.0)
	var d volume.Data
	p.SampleVolume([3]int64{0, 0, 0}, 1.0, &d)
	assert.True(t, crossesSurface(&d))

	// Below the plane: homogeneous solid.
	var below volume.Data
	p.SampleVolume([3]int64{0, -1000, 0}, 1.0, &below)
	assert.True(t, volume.IsHomogeneous(&below))
}

func TestTiltedPlaneCrossesOrigin(t *testing.T) {
	p := NewTiltedPlane()
	var d volume.Data
	p.SampleVolume([3]int64{0, 0, 0}, 1.0, &d)
	assert.True(t, crossesSurface(&d))
}

func TestBoxSurfaceCrossesVolume(t *testing.T) {
	b := NewBox([3]float64{10, 10, 10})
	var d volume.Data
	b.SampleVolume([3]int64{-16, -16, -16}, 1.0, &d)
	assert.True(t, crossesSurface(&d))
}

func TestSamplersAreDeterministic(t *testing.T) {
	for name, s := range map[string]volume.Sampler{
		"sphere":  NewSphere(20.0),
		"plane":   NewGroundPlane(5.0),
		"tilted":  NewTiltedPlane(),
		"terrain": NewTerrain(42),
	} {
		var a, b volume.Data
		s.SampleVolume([3]int64{7, -3, 11}, 2.0, &a)
		s.SampleVolume([3]int64{7, -3, 11}, 2.0, &b)
		assert.Equal(t, a.SDF, b.SDF, "%s must be bit-identical across calls", name)
	}
}

func TestAdjacentChunksShareOverlappingSamples(t *testing.T) {
	// Two chunks whose grids overlap: chunk B starts InteriorCells
	// samples into chunk A. The shared samples must agree exactly.
	s := NewTerrain(1234)
	var a, b volume.Data
	s.SampleVolume([3]int64{0, 0, 0}, 1.0, &a)
	s.SampleVolume([3]int64{volume.InteriorCells, 0, 0}, 1.0, &b)

	for x := 0; x < volume.SampleSize-volume.InteriorCells; x++ {
		for y := 0; y < volume.SampleSize; y++ {
			for z := 0; z < volume.SampleSize; z++ {
				ai := volume.CoordToIndex(x+volume.InteriorCells, y, z)
				bi := volume.CoordToIndex(x, y, z)
				assert.Equal(t, a.SDF[ai], b.SDF[bi], "sample (%d,%d,%d)", x, y, z)
			}
		}
	}
}

func TestTerrainSeedsDiffer(t *testing.T) {
	a := NewTerrain(1)
	b := NewTerrain(2)
	assert.NotEqual(t, a.Height(100, 100), b.Height(100, 100))
}

func TestTerrainHeightBounded(t *testing.T) {
	tr := NewTerrain(7)
	// Sum of octave amplitudes bounds the field.
	bound := tr.Amplitude * 2.0
	for _, p := range [][2]float64{{0, 0}, {513.7, -88.1}, {-10000, 10000}} {
		h := tr.Height(p[0], p[1])
		assert.Less(t, h, tr.BaseHeight+bound)
		assert.Greater(t, h, tr.BaseHeight-bound)
	}
}

func TestTerrainMaterialsLayered(t *testing.T) {
	tr := NewTerrain(99)

	// Far below any possible surface height: everything is rock.
	var deep volume.Data
	tr.SampleVolume([3]int64{0, -512, 0}, 1.0, &deep)
	for _, m := range deep.Materials {
		assert.Equal(t, uint8(3), m)
	}
	assert.True(t, volume.IsHomogeneous(&deep))

	// Far above: all air, material 0.
	var sky volume.Data
	tr.SampleVolume([3]int64{0, 512, 0}, 1.0, &sky)
	for _, m := range sky.Materials {
		assert.Equal(t, uint8(0), m)
	}
}
