package samplers

import (
	"math"

	"github.com/gekko3d/terralod/volume"
)

// Terrain samples a heightmap-style fractal terrain: 2D value noise
// stacked into octaves, solid below the resulting height field.
//
// The noise lattice is hashed from integer coordinates and the seed, so
// samples are bit-identical across runs and across chunks regardless of
// LOD. Deterministic sampling is what keeps overlapping apron samples
// of adjacent chunks in agreement.
type Terrain struct {
	// Seed selects the lattice hash.
	Seed int64

	// Amplitude is the height of the largest feature in world units.
	Amplitude float64

	// Frequency scales world coordinates into noise space. Smaller
	// values produce larger features.
	Frequency float64

	// Octaves stacks detail layers, each doubling frequency and
	// halving amplitude.
	Octaves int

	// BaseHeight shifts the whole terrain vertically.
	BaseHeight float64
}

// NewTerrain returns a terrain sampler with moderate rolling hills.
func NewTerrain(seed int64) *Terrain {
	return &Terrain{
		Seed:      seed,
		Amplitude: 64.0,
		Frequency: 1.0 / 256.0,
		Octaves:   4,
	}
}

func (t *Terrain) SampleVolume(gridOffset [3]int64, voxelSize float64, out *volume.Data) {
	// The height field varies only in X and Z: compute one column of
	// heights per (x, z) pair and reuse it down the Y axis.
	var heights [volume.SampleSize][volume.SampleSize]float64
	for x := 0; x < volume.SampleSize; x++ {
		wx := float64(gridOffset[0]+int64(x)) * voxelSize
		for z := 0; z < volume.SampleSize; z++ {
			wz := float64(gridOffset[2]+int64(z)) * voxelSize
			heights[x][z] = t.Height(wx, wz)
		}
	}

	for x := 0; x < volume.SampleSize; x++ {
		for y := 0; y < volume.SampleSize; y++ {
			wy := float64(gridOffset[1]+int64(y)) * voxelSize
			for z := 0; z < volume.SampleSize; z++ {
				d := wy - heights[x][z]
				idx := volume.CoordToIndex(x, y, z)
				out.SDF[idx] = volume.QuantizeSDF(d, voxelSize)
				out.Materials[idx] = terrainMaterial(d, voxelSize)
			}
		}
	}
}

// Height evaluates the terrain height field at a world XZ position.
func (t *Terrain) Height(wx, wz float64) float64 {
	h := t.BaseHeight
	amp := t.Amplitude
	freq := t.Frequency
	for o := 0; o < t.Octaves; o++ {
		h += amp * t.noise2(wx*freq, wz*freq, int64(o))
		amp *= 0.5
		freq *= 2.0
	}
	return h
}

// terrainMaterial picks grass near the surface, dirt just under it,
// rock deeper down. Air keeps material 0.
func terrainMaterial(sdf, voxelSize float64) uint8 {
	switch {
	case sdf >= 0:
		return 0
	case sdf > -2*voxelSize:
		return 1
	case sdf > -8*voxelSize:
		return 2
	default:
		return 3
	}
}

// noise2 is 2D value noise in [-1, 1]: hashed lattice corners blended
// with a smoothstep weight.
func (t *Terrain) noise2(x, z float64, octave int64) float64 {
	x0 := math.Floor(x)
	z0 := math.Floor(z)
	fx := x - x0
	fz := z - z0

	ix, iz := int64(x0), int64(z0)
	v00 := t.lattice(ix, iz, octave)
	v10 := t.lattice(ix+1, iz, octave)
	v01 := t.lattice(ix, iz+1, octave)
	v11 := t.lattice(ix+1, iz+1, octave)

	sx := smoothstep(fx)
	sz := smoothstep(fz)
	return lerp(lerp(v00, v10, sx), lerp(v01, v11, sx), sz)
}

// lattice hashes an integer lattice point to [-1, 1]. SplitMix64-style
// mixing over the coordinates, octave and seed.
func (t *Terrain) lattice(x, z, octave int64) float64 {
	h := uint64(x)*0x9E3779B97F4A7C15 ^ uint64(z)*0xC2B2AE3D27D4EB4F ^ uint64(octave)*0x165667B19E3779F9 ^ uint64(t.Seed)
	h ^= h >> 30
	h *= 0xBF58476D1CE4E5B9
	h ^= h >> 27
	h *= 0x94D049BB133111EB
	h ^= h >> 31
	return float64(h>>11)/float64(1<<53)*2.0 - 1.0
}

func smoothstep(f float64) float64 {
	return f * f * (3.0 - 2.0*f)
}

func lerp(a, b, w float64) float64 {
	return a + (b-a)*w
}
