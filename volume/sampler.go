package volume

import "math"

// SDFSample is a quantized signed-distance value. Negative = inside the
// surface (solid), positive = outside (air).
type SDFSample = int8

// MaterialID identifies the dominant material at a sample (0-3 feed the
// 4-way material blend of the mesher).
type MaterialID = uint8

// Data holds one chunk's sampled volume.
type Data struct {
	SDF       [SampleSizeCb]SDFSample
	Materials [SampleSizeCb]MaterialID
}

// Sampler fills a full 32³ volume in one call.
//
// Implementations must be deterministic (same inputs produce the same
// samples) and safe for concurrent use: chunks are sampled in parallel.
//
// gridOffset is the integer sample-grid origin of the chunk; sample
// (x, y, z) corresponds to world position (gridOffset + [x y z]) *
// voxelSize. Integer offsets keep overlapping samples of adjacent chunks
// bit-identical, float world positions would diverge at large magnitudes.
type Sampler interface {
	SampleVolume(gridOffset [3]int64, voxelSize float64, out *Data)
}

// SDF quantization: float distances in world units map to int8 with
// voxel-size-aware scaling, ±1 voxel of range at ~12.7 levels per voxel
// regardless of LOD.
const (
	sdfRangeVoxels = 1.0
	sdfBaseScale   = 127.0 / sdfRangeVoxels
)

// QuantizeSDF converts a world-unit SDF value to int8 storage.
func QuantizeSDF(sdf, voxelSize float64) SDFSample {
	q := math.Round(sdf / voxelSize * sdfBaseScale)
	if q > 127 {
		q = 127
	} else if q < -127 {
		q = -127
	}
	return SDFSample(q)
}

// DequantizeSDF converts int8 storage back to a world-unit SDF value.
func DequantizeSDF(v SDFSample, voxelSize float64) float64 {
	return float64(v) / sdfBaseScale * voxelSize
}

// IsHomogeneous reports whether every sample has the same sign. An
// all-solid or all-air chunk produces no surface and skips meshing.
func IsHomogeneous(d *Data) bool {
	firstSolid := d.SDF[0] < 0
	for _, v := range d.SDF[1:] {
		if (v < 0) != firstSolid {
			return false
		}
	}
	return true
}
