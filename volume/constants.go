// Package volume defines the 32³ SDF sample-volume layout shared by
// samplers and meshers.
//
// Each chunk is sampled as 32 values per axis. Sample 0 is a negative
// apron (gradient support at the boundary), samples 1..28 are the origins
// of the 28 interior cells that produce geometry, sample 29 closes cell
// 28, and samples 30..31 pad stride-2 sampling for LOD seam displacement.
// 32 per axis keeps indexing on bit shifts.
package volume

// SampleSize is the number of samples per axis. Must stay 32, the
// indexing below shifts by 5 and 10.
const SampleSize = 32

// SampleSizeSq is SampleSize² (one X slice).
const SampleSizeSq = SampleSize * SampleSize

// SampleSizeCb is the total sample count of one chunk (32³).
const SampleSizeCb = SampleSize * SampleSize * SampleSize

// MaxSampleIndex is the largest valid per-axis sample index.
const MaxSampleIndex = SampleSize - 1

// InteriorCells is the number of mesh-producing cells per axis.
// 32 samples - 1 negative apron - 2 displacement pads - 1 closing
// sample = 28. Node cell sizes everywhere derive from this constant.
const InteriorCells = 28

// FirstInteriorCell and LastInteriorCell bound the geometry-producing
// cell range (inclusive).
const (
	FirstInteriorCell = 1
	LastInteriorCell  = 28
)

// Bit layout for linear indexing: X is the major axis (stride 1024),
// Y middle (stride 32), Z minor (stride 1).
const (
	YShift    = 5
	XShift    = 10
	IndexMask = 0x1F
)

// CoordToIndex converts 3D sample coordinates to a linear index.
func CoordToIndex(x, y, z int) int {
	return x<<XShift | y<<YShift | z
}

// IndexToCoord converts a linear index back to 3D sample coordinates.
func IndexToCoord(idx int) (x, y, z int) {
	return idx >> XShift, (idx >> YShift) & IndexMask, idx & IndexMask
}

// CornerOffsets are linear-index offsets of the 8 cube corners relative
// to a cell's base sample. Corner bits: bit 0 = +X, bit 1 = +Y, bit 2 = +Z.
var CornerOffsets = [8]int{
	0,
	1 << XShift,
	1 << YShift,
	1<<XShift | 1<<YShift,
	1,
	1<<XShift | 1,
	1<<YShift | 1,
	1<<XShift | 1<<YShift | 1,
}
