package volume

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayoutConstants(t *testing.T) {
	assert.Equal(t, 32, SampleSize)
	assert.Equal(t, 1024, SampleSizeSq)
	assert.Equal(t, 32768, SampleSizeCb)
	assert.Equal(t, 28, InteriorCells)

	// Apron + interior + closing + 2 pads must fill the axis exactly.
	assert.Equal(t, SampleSize, 1+InteriorCells+1+2)
	assert.Equal(t, LastInteriorCell-FirstInteriorCell+1, InteriorCells)
}

func TestCoordIndexRoundTrip(t *testing.T) {
	for _, c := range [][3]int{
		{0, 0, 0},
		{1, 2, 3},
		{31, 31, 31},
		{31, 0, 31},
		{15, 7, 23},
	} {
		idx := CoordToIndex(c[0], c[1], c[2])
		x, y, z := IndexToCoord(idx)
		assert.Equal(t, c[0], x)
		assert.Equal(t, c[1], y)
		assert.Equal(t, c[2], z)
	}

	assert.Equal(t, 0, CoordToIndex(0, 0, 0))
	assert.Equal(t, SampleSizeCb-1, CoordToIndex(31, 31, 31))
	assert.Equal(t, SampleSizeSq, CoordToIndex(1, 0, 0), "X is the major axis")
	assert.Equal(t, SampleSize, CoordToIndex(0, 1, 0))
	assert.Equal(t, 1, CoordToIndex(0, 0, 1))
}

func TestCornerOffsets(t *testing.T) {
	base := CoordToIndex(5, 6, 7)
	for bit, off := range CornerOffsets {
		dx, dy, dz := bit&1, (bit>>1)&1, (bit>>2)&1
		assert.Equal(t, CoordToIndex(5+dx, 6+dy, 7+dz), base+off, "corner %d", bit)
	}
}

func TestQuantizeSDF(t *testing.T) {
	assert.Equal(t, SDFSample(0), QuantizeSDF(0, 1.0))
	assert.Equal(t, SDFSample(127), QuantizeSDF(1.0, 1.0))
	assert.Equal(t, SDFSample(-127), QuantizeSDF(-1.0, 1.0))

	// Out-of-range distances clamp instead of wrapping.
	assert.Equal(t, SDFSample(127), QuantizeSDF(1e9, 1.0))
	assert.Equal(t, SDFSample(-127), QuantizeSDF(-1e9, 1.0))

	// The scale tracks voxel size: the same world distance quantizes
	// smaller when a voxel covers more of the world.
	assert.Equal(t, SDFSample(64), QuantizeSDF(1.0, 2.0), "round(0.5*127)")
}

func TestDequantizeSDFInvertsInRange(t *testing.T) {
	for _, sdf := range []float64{-0.9, -0.25, 0, 0.25, 0.9} {
		q := QuantizeSDF(sdf, 1.0)
		assert.InDelta(t, sdf, DequantizeSDF(q, 1.0), 1.0/127.0+1e-12)
	}
}

func TestIsHomogeneous(t *testing.T) {
	var d Data
	assert.True(t, IsHomogeneous(&d), "all zero (air) is homogeneous")

	for i := range d.SDF {
		d.SDF[i] = -50
	}
	assert.True(t, IsHomogeneous(&d), "all solid is homogeneous")

	d.SDF[SampleSizeCb/2] = 50
	assert.False(t, IsHomogeneous(&d))
}
