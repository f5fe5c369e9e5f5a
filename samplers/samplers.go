// Package samplers provides deterministic analytic SDF samplers. The
// shape samplers exist to verify chunk tiling coherency with surfaces
// that are easy to reason about; terrain.go adds a fractal noise field.
package samplers

import (
	"math"

	"github.com/gekko3d/terralod/volume"
)

// fill runs sdf over every sample of the volume. sdf receives world
// coordinates derived from the integer grid offset, so overlapping
// samples of adjacent chunks are computed from identical inputs.
func fill(gridOffset [3]int64, voxelSize float64, out *volume.Data, sdf func(wx, wy, wz float64) (float64, uint8)) {
	for x := 0; x < volume.SampleSize; x++ {
		wx := float64(gridOffset[0]+int64(x)) * voxelSize
		for y := 0; y < volume.SampleSize; y++ {
			wy := float64(gridOffset[1]+int64(y)) * voxelSize
			for z := 0; z < volume.SampleSize; z++ {
				wz := float64(gridOffset[2]+int64(z)) * voxelSize
				d, m := sdf(wx, wy, wz)
				idx := volume.CoordToIndex(x, y, z)
				out.SDF[idx] = volume.QuantizeSDF(d, voxelSize)
				out.Materials[idx] = m
			}
		}
	}
}

// Sphere samples a sphere surface.
type Sphere struct {
	Center [3]float64
	Radius float64
}

// NewSphere returns a sphere of the given radius centered at the origin.
func NewSphere(radius float64) *Sphere {
	return &Sphere{Radius: radius}
}

func (s *Sphere) SampleVolume(gridOffset [3]int64, voxelSize float64, out *volume.Data) {
	fill(gridOffset, voxelSize, out, func(wx, wy, wz float64) (float64, uint8) {
		dx := wx - s.Center[0]
		dy := wy - s.Center[1]
		dz := wz - s.Center[2]
		return math.Sqrt(dx*dx+dy*dy+dz*dz) - s.Radius, 0
	})
}

// GroundPlane samples a flat horizontal surface at Height. Solid below,
// air above.
type GroundPlane struct {
	Height float64
}

func NewGroundPlane(height float64) *GroundPlane {
	return &GroundPlane{Height: height}
}

func (p *GroundPlane) SampleVolume(gridOffset [3]int64, voxelSize float64, out *volume.Data) {
	fill(gridOffset, voxelSize, out, func(_, wy, _ float64) (float64, uint8) {
		return wy - p.Height, 0
	})
}

// TiltedPlane samples a plane tilted around the Z axis. The surface
// crosses chunk boundaries at a fixed angle, which makes seam defects
// obvious.
type TiltedPlane struct {
	Height float64
	Angle  float64 // radians
}

// NewTiltedPlane returns a 45° plane through the origin.
func NewTiltedPlane() *TiltedPlane {
	return &TiltedPlane{Angle: math.Pi / 4}
}

func (p *TiltedPlane) SampleVolume(gridOffset [3]int64, voxelSize float64, out *volume.Data) {
	cosA := math.Cos(p.Angle)
	sinA := math.Sin(p.Angle)
	fill(gridOffset, voxelSize, out, func(wx, wy, _ float64) (float64, uint8) {
		return (wy-p.Height)*cosA - wx*sinA, 0
	})
}

// Box samples an axis-aligned box.
type Box struct {
	Center      [3]float64
	HalfExtents [3]float64
}

func NewBox(halfExtents [3]float64) *Box {
	return &Box{HalfExtents: halfExtents}
}

func (b *Box) SampleVolume(gridOffset [3]int64, voxelSize float64, out *volume.Data) {
	fill(gridOffset, voxelSize, out, func(wx, wy, wz float64) (float64, uint8) {
		dx := math.Abs(wx-b.Center[0]) - b.HalfExtents[0]
		dy := math.Abs(wy-b.Center[1]) - b.HalfExtents[1]
		dz := math.Abs(wz-b.Center[2]) - b.HalfExtents[2]
		outside := math.Sqrt(
			math.Pow(math.Max(dx, 0), 2) +
				math.Pow(math.Max(dy, 0), 2) +
				math.Pow(math.Max(dz, 0), 2))
		inside := math.Min(math.Max(dx, math.Max(dy, dz)), 0)
		return outside + inside, 0
	})
}
