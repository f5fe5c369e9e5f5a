package octree

import "github.com/go-gl/mathgl/mgl64"

// AABB is a double-precision axis-aligned bounding box.
//
// Used for optional world bounds that constrain refinement: nodes whose
// cells fall entirely outside the bounds are never candidates. Double
// precision matters here, coarse LODs put corners at magnitudes where
// float32 loses whole voxels.
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// NewAABB builds an AABB from min and max corners (both inclusive).
func NewAABB(min, max mgl64.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// AABBFromCenterHalfExtents builds an AABB symmetric around a center.
func AABBFromCenterHalfExtents(center, halfExtents mgl64.Vec3) AABB {
	return AABB{Min: center.Sub(halfExtents), Max: center.Add(halfExtents)}
}

// Overlaps reports whether the two boxes share any point, boundary
// contact included.
func (b AABB) Overlaps(other AABB) bool {
	return b.Min.X() <= other.Max.X() && b.Max.X() >= other.Min.X() &&
		b.Min.Y() <= other.Max.Y() && b.Max.Y() >= other.Min.Y() &&
		b.Min.Z() <= other.Max.Z() && b.Max.Z() >= other.Min.Z()
}

// ContainsPoint reports whether the point lies inside or on the boundary.
func (b AABB) ContainsPoint(p mgl64.Vec3) bool {
	return p.X() >= b.Min.X() && p.X() <= b.Max.X() &&
		p.Y() >= b.Min.Y() && p.Y() <= b.Max.Y() &&
		p.Z() >= b.Min.Z() && p.Z() <= b.Max.Z()
}

// Size returns max - min.
func (b AABB) Size() mgl64.Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b AABB) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}
