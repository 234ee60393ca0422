package geometry

// AABB is an axis-aligned bounding box described by its center and half extents.
type AABB struct {
	Center     Vector2D
	HalfExtent Vector2D
}

// NewAABB creates a box centered on center with the given half extents.
func NewAABB(center, halfExtent Vector2D) AABB {
	return AABB{Center: center, HalfExtent: halfExtent}
}

// Min returns the lower-left corner.
func (b AABB) Min() Vector2D {
	return b.Center.Sub(b.HalfExtent)
}

// Max returns the upper-right corner.
func (b AABB) Max() Vector2D {
	return b.Center.Add(b.HalfExtent)
}

// ClosestPoint returns the point of the box (border or interior) nearest to p.
// A point inside the box is its own closest point.
func (b AABB) ClosestPoint(p Vector2D) Vector2D {
	return p.Clamp(b.Min(), b.Max())
}

// Contains reports whether p lies inside the box or on its edge.
func (b AABB) Contains(p Vector2D) bool {
	lo, hi := b.Min(), b.Max()
	return p.X >= lo.X && p.X <= hi.X && p.Y >= lo.Y && p.Y <= hi.Y
}

// Circle is a bounding circle.
type Circle struct {
	Center Vector2D
	Radius float64
}

// IntersectsAABB reports whether the circle touches or overlaps the box.
func (c Circle) IntersectsAABB(b AABB) bool {
	closest := b.ClosestPoint(c.Center)
	return closest.DistanceSquaredTo(c.Center) <= c.Radius*c.Radius
}
