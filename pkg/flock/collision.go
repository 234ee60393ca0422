package flock

import (
	"math"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// Collision is the side of a box that a boid hit.
type Collision int

const (
	CollisionLeft Collision = iota
	CollisionRight
	CollisionTop
	CollisionBottom
)

func (c Collision) String() string {
	switch c {
	case CollisionLeft:
		return "left"
	case CollisionRight:
		return "right"
	case CollisionTop:
		return "top"
	case CollisionBottom:
		return "bottom"
	}
	return "unknown"
}

// DetectCollision returns the side of box that circle hit, and false when
// they do not overlap. The side is picked from the dominant axis of the
// offset between the circle center and the closest point of the box;
// ties go to the vertical axis.
func DetectCollision(circle geometry.Circle, box geometry.AABB) (Collision, bool) {
	if !circle.IntersectsAABB(box) {
		return 0, false
	}

	closest := box.ClosestPoint(circle.Center)
	offset := circle.Center.Sub(closest)

	switch {
	case math.Abs(offset.X) > math.Abs(offset.Y):
		if offset.X < 0 {
			return CollisionLeft, true
		}
		return CollisionRight, true
	case offset.Y > 0:
		return CollisionTop, true
	default:
		return CollisionBottom, true
	}
}

// Reflect negates the velocity axis of the collision side, but only while the
// boid is still moving into that side. A boid already moving away is left
// alone so it does not get trapped flipping back and forth against the wall.
func Reflect(vel geometry.Vector2D, side Collision) (geometry.Vector2D, bool) {
	switch side {
	case CollisionLeft:
		if vel.X > 0 {
			vel.X = -vel.X
			return vel, true
		}
	case CollisionRight:
		if vel.X < 0 {
			vel.X = -vel.X
			return vel, true
		}
	case CollisionTop:
		if vel.Y < 0 {
			vel.Y = -vel.Y
			return vel, true
		}
	case CollisionBottom:
		if vel.Y > 0 {
			vel.Y = -vel.Y
			return vel, true
		}
	}
	return vel, false
}
