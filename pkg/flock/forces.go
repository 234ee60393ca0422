package flock

import "github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"

// sample is the read-only copy of one boid taken at the start of a tick.
type sample struct {
	pos geometry.Vector2D
	vel geometry.Vector2D
}

// Steering holds the three weighted flocking forces acting on one boid.
type Steering struct {
	Alignment  geometry.Vector2D
	Cohesion   geometry.Vector2D
	Separation geometry.Vector2D
	Neighbors  int
}

// Sum adds the three forces.
func (st Steering) Sum() geometry.Vector2D {
	return st.Alignment.Add(st.Cohesion).Add(st.Separation)
}

// flockingForces scans every other boid of the snapshot (brute force, O(n))
// and returns the weighted alignment, cohesion and separation of boid i.
// Neighbors are the boids strictly inside the view radius, at a non-zero distance.
func flockingForces(i int, snap []sample, s Settings) Steering {
	var (
		alignment  geometry.Vector2D
		cohesion   geometry.Vector2D
		separation geometry.Vector2D
		neighbors  int
	)
	me := snap[i].pos

	for j, other := range snap {
		if i == j {
			continue
		}

		diff := other.pos.Sub(me)
		dist := diff.Len()

		if dist > 0 && dist < s.ViewRadius {
			alignment = alignment.Add(other.vel)
			cohesion = cohesion.Add(other.pos)
			// Inverse distance weighting: closer neighbors repel more.
			separation = separation.Sub(diff.Mul(1 / (dist * dist)))
			neighbors++
		}
	}

	if neighbors == 0 {
		return Steering{}
	}

	n := float64(neighbors)
	return Steering{
		Alignment:  alignment.Mul(1 / n).Normalize().Mul(s.AlignWeight),
		Cohesion:   cohesion.Mul(1 / n).Sub(me).Normalize().Mul(s.CohesionWeight),
		Separation: separation.Normalize().Mul(s.SeparationWeight),
		Neighbors:  neighbors,
	}
}

// AvoidanceForce pushes a boid back toward the arena interior when it gets
// closer than AvoidanceDistance to an edge. Each edge contributes linearly,
// from 0 at AvoidanceDistance to 1 on the boundary; the sum is normalized
// and scaled by AvoidanceWeight.
// Distances are measured to the visible boundary, not to the border walls.
func AvoidanceForce(pos geometry.Vector2D, width, height float64, s Settings) geometry.Vector2D {
	var avoidance geometry.Vector2D

	left, right := -width/2, width/2
	bottom, top := -height/2, height/2

	if d := pos.X - left; d < s.AvoidanceDistance {
		avoidance.X += falloff(d, s.AvoidanceDistance)
	}
	if d := right - pos.X; d < s.AvoidanceDistance {
		avoidance.X -= falloff(d, s.AvoidanceDistance)
	}
	if d := pos.Y - bottom; d < s.AvoidanceDistance {
		avoidance.Y += falloff(d, s.AvoidanceDistance)
	}
	if d := top - pos.Y; d < s.AvoidanceDistance {
		avoidance.Y -= falloff(d, s.AvoidanceDistance)
	}

	return avoidance.Normalize().Mul(s.AvoidanceWeight)
}

func falloff(distance, reach float64) float64 {
	return max(1-distance/reach, 0)
}

// AttractionForce steers a boid toward point when it is within CaptureDistance.
// A nil point means no sample is available and yields no force at all.
func AttractionForce(pos geometry.Vector2D, point *geometry.Vector2D, s Settings) geometry.Vector2D {
	if point == nil {
		return geometry.Zero
	}
	direction := point.Sub(pos)
	if direction.Len() < s.CaptureDistance {
		return direction.Normalize().Mul(s.AttractionWeight)
	}
	return geometry.Zero
}
