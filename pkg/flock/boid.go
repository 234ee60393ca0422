package flock

import (
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// Boid represents a single entity in the flock.
// Boids is an artificial life program, developed by Craig Reynolds in 1986,
// which simulates the flocking behaviour of birds, and related group motion.
// The name "boid" corresponds to a shortened version of "bird-oid object".
// https://en.wikipedia.org/wiki/Boids
// Fields are exported so the renderer can read them.
type Boid struct {
	Pos    geometry.Vector2D
	Vel    geometry.Vector2D
	Radius float64
}

// Heading is the facing angle in radians, derived from the velocity.
// A boid at rest faces along the X-axis.
func (b Boid) Heading() float64 {
	return b.Vel.Angle()
}

// Speed is the velocity magnitude.
func (b Boid) Speed() float64 {
	return b.Vel.Len()
}

// Bounds is the collision circle of the boid.
func (b Boid) Bounds() geometry.Circle {
	return geometry.Circle{Center: b.Pos, Radius: b.Radius}
}

// spawnBoid creates a boid at a random position inside the arena, kept one
// diameter away from the edges, with a random velocity.
func spawnBoid(rng *rand.Rand, width, height float64, s Settings) Boid {
	diameter := 2 * s.BoidRadius
	spawnW := max(width-2*diameter, 0)
	spawnH := max(height-2*diameter, 0)
	return Boid{
		Pos: geometry.Vector2D{
			X: rng.Float64()*spawnW - spawnW/2,
			Y: rng.Float64()*spawnH - spawnH/2,
		},
		Vel: geometry.Vector2D{
			X: (rng.Float64()*2 - 1) * s.InitialSpeed,
			Y: (rng.Float64()*2 - 1) * s.InitialSpeed,
		},
		Radius: s.BoidRadius,
	}
}
