package flock

import (
	"fmt"
	"math"
)

// Settings controls the physics constants for the simulation.
// Passing this into the World allows you to change rules without recompiling.
type Settings struct {
	MaxSpeed   float64 // Maximum velocity magnitude
	ViewRadius float64 // How far boids can "see" neighbors

	AlignWeight      float64 // Steer towards average heading
	CohesionWeight   float64 // Steer towards center of neighbors
	SeparationWeight float64 // Avoid crowding neighbors

	AvoidanceDistance float64 // Start avoiding when this close to an edge
	AvoidanceWeight   float64 // How strongly to avoid edges

	AttractionWeight float64 // Steer towards the attraction point
	CaptureDistance  float64 // Attraction only applies inside this distance

	BorderThickness float64

	// Used when spawning a flock with Initialize.
	BoidRadius   float64
	InitialSpeed float64 // Per-axis bound of the random start velocity
}

// DefaultSettings returns the tuning the flock was designed around.
func DefaultSettings() Settings {
	return Settings{
		MaxSpeed:          300,
		ViewRadius:        50,
		AlignWeight:       15,
		CohesionWeight:    15,
		SeparationWeight:  17,
		AvoidanceDistance: 10,
		AvoidanceWeight:   30,
		AttractionWeight:  30,
		CaptureDistance:   100,
		BorderThickness:   10,
		BoidRadius:        1.25,
		InitialSpeed:      200,
	}
}

// Validate checks that every value is finite and within its domain.
func (s Settings) Validate() error {
	nonNegative := []struct {
		name  string
		value float64
	}{
		{"MaxSpeed", s.MaxSpeed},
		{"ViewRadius", s.ViewRadius},
		{"AlignWeight", s.AlignWeight},
		{"CohesionWeight", s.CohesionWeight},
		{"SeparationWeight", s.SeparationWeight},
		{"AvoidanceWeight", s.AvoidanceWeight},
		{"AttractionWeight", s.AttractionWeight},
		{"CaptureDistance", s.CaptureDistance},
		{"BoidRadius", s.BoidRadius},
		{"InitialSpeed", s.InitialSpeed},
	}
	for _, f := range nonNegative {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value < 0 {
			return fmt.Errorf("%w: %s must be a finite non-negative number, got %v", ErrInvalidSettings, f.name, f.value)
		}
	}

	// Both are divisors or sizes of geometry, zero would be degenerate.
	positive := []struct {
		name  string
		value float64
	}{
		{"AvoidanceDistance", s.AvoidanceDistance},
		{"BorderThickness", s.BorderThickness},
	}
	for _, f := range positive {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value <= 0 {
			return fmt.Errorf("%w: %s must be a finite positive number, got %v", ErrInvalidSettings, f.name, f.value)
		}
	}
	return nil
}
