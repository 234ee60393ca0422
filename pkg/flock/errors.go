package flock

import "errors"

var (
	// ErrNegativeDelta is returned when a tick is asked to go back in time.
	ErrNegativeDelta = errors.New("delta time must be a non-negative number")
	// ErrEmptyArena is returned for an arena with a non-positive width or height.
	ErrEmptyArena = errors.New("arena width and height must be positive")
	// ErrTickInProgress is returned when the world is touched while a tick is running.
	ErrTickInProgress = errors.New("world is in the middle of a tick")
	// ErrInvalidSettings wraps every settings validation failure.
	ErrInvalidSettings = errors.New("invalid flock settings")
	// ErrInvalidBoidCount is returned when asked to spawn a negative number of boids.
	ErrInvalidBoidCount = errors.New("boid count must not be negative")
)
