package flock

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// TickStats describes the last applied tick.
type TickStats struct {
	Tick          uint64
	SimTime       float64 // Sum of every applied delta, in seconds
	Reflections   int     // Velocity axes flipped by the collision pass
	MeanNeighbors float64
}

// World owns the arena, the flock and the borders.
// It is not safe for concurrent use: the caller serializes every call
// (the simulation actor does this with its mailbox). Overlapping calls
// are detected and rejected with ErrTickInProgress.
type World struct {
	width, height float64
	settings      Settings

	boids   []Boid
	borders [4]Border

	attraction *geometry.Vector2D

	// Per-tick buffers, reused to keep ticks allocation free.
	snapshot []sample
	next     []geometry.Vector2D

	stats   TickStats
	ticking atomic.Bool
}

// New creates a world holding exactly the given boids.
// The slice is copied, the caller keeps ownership of its argument.
func New(width, height float64, boids []Boid, s Settings) (*World, error) {
	if err := checkArena(width, height); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	w := &World{
		width:    width,
		height:   height,
		settings: s,
		boids:    append([]Boid(nil), boids...),
		borders:  arenaBorders(width, height, s.BorderThickness),
		snapshot: make([]sample, len(boids)),
		next:     make([]geometry.Vector2D, len(boids)),
	}
	return w, nil
}

// Initialize creates a world with count boids at random positions inside the
// arena with random velocities. A nil rng falls back to a time-seeded one.
func Initialize(width, height float64, count int, s Settings, rng *rand.Rand) (*World, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBoidCount, count)
	}
	if err := checkArena(width, height); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}

	boids := make([]Boid, count)
	for i := range boids {
		boids[i] = spawnBoid(rng, width, height, s)
	}
	return New(width, height, boids, s)
}

func checkArena(width, height float64) error {
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return fmt.Errorf("%w: got %vx%v", ErrEmptyArena, width, height)
	}
	return nil
}

// Tick advances the simulation by dt seconds.
// attraction is the optional pointer sample for this tick, nil when none.
// A rejected tick leaves the world untouched; a zero dt is a no-op.
func (w *World) Tick(dt float64, attraction *geometry.Vector2D) error {
	if !(dt >= 0) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: got %v", ErrNegativeDelta, dt)
	}
	if !w.ticking.CompareAndSwap(false, true) {
		return ErrTickInProgress
	}
	defer w.ticking.Store(false)

	if dt == 0 {
		return nil
	}

	if attraction != nil {
		p := *attraction
		w.attraction = &p
	} else {
		w.attraction = nil
	}

	w.takeSnapshot()
	neighbors := w.steer()
	w.integrate(dt)
	reflections := w.resolveCollisions()

	w.stats.Tick++
	w.stats.SimTime += dt
	w.stats.Reflections = reflections
	w.stats.MeanNeighbors = 0
	if len(w.boids) > 0 {
		w.stats.MeanNeighbors = float64(neighbors) / float64(len(w.boids))
	}
	return nil
}

// takeSnapshot copies every position and velocity so the force pass never
// sees a half-updated flock, whatever order the boids are visited in.
func (w *World) takeSnapshot() {
	for i, b := range w.boids {
		w.snapshot[i] = sample{pos: b.Pos, vel: b.Vel}
	}
}

// steer computes every new velocity from the snapshot, then writes them all.
// It returns the total neighbor count seen by the flock.
func (w *World) steer() int {
	s := w.settings
	total := 0
	for i := range w.snapshot {
		pos := w.snapshot[i].pos

		flocking := flockingForces(i, w.snapshot, s)
		avoidance := AvoidanceForce(pos, w.width, w.height, s)
		attraction := AttractionForce(pos, w.attraction, s)

		w.next[i] = flocking.Sum().Add(avoidance).Add(attraction).ClampLenMax(s.MaxSpeed)
		total += flocking.Neighbors
	}

	for i := range w.boids {
		w.boids[i].Vel = w.next[i]
	}
	return total
}

// integrate moves every boid along its freshly written velocity.
func (w *World) integrate(dt float64) {
	for i := range w.boids {
		w.boids[i].Pos = w.boids[i].Pos.Add(w.boids[i].Vel.Mul(dt))
	}
}

// resolveCollisions reflects the velocity of boids overlapping a border.
// Boids are never moved back out: at high speed a boid can tunnel through
// or stay lodged in a wall, which is a known limitation.
func (w *World) resolveCollisions() int {
	reflections := 0
	for i := range w.boids {
		b := &w.boids[i]
		for _, border := range w.borders {
			side, hit := DetectCollision(b.Bounds(), border.Box())
			if !hit {
				continue
			}
			var flipped bool
			b.Vel, flipped = Reflect(b.Vel, side)
			if flipped {
				reflections++
			}
		}
	}
	return reflections
}

// Resize moves the borders so they stay flush with a new arena size.
// Boids are left where they are.
func (w *World) Resize(width, height float64) error {
	if err := checkArena(width, height); err != nil {
		return err
	}
	if !w.ticking.CompareAndSwap(false, true) {
		return ErrTickInProgress
	}
	defer w.ticking.Store(false)

	w.width, w.height = width, height
	w.borders = arenaBorders(width, height, w.settings.BorderThickness)
	return nil
}

// UpdateSettings swaps the tunables used from the next tick on.
// Borders are rebuilt since their thickness may have changed.
func (w *World) UpdateSettings(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if !w.ticking.CompareAndSwap(false, true) {
		return ErrTickInProgress
	}
	defer w.ticking.Store(false)

	w.settings = s
	w.borders = arenaBorders(w.width, w.height, s.BorderThickness)
	return nil
}

// ---------------------------------------------------------------------
// Read accessors for the rendering side
// ---------------------------------------------------------------------

// Boids returns a copy of the flock.
func (w *World) Boids() []Boid {
	return append([]Boid(nil), w.boids...)
}

// Boid returns the boid at index i.
func (w *World) Boid(i int) (Boid, bool) {
	if i < 0 || i >= len(w.boids) {
		return Boid{}, false
	}
	return w.boids[i], true
}

// Len is the number of boids, fixed for the life of the world.
func (w *World) Len() int { return len(w.boids) }

// Borders returns the four walls, in left, right, bottom, top order.
func (w *World) Borders() []Border {
	return append([]Border(nil), w.borders[:]...)
}

func (w *World) Width() float64  { return w.width }
func (w *World) Height() float64 { return w.height }

func (w *World) Settings() Settings { return w.settings }

// AttractionPoint returns the sample used by the last applied tick.
func (w *World) AttractionPoint() (geometry.Vector2D, bool) {
	if w.attraction == nil {
		return geometry.Zero, false
	}
	return *w.attraction, true
}

// Stats describes the last applied tick.
func (w *World) Stats() TickStats { return w.stats }
