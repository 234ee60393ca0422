// Package telemetry aggregates flock statistics and writes them out as CSV.
package telemetry

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// FlockStats is one telemetry row, sampled after a tick.
type FlockStats struct {
	Tick    uint64  `csv:"tick"`
	SimTime float64 `csv:"sim_time"`
	Boids   int     `csv:"boids"`

	// Speed distribution
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedMax  float64 `csv:"speed_max"`

	CentroidX float64 `csv:"centroid_x"`
	CentroidY float64 `csv:"centroid_y"`

	// Polarization is the length of the mean unit heading:
	// 1 when every boid flies the same way, near 0 for a disordered flock.
	Polarization float64 `csv:"polarization"`

	MeanNeighbors float64 `csv:"mean_neighbors"`
	Reflections   int     `csv:"reflections"`
}

// Compute builds the stats row for a flock and the tick that produced it.
func Compute(boids []flock.Boid, tick flock.TickStats) FlockStats {
	s := FlockStats{
		Tick:          tick.Tick,
		SimTime:       tick.SimTime,
		Boids:         len(boids),
		MeanNeighbors: tick.MeanNeighbors,
		Reflections:   tick.Reflections,
	}
	if len(boids) == 0 {
		return s
	}

	speeds := make([]float64, len(boids))
	xs := make([]float64, len(boids))
	ys := make([]float64, len(boids))
	var heading geometry.Vector2D
	for i, b := range boids {
		speeds[i] = b.Speed()
		xs[i] = b.Pos.X
		ys[i] = b.Pos.Y
		heading = heading.Add(b.Vel.Normalize())
	}

	s.SpeedMean, s.SpeedStd = stat.MeanStdDev(speeds, nil)
	if math.IsNaN(s.SpeedStd) {
		// A single sample has no spread.
		s.SpeedStd = 0
	}
	s.SpeedMax = floats.Max(speeds)
	s.CentroidX = stat.Mean(xs, nil)
	s.CentroidY = stat.Mean(ys, nil)
	s.Polarization = heading.Len() / float64(len(boids))
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s FlockStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("tick", s.Tick),
		slog.Float64("sim_time", s.SimTime),
		slog.Int("boids", s.Boids),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Float64("centroid_x", s.CentroidX),
		slog.Float64("centroid_y", s.CentroidY),
		slog.Float64("polarization", s.Polarization),
		slog.Float64("mean_neighbors", s.MeanNeighbors),
		slog.Int("reflections", s.Reflections),
	)
}
