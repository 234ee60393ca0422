package telemetry

import (
	"log/slog"
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

func TestCompute(t *testing.T) {
	boids := []flock.Boid{
		{Pos: geometry.Vector2D{X: -10, Y: 0}, Vel: geometry.Vector2D{X: 3, Y: 4}},
		{Pos: geometry.Vector2D{X: 10, Y: 4}, Vel: geometry.Vector2D{X: 0, Y: 15}},
	}
	tick := flock.TickStats{Tick: 12, SimTime: 0.2, Reflections: 3, MeanNeighbors: 1}

	got := Compute(boids, tick)

	tests := []struct {
		name      string
		got, want float64
	}{
		{"speed mean", got.SpeedMean, 10},
		{"speed std", got.SpeedStd, math.Sqrt(50)},
		{"speed max", got.SpeedMax, 15},
		{"centroid x", got.CentroidX, 0},
		{"centroid y", got.CentroidY, 2},
		// Unit headings (0.6, 0.8) and (0, 1): mean is (0.3, 0.9).
		{"polarization", got.Polarization, math.Hypot(0.3, 0.9)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got-tt.want) > 1e-9 {
				t.Errorf("%s = %v; want %v", tt.name, tt.got, tt.want)
			}
		})
	}

	if got.Tick != 12 || got.Boids != 2 || got.Reflections != 3 || got.MeanNeighbors != 1 {
		t.Errorf("Compute() = %+v; tick data not carried over", got)
	}
}

func TestCompute_Aligned(t *testing.T) {
	boids := make([]flock.Boid, 5)
	for i := range boids {
		boids[i] = flock.Boid{Vel: geometry.Vector2D{X: float64(i + 1), Y: 0}}
	}
	if got := Compute(boids, flock.TickStats{}).Polarization; math.Abs(got-1) > 1e-9 {
		t.Errorf("Polarization of an aligned flock = %v; want 1", got)
	}
}

func TestCompute_EdgeCases(t *testing.T) {
	t.Run("empty flock", func(t *testing.T) {
		got := Compute(nil, flock.TickStats{Tick: 1})
		if got.Boids != 0 || got.SpeedMean != 0 || got.SpeedMax != 0 || got.Tick != 1 {
			t.Errorf("Compute(nil) = %+v; want zero stats", got)
		}
	})

	t.Run("single boid", func(t *testing.T) {
		got := Compute([]flock.Boid{{Vel: geometry.Vector2D{X: 0, Y: 2}}}, flock.TickStats{})
		if got.SpeedStd != 0 || got.SpeedMean != 2 {
			t.Errorf("Compute(single) = %+v; want mean 2 and no spread", got)
		}
	})
}

func TestFlockStats_LogValue(t *testing.T) {
	v := FlockStats{Tick: 3, Boids: 7}.LogValue()
	if v.Kind() != slog.KindGroup {
		t.Fatalf("LogValue().Kind() = %v; want group", v.Kind())
	}
	attrs := v.Group()
	if len(attrs) != 11 {
		t.Errorf("len(attrs) = %d; want 11", len(attrs))
	}
	if attrs[0].Key != "tick" || attrs[0].Value.Uint64() != 3 {
		t.Errorf("first attr = %v; want tick=3", attrs[0])
	}
}
