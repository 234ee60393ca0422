package simulation

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// Snapshot is the state handed to the renderer after each tick.
type Snapshot struct {
	Width, Height float64
	Boids         []flock.Boid
	Borders       []flock.Border
	Attraction    *geometry.Vector2D // nil when the tick had no pointer sample
	Stats         flock.TickStats
}

// takeSnapshot copies the renderer-facing state out of the world.
func takeSnapshot(w *flock.World) *Snapshot {
	s := &Snapshot{
		Width:   w.Width(),
		Height:  w.Height(),
		Boids:   w.Boids(),
		Borders: w.Borders(),
		Stats:   w.Stats(),
	}
	if p, ok := w.AttractionPoint(); ok {
		s.Attraction = &p
	}
	return s
}

// ToProto converts the snapshot into the protobuf envelope.
// Boids travel as [x, y, vx, vy, radius] and borders as
// [location, cx, cy, hx, hy] number lists to keep the payload flat.
func (s *Snapshot) ToProto() *structpb.Struct {
	boids := make([]*structpb.Value, len(s.Boids))
	for i, b := range s.Boids {
		boids[i] = numberList(b.Pos.X, b.Pos.Y, b.Vel.X, b.Vel.Y, b.Radius)
	}
	borders := make([]*structpb.Value, len(s.Borders))
	for i, b := range s.Borders {
		borders[i] = numberList(float64(b.Location), b.Center.X, b.Center.Y, b.HalfExtent.X, b.HalfExtent.Y)
	}

	fields := map[string]*structpb.Value{
		fieldWidth:    structpb.NewNumberValue(s.Width),
		fieldHeight:   structpb.NewNumberValue(s.Height),
		fieldTick:     structpb.NewNumberValue(float64(s.Stats.Tick)),
		fieldSimTime:  structpb.NewNumberValue(s.Stats.SimTime),
		fieldReflects: structpb.NewNumberValue(float64(s.Stats.Reflections)),
		fieldNeigh:    structpb.NewNumberValue(s.Stats.MeanNeighbors),
		fieldBoids:    structpb.NewListValue(&structpb.ListValue{Values: boids}),
		fieldBorders:  structpb.NewListValue(&structpb.ListValue{Values: borders}),
	}
	if s.Attraction != nil {
		fields[fieldPointer] = vectorValue(*s.Attraction)
	}
	return envelope(KindSnapshot, fields)
}

// SnapshotFromProto converts the protobuf envelope back into a Snapshot.
func SnapshotFromProto(m *structpb.Struct) (*Snapshot, error) {
	if kind := MessageKind(m); kind != KindSnapshot {
		return nil, fmt.Errorf("%w: want a %s, got %q", errMalformed, KindSnapshot, kind)
	}

	s := &Snapshot{}
	var err error
	if s.Width, err = number(m, fieldWidth); err != nil {
		return nil, err
	}
	if s.Height, err = number(m, fieldHeight); err != nil {
		return nil, err
	}
	tick, err := number(m, fieldTick)
	if err != nil {
		return nil, err
	}
	s.Stats.Tick = uint64(tick)
	if s.Stats.SimTime, err = number(m, fieldSimTime); err != nil {
		return nil, err
	}
	reflections, err := number(m, fieldReflects)
	if err != nil {
		return nil, err
	}
	s.Stats.Reflections = int(reflections)
	if s.Stats.MeanNeighbors, err = number(m, fieldNeigh); err != nil {
		return nil, err
	}

	boids := m.GetFields()[fieldBoids].GetListValue().GetValues()
	s.Boids = make([]flock.Boid, len(boids))
	for i, v := range boids {
		n, err := numbers(v, 5)
		if err != nil {
			return nil, fmt.Errorf("boid %d: %w", i, err)
		}
		s.Boids[i] = flock.Boid{
			Pos:    geometry.Vector2D{X: n[0], Y: n[1]},
			Vel:    geometry.Vector2D{X: n[2], Y: n[3]},
			Radius: n[4],
		}
	}

	borders := m.GetFields()[fieldBorders].GetListValue().GetValues()
	s.Borders = make([]flock.Border, len(borders))
	for i, v := range borders {
		n, err := numbers(v, 5)
		if err != nil {
			return nil, fmt.Errorf("border %d: %w", i, err)
		}
		s.Borders[i] = flock.Border{
			Location:   flock.BorderLocation(n[0]),
			Center:     geometry.Vector2D{X: n[1], Y: n[2]},
			HalfExtent: geometry.Vector2D{X: n[3], Y: n[4]},
		}
	}

	if v, ok := m.GetFields()[fieldPointer]; ok {
		p, err := vectorFromValue(v)
		if err != nil {
			return nil, err
		}
		s.Attraction = &p
	}
	return s, nil
}

func numberList(nums ...float64) *structpb.Value {
	values := make([]*structpb.Value, len(nums))
	for i, n := range nums {
		values[i] = structpb.NewNumberValue(n)
	}
	return structpb.NewListValue(&structpb.ListValue{Values: values})
}
