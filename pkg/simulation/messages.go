package simulation

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// Every message exchanged with the world actor is a structpb.Struct
// envelope whose "kind" field selects the operation.
const (
	KindTick     = "tick"
	KindResize   = "resize"
	KindSettings = "settings"
	KindSnapshot = "snapshot"
	KindReply    = "reply"
)

const (
	fieldKind     = "kind"
	fieldError    = "error"
	fieldDelta    = "dt"
	fieldPointer  = "pointer"
	fieldWidth    = "width"
	fieldHeight   = "height"
	fieldTick     = "tick"
	fieldSimTime  = "simTime"
	fieldBoids    = "boids"
	fieldBorders  = "borders"
	fieldReflects = "reflections"
	fieldNeigh    = "meanNeighbors"
	fieldSettings = "settings"
)

var errMalformed = errors.New("malformed world message")

func envelope(kind string, fields map[string]*structpb.Value) *structpb.Struct {
	if fields == nil {
		fields = make(map[string]*structpb.Value, 1)
	}
	fields[fieldKind] = structpb.NewStringValue(kind)
	return &structpb.Struct{Fields: fields}
}

// MessageKind returns the operation of an envelope, "" when missing.
func MessageKind(m *structpb.Struct) string {
	return m.GetFields()[fieldKind].GetStringValue()
}

// NewTickMessage asks the world to advance by dt seconds.
// pointer is the optional attraction sample, nil when the cursor is unavailable.
func NewTickMessage(dt float64, pointer *geometry.Vector2D) *structpb.Struct {
	fields := map[string]*structpb.Value{
		fieldDelta: structpb.NewNumberValue(dt),
	}
	if pointer != nil {
		fields[fieldPointer] = vectorValue(*pointer)
	}
	return envelope(KindTick, fields)
}

// NewResizeMessage asks the world to rebuild its borders for a new arena size.
func NewResizeMessage(width, height float64) *structpb.Struct {
	return envelope(KindResize, map[string]*structpb.Value{
		fieldWidth:  structpb.NewNumberValue(width),
		fieldHeight: structpb.NewNumberValue(height),
	})
}

// NewSettingsMessage carries new tunables for the flock.
func NewSettingsMessage(s flock.Settings) *structpb.Struct {
	return envelope(KindSettings, map[string]*structpb.Value{
		fieldSettings: structpb.NewStructValue(settingsToProto(s)),
	})
}

// NewSnapshotRequest asks for the current state without ticking.
func NewSnapshotRequest() *structpb.Struct {
	return envelope(KindSnapshot, nil)
}

func newReply(err error) *structpb.Struct {
	if err == nil {
		return envelope(KindReply, nil)
	}
	return envelope(KindReply, map[string]*structpb.Value{
		fieldError: structpb.NewStringValue(err.Error()),
	})
}

// replyError turns the error field of a reply back into a Go error.
func replyError(m *structpb.Struct) error {
	if msg, ok := m.GetFields()[fieldError]; ok {
		return errors.New(msg.GetStringValue())
	}
	return nil
}

func vectorValue(v geometry.Vector2D) *structpb.Value {
	return structpb.NewListValue(&structpb.ListValue{Values: []*structpb.Value{
		structpb.NewNumberValue(v.X),
		structpb.NewNumberValue(v.Y),
	}})
}

func vectorFromValue(v *structpb.Value) (geometry.Vector2D, error) {
	nums, err := numbers(v, 2)
	if err != nil {
		return geometry.Zero, err
	}
	return geometry.Vector2D{X: nums[0], Y: nums[1]}, nil
}

// numbers reads a list of exactly n numbers.
func numbers(v *structpb.Value, n int) ([]float64, error) {
	list := v.GetListValue().GetValues()
	if len(list) != n {
		return nil, fmt.Errorf("%w: want %d numbers, got %d", errMalformed, n, len(list))
	}
	out := make([]float64, n)
	for i, item := range list {
		num, ok := item.GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return nil, fmt.Errorf("%w: item %d is not a number", errMalformed, i)
		}
		out[i] = num.NumberValue
	}
	return out, nil
}

func number(m *structpb.Struct, field string) (float64, error) {
	v, ok := m.GetFields()[field]
	if !ok {
		return 0, fmt.Errorf("%w: missing %q", errMalformed, field)
	}
	num, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%w: %q is not a number", errMalformed, field)
	}
	return num.NumberValue, nil
}

// settingsFields lists every tunable under its config key, so that the
// encoder and the decoder cannot drift apart.
func settingsFields(s *flock.Settings) []struct {
	name  string
	value *float64
} {
	return []struct {
		name  string
		value *float64
	}{
		{"maxSpeed", &s.MaxSpeed},
		{"viewRadius", &s.ViewRadius},
		{"alignWeight", &s.AlignWeight},
		{"cohesionWeight", &s.CohesionWeight},
		{"separationWeight", &s.SeparationWeight},
		{"avoidanceDistance", &s.AvoidanceDistance},
		{"avoidanceWeight", &s.AvoidanceWeight},
		{"attractionWeight", &s.AttractionWeight},
		{"captureDistance", &s.CaptureDistance},
		{"borderThickness", &s.BorderThickness},
		{"boidRadius", &s.BoidRadius},
		{"initialSpeed", &s.InitialSpeed},
	}
}

func settingsToProto(s flock.Settings) *structpb.Struct {
	out := &structpb.Struct{Fields: make(map[string]*structpb.Value)}
	for _, f := range settingsFields(&s) {
		out.Fields[f.name] = structpb.NewNumberValue(*f.value)
	}
	return out
}

// settingsFromProto starts from base and overrides the fields present in m.
func settingsFromProto(m *structpb.Struct, base flock.Settings) (flock.Settings, error) {
	for _, f := range settingsFields(&base) {
		if _, ok := m.GetFields()[f.name]; !ok {
			continue
		}
		v, err := number(m, f.name)
		if err != nil {
			return base, err
		}
		*f.value = v
	}
	return base, nil
}
