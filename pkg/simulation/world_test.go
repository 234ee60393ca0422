package simulation

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/telemetry"
)

func newTestActor(t *testing.T, cfg *Config, snapshotCh chan<- *Snapshot, recorder *telemetry.Recorder) *WorldActor {
	t.Helper()
	w := NewWorldActor(snapshotCh, cfg, recorder)
	if err := w.spawnFlock(); err != nil {
		t.Fatalf("spawnFlock() error = %v", err)
	}
	return w
}

func smallConfig() *Config {
	cfg := DefaultConfig()
	cfg.WorldWidth = 400
	cfg.WorldHeight = 300
	cfg.NumBoids = 25
	cfg.Seed = 42
	cfg.TelemetryEvery = 0
	return cfg
}

func TestWorldActor_spawnFlock(t *testing.T) {
	cfg := smallConfig()
	w := newTestActor(t, cfg, nil, nil)

	if got := w.world.Len(); got != cfg.NumBoids {
		t.Errorf("Len() = %d; want %d", got, cfg.NumBoids)
	}

	// Same seed, same flock
	other := newTestActor(t, smallConfig(), nil, nil)
	a, b := w.world.Boids(), other.world.Boids()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("boid %d differs between seeded spawns: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestWorldActor_spawnFlockRejectsBadConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.WorldWidth = 0
	w := NewWorldActor(nil, cfg, nil)
	if err := w.spawnFlock(); err == nil {
		t.Error("spawnFlock() with a zero width arena: want error, got nil")
	}
}

func TestWorldActor_handleTick(t *testing.T) {
	snapshotCh := make(chan *Snapshot, 1)
	w := newTestActor(t, smallConfig(), snapshotCh, nil)

	pointer := geometry.Vector2D{X: 10, Y: -20}
	reply := w.handle(NewTickMessage(1.0/60, &pointer), log.DiscardLogger)
	if err := replyError(reply); err != nil {
		t.Fatalf("tick reply error = %v", err)
	}

	snap, err := SnapshotFromProto(reply)
	if err != nil {
		t.Fatalf("SnapshotFromProto() error = %v", err)
	}
	if snap.Stats.Tick != 1 {
		t.Errorf("Stats.Tick = %d; want 1", snap.Stats.Tick)
	}
	if len(snap.Boids) != 25 {
		t.Errorf("len(Boids) = %d; want 25", len(snap.Boids))
	}
	if snap.Attraction == nil || *snap.Attraction != pointer {
		t.Errorf("Attraction = %v; want %v", snap.Attraction, pointer)
	}

	select {
	case pushed := <-snapshotCh:
		if pushed.Stats.Tick != 1 {
			t.Errorf("pushed snapshot tick = %d; want 1", pushed.Stats.Tick)
		}
	default:
		t.Error("tick did not push a snapshot")
	}
}

func TestWorldActor_handleTickDoesNotBlockOnFullChannel(t *testing.T) {
	snapshotCh := make(chan *Snapshot) // Nobody reads
	w := newTestActor(t, smallConfig(), snapshotCh, nil)

	for i := 0; i < 3; i++ {
		if err := replyError(w.handle(NewTickMessage(0.01, nil), log.DiscardLogger)); err != nil {
			t.Fatalf("tick %d error = %v", i, err)
		}
	}
	if got := w.world.Stats().Tick; got != 3 {
		t.Errorf("Tick = %d; want 3", got)
	}
}

func TestWorldActor_handleErrors(t *testing.T) {
	w := newTestActor(t, smallConfig(), nil, nil)

	tests := []struct {
		name string
		msg  *structpb.Struct
		want string
	}{
		{"negative delta", NewTickMessage(-1, nil), flock.ErrNegativeDelta.Error()},
		{"empty arena", NewResizeMessage(0, 100), flock.ErrEmptyArena.Error()},
		{"invalid settings", NewSettingsMessage(flock.Settings{MaxSpeed: -1}), flock.ErrInvalidSettings.Error()},
		{"missing delta", envelope(KindTick, nil), "missing"},
		{"unknown kind", envelope("explode", nil), "unknown kind"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := replyError(w.handle(tt.msg, log.DiscardLogger))
			if err == nil {
				t.Fatalf("handle(%s): want error, got nil", tt.name)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("handle(%s) error = %q; want it to contain %q", tt.name, err, tt.want)
			}
		})
	}

	if got := w.world.Stats().Tick; got != 0 {
		t.Errorf("rejected requests advanced the world to tick %d", got)
	}
	if got := w.world.Width(); got != 400 {
		t.Errorf("rejected resize changed the width to %v", got)
	}
}

func TestWorldActor_handleResize(t *testing.T) {
	cfg := smallConfig()
	w := newTestActor(t, cfg, nil, nil)

	if err := replyError(w.handle(NewResizeMessage(1024, 768), log.DiscardLogger)); err != nil {
		t.Fatalf("resize error = %v", err)
	}

	snap, err := SnapshotFromProto(w.handle(NewSnapshotRequest(), log.DiscardLogger))
	if err != nil {
		t.Fatalf("SnapshotFromProto() error = %v", err)
	}
	if snap.Width != 1024 || snap.Height != 768 {
		t.Errorf("snapshot size = %vx%v; want 1024x768", snap.Width, snap.Height)
	}
	if got := snap.Borders[1].Box().Min().X; got != 512 {
		t.Errorf("right border inner face = %v; want 512", got)
	}
	if cfg.WorldWidth != 1024 || cfg.WorldHeight != 768 {
		t.Errorf("config size = %vx%v; want 1024x768", cfg.WorldWidth, cfg.WorldHeight)
	}
}

func TestWorldActor_handleSettings(t *testing.T) {
	cfg := smallConfig()
	w := newTestActor(t, cfg, nil, nil)

	s := w.world.Settings()
	s.MaxSpeed = 120
	s.BorderThickness = 20
	if err := replyError(w.handle(NewSettingsMessage(s), log.DiscardLogger)); err != nil {
		t.Fatalf("settings error = %v", err)
	}

	if got := w.world.Settings(); got != s {
		t.Errorf("Settings() = %+v; want %+v", got, s)
	}
	if cfg.MaxSpeed != 120 || cfg.BorderThickness != 20 {
		t.Errorf("config not updated: maxSpeed %v, borderThickness %v", cfg.MaxSpeed, cfg.BorderThickness)
	}
}

func TestWorldActor_handleSettingsPartial(t *testing.T) {
	w := newTestActor(t, smallConfig(), nil, nil)
	before := w.world.Settings()

	msg := envelope(KindSettings, map[string]*structpb.Value{
		fieldSettings: structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"viewRadius": structpb.NewNumberValue(80),
		}}),
	})
	if err := replyError(w.handle(msg, log.DiscardLogger)); err != nil {
		t.Fatalf("settings error = %v", err)
	}

	want := before
	want.ViewRadius = 80
	if got := w.world.Settings(); got != want {
		t.Errorf("Settings() = %+v; want %+v", got, want)
	}
}

func TestWorldActor_telemetry(t *testing.T) {
	cfg := smallConfig()
	cfg.TelemetryEvery = 2
	var buf bytes.Buffer
	recorder := telemetry.NewRecorder(&buf)
	w := newTestActor(t, cfg, nil, recorder)

	for i := 0; i < 5; i++ {
		if err := replyError(w.handle(NewTickMessage(0.01, nil), log.DiscardLogger)); err != nil {
			t.Fatalf("tick %d error = %v", i, err)
		}
	}

	if got := recorder.Rows(); got != 2 {
		t.Errorf("Rows() = %d; want 2 (ticks 2 and 4)", got)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("csv has %d lines; want header + 2 rows:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[1], "2,") || !strings.HasPrefix(lines[2], "4,") {
		t.Errorf("csv rows = %q; want ticks 2 and 4", lines[1:])
	}
}

func TestWorldActor_telemetrySkipsZeroDelta(t *testing.T) {
	cfg := smallConfig()
	cfg.TelemetryEvery = 2
	var buf bytes.Buffer
	recorder := telemetry.NewRecorder(&buf)
	w := newTestActor(t, cfg, nil, recorder)

	for i, dt := range []float64{0, 0.01, 0.01, 0, 0} {
		if err := replyError(w.handle(NewTickMessage(dt, nil), log.DiscardLogger)); err != nil {
			t.Fatalf("tick %d (dt %v) error = %v", i, dt, err)
		}
	}

	if got := recorder.Rows(); got != 1 {
		t.Errorf("Rows() = %d; want 1 (tick 2 only):\n%s", got, buf.String())
	}
	if got := w.tickCount; got != 2 {
		t.Errorf("tickCount = %d; want 2", got)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[1], "2,") {
		t.Errorf("csv = %q; want header + the tick 2 row", lines)
	}
}
