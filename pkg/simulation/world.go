package simulation

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/telemetry"
)

// WorldActor owns the authoritative flock. Its mailbox serializes every
// tick, resize and settings change, so the world is never shared.
type WorldActor struct {
	world *flock.World
	cfg   *Config

	// Communication with UI
	snapshotCh chan<- *Snapshot
	recorder   *telemetry.Recorder

	// --- Benchmark Stats ---
	msgRecvCount int
	tickCount    int
	lastPayload  int
	lastLogTime  time.Time
}

// NewWorldActor creates the world logic unit.
// snapshotCh and recorder are optional.
func NewWorldActor(snapshotCh chan<- *Snapshot, cfg *Config, recorder *telemetry.Recorder) *WorldActor {
	return &WorldActor{
		cfg:         cfg,
		snapshotCh:  snapshotCh,
		recorder:    recorder,
		lastLogTime: time.Now(),
	}
}

// PreStart spawns the flock, so a bad configuration fails the spawn itself.
func (w *WorldActor) PreStart(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("World is spawning %d boids...", w.cfg.NumBoids)
	return w.spawnFlock()
}

func (w *WorldActor) spawnFlock() error {
	var rng *rand.Rand
	if w.cfg.Seed != 0 {
		rng = rand.New(rand.NewPCG(w.cfg.Seed, w.cfg.Seed^0x9e3779b97f4a7c15))
	}
	world, err := flock.Initialize(w.cfg.WorldWidth, w.cfg.WorldHeight, w.cfg.NumBoids, w.cfg.Settings(), rng)
	if err != nil {
		return fmt.Errorf("failed to spawn flock: %w", err)
	}
	w.world = world
	return nil
}

func (w *WorldActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		ctx.Logger().Infof("World Started: %d boids in %.0fx%.0f", w.world.Len(), w.world.Width(), w.world.Height())

	case *structpb.Struct:
		w.msgRecvCount++
		reply := w.handle(msg, ctx.Logger())
		w.logBenchmarks(ctx.Logger())
		ctx.Response(reply)

	default:
		ctx.Unhandled()
	}
}

// handle applies one request to the world and builds its reply.
func (w *WorldActor) handle(msg *structpb.Struct, logger log.Logger) *structpb.Struct {
	switch kind := MessageKind(msg); kind {
	case KindTick:
		dt, err := number(msg, fieldDelta)
		if err != nil {
			return newReply(err)
		}
		var pointer *geometry.Vector2D
		if v, ok := msg.GetFields()[fieldPointer]; ok {
			p, err := vectorFromValue(v)
			if err != nil {
				return newReply(err)
			}
			pointer = &p
		}
		before := w.world.Stats().Tick
		if err := w.world.Tick(dt, pointer); err != nil {
			logger.Debugf("tick rejected: %v", err)
			return newReply(err)
		}

		snap := takeSnapshot(w.world)
		// A zero delta leaves the tick counter alone and is not counted.
		if snap.Stats.Tick != before {
			w.tickCount++
			w.record(snap, logger)
		}
		w.pushSnapshot(snap)
		reply := snap.ToProto()
		w.lastPayload = proto.Size(reply)
		return reply

	case KindResize:
		width, err := number(msg, fieldWidth)
		if err != nil {
			return newReply(err)
		}
		height, err := number(msg, fieldHeight)
		if err != nil {
			return newReply(err)
		}
		if err := w.world.Resize(width, height); err != nil {
			logger.Debugf("resize rejected: %v", err)
			return newReply(err)
		}
		w.cfg.WorldWidth, w.cfg.WorldHeight = width, height
		logger.Infof("World resized to %.0fx%.0f", width, height)
		return newReply(nil)

	case KindSettings:
		s, err := settingsFromProto(msg.GetFields()[fieldSettings].GetStructValue(), w.world.Settings())
		if err != nil {
			return newReply(err)
		}
		if err := w.world.UpdateSettings(s); err != nil {
			logger.Debugf("settings rejected: %v", err)
			return newReply(err)
		}
		w.cfg.ApplySettings(s)
		return newReply(nil)

	case KindSnapshot:
		return takeSnapshot(w.world).ToProto()

	default:
		return newReply(fmt.Errorf("%w: unknown kind %q", errMalformed, kind))
	}
}

// record writes a telemetry row every TelemetryEvery ticks.
func (w *WorldActor) record(snap *Snapshot, logger log.Logger) {
	every := uint64(w.cfg.TelemetryEvery)
	if every == 0 || snap.Stats.Tick%every != 0 {
		return
	}
	stats := telemetry.Compute(snap.Boids, snap.Stats)
	if err := w.recorder.Write(stats); err != nil {
		logger.Warnf("telemetry write failed: %v", err)
	}
	logger.Debugf("tick %d: mean speed %.1f, polarization %.2f", stats.Tick, stats.SpeedMean, stats.Polarization)
}

func (w *WorldActor) logBenchmarks(logger log.Logger) {
	if time.Since(w.lastLogTime) >= time.Second {
		logger.Infof("📊 MSG RATE: %d/sec (Ticks: %d) | Boids: %d | Snapshot: %d bytes",
			w.msgRecvCount, w.tickCount, w.world.Len(), w.lastPayload)
		w.msgRecvCount = 0
		w.tickCount = 0
		w.lastLogTime = time.Now()
	}
}

func (w *WorldActor) pushSnapshot(snap *Snapshot) {
	if w.snapshotCh == nil {
		return
	}
	select {
	case w.snapshotCh <- snap:
	default:
		// UI busy, skip frame
	}
}

func (w *WorldActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Info("World is shutdown...")
	return nil
}
