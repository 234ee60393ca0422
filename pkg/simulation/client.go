package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/telemetry"
)

const defaultAskTimeout = 2 * time.Second

// Client talks to a running WorldActor. Every call is a request/response
// round trip through the actor mailbox.
type Client struct {
	System  actor.ActorSystem
	pid     *actor.PID
	timeout time.Duration
}

// Start boots an actor system and spawns the world actor in it.
// snapshotCh and recorder may be nil.
func Start(ctx context.Context, cfg *Config, logger log.Logger, snapshotCh chan<- *Snapshot, recorder *telemetry.Recorder) (*Client, error) {
	system, err := actor.NewActorSystem("FlockSimulation",
		actor.WithLogger(logger),
		actor.WithActorInitMaxRetries(3))
	if err != nil {
		return nil, fmt.Errorf("failed to create actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start actor system: %w", err)
	}

	pid, err := system.Spawn(ctx, "world", NewWorldActor(snapshotCh, cfg, recorder))
	if err != nil {
		_ = system.Stop(ctx)
		return nil, fmt.Errorf("failed to spawn world: %w", err)
	}
	return &Client{System: system, pid: pid, timeout: defaultAskTimeout}, nil
}

// Tick advances the world by dt seconds and returns the resulting state.
func (c *Client) Tick(ctx context.Context, dt float64, pointer *geometry.Vector2D) (*Snapshot, error) {
	reply, err := c.ask(ctx, NewTickMessage(dt, pointer))
	if err != nil {
		return nil, err
	}
	return SnapshotFromProto(reply)
}

// Resize moves the borders to a new arena size.
func (c *Client) Resize(ctx context.Context, width, height float64) error {
	_, err := c.ask(ctx, NewResizeMessage(width, height))
	return err
}

// UpdateSettings swaps the flock tunables.
func (c *Client) UpdateSettings(ctx context.Context, s flock.Settings) error {
	_, err := c.ask(ctx, NewSettingsMessage(s))
	return err
}

// Snapshot returns the current state without ticking.
func (c *Client) Snapshot(ctx context.Context) (*Snapshot, error) {
	reply, err := c.ask(ctx, NewSnapshotRequest())
	if err != nil {
		return nil, err
	}
	return SnapshotFromProto(reply)
}

// Stop shuts the actor system down.
func (c *Client) Stop(ctx context.Context) error {
	return c.System.Stop(ctx)
}

func (c *Client) ask(ctx context.Context, msg *structpb.Struct) (*structpb.Struct, error) {
	resp, err := actor.Ask(ctx, c.pid, msg, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("world %s request failed: %w", MessageKind(msg), err)
	}
	reply, ok := resp.(*structpb.Struct)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected reply %T", errMalformed, resp)
	}
	if err := replyError(reply); err != nil {
		return nil, err
	}
	return reply, nil
}
