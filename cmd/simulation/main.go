package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	golog "github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/telemetry"
)

func main() {
	configFile := flag.String("config", "", "path to a JSON or YAML config file")
	ticks := flag.Int("ticks", 3600, "number of fixed steps to run")
	output := flag.String("output", "", "telemetry CSV file (empty disables)")
	verbose := flag.Bool("verbose", false, "log the actor system to stdout")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	if err := run(logger, *configFile, *ticks, *output, *verbose); err != nil {
		logger.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, configFile string, ticks int, output string, verbose bool) error {
	cfg := simulation.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = simulation.LoadConfig(configFile); err != nil {
			return err
		}
	}

	recorder, err := telemetry.CreateFile(output)
	if err != nil {
		return err
	}
	defer recorder.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var actorLogger golog.Logger = golog.DiscardLogger
	if verbose {
		actorLogger = golog.DefaultLogger
	}

	snapshotCh := make(chan *simulation.Snapshot, 1)
	client, err := simulation.Start(ctx, cfg, actorLogger, snapshotCh, recorder)
	if err != nil {
		return err
	}
	defer client.Stop(context.Background())

	done := make(chan struct{})
	go monitor(logger, snapshotCh, done)
	defer close(done)

	logger.Info("simulation started",
		"boids", cfg.NumBoids,
		"width", cfg.WorldWidth,
		"height", cfg.WorldHeight,
		"ticks", ticks,
		"seed", cfg.Seed)

	start := time.Now()
	last, err := runTicks(ctx, logger, client, ticks, 1/float64(cfg.TicksPerSecond))
	if err != nil {
		return err
	}

	if last != nil {
		stats := telemetry.Compute(last.Boids, last.Stats)
		logger.Info("simulation finished",
			"elapsed", time.Since(start),
			"rows", recorder.Rows(),
			"final", stats)
	}
	return nil
}

type ticker interface {
	Tick(ctx context.Context, dt float64, pointer *geometry.Vector2D) (*simulation.Snapshot, error)
}

// runTicks drives n fixed steps and returns the last snapshot.
// A cancelled ctx ends the loop early without an error, even when the
// cancellation lands in the middle of a tick request.
func runTicks(ctx context.Context, logger *slog.Logger, t ticker, n int, dt float64) (*simulation.Snapshot, error) {
	var last *simulation.Snapshot
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			logger.Warn("interrupted", "tick", i)
			break
		}
		snap, err := t.Tick(ctx, dt, nil)
		if err != nil {
			if ctx.Err() != nil {
				logger.Warn("interrupted", "tick", i)
				break
			}
			return last, err
		}
		last = snap
	}
	return last, nil
}

// monitor logs the flock once per second from the pushed snapshots.
func monitor(logger *slog.Logger, snapshots <-chan *simulation.Snapshot, done <-chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	var latest *simulation.Snapshot
	for {
		select {
		case <-done:
			return
		case snap := <-snapshots:
			latest = snap
		case <-ticker.C:
			if latest != nil {
				logger.Info("progress", "stats", telemetry.Compute(latest.Boids, latest.Stats))
			}
		}
	}
}
