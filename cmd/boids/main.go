package main

import (
	"context"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	golog "github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
)

func main() {
	configFile := flag.String("config", "", "path to a JSON or YAML config file")
	flag.Parse()

	cfg := simulation.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = simulation.LoadConfig(*configFile); err != nil {
			log.Fatal(err)
		}
	}

	ctx := context.Background()
	client, err := simulation.Start(ctx, cfg, golog.DiscardLogger, nil, nil)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Stop(ctx)

	ebiten.SetWindowSize(int(cfg.WorldWidth), int(cfg.WorldHeight))
	ebiten.SetWindowTitle("Boids")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TicksPerSecond)

	if err := ebiten.RunGame(NewGame(ctx, cfg, client)); err != nil {
		log.Fatal(err)
	}
}
