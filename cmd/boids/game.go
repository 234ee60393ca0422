package main

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
)

var (
	whiteImage      = ebiten.NewImage(3, 3)
	backgroundColor = color.RGBA{R: 10, G: 10, B: 30, A: 255}
	borderColor     = color.RGBA{R: 80, G: 80, B: 120, A: 255}
	pointerColor    = color.RGBA{R: 255, G: 200, B: 0, A: 120}
)

func init() {
	whiteImage.Fill(color.RGBA{R: 100, G: 200, B: 255, A: 255})
}

// Game is the ebiten host of the flock: it supplies the frame delta,
// the window size and the cursor, and draws the returned snapshot.
type Game struct {
	ctx       context.Context
	client    *simulation.Client
	cfg       *simulation.Config
	dt        float64
	lastState *simulation.Snapshot

	// Window size as last reported by Layout
	width, height int

	// Triangle buffers reused across frames
	vertices []ebiten.Vertex
	indices  []uint16

	// Timing instrumentation
	updateAvg float64 // Rolling average in ms
	drawAvg   float64 // Rolling average in ms
}

func NewGame(ctx context.Context, cfg *simulation.Config, client *simulation.Client) *Game {
	return &Game{
		ctx:       ctx,
		client:    client,
		cfg:       cfg,
		dt:        1 / float64(cfg.TicksPerSecond),
		lastState: &simulation.Snapshot{Width: cfg.WorldWidth, Height: cfg.WorldHeight},
		width:     int(cfg.WorldWidth),
		height:    int(cfg.WorldHeight),
	}
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	// 1. Follow the window size
	w, h := float64(g.width), float64(g.height)
	if w != g.lastState.Width || h != g.lastState.Height {
		if err := g.client.Resize(g.ctx, w, h); err != nil {
			return err
		}
	}

	// 2. Trigger Simulation Step
	snap, err := g.client.Tick(g.ctx, g.dt, g.pointer())
	if err != nil {
		return err
	}
	g.lastState = snap
	return nil
}

// pointer returns the cursor in world coordinates, nil when it is
// outside the window.
func (g *Game) pointer() *geometry.Vector2D {
	if !ebiten.IsFocused() {
		return nil
	}
	sx, sy := ebiten.CursorPosition()
	if sx < 0 || sy < 0 || sx >= g.width || sy >= g.height {
		return nil
	}
	p := geometry.Vector2D{
		X: float64(sx) - float64(g.width)/2,
		Y: float64(g.height)/2 - float64(sy),
	}
	return &p
}

// toScreen maps world coordinates (origin at the center, y up) to pixels.
func (g *Game) toScreen(p geometry.Vector2D) (float64, float64) {
	return p.X + g.lastState.Width/2, g.lastState.Height/2 - p.Y
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	screen.Fill(backgroundColor)

	// 1. Inner faces of the borders frame the arena
	vector.StrokeRect(screen, 0, 0, float32(g.lastState.Width), float32(g.lastState.Height), 2, borderColor, false)

	// 2. Capture zone around the pointer
	if p := g.lastState.Attraction; p != nil {
		x, y := g.toScreen(*p)
		vector.StrokeCircle(screen, float32(x), float32(y), float32(g.cfg.CaptureDistance), 1, pointerColor, true)
	}

	// 3. The flock
	g.drawFlock(screen)

	stats := g.lastState.Stats
	msg := fmt.Sprintf("FPS: %.2f\nTPS: %.2f\n\nBoids: %d\nTick: %d\nNeighbors: %.1f\nReflections: %d\n\nUpdate: %.2fms\nDraw:   %.2fms",
		ebiten.ActualFPS(),
		ebiten.ActualTPS(),
		len(g.lastState.Boids),
		stats.Tick,
		stats.MeanNeighbors,
		stats.Reflections,
		g.updateAvg,
		g.drawAvg)
	ebitenutil.DebugPrint(screen, msg)
}

// boidShape is the triangle of a boid heading along +x: (angle, distance)
// of each corner from the boid center, tip first.
var boidShape = [3][2]float64{{0, 6}, {2.5, 5}, {-2.5, 5}}

// maxBatchVertices keeps one DrawTriangles call within uint16 indices.
const maxBatchVertices = 3 * 20000

// drawFlock batches every boid triangle of the snapshot into as few
// DrawTriangles calls as the index width allows.
func (g *Game) drawFlock(screen *ebiten.Image) {
	g.vertices = g.vertices[:0]
	g.indices = g.indices[:0]
	for _, b := range g.lastState.Boids {
		if len(g.vertices)+3 > maxBatchVertices {
			g.flush(screen)
		}
		g.appendBoid(b)
	}
	g.flush(screen)
}

func (g *Game) appendBoid(b flock.Boid) {
	x, y := g.toScreen(b.Pos)
	// Screen y points down, so the heading is mirrored
	heading := -b.Heading()
	base := uint16(len(g.vertices))
	for i, corner := range boidShape {
		angle := heading + corner[0]
		g.vertices = append(g.vertices, ebiten.Vertex{
			DstX:   float32(x + math.Cos(angle)*corner[1]),
			DstY:   float32(y + math.Sin(angle)*corner[1]),
			SrcX:   1,
			SrcY:   1,
			ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
		})
		g.indices = append(g.indices, base+uint16(i))
	}
}

func (g *Game) flush(screen *ebiten.Image) {
	if len(g.vertices) == 0 {
		return
	}
	screen.DrawTriangles(g.vertices, g.indices, whiteImage, &ebiten.DrawTrianglesOptions{})
	g.vertices = g.vertices[:0]
	g.indices = g.indices[:0]
}

// Layout follows the window, the resize reaches the world on the next Update.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		g.width, g.height = outsideWidth, outsideHeight
	}
	return g.width, g.height
}
