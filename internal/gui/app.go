// Package gui is the raylib frontend. Particles draw as additive glow
// sprites, the mouse drives the pointer force, and an optional ambient
// synth tracks the water's kinetic energy.
package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/konacodes/fluidsim/internal/audio"
	"github.com/konacodes/fluidsim/internal/config"
	"github.com/konacodes/fluidsim/internal/fluid"
	"github.com/konacodes/fluidsim/internal/metrics"
)

var (
	colBg      = rl.NewColor(8, 12, 20, 255)
	colText    = rl.NewColor(140, 150, 160, 255)
	colTextDim = rl.NewColor(60, 66, 74, 255)
	colAccent  = rl.NewColor(120, 190, 255, 255)
)

type App struct {
	cfg *config.Config
	sim *fluid.Simulator

	energy *metrics.KineticEnergy
	synth  *audio.Synth

	particleTex rl.Texture2D
	running     bool
	winW        int
	winH        int
}

func initWindow(w, h int) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(w), int32(h), "fluidsim")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

func NewApp(cfg *config.Config, withAudio bool) (*App, error) {
	sim, err := cfg.NewSimulator()
	if err != nil {
		return nil, err
	}

	app := &App{
		cfg:     cfg,
		sim:     sim,
		energy:  metrics.NewKineticEnergy(),
		running: true,
		winW:    int(cfg.Width),
		winH:    int(cfg.Height),
	}

	img := rl.GenImageGradientRadial(32, 32, 0.0, rl.White, rl.NewColor(0, 0, 0, 0))
	app.particleTex = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)

	if withAudio {
		synth := audio.NewSynth()
		if err := synth.Start(); err == nil {
			app.synth = synth
		}
	}

	return app, nil
}

// Run opens the window and blocks until it is closed.
func Run(cfg *config.Config, withAudio bool) error {
	initWindow(int(cfg.Width), int(cfg.Height))
	defer rl.CloseWindow()

	app, err := NewApp(cfg, withAudio)
	if err != nil {
		return err
	}
	defer app.shutdown()

	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) {
			break
		}
		app.update()
		app.draw()
	}
	return nil
}

func (a *App) shutdown() {
	if a.synth != nil {
		a.synth.Stop()
	}
	rl.UnloadTexture(a.particleTex)
}

func (a *App) update() {
	if w, h := int(rl.GetScreenWidth()), int(rl.GetScreenHeight()); w != a.winW || h != a.winH {
		a.winW, a.winH = w, h
		a.sim.Resize(float64(w), float64(h))
	}

	mouse := rl.GetMousePosition()
	a.sim.SetPointerPosition(fluid.Vec2{X: float64(mouse.X), Y: float64(mouse.Y)})
	a.sim.SetPointerDown(rl.IsMouseButtonDown(rl.MouseLeftButton))

	if rl.IsMouseButtonPressed(rl.MouseRightButton) {
		a.sim.CreateSplash(fluid.Vec2{X: float64(mouse.X), Y: float64(mouse.Y)}, 1.0)
		if a.synth != nil {
			a.synth.NotifySplash(1.0)
		}
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		a.running = !a.running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		if sim, err := a.cfg.NewSimulator(); err == nil {
			a.sim = sim
			a.sim.Resize(float64(a.winW), float64(a.winH))
			a.energy.Reset()
		}
	}

	if !a.running {
		return
	}

	a.sim.Step()
	a.energy.Observe(a.sim.Time(), a.sim.Snapshot())

	if a.synth != nil {
		a.synth.UpdatePhysics(a.energy.Last())
	}
}

func (a *App) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(colBg)

	a.drawParticles()
	a.drawHUD()

	rl.EndDrawing()
}

func (a *App) drawParticles() {
	rl.BeginBlendMode(rl.BlendAdditive)

	src := rl.NewRectangle(0, 0, float32(a.particleTex.Width), float32(a.particleTex.Height))
	for _, v := range a.sim.Snapshot() {
		size := float32(v.Size * 2.2)
		dst := rl.NewRectangle(
			float32(v.Pos.X)-size/2,
			float32(v.Pos.Y)-size/2,
			size, size,
		)
		tint := rl.NewColor(
			uint8(v.Color.R*255),
			uint8(v.Color.G*255),
			uint8(v.Color.B*255),
			uint8(v.Color.A*255),
		)
		rl.DrawTexturePro(a.particleTex, src, dst, rl.NewVector2(0, 0), 0, tint)
	}

	rl.EndBlendMode()
}

func (a *App) drawHUD() {
	rl.DrawText("fluidsim", 20, 16, 20, colAccent)

	status := "RUNNING"
	col := colText
	if !a.running {
		status = "PAUSED"
		col = colTextDim
	}
	rl.DrawText(status, int32(a.winW)-110, 16, 16, col)

	info := rl.GetFPS()
	rl.DrawText(rl.TextFormat("%d particles  %d fps", int32(len(a.sim.Snapshot())), info),
		20, int32(a.winH)-28, 14, colTextDim)
	rl.DrawText("LMB push  RMB splash  SPACE pause  R reset  Q quit",
		int32(a.winW)-420, int32(a.winH)-28, 14, colTextDim)
}
