// Package duckchase implements Duck Chase: ducks surface on a pond and the
// player taps them before they dive. Tapping open water makes ripples.
// The simulation lives in the engine package; this package maps cells to
// world points, hit-tests input and draws the pond.
package duckchase

import (
	"time"

	"github.com/vovakirdan/duck-chase/internal/config"
	"github.com/vovakirdan/duck-chase/internal/core"
	"github.com/vovakirdan/duck-chase/internal/engine"
	"github.com/vovakirdan/duck-chase/internal/registry"
)

// ID is the registry identifier for Duck Chase.
const ID = "duckchase"

// Intensity range for a tap that is not a drag.
const (
	tapIntensityMin = 0.3
	tapIntensityMax = 1.0
)

// Game adapts the tick engine to the registry.Game interface.
type Game struct {
	runtime core.RuntimeConfig
	cfg     config.DuckChaseConfig
	fixed   bool // cfg supplied by the caller; skip file loading

	eng   *engine.Engine
	sched *engine.Scheduler
	rng   engine.Source
	view  viewport

	paused  bool
	cursorX int
	cursorY int
	pressed bool
	pressX  int
	pressY  int
	peak    float64
	best    int // Stored high score, shown in the HUD
	events  []engine.Event
}

// configPath stores the custom config path set via CLI
var configPath string
var difficultyPreset config.DifficultyPreset

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset applied on the next Reset.
func SetDifficultyPreset(preset config.DifficultyPreset) {
	difficultyPreset = preset
}

// New creates a Duck Chase game that loads its config on first Reset.
func New() *Game {
	return &Game{}
}

// NewWithConfig creates a game with a fixed config.
func NewWithConfig(cfg config.DuckChaseConfig) *Game {
	return &Game{cfg: cfg, fixed: true}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return ID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Duck Chase"
}

// Reset starts a new session. The first call builds the engine; later calls
// keep the pond (ripples and patches) and only reset the session.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	if runtime.TickRate <= 0 {
		runtime.TickRate = core.DefaultConfig().TickRate
	}
	g.runtime = runtime

	if g.eng == nil {
		if !g.fixed {
			cfg, err := config.LoadDuckChase(configPath)
			if err != nil {
				cfg = config.DefaultDuckChaseConfig()
			}
			config.ApplyPreset(&cfg, difficultyPreset)
			g.cfg = cfg
		}

		g.view = newViewport(runtime.ScreenW, runtime.ScreenH, g.cfg)
		g.rng = engine.NewSource(runtime.Seed)
		g.eng = engine.New(g.cfg, g.rng, g.view.world(), g.view.play())
		g.sched = engine.NewScheduler(g.eng,
			time.Duration(g.cfg.Timing.TickMS)*time.Millisecond,
			time.Duration(g.cfg.Timing.SpawnMS)*time.Millisecond,
		)
	} else {
		g.Resize(runtime.ScreenW, runtime.ScreenH)
	}

	g.restart()
	g.centerCursor()
}

// Resize adapts the pond to a new screen size without resetting the session.
func (g *Game) Resize(w, h int) {
	g.runtime.ScreenW = w
	g.runtime.ScreenH = h
	g.view = newViewport(w, h, g.cfg)
	if g.eng != nil {
		g.eng.Resize(g.view.world(), g.view.play())
	}
	g.cursorX = core.Clamp(g.cursorX, 0, max(w-1, 0))
	g.cursorY = core.Clamp(g.cursorY, 1, max(h-2, 1))
}

func (g *Game) restart() {
	g.eng.Reset()
	g.paused = false
	g.pressed = false
	g.peak = g.eng.Difficulty()
}

func (g *Game) centerCursor() {
	g.cursorX = g.view.w / 2
	g.cursorY = g.view.h / 2
}

// frame is the wall-clock duration of one platform frame.
func (g *Game) frame() time.Duration {
	return time.Second / time.Duration(g.runtime.TickRate)
}

// Step applies one frame of input and advances the engine by one frame.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionRestart) {
		g.restart()
	}

	over := g.eng.Session().GameOver
	if in.Has(core.ActionPause) && !over {
		g.paused = !g.paused
	}

	g.moveCursor(in)

	if in.Has(core.ActionJump) {
		g.release(g.cursorX, g.cursorY, g.tapIntensity())
	}
	for _, ev := range in.Pointers {
		g.pointer(ev)
	}

	if !g.paused {
		g.sched.Advance(g.frame())
	}

	g.peak = max(g.peak, g.eng.Difficulty())
	g.events = append(g.events, g.eng.DrainEvents()...)

	return core.StepResult{State: g.State()}
}

func (g *Game) moveCursor(in core.InputFrame) {
	if g.paused {
		return
	}
	if in.Has(core.ActionUp) {
		g.cursorY--
	}
	if in.Has(core.ActionDown) {
		g.cursorY++
	}
	if in.Has(core.ActionLeft) {
		g.cursorX -= 2
	}
	if in.Has(core.ActionRight) {
		g.cursorX += 2
	}
	g.cursorX = core.Clamp(g.cursorX, 0, max(g.view.w-1, 0))
	g.cursorY = core.Clamp(g.cursorY, 1, max(g.view.h-2, 1))
}

// pointer handles one mouse event in cell coordinates.
func (g *Game) pointer(ev core.PointerEvent) {
	switch ev.Kind {
	case core.PointerPress:
		g.pressed = true
		g.pressX, g.pressY = ev.X, ev.Y
		g.cursorX, g.cursorY = ev.X, ev.Y
	case core.PointerMotion:
		g.cursorX, g.cursorY = ev.X, ev.Y
	case core.PointerRelease:
		// A release only taps when it ends a left press
		if !g.pressed {
			return
		}
		intensity := g.tapIntensity()
		if ev.X != g.pressX || ev.Y != g.pressY {
			intensity = g.dragIntensity(g.pressX, g.pressY, ev.X, ev.Y)
		}
		g.pressed = false
		g.release(ev.X, ev.Y, intensity)
	}
}

func (g *Game) tapIntensity() float64 {
	return engine.Uniform(g.rng, tapIntensityMin, tapIntensityMax)
}

// dragIntensity grows linearly with drag distance up to input.drag_full points.
func (g *Game) dragIntensity(x0, y0, x1, y1 int) float64 {
	dist := g.view.toWorld(x0, y0).Dist(g.view.toWorld(x1, y1))
	full := g.cfg.Input.DragFull
	if full <= 0 {
		return tapIntensityMax
	}
	return tapIntensityMin + (tapIntensityMax-tapIntensityMin)*min(dist/full, 1)
}

// release resolves a tap at cell (x, y): restart buttons first, then ducks,
// then open water.
func (g *Game) release(x, y int, intensity float64) {
	if g.eng.Session().GameOver {
		if g.view.restartButton().Contains(x, y) || y == g.view.resetRow() {
			g.restart()
		}
		return
	}
	if y == g.view.resetRow() {
		g.restart()
		return
	}
	if g.paused {
		return
	}

	if id, ok := g.duckAt(x, y); ok && g.eng.Hit(id) {
		return
	}
	g.eng.CreateRipple(g.view.toWorld(x, y), intensity)
}

// duckAt returns the topmost live duck whose hit box contains cell (x, y).
func (g *Game) duckAt(x, y int) (engine.TargetID, bool) {
	targets := g.eng.Targets()
	for i := len(targets) - 1; i >= 0; i-- {
		t := targets[i]
		if t.Disappearing {
			continue
		}
		if g.view.hitBox(t).Contains(x, y) {
			return t.ID, true
		}
	}
	return engine.TargetID{}, false
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.eng == nil {
		return core.GameState{}
	}
	s := g.eng.Session()
	return core.GameState{
		Score:    s.Score,
		GameOver: s.GameOver,
		Paused:   g.paused,
	}
}

// Session returns the engine's session state.
func (g *Game) Session() engine.Session {
	return g.eng.Session()
}

// SetBest sets the stored high score shown next to the live score.
func (g *Game) SetBest(score int) {
	g.best = score
}

// PeakDifficulty returns the highest multiplier reached this session.
func (g *Game) PeakDifficulty() float64 {
	return g.peak
}

// Snapshot returns a read-only copy of the engine state.
func (g *Game) Snapshot() engine.Snapshot {
	return g.eng.Snapshot()
}

// Events returns engine events collected since the previous call.
func (g *Game) Events() []engine.Event {
	out := g.events
	g.events = nil
	return out
}

// Register the game with the registry
func init() {
	registry.Register(ID, func() registry.Game {
		return New()
	})
}
