// Package engine implements the Duck Chase game tick engine.
//
// The engine owns every entity collection (ducks, ripples, ambient water
// patches) and the session state. It is driven by two independent periodic
// calls, Tick and SpawnTick, plus input operations (Hit, CreateRipple,
// Reset). It is not safe for concurrent use: callers must serialize all
// calls, which the Bubble Tea update loop does naturally.
package engine

import (
	"math"
	"slices"

	"github.com/google/uuid"

	"github.com/vovakirdan/duck-chase/internal/config"
	"github.com/vovakirdan/duck-chase/internal/core"
)

// Engine is the single owner of all game entities.
type Engine struct {
	cfg        config.DuckChaseConfig
	rng        Source
	difficulty *config.DifficultyManager
	bounds     core.Bounds // Playable area for ducks
	world      core.Bounds // Whole visible area, used for patch placement

	targets []Target
	ripples []Ripple
	patches []Patch
	session Session
	events  []Event
}

// New creates an engine over the given world area and seeds the initial
// ambient patches. play is the region ducks may spawn in; world is the
// whole visible area.
func New(cfg config.DuckChaseConfig, rng Source, world, play core.Bounds) *Engine {
	e := &Engine{
		cfg:        cfg,
		rng:        rng,
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
		bounds:     play,
		world:      world,
		targets:    make([]Target, 0, 16),
		ripples:    make([]Ripple, 0, 16),
		patches:    make([]Patch, 0, cfg.Patches.Count),
	}
	for i := 0; i < cfg.Patches.Count; i++ {
		e.patches = append(e.patches, e.randomPatch())
	}
	return e
}

// Tick advances the simulation by dt seconds.
func (e *Engine) Tick(dt float64) {
	if e.session.GameOver {
		e.targets = e.targets[:0]
	} else {
		e.session.Elapsed += dt
		e.updateTargets(dt)
	}
	e.updateRipples()
	e.updatePatches()
}

// updateTargets ages every duck, newest first, so removal by index is stable.
// Reaching the miss limit stops processing immediately; the ducks not yet
// visited this tick are cleared by the next tick's game-over branch.
func (e *Engine) updateTargets(dt float64) {
	for i := len(e.targets) - 1; i >= 0; i-- {
		t := &e.targets[i]
		t.Lifetime -= dt

		if t.Lifetime <= 0 {
			if !t.Disappearing {
				e.session.Misses++
				e.emit(MissEvent{ID: t.ID, Misses: e.session.Misses})
				if e.session.Misses >= e.cfg.Session.MissLimit {
					e.session.GameOver = true
					e.emit(GameOverEvent{
						Score:   e.session.Score,
						Misses:  e.session.Misses,
						Elapsed: e.session.Elapsed,
					})
					return
				}
			}
			e.targets = slices.Delete(e.targets, i, i+1)
		} else if t.Disappearing {
			e.targets = slices.Delete(e.targets, i, i+1)
		}
	}
}

func (e *Engine) updateRipples() {
	for i := range e.ripples {
		e.ripples[i].Scale += e.cfg.Ripple.ScaleStep
		e.ripples[i].Opacity -= e.cfg.Ripple.FadeStep
	}
	e.ripples = slices.DeleteFunc(e.ripples, func(r Ripple) bool {
		return r.Opacity <= 0
	})
}

func (e *Engine) updatePatches() {
	pc := e.cfg.Patches
	for i := range e.patches {
		p := &e.patches[i]
		p.Opacity += uniform(e.rng, -pc.OpacityDrift, pc.OpacityDrift)
		p.Opacity = core.ClampF(p.Opacity, pc.OpacityMin, pc.OpacityMax)

		p.Position.X += uniform(e.rng, -pc.PositionDrift, pc.PositionDrift)
		p.Position.Y += uniform(e.rng, -pc.PositionDrift, pc.PositionDrift)

		// A recycled patch starts undrifted
		if p.Lifetime <= 0 {
			*p = e.randomPatch()
		}
		p.Lifetime--
	}
}

// SpawnTick creates floor(m) ducks where m is the current difficulty
// multiplier. Each lives U(lifetime_min, lifetime_max)/m seconds.
func (e *Engine) SpawnTick() {
	if e.session.GameOver {
		return
	}

	m := e.Difficulty()
	for range config.SpawnCount(m) {
		pos := core.V(
			uniform(e.rng, e.bounds.MinX, e.bounds.MaxX),
			uniform(e.rng, e.bounds.MinY, e.bounds.MaxY),
		)
		e.targets = append(e.targets, Target{
			ID:       uuid.New(),
			Position: pos,
			Lifetime: uniform(e.rng, e.cfg.Spawn.LifetimeMin, e.cfg.Spawn.LifetimeMax) / m,
			Scale:    e.cfg.Spawn.Scale,
		})
	}
}

// Hit scores the duck with the given id. It reports whether the hit counted.
// Unknown ids, ducks already hit, and hits after game over are ignored, so
// each duck scores at most once.
func (e *Engine) Hit(id TargetID) bool {
	if e.session.GameOver {
		return false
	}

	idx := slices.IndexFunc(e.targets, func(t Target) bool { return t.ID == id })
	if idx < 0 || e.targets[idx].Disappearing {
		return false
	}

	e.session.Score++
	e.targets[idx].Disappearing = true
	pos := e.targets[idx].Position
	e.emit(HitEvent{ID: id, Position: pos, Score: e.session.Score})
	e.CreateRipple(pos, 1.0)
	return true
}

// CreateRipple adds a ripple and a light splash patch at p.
// Intensity is clamped to [0, 1]; the ripple has floor(intensity*5)+3 rings.
func (e *Engine) CreateRipple(p core.Vec2, intensity float64) {
	intensity = core.ClampF(intensity, 0, 1)
	rc := e.cfg.Ripple
	pc := e.cfg.Patches

	e.ripples = append(e.ripples, Ripple{
		Position:  p,
		Opacity:   rc.InitialOpacity,
		Intensity: intensity,
		Rings:     int(math.Floor(intensity*float64(rc.RingSpan))) + rc.BaseRings,
	})
	e.patches = append(e.patches, Patch{
		Position: p,
		Size:     pc.SplashSize * intensity,
		Opacity:  pc.SplashOpacity,
		Lifetime: pc.SplashLifetime,
		Light:    true,
	})
	e.emit(ImpactEvent{Position: p, Intensity: intensity})
}

// Reset starts a new session. Ripples and patches carry over.
func (e *Engine) Reset() {
	e.session = Session{}
	e.targets = e.targets[:0]
}

// Resize changes the playable and visible areas. Existing entities keep
// their positions.
func (e *Engine) Resize(world, play core.Bounds) {
	e.world = world
	e.bounds = play
}

// randomPatch returns a dark patch with fresh random attributes somewhere
// in the visible area, allowing it to hang over the edges.
func (e *Engine) randomPatch() Patch {
	pc := e.cfg.Patches
	return Patch{
		Position: core.V(
			uniform(e.rng, e.world.MinX-pc.Overscan, e.world.MaxX+pc.Overscan),
			uniform(e.rng, e.world.MinY-pc.Overscan, e.world.MaxY+pc.Overscan),
		),
		Size:     uniform(e.rng, pc.SizeMin, pc.SizeMax),
		Opacity:  uniform(e.rng, pc.OpacityMin, pc.OpacityMax),
		Lifetime: uniformInt(e.rng, pc.LifetimeMin, pc.LifetimeMax),
	}
}

func (e *Engine) emit(ev Event) {
	e.events = append(e.events, ev)
}

// DrainEvents returns the events queued since the previous call.
func (e *Engine) DrainEvents() []Event {
	if len(e.events) == 0 {
		return nil
	}
	out := e.events
	e.events = nil
	return out
}

// Difficulty returns the current difficulty multiplier.
func (e *Engine) Difficulty() float64 {
	return e.difficulty.Multiplier(e.session.Elapsed)
}

// Session returns a copy of the session state.
func (e *Engine) Session() Session {
	return e.session
}

// MissLimit returns the number of misses that ends a session.
func (e *Engine) MissLimit() int {
	return e.cfg.Session.MissLimit
}

// PlayBounds returns the region ducks spawn in.
func (e *Engine) PlayBounds() core.Bounds {
	return e.bounds
}

// Targets returns a copy of the live ducks in creation order.
func (e *Engine) Targets() []Target {
	return slices.Clone(e.targets)
}

// Ripples returns a copy of the live ripples.
func (e *Engine) Ripples() []Ripple {
	return slices.Clone(e.ripples)
}

// Patches returns a copy of the ambient patches.
func (e *Engine) Patches() []Patch {
	return slices.Clone(e.patches)
}

// Snapshot returns a consistent read-only copy of all engine state.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Targets:    e.Targets(),
		Ripples:    e.Ripples(),
		Patches:    e.Patches(),
		Session:    e.session,
		MissLimit:  e.cfg.Session.MissLimit,
		Difficulty: e.Difficulty(),
	}
}
