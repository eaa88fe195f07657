package engine

import (
	"testing"

	"github.com/google/uuid"

	"github.com/vovakirdan/duck-chase/internal/config"
	"github.com/vovakirdan/duck-chase/internal/core"
)

// seqSource replays a fixed sequence of values, cycling when exhausted.
type seqSource struct {
	vals []float64
	i    int
}

func (s *seqSource) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

var (
	testWorld = core.Bounds{MinX: 0, MinY: 0, MaxX: 640, MaxY: 384}
	testPlay  = core.Bounds{MinX: 50, MinY: 100, MaxX: 590, MaxY: 284}
)

func newTestEngine(t *testing.T, src Source) *Engine {
	t.Helper()
	return New(config.DefaultDuckChaseConfig(), src, testWorld, testPlay)
}

// addTarget places a duck directly, bypassing the spawn distribution.
func addTarget(e *Engine, lifetime float64) TargetID {
	id := uuid.New()
	e.targets = append(e.targets, Target{ID: id, Position: core.V(100, 150), Lifetime: lifetime, Scale: 1})
	return id
}

func countEvents[T Event](events []Event) int {
	n := 0
	for _, ev := range events {
		if _, ok := ev.(T); ok {
			n++
		}
	}
	return n
}

func TestNewSeedsPatches(t *testing.T) {
	e := newTestEngine(t, NewSource(1))

	patches := e.Patches()
	if len(patches) != 30 {
		t.Fatalf("expected 30 initial patches, got %d", len(patches))
	}
	for i, p := range patches {
		if p.Light {
			t.Errorf("patch %d: initial patches should be dark", i)
		}
		if p.Opacity < 0.05 || p.Opacity > 0.2 {
			t.Errorf("patch %d: opacity %f outside [0.05, 0.2]", i, p.Opacity)
		}
		if p.Size < 50 || p.Size > 150 {
			t.Errorf("patch %d: size %f outside [50, 150]", i, p.Size)
		}
		if p.Lifetime < 100 || p.Lifetime > 200 {
			t.Errorf("patch %d: lifetime %d outside [100, 200]", i, p.Lifetime)
		}
		if p.Position.X < -50 || p.Position.X > 690 || p.Position.Y < -50 || p.Position.Y > 434 {
			t.Errorf("patch %d: position %+v outside overscanned world", i, p.Position)
		}
	}
}

func TestSpawnTickFreshSession(t *testing.T) {
	e := newTestEngine(t, NewSource(42))

	if m := e.Difficulty(); m != 2.0 {
		t.Fatalf("fresh session difficulty = %f, expected 2.0", m)
	}

	e.SpawnTick()

	targets := e.Targets()
	if len(targets) != 2 {
		t.Fatalf("expected exactly 2 ducks, got %d", len(targets))
	}
	for i, tg := range targets {
		if tg.Lifetime < 1.0 || tg.Lifetime > 2.5 {
			t.Errorf("duck %d: lifetime %f outside [1.0, 2.5]", i, tg.Lifetime)
		}
		if !inBounds(testPlay, tg.Position) {
			t.Errorf("duck %d: position %+v outside play bounds", i, tg.Position)
		}
		if tg.Disappearing {
			t.Errorf("duck %d: new duck should not be disappearing", i)
		}
		if tg.Scale != 1.0 {
			t.Errorf("duck %d: scale = %f, expected 1.0", i, tg.Scale)
		}
	}
	if targets[0].ID == targets[1].ID {
		t.Error("ducks should have distinct ids")
	}
}

func TestSpawnTickScriptedSource(t *testing.T) {
	e := newTestEngine(t, NewSource(1))
	e.rng = &seqSource{vals: []float64{0.5}}

	e.SpawnTick()

	for _, tg := range e.Targets() {
		// U(2,5) at 0.5 is 3.5, divided by multiplier 2.0
		if tg.Lifetime != 1.75 {
			t.Errorf("lifetime = %f, expected 1.75", tg.Lifetime)
		}
		if tg.Position != core.V(320, 192) {
			t.Errorf("position = %+v, expected play-bounds center (320, 192)", tg.Position)
		}
	}
}

func TestSpawnCountGrowsWithElapsed(t *testing.T) {
	e := newTestEngine(t, NewSource(3))
	e.session.Elapsed = 90 // multiplier 3.5

	e.SpawnTick()

	if n := len(e.Targets()); n != 3 {
		t.Errorf("expected 3 ducks at multiplier 3.5, got %d", n)
	}
	for _, tg := range e.Targets() {
		if tg.Lifetime < 2.0/3.5 || tg.Lifetime > 5.0/3.5 {
			t.Errorf("lifetime %f outside [2/3.5, 5/3.5]", tg.Lifetime)
		}
	}
}

func TestHitScoresOnce(t *testing.T) {
	e := newTestEngine(t, NewSource(5))
	id := addTarget(e, 3)

	if !e.Hit(id) {
		t.Fatal("first hit should count")
	}
	if e.Hit(id) {
		t.Error("second hit on the same duck should not count")
	}
	if e.Session().Score != 1 {
		t.Errorf("score = %d, expected exactly 1", e.Session().Score)
	}
	if !e.Targets()[0].Disappearing {
		t.Error("hit duck should be disappearing")
	}

	events := e.DrainEvents()
	if countEvents[HitEvent](events) != 1 {
		t.Errorf("expected 1 HitEvent, got %d", countEvents[HitEvent](events))
	}
	if countEvents[ImpactEvent](events) != 1 {
		t.Errorf("expected 1 ImpactEvent, got %d", countEvents[ImpactEvent](events))
	}
	if len(e.Ripples()) != 1 {
		t.Errorf("expected 1 ripple from the hit, got %d", len(e.Ripples()))
	}
	if len(e.Patches()) != 31 {
		t.Errorf("expected 31 patches after the hit splash, got %d", len(e.Patches()))
	}
}

func TestHitUnknownIDIsNoop(t *testing.T) {
	e := newTestEngine(t, NewSource(5))
	addTarget(e, 3)

	if e.Hit(uuid.New()) {
		t.Error("hit on unknown id should not count")
	}
	if e.Session().Score != 0 {
		t.Errorf("score = %d, expected 0", e.Session().Score)
	}
	if len(e.Ripples()) != 0 {
		t.Error("no ripple should be created for a stale id")
	}
	if len(e.DrainEvents()) != 0 {
		t.Error("no events should be emitted for a stale id")
	}
}

func TestHitAfterExpiryIsNoop(t *testing.T) {
	e := newTestEngine(t, NewSource(5))
	id := addTarget(e, 0.04)

	e.Tick(0.05)
	if len(e.Targets()) != 0 {
		t.Fatal("expired duck should be removed")
	}
	if e.Hit(id) {
		t.Error("hit on an expired duck should not count")
	}
	if s := e.Session(); s.Score != 0 || s.Misses != 1 {
		t.Errorf("session = %+v, expected score 0 and 1 miss", s)
	}
}

func TestHitDuckRemovedNextTickWithoutMiss(t *testing.T) {
	e := newTestEngine(t, NewSource(5))
	id := addTarget(e, 0.01) // would expire this tick if not hit

	e.Hit(id)
	e.Tick(0.05)

	if len(e.Targets()) != 0 {
		t.Errorf("hit duck should be removed on the next tick, %d left", len(e.Targets()))
	}
	if e.Session().Misses != 0 {
		t.Errorf("a hit duck must never count as a miss, misses = %d", e.Session().Misses)
	}

	// A hit duck with time left is removed too
	id = addTarget(e, 4)
	e.Hit(id)
	e.Tick(0.05)
	if len(e.Targets()) != 0 {
		t.Error("hit duck with remaining lifetime should be removed on the next tick")
	}
}

func TestCreateRipple(t *testing.T) {
	tests := []struct {
		name      string
		intensity float64
		rings     int
		size      float64
	}{
		{"full", 1.0, 8, 100},
		{"half", 0.5, 5, 50},
		{"zero", 0.0, 3, 0},
		{"above range clamps", 1.7, 8, 100},
		{"below range clamps", -0.3, 3, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEngine(t, NewSource(9))
			p := core.V(123, 210)

			e.CreateRipple(p, tc.intensity)

			ripples := e.Ripples()
			if len(ripples) != 1 {
				t.Fatalf("expected 1 ripple, got %d", len(ripples))
			}
			r := ripples[0]
			if r.Rings != tc.rings {
				t.Errorf("rings = %d, expected %d", r.Rings, tc.rings)
			}
			if r.Position != p || r.Scale != 0 || r.Opacity != 0.3 {
				t.Errorf("ripple = %+v, expected fresh ripple at %+v", r, p)
			}

			patches := e.Patches()
			splash := patches[len(patches)-1]
			if !splash.Light || splash.Position != p {
				t.Errorf("splash = %+v, expected light patch at %+v", splash, p)
			}
			if splash.Size != tc.size || splash.Opacity != 0.4 || splash.Lifetime != 100 {
				t.Errorf("splash = %+v, expected size %f, opacity 0.4, lifetime 100", splash, tc.size)
			}

			events := e.DrainEvents()
			if len(events) != 1 {
				t.Fatalf("expected 1 event, got %d", len(events))
			}
			impact, ok := events[0].(ImpactEvent)
			if !ok {
				t.Fatalf("expected ImpactEvent, got %T", events[0])
			}
			if impact.Intensity < 0 || impact.Intensity > 1 {
				t.Errorf("impact intensity %f should be clamped to [0, 1]", impact.Intensity)
			}
		})
	}
}

func TestTwentyMissesEndSession(t *testing.T) {
	e := newTestEngine(t, NewSource(11))
	gameOvers := 0

	for i := 1; i <= 20; i++ {
		addTarget(e, 0.01)
		e.Tick(0.05)
		gameOvers += countEvents[GameOverEvent](e.DrainEvents())

		s := e.Session()
		if s.Misses != i {
			t.Fatalf("after %d expiries misses = %d", i, s.Misses)
		}
		if i < 20 && s.GameOver {
			t.Fatalf("game over too early at miss %d", i)
		}
	}

	if !e.Session().GameOver {
		t.Fatal("game over should be set after the 20th miss")
	}

	// Keep ticking: the flag is one-way and reported once
	for range 10 {
		e.Tick(0.05)
		gameOvers += countEvents[GameOverEvent](e.DrainEvents())
	}
	if gameOvers != 1 {
		t.Errorf("GameOverEvent emitted %d times, expected 1", gameOvers)
	}

	// No further spawns
	e.SpawnTick()
	if len(e.Targets()) != 0 {
		t.Errorf("spawn after game over created %d ducks", len(e.Targets()))
	}
}

func TestThresholdMidTickLeavesUnvisitedDucks(t *testing.T) {
	cfg := config.DefaultDuckChaseConfig()
	cfg.Session.MissLimit = 2
	e := New(cfg, NewSource(13), testWorld, testPlay)

	a := addTarget(e, 0.01)
	b := addTarget(e, 0.01)
	addTarget(e, 0.01)

	e.Tick(0.05)

	s := e.Session()
	if !s.GameOver || s.Misses != 2 {
		t.Fatalf("session = %+v, expected game over with 2 misses", s)
	}

	// Newest duck was removed; the duck that hit the threshold and the
	// unvisited oldest duck persist until the next tick.
	targets := e.Targets()
	if len(targets) != 2 {
		t.Fatalf("expected 2 ducks left mid-tick, got %d", len(targets))
	}
	if targets[0].ID != a || targets[1].ID != b {
		t.Error("remaining ducks should be the two oldest in creation order")
	}
	if targets[0].Lifetime != 0.01 {
		t.Errorf("unvisited duck lifetime = %f, expected untouched 0.01", targets[0].Lifetime)
	}

	e.Tick(0.05)
	if len(e.Targets()) != 0 {
		t.Errorf("game-over tick should clear ducks, %d left", len(e.Targets()))
	}
	if e.Session().Misses != 2 {
		t.Errorf("cleared ducks must not count as misses, misses = %d", e.Session().Misses)
	}
}

func TestHitAfterGameOverIsNoop(t *testing.T) {
	cfg := config.DefaultDuckChaseConfig()
	cfg.Session.MissLimit = 1
	e := New(cfg, NewSource(13), testWorld, testPlay)

	survivor := addTarget(e, 5)
	addTarget(e, 0.01)
	e.Tick(0.05)

	if !e.Session().GameOver {
		t.Fatal("expected game over")
	}
	if e.Hit(survivor) {
		t.Error("hit after game over should not count")
	}
	if e.Session().Score != 0 {
		t.Errorf("score = %d, expected 0", e.Session().Score)
	}
}

func TestElapsedFrozenAfterGameOver(t *testing.T) {
	cfg := config.DefaultDuckChaseConfig()
	cfg.Session.MissLimit = 1
	e := New(cfg, NewSource(17), testWorld, testPlay)

	addTarget(e, 0.01)
	e.Tick(0.05)
	elapsed := e.Session().Elapsed

	e.CreateRipple(core.V(10, 10), 1)
	for range 5 {
		e.Tick(0.05)
	}

	if e.Session().Elapsed != elapsed {
		t.Errorf("elapsed advanced after game over: %f -> %f", elapsed, e.Session().Elapsed)
	}
	r := e.Ripples()[0]
	if r.Scale <= 0 {
		t.Error("ripples should keep animating after game over")
	}
}

func TestRippleLifecycle(t *testing.T) {
	e := newTestEngine(t, NewSource(19))
	e.CreateRipple(core.V(300, 200), 0.8)

	prev := e.Ripples()[0]
	ticks := 0
	for len(e.Ripples()) > 0 {
		e.Tick(0.05)
		ticks++
		if ticks > 100 {
			t.Fatal("ripple never faded out")
		}
		if rs := e.Ripples(); len(rs) == 1 {
			if rs[0].Scale <= prev.Scale {
				t.Errorf("tick %d: scale did not grow (%f -> %f)", ticks, prev.Scale, rs[0].Scale)
			}
			if rs[0].Opacity >= prev.Opacity {
				t.Errorf("tick %d: opacity did not fade (%f -> %f)", ticks, prev.Opacity, rs[0].Opacity)
			}
			if rs[0].Rings != prev.Rings {
				t.Errorf("tick %d: ring count changed", ticks)
			}
			prev = rs[0]
		}
	}

	// 0.3 opacity fading 0.01 per tick lasts about 30 ticks
	if ticks < 29 || ticks > 31 {
		t.Errorf("ripple lived %d ticks, expected about 30", ticks)
	}
}

func TestPatchCountInvariantAcrossTicks(t *testing.T) {
	e := newTestEngine(t, NewSource(23))

	for tick := 0; tick < 600; tick++ {
		e.Tick(0.05)
		patches := e.Patches()
		if len(patches) != 30 {
			t.Fatalf("tick %d: patch count = %d, expected 30", tick, len(patches))
		}
		for i, p := range patches {
			if p.Opacity < 0.05 || p.Opacity > 0.2 {
				t.Fatalf("tick %d patch %d: opacity %f escaped [0.05, 0.2]", tick, i, p.Opacity)
			}
		}
	}
}

func TestExpiredPatchIsRecycled(t *testing.T) {
	e := newTestEngine(t, NewSource(29))
	e.CreateRipple(core.V(50, 50), 1)
	idx := len(e.patches) - 1
	e.patches[idx].Lifetime = 0

	e.Tick(0.05)

	p := e.Patches()[idx]
	if p.Light {
		t.Error("recycled patch should be a fresh dark patch")
	}
	if p.Lifetime < 99 || p.Lifetime > 199 {
		t.Errorf("recycled lifetime = %d, expected fresh lifetime minus one tick", p.Lifetime)
	}
	if len(e.Patches()) != 31 {
		t.Errorf("recycling must not change the count, got %d", len(e.Patches()))
	}
}

func TestRecycledPatchStartsUndrifted(t *testing.T) {
	cfg := config.DefaultDuckChaseConfig()
	cfg.Patches.Count = 1
	e := New(cfg, NewSource(41), testWorld, testPlay)
	e.patches[0].Lifetime = 0

	// Three drift draws for the old patch, then five for the replacement
	e.rng = &seqSource{vals: []float64{0.9, 0.9, 0.9, 0.25, 0.75, 0, 0, 0}}
	e.Tick(0.05)

	pc := cfg.Patches
	minX, maxX := testWorld.MinX-pc.Overscan, testWorld.MaxX+pc.Overscan
	minY, maxY := testWorld.MinY-pc.Overscan, testWorld.MaxY+pc.Overscan
	want := Patch{
		Position: core.V(minX+0.25*(maxX-minX), minY+0.75*(maxY-minY)),
		Size:     pc.SizeMin,
		Opacity:  pc.OpacityMin,
		Lifetime: pc.LifetimeMin - 1,
	}
	if got := e.Patches()[0]; got != want {
		t.Errorf("recycled patch = %+v, expected %+v", got, want)
	}
}

func TestSplashOpacityClampedOnFirstTick(t *testing.T) {
	e := newTestEngine(t, NewSource(31))
	e.CreateRipple(core.V(50, 50), 1)

	e.Tick(0.05)

	patches := e.Patches()
	if op := patches[len(patches)-1].Opacity; op > 0.2 {
		t.Errorf("splash opacity %f should be clamped to 0.2 after a tick", op)
	}
}

func TestResetAfterGameOver(t *testing.T) {
	cfg := config.DefaultDuckChaseConfig()
	cfg.Session.MissLimit = 1
	e := New(cfg, NewSource(37), testWorld, testPlay)

	id := addTarget(e, 5)
	e.Hit(id)
	addTarget(e, 0.01)
	addTarget(e, 0.01)
	e.Tick(0.05)
	if !e.Session().GameOver {
		t.Fatal("expected game over")
	}

	ripples := len(e.Ripples())
	patches := len(e.Patches())

	e.Reset()

	s := e.Session()
	if s.GameOver || s.Score != 0 || s.Misses != 0 || s.Elapsed != 0 {
		t.Errorf("session after reset = %+v, expected zero value", s)
	}
	if len(e.Targets()) != 0 {
		t.Errorf("reset should clear ducks, %d left", len(e.Targets()))
	}
	if len(e.Ripples()) != ripples || len(e.Patches()) != patches {
		t.Error("reset should leave ripples and patches untouched")
	}

	e.SpawnTick()
	if len(e.Targets()) != 2 {
		t.Errorf("spawning should resume after reset, got %d ducks", len(e.Targets()))
	}
}

func TestScoreAndMissesMonotonic(t *testing.T) {
	e := newTestEngine(t, NewSource(41))
	picker := NewSource(43)
	var last Session

	for tick := 0; tick < 4000; tick++ {
		if tick%40 == 0 {
			e.SpawnTick()
		}
		if targets := e.Targets(); len(targets) > 0 && picker.Float64() < 0.05 {
			e.Hit(targets[int(picker.Float64()*float64(len(targets)))].ID)
		}
		e.Tick(0.05)

		s := e.Session()
		if s.Score < last.Score {
			t.Fatalf("tick %d: score decreased %d -> %d", tick, last.Score, s.Score)
		}
		if s.Misses < last.Misses {
			t.Fatalf("tick %d: misses decreased %d -> %d", tick, last.Misses, s.Misses)
		}
		if last.GameOver && !s.GameOver {
			t.Fatalf("tick %d: game over flag was cleared without reset", tick)
		}
		for _, tg := range e.Targets() {
			if tg.Lifetime > 2.5 {
				t.Fatalf("tick %d: duck lifetime %f above maximum", tick, tg.Lifetime)
			}
		}
		last = s
	}

	if !last.GameOver {
		t.Error("a mostly idle player should eventually lose")
	}
}

func TestDeterminism(t *testing.T) {
	run := func() Snapshot {
		e := newTestEngine(t, NewSource(12345))
		for tick := 0; tick < 400; tick++ {
			if tick%40 == 0 {
				e.SpawnTick()
			}
			if tick%7 == 0 {
				e.CreateRipple(core.V(float64(tick), 200), 0.6)
			}
			e.Tick(0.05)
		}
		return e.Snapshot()
	}

	a, b := run(), run()
	if a.Session != b.Session {
		t.Errorf("sessions differ: %+v vs %+v", a.Session, b.Session)
	}
	if len(a.Patches) != len(b.Patches) {
		t.Fatalf("patch counts differ: %d vs %d", len(a.Patches), len(b.Patches))
	}
	for i := range a.Patches {
		if a.Patches[i] != b.Patches[i] {
			t.Fatalf("patch %d differs: %+v vs %+v", i, a.Patches[i], b.Patches[i])
		}
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	e := newTestEngine(t, NewSource(47))
	addTarget(e, 3)
	e.CreateRipple(core.V(1, 1), 1)

	snap := e.Snapshot()
	snap.Targets[0].Disappearing = true
	snap.Ripples[0].Opacity = -1
	snap.Patches[0].Size = -1

	if e.Targets()[0].Disappearing {
		t.Error("mutating a snapshot changed engine ducks")
	}
	if e.Ripples()[0].Opacity < 0 {
		t.Error("mutating a snapshot changed engine ripples")
	}
	if e.Patches()[0].Size < 0 {
		t.Error("mutating a snapshot changed engine patches")
	}
}

func TestDrainEventsClearsQueue(t *testing.T) {
	e := newTestEngine(t, NewSource(53))
	e.CreateRipple(core.V(0, 0), 0.4)

	if len(e.DrainEvents()) != 1 {
		t.Fatal("expected one queued event")
	}
	if e.DrainEvents() != nil {
		t.Error("second drain should be empty")
	}
}

func TestResizeKeepsEntities(t *testing.T) {
	e := newTestEngine(t, NewSource(59))
	addTarget(e, 3)

	small := core.Bounds{MinX: 50, MinY: 100, MaxX: 150, MaxY: 120}
	e.Resize(core.Bounds{MaxX: 200, MaxY: 240}, small)

	if len(e.Targets()) != 1 {
		t.Error("resize should not drop ducks")
	}
	if e.PlayBounds() != small {
		t.Errorf("PlayBounds() = %+v, expected %+v", e.PlayBounds(), small)
	}

	e.SpawnTick()
	for _, tg := range e.Targets()[1:] {
		if !inBounds(small, tg.Position) {
			t.Errorf("spawn at %+v outside resized bounds", tg.Position)
		}
	}
}

func TestUniformHelpers(t *testing.T) {
	src := &seqSource{vals: []float64{0, 0.5, 0.999999}}

	if v := uniform(src, 2, 4); v != 2 {
		t.Errorf("uniform at 0 = %f, expected 2", v)
	}
	if v := uniform(src, 2, 4); v != 3 {
		t.Errorf("uniform at 0.5 = %f, expected 3", v)
	}
	if v := uniform(src, 10, 10); v != 10 {
		t.Errorf("empty range should return midpoint, got %f", v)
	}
	if v := uniform(src, 20, 10); v != 15 {
		t.Errorf("inverted range should return midpoint, got %f", v)
	}

	ints := &seqSource{vals: []float64{0, 0.999999}}
	if n := uniformInt(ints, 100, 200); n != 100 {
		t.Errorf("uniformInt at 0 = %d, expected 100", n)
	}
	if n := uniformInt(ints, 100, 200); n != 200 {
		t.Errorf("uniformInt near 1 = %d, expected 200", n)
	}
}

// inBounds reports whether p lies within b, edges included.
func inBounds(b core.Bounds, p core.Vec2) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}
