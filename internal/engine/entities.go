package engine

import (
	"github.com/google/uuid"

	"github.com/vovakirdan/duck-chase/internal/core"
)

// TargetID identifies a duck for the lifetime of a session.
type TargetID = uuid.UUID

// Target is a tappable, time-limited duck.
type Target struct {
	ID           TargetID
	Position     core.Vec2 // World points
	Lifetime     float64   // Seconds remaining
	Scale        float64
	Disappearing bool // Set by a hit; the duck is removed on the next tick
}

// Ripple is a set of concentric rings expanding from a point.
type Ripple struct {
	Position  core.Vec2
	Scale     float64 // Grows every tick
	Opacity   float64 // Shrinks every tick; removed at <= 0
	Intensity float64
	Rings     int // Fixed at creation
}

// Patch is a slowly drifting decorative water blob.
type Patch struct {
	Position core.Vec2
	Size     float64
	Opacity  float64
	Lifetime int // Ticks until recycled
	Light    bool
}

// Session holds the scalar state of one play session.
type Session struct {
	Score    int
	Misses   int
	Elapsed  float64 // Seconds of active play; frozen once GameOver is set
	GameOver bool
}

// Snapshot is a read-only copy of the engine state for renderers.
type Snapshot struct {
	Targets    []Target
	Ripples    []Ripple
	Patches    []Patch
	Session    Session
	MissLimit  int
	Difficulty float64
}
