package engine

import "github.com/vovakirdan/duck-chase/internal/core"

// Event is something the engine reports to the platform after a mutation.
// Events are queued and collected with Engine.DrainEvents.
type Event interface {
	engineEvent()
}

// HitEvent is emitted when a duck is scored.
type HitEvent struct {
	ID       TargetID
	Position core.Vec2
	Score    int
}

func (HitEvent) engineEvent() {}

// MissEvent is emitted when a duck expires without being hit.
type MissEvent struct {
	ID     TargetID
	Misses int
}

func (MissEvent) engineEvent() {}

// GameOverEvent is emitted once when the miss limit is reached.
type GameOverEvent struct {
	Score   int
	Misses  int
	Elapsed float64
}

func (GameOverEvent) engineEvent() {}

// ImpactEvent carries the intensity of a new ripple so feedback
// components can translate it into sound or vibration.
type ImpactEvent struct {
	Position  core.Vec2
	Intensity float64
}

func (ImpactEvent) engineEvent() {}
