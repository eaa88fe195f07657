package engine

import "time"

// Ticker is driven by a Scheduler.
type Ticker interface {
	Tick(dt float64)
	SpawnTick()
}

// Scheduler turns wall-clock frame durations into fixed-period Tick and
// SpawnTick calls. The two periods use separate accumulators and never
// influence each other, regardless of the frame rate feeding Advance.
type Scheduler struct {
	target      Ticker
	tickPeriod  time.Duration
	spawnPeriod time.Duration
	tickAcc     time.Duration
	spawnAcc    time.Duration
}

// NewScheduler creates a scheduler for the given periods.
// Non-positive periods fall back to 50ms and 2s.
func NewScheduler(target Ticker, tickPeriod, spawnPeriod time.Duration) *Scheduler {
	if tickPeriod <= 0 {
		tickPeriod = 50 * time.Millisecond
	}
	if spawnPeriod <= 0 {
		spawnPeriod = 2 * time.Second
	}
	return &Scheduler{
		target:      target,
		tickPeriod:  tickPeriod,
		spawnPeriod: spawnPeriod,
	}
}

// Advance moves the clock forward by d, firing every due callback in
// chronological order. When both fall due at the same instant the fast
// tick runs first. It returns how many of each fired.
func (s *Scheduler) Advance(d time.Duration) (ticks, spawns int) {
	for d > 0 {
		step := min(d, s.tickPeriod-s.tickAcc, s.spawnPeriod-s.spawnAcc)
		s.tickAcc += step
		s.spawnAcc += step
		d -= step

		if s.tickAcc >= s.tickPeriod {
			s.tickAcc -= s.tickPeriod
			s.target.Tick(s.tickPeriod.Seconds())
			ticks++
		}
		if s.spawnAcc >= s.spawnPeriod {
			s.spawnAcc -= s.spawnPeriod
			s.target.SpawnTick()
			spawns++
		}
	}
	return ticks, spawns
}

// TickPeriod returns the fast tick period.
func (s *Scheduler) TickPeriod() time.Duration {
	return s.tickPeriod
}
