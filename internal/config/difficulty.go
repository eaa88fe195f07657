package config

import "math"

// DifficultyManager computes the spawn difficulty multiplier from elapsed time.
// The multiplier scales how many ducks spawn per spawn tick and divides
// their lifetime.
type DifficultyManager struct {
	cfg DifficultyConfig
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{cfg: cfg}
}

// SetEnabled enables or disables difficulty progression.
func (d *DifficultyManager) SetEnabled(enabled bool) {
	d.cfg.Enabled = enabled
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.RampSeconds > 0
}

// Multiplier returns base + elapsed/ramp. It grows without bound unless a
// positive cap is configured.
func (d *DifficultyManager) Multiplier(elapsed float64) float64 {
	m := d.cfg.Base
	if d.IsEnabled() {
		m += math.Max(elapsed, 0) / d.cfg.RampSeconds
	}
	if d.cfg.Cap > 0 {
		m = math.Min(m, d.cfg.Cap)
	}
	return m
}

// SpawnCount returns how many ducks a spawn tick creates at the given multiplier.
func SpawnCount(multiplier float64) int {
	return int(math.Floor(multiplier))
}
