// Package config provides YAML-based game configuration loading and
// difficulty management for Duck Chase.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// DuckChaseConfig contains all configuration for the Duck Chase game.
type DuckChaseConfig struct {
	Timing     TimingConfig     `yaml:"timing"`
	Session    SessionConfig    `yaml:"session"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Spawn      SpawnConfig      `yaml:"spawn"`
	Ripple     RippleConfig     `yaml:"ripple"`
	Patches    PatchConfig      `yaml:"patches"`
	World      WorldConfig      `yaml:"world"`
	Input      InputConfig      `yaml:"input"`
}

// TimingConfig defines the two independent schedules driving the engine.
type TimingConfig struct {
	TickMS  int `yaml:"tick_ms"`  // Fast tick period (aging, ripples, patches)
	SpawnMS int `yaml:"spawn_ms"` // Slow tick period (duck spawning)
}

// SessionConfig defines when a session ends.
type SessionConfig struct {
	MissLimit int `yaml:"miss_limit"`
}

// DifficultyConfig defines the spawn difficulty multiplier.
// multiplier = base + elapsed/ramp_seconds, clamped to cap when cap > 0.
type DifficultyConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Base        float64 `yaml:"base"`
	RampSeconds float64 `yaml:"ramp_seconds"`
	Cap         float64 `yaml:"cap"` // 0 = unbounded
}

// SpawnConfig defines duck lifetimes and where ducks may appear.
type SpawnConfig struct {
	LifetimeMin  float64 `yaml:"lifetime_min"`
	LifetimeMax  float64 `yaml:"lifetime_max"`
	MarginX      float64 `yaml:"margin_x"`
	MarginTop    float64 `yaml:"margin_top"`
	MarginBottom float64 `yaml:"margin_bottom"`
	Scale        float64 `yaml:"scale"`
}

// RippleConfig defines ripple growth and fading.
type RippleConfig struct {
	InitialOpacity float64 `yaml:"initial_opacity"`
	ScaleStep      float64 `yaml:"scale_step"`
	FadeStep       float64 `yaml:"fade_step"`
	BaseRings      int     `yaml:"base_rings"`
	RingSpan       int     `yaml:"ring_span"`
	RadiusCells    float64 `yaml:"radius_cells"`
}

// PatchConfig defines the ambient water patches.
type PatchConfig struct {
	Count          int     `yaml:"count"`
	OpacityMin     float64 `yaml:"opacity_min"`
	OpacityMax     float64 `yaml:"opacity_max"`
	OpacityDrift   float64 `yaml:"opacity_drift"`
	PositionDrift  float64 `yaml:"position_drift"`
	SizeMin        float64 `yaml:"size_min"`
	SizeMax        float64 `yaml:"size_max"`
	LifetimeMin    int     `yaml:"lifetime_min"`
	LifetimeMax    int     `yaml:"lifetime_max"`
	Overscan       float64 `yaml:"overscan"`
	SplashSize     float64 `yaml:"splash_size"`
	SplashOpacity  float64 `yaml:"splash_opacity"`
	SplashLifetime int     `yaml:"splash_lifetime"`
}

// WorldConfig maps terminal cells to world points.
type WorldConfig struct {
	CellWidth  float64 `yaml:"cell_width"`
	CellHeight float64 `yaml:"cell_height"`
}

// InputConfig tunes pointer gestures.
type InputConfig struct {
	DragFull float64 `yaml:"drag_full"` // Drag distance (points) giving full intensity
}

// Validate checks that every parameter is in a usable range.
func (c DuckChaseConfig) Validate() error {
	checks := []struct {
		ok    bool
		field string
	}{
		{c.Timing.TickMS > 0, "timing.tick_ms"},
		{c.Timing.SpawnMS > 0, "timing.spawn_ms"},
		{c.Session.MissLimit > 0, "session.miss_limit"},
		{c.Difficulty.Base > 0, "difficulty.base"},
		{!c.Difficulty.Enabled || c.Difficulty.RampSeconds > 0, "difficulty.ramp_seconds"},
		{c.Difficulty.Cap >= 0, "difficulty.cap"},
		{c.Spawn.LifetimeMin > 0 && c.Spawn.LifetimeMin <= c.Spawn.LifetimeMax, "spawn.lifetime_min"},
		{c.Spawn.MarginX >= 0 && c.Spawn.MarginTop >= 0 && c.Spawn.MarginBottom >= 0, "spawn.margin"},
		{c.Ripple.InitialOpacity > 0, "ripple.initial_opacity"},
		{c.Ripple.FadeStep > 0, "ripple.fade_step"},
		{c.Ripple.BaseRings >= 1, "ripple.base_rings"},
		{c.Ripple.RingSpan >= 0, "ripple.ring_span"},
		{c.Patches.Count >= 0, "patches.count"},
		{c.Patches.OpacityMin >= 0 && c.Patches.OpacityMin <= c.Patches.OpacityMax, "patches.opacity_min"},
		{c.Patches.SizeMin > 0 && c.Patches.SizeMin <= c.Patches.SizeMax, "patches.size_min"},
		{c.Patches.LifetimeMin > 0 && c.Patches.LifetimeMin <= c.Patches.LifetimeMax, "patches.lifetime_min"},
		{c.World.CellWidth > 0 && c.World.CellHeight > 0, "world.cell_size"},
		{c.Input.DragFull > 0, "input.drag_full"},
	}
	for _, chk := range checks {
		if !chk.ok {
			return fmt.Errorf("config: %s out of range: %w", chk.field, ErrInvalidConfig)
		}
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// BaseForPreset returns the starting multiplier for a difficulty preset.
func BaseForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 1.0
	case DifficultyHard:
		return 3.0
	default:
		return 2.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ParsePreset converts a flag value into a preset.
// The empty string keeps whatever the config file says.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q: %w", s, ErrInvalidConfig)
	}
}
