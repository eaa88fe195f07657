package config

import (
	_ "embed"
)

//go:embed defaults/duckchase.yaml
var defaultDuckChaseYAML []byte

// DefaultDuckChaseConfig returns the default Duck Chase configuration.
// It mirrors defaults/duckchase.yaml and is used when the embedded file
// cannot be parsed.
func DefaultDuckChaseConfig() DuckChaseConfig {
	return DuckChaseConfig{
		Timing: TimingConfig{
			TickMS:  50,
			SpawnMS: 2000,
		},
		Session: SessionConfig{
			MissLimit: 20,
		},
		Difficulty: DifficultyConfig{
			Enabled:     true,
			Base:        2.0,
			RampSeconds: 60,
			Cap:         0,
		},
		Spawn: SpawnConfig{
			LifetimeMin:  2.0,
			LifetimeMax:  5.0,
			MarginX:      50,
			MarginTop:    100,
			MarginBottom: 100,
			Scale:        1.0,
		},
		Ripple: RippleConfig{
			InitialOpacity: 0.3,
			ScaleStep:      0.05,
			FadeStep:       0.01,
			BaseRings:      3,
			RingSpan:       5,
			RadiusCells:    4,
		},
		Patches: PatchConfig{
			Count:          30,
			OpacityMin:     0.05,
			OpacityMax:     0.2,
			OpacityDrift:   0.01,
			PositionDrift:  1.0,
			SizeMin:        50,
			SizeMax:        150,
			LifetimeMin:    100,
			LifetimeMax:    200,
			Overscan:       50,
			SplashSize:     100,
			SplashOpacity:  0.4,
			SplashLifetime: 100,
		},
		World: WorldConfig{
			CellWidth:  8,
			CellHeight: 16,
		},
		Input: InputConfig{
			DragFull: 300,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "duckchase":
		return defaultDuckChaseYAML
	default:
		return nil
	}
}
