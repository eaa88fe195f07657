package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadDuckChase loads Duck Chase configuration.
// Search order: customPath -> ~/.duckchase/configs/duckchase.yaml -> ./configs/duckchase.yaml -> embedded default
//
// Files are decoded on top of the defaults, so a partial file only overrides
// the keys it names.
func LoadDuckChase(customPath string) (DuckChaseConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DuckChaseConfig{}, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return DuckChaseConfig{}, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("duckchase.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/duckchase.yaml"); err == nil {
		if cfg, err := parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parse(defaultDuckChaseYAML)
	if err != nil {
		return DefaultDuckChaseConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parse decodes YAML over the hard-coded defaults and validates the result.
func parse(data []byte) (DuckChaseConfig, error) {
	cfg := DefaultDuckChaseConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DuckChaseConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return DuckChaseConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".duckchase", "configs", filename)
}

// ApplyPreset modifies the config based on a difficulty preset.
// The empty preset leaves the config untouched.
func ApplyPreset(cfg *DuckChaseConfig, preset DifficultyPreset) {
	if preset == "" {
		return
	}
	cfg.Difficulty.Base = BaseForPreset(preset)
	cfg.Difficulty.Enabled = !IsFixedPreset(preset)

	// Easy and hard also move the miss limit
	switch preset {
	case DifficultyEasy:
		cfg.Session.MissLimit = 30
	case DifficultyHard:
		cfg.Session.MissLimit = 10
	}
}
