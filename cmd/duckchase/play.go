package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/duck-chase/internal/config"
	"github.com/vovakirdan/duck-chase/internal/core"
	"github.com/vovakirdan/duck-chase/internal/feedback"
	"github.com/vovakirdan/duck-chase/internal/games/duckchase"
	"github.com/vovakirdan/duck-chase/internal/platform/tui"
	"github.com/vovakirdan/duck-chase/internal/registry"
	"github.com/vovakirdan/duck-chase/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagNoFeedback bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play Duck Chase",
	Long: `Start a Duck Chase session in this terminal.

Controls:
  Click        - Tap a duck, or splash the water
  Drag         - Longer drags make bigger splashes
  Arrows/WASD  - Move the crosshair
  Space/Enter  - Tap at the crosshair
  P/Esc        - Pause
  R            - Reset the session
  Ctrl+S       - Screenshot
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - Slower start and 30 misses allowed
  normal - The default pond
  hard   - Faster start and 10 misses allowed
  fixed  - No progression, the pond never speeds up

Examples:
  duckchase play
  duckchase play --difficulty easy
  duckchase play --config ./my-pond.yaml
  duckchase play --no-feedback --seed 42`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().BoolVar(&flagNoFeedback, "no-feedback", false, "Disable impact sounds")
}

func runPlay(_ *cobra.Command, _ []string) error {
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return err
	}
	// Fail before taking over the terminal
	if _, err := config.LoadDuckChase(flagConfig); err != nil {
		return err
	}

	logFile, err := openLogFile()
	if err != nil {
		return err
	}
	defer logFile.Close()

	logger, err := newLogger(logFile, "duckchase")
	if err != nil {
		return err
	}

	duckchase.SetConfigPath(flagConfig)
	duckchase.SetDifficultyPreset(preset)

	game, err := registry.Create(duckchase.ID)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		// Continue without storage - game still works
		logger.Warn("could not open scores database", "err", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	var player feedback.Player = feedback.Nop{}
	if !flagNoFeedback {
		player = feedback.Detect(logger)
	}
	defer player.Close()

	opts := tui.Options{
		Store:    store,
		Feedback: player,
		Logger:   logger,
		Player:   playerName(),
	}
	if err := tui.Run(game, opts, cfg); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
