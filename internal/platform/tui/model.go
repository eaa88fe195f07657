package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/duck-chase/internal/core"
	"github.com/vovakirdan/duck-chase/internal/engine"
	"github.com/vovakirdan/duck-chase/internal/feedback"
	"github.com/vovakirdan/duck-chase/internal/registry"
	"github.com/vovakirdan/duck-chase/internal/storage"
)

// footerHeight is the number of rows reserved below the game for the help line.
const footerHeight = 1

// sessionGame is implemented by games backed by the tick engine.
type sessionGame interface {
	Events() []engine.Event
	Session() engine.Session
	PeakDifficulty() float64
}

// bestScoreGame shows the stored high score.
type bestScoreGame interface {
	SetBest(score int)
}

// resizableGame can adapt to a new screen size without a reset.
type resizableGame interface {
	Resize(w, h int)
}

// Options are the collaborators of a game session.
type Options struct {
	Store    *storage.Store  // Optional; sessions are not saved when nil
	Feedback feedback.Player // Optional; defaults to feedback.Nop
	Logger   *log.Logger     // Optional; defaults to log.Default()
	Player   string          // Recorded with saved sessions
}

// Model is the Bubble Tea model for running a game session.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	opts       Options
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keys       KeyMap
	mapper     *KeyMapper
	help       help.Model
	quitting   bool
	saved      bool // Whether the session has been saved for the current game over
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, opts Options, cfg core.RuntimeConfig) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if opts.Feedback == nil {
		opts.Feedback = feedback.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	keys := DefaultKeyMap()
	h := help.New()
	h.Width = cfg.ScreenW

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, gameHeight(cfg.ScreenH)),
		opts:       opts,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keys:       keys,
		mapper:     NewKeyMapper(keys),
		help:       h,
	}
}

func gameHeight(h int) int {
	return max(h-footerHeight, 1)
}

// gameRuntime is the runtime config seen by the game: the screen minus the footer.
func (m Model) gameRuntime() core.RuntimeConfig {
	cfg := m.config
	cfg.ScreenH = gameHeight(cfg.ScreenH)
	return cfg
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.gameRuntime())
	if best, ok := m.highScore(); ok {
		m.setBest(best)
	}
	m.opts.Logger.Info("session started",
		"game", m.game.ID(),
		"player", m.opts.Player,
		"size", fmt.Sprintf("%dx%d", m.config.ScreenW, m.config.ScreenH),
	)

	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if ev, ok := MapMouse(msg, m.screen.Height()); ok {
			m.inputFrame.Point(ev)
		}
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Screenshot) {
		m.saveScreenshot()
		return m, nil
	}

	if m.mapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		m.logEnd()
		return m, tea.Quit
	}

	return m, nil
}

// handleResize keeps the session running at the new size.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, gameHeight(msg.Height))
	m.help.Width = msg.Width

	if g, ok := m.game.(resizableGame); ok {
		g.Resize(msg.Width, gameHeight(msg.Height))
	} else if !m.gameState.GameOver {
		m.game.Reset(m.gameRuntime())
	}

	return m, nil
}

// handleTick runs one frame.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	m.drainEvents()

	if m.gameState.GameOver && !m.saved {
		m.saveSession()
		m.saved = true
	} else if !m.gameState.GameOver {
		m.saved = false
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	return m, tickCmd(m.config.TickRate)
}

// drainEvents forwards engine events to feedback and the log.
func (m Model) drainEvents() {
	g, ok := m.game.(sessionGame)
	if !ok {
		return
	}

	for _, ev := range g.Events() {
		switch e := ev.(type) {
		case engine.ImpactEvent:
			m.opts.Feedback.Play(feedback.NewImpact(e.Intensity))
		case engine.HitEvent:
			m.opts.Logger.Debug("duck hit", "score", e.Score)
		case engine.MissEvent:
			m.opts.Logger.Debug("duck missed", "misses", e.Misses)
		case engine.GameOverEvent:
			m.opts.Logger.Info("game over",
				"player", m.opts.Player,
				"score", e.Score,
				"misses", e.Misses,
				"elapsed", fmt.Sprintf("%.1fs", e.Elapsed),
			)
		}
	}
}

// saveSession records the finished session. Failures are logged only.
func (m Model) saveSession() {
	if m.opts.Store == nil {
		return
	}

	rec := storage.SessionRecord{
		GameID: m.game.ID(),
		Player: m.opts.Player,
		Score:  m.gameState.Score,
	}
	if g, ok := m.game.(sessionGame); ok {
		s := g.Session()
		rec.Misses = s.Misses
		rec.ElapsedSecs = s.Elapsed
		rec.PeakDifficulty = g.PeakDifficulty()
	}

	prevBest, known := m.highScore()

	id, err := m.opts.Store.SaveSession(rec)
	if err != nil {
		m.opts.Logger.Error("cannot save session", "err", err)
		return
	}
	m.opts.Logger.Debug("session saved", "id", id)

	if known && rec.Score > prevBest {
		m.opts.Logger.Info("new high score", "player", m.opts.Player, "score", rec.Score, "previous", prevBest)
		m.setBest(rec.Score)
	}
}

// highScore reads the stored best score. ok is false without a store or on error.
func (m Model) highScore() (best int, ok bool) {
	if m.opts.Store == nil {
		return 0, false
	}
	best, err := m.opts.Store.HighScore(m.game.ID())
	if err != nil {
		m.opts.Logger.Warn("cannot read high score", "err", err)
		return 0, false
	}
	return best, true
}

func (m Model) setBest(score int) {
	if g, ok := m.game.(bestScoreGame); ok {
		g.SetBest(score)
	}
}

func (m Model) logEnd() {
	m.opts.Logger.Info("session ended",
		"game", m.game.ID(),
		"player", m.opts.Player,
		"score", m.gameState.Score,
	)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.opts.Logger.Warn("cannot save screenshot", "err", err)
		return
	}
	dir := filepath.Join(home, ".duckchase", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.opts.Logger.Warn("cannot save screenshot", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.opts.Logger.Warn("cannot save screenshot", "err", err)
		return
	}
	m.opts.Logger.Info("screenshot saved", "path", path)
}

var footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)

	return RenderScreen(m.screen) + "\n" + footerStyle.Render(m.help.View(m.keys))
}

// Run starts the Bubble Tea program with the given model.
func Run(game registry.Game, opts Options, cfg core.RuntimeConfig) error {
	model := NewModel(game, opts, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
