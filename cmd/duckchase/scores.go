package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/duck-chase/internal/games/duckchase"
	"github.com/vovakirdan/duck-chase/internal/platform/tui"
	"github.com/vovakirdan/duck-chase/internal/registry"
	"github.com/vovakirdan/duck-chase/internal/storage"
)

var (
	flagLimit   int
	flagRecent  bool
	flagPlain   bool
	flagSession string
	flagClear   bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores and recent sessions",
	Long: `Display recorded Duck Chase sessions.

In a terminal this opens an interactive scoreboard (tab switches between
high scores and recent sessions). With --plain, or when the output is not a
terminal, a table is printed instead.

Examples:
  duckchase scores
  duckchase scores --plain --limit 5
  duckchase scores --plain --recent
  duckchase scores --session 3f2b...
  duckchase scores --clear`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of sessions to print")
	scoresCmd.Flags().BoolVar(&flagRecent, "recent", false, "Print the most recent sessions instead of the best")
	scoresCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print a table instead of the interactive scoreboard")
	scoresCmd.Flags().StringVar(&flagSession, "session", "", "Print the details of one session by ID")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all recorded scores and sessions")
	scoresCmd.MarkFlagsMutuallyExclusive("session", "clear")
}

func runScores(_ *cobra.Command, _ []string) error {
	game, err := registry.Create(duckchase.ID)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}
	title := game.Title()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	switch {
	case flagClear:
		return clearScores(os.Stdout, store, title)
	case flagSession != "":
		return printSession(os.Stdout, store, flagSession)
	}

	fd := int(os.Stdout.Fd())
	if !flagPlain && term.IsTerminal(fd) {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(fd); termErr == nil {
			width, height = w, h
		}
		return tui.RunScoreboard(store, duckchase.ID, title, width, height)
	}

	return printScores(store, title)
}

func printScores(store *storage.Store, title string) error {
	var (
		sessions []storage.SessionRecord
		err      error
		heading  = "High Scores"
	)
	if flagRecent {
		heading = "Recent Sessions"
		sessions, err = store.RecentSessions(duckchase.ID, flagLimit)
	} else {
		sessions, err = store.TopSessions(duckchase.ID, flagLimit)
	}
	if err != nil {
		return fmt.Errorf("retrieving sessions: %w", err)
	}

	fmt.Printf("%s - %s\n", heading, title)
	fmt.Println()

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Println("Play 'duckchase play' to set the first high score!")
		return nil
	}

	// Print header
	fmt.Printf("  %-4s  %-12s  %-6s  %-6s  %-6s  %-16s  %s\n", "Rank", "Player", "Score", "Misses", "Time", "Date", "Session")
	fmt.Printf("  %-4s  %-12s  %-6s  %-6s  %-6s  %-16s  %s\n", "----", "------", "-----", "------", "----", "----", "-------")

	for i, s := range sessions {
		fmt.Printf("  %-4d  %-12s  %-6d  %-6d  %-6s  %-16s  %s\n",
			i+1, s.Player, s.Score, s.Misses,
			formatElapsed(s.ElapsedSecs),
			s.CreatedAt.Format("2006-01-02 15:04"),
			s.ID,
		)
	}

	stats, err := store.GetGameStats(duckchase.ID)
	if err == nil && stats.GamesCount > 0 {
		fmt.Println()
		fmt.Printf("Best: %d  Sessions: %d  Average: %.1f  Longest: %.0fs\n",
			stats.HighScore, stats.GamesCount, stats.AvgScore, stats.LongestSecs)
	}
	return nil
}

var errSessionNotFound = errors.New("session not found")

func formatElapsed(secs float64) string {
	total := int(secs)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func printSession(w io.Writer, store *storage.Store, id string) error {
	rec, err := store.SessionByID(id)
	if err != nil {
		return fmt.Errorf("retrieving session: %w", err)
	}
	if rec == nil {
		return fmt.Errorf("%w: %s", errSessionNotFound, id)
	}

	fmt.Fprintf(w, "Session    %s\n", rec.ID)
	fmt.Fprintf(w, "Player     %s\n", rec.Player)
	fmt.Fprintf(w, "Score      %d\n", rec.Score)
	fmt.Fprintf(w, "Misses     %d\n", rec.Misses)
	fmt.Fprintf(w, "Time       %s\n", formatElapsed(rec.ElapsedSecs))
	fmt.Fprintf(w, "Difficulty x%.1f\n", rec.PeakDifficulty)
	fmt.Fprintf(w, "Played     %s\n", rec.CreatedAt.Format("2006-01-02 15:04"))
	return nil
}

func clearScores(w io.Writer, store *storage.Store, title string) error {
	if err := store.ClearScores(duckchase.ID); err != nil {
		return fmt.Errorf("clearing scores: %w", err)
	}
	fmt.Fprintf(w, "Cleared all %s scores and sessions.\n", title)
	return nil
}
