// duckchase is a terminal pond game: tap the ducks before they swim away.
//
// Usage:
//
//	duckchase play            - Play in this terminal
//	duckchase serve           - Start SSH server for remote play
//	duckchase scores          - Show high scores and recent sessions
//	duckchase list            - List available games
//
// Global flags:
//
//	--fps <rate>         - Set frame rate (default: 20)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set database path (default: ~/.duckchase/scores.db)
//	--log-file <path>    - Set log file for play (default: ~/.duckchase/duckchase.log)
//	--log-level <level>  - Set log level: debug, info, warn, error
//	--env-file <path>    - Load DUCKCHASE_* variables from a dotenv file (default: .env)
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogFile  string
	flagLogLevel string
	flagEnvFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "duckchase",
	Short: "Duck Chase - Tap the ducks before they swim away",
	Long: `Duck Chase is a pond game for your terminal. Ducks appear on the
water for a few seconds; tap them before they vanish. Every duck that gets
away is a miss, and the session ends when the misses run out. The pond
gets busier the longer you last.

Available commands:
  play     - Play in this terminal
  serve    - Start SSH server for remote play
  scores   - View high scores and recent sessions
  list     - Show all available games

Examples:
  duckchase play
  duckchase play --difficulty hard
  duckchase serve --ssh :2222
  duckchase scores --recent`,
	SilenceUsage:      true,
	PersistentPreRunE: loadEnvFile,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 20, "Frame rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.duckchase/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "~/.duckchase/duckchase.log", "Path to the play log file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "Dotenv file with DUCKCHASE_* variables (ignored if missing)")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// loadEnvFile loads the dotenv file without overriding variables already set.
func loadEnvFile(_ *cobra.Command, _ []string) error {
	if flagEnvFile == "" {
		return nil
	}
	if err := godotenv.Load(flagEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", flagEnvFile, err)
	}
	return nil
}

// envOr returns the environment variable key, or fallback when it is unset or empty.
func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// newLogger builds a logger writing to w at the --log-level level.
func newLogger(w io.Writer, prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          prefix,
		ReportTimestamp: true,
	}), nil
}

// openLogFile opens the --log-file for appending, creating its directory.
func openLogFile() (*os.File, error) {
	path, err := expandHome(flagLogFile)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("cannot open log file: %w", err)
	}
	return f, nil
}

// playerName is the name recorded with local sessions.
func playerName() string {
	if name, ok := os.LookupEnv("USER"); ok && name != "" {
		return name
	}
	return "player"
}
