package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/duck-chase/internal/games/duckchase"
	"github.com/vovakirdan/duck-chase/internal/platform/tui"
	"github.com/vovakirdan/duck-chase/internal/storage"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Duck Chase SSH server",
	Long: `Start an SSH server that lets users connect and play Duck Chase.

Each SSH connection gets its own pond. Sessions are stored per-server
(all users share the same leaderboard), recorded under their SSH user name.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.duckchase/host_key

Environment (also read from --env-file):
  DUCKCHASE_SSH_ADDR   - Used when --ssh is not given
  DUCKCHASE_HOST_KEY   - Used when --host-key is not given

Examples:
  duckchase serve                           # Listen on :23234 with auto-generated key
  duckchase serve --ssh :2222               # Listen on port 2222
  duckchase serve --host-key ./my_host_key  # Use specific host key
  duckchase serve --db ./scores.db          # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	defaults := tui.DefaultSSHServerConfig()
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", defaults.Address, "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", int(defaults.IdleTimeout/time.Minute), "Idle timeout in minutes before disconnecting")
}

func runServe(cmd *cobra.Command, _ []string) error {
	// Flags win over the environment
	if !cmd.Flags().Changed("ssh") {
		flagSSHAddr = envOr("DUCKCHASE_SSH_ADDR", flagSSHAddr)
	}
	if !cmd.Flags().Changed("host-key") {
		flagHostKey = envOr("DUCKCHASE_HOST_KEY", flagHostKey)
	}

	logger, err := newLogger(os.Stderr, "duckchase-ssh")
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database, sessions will not be saved", "err", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.GameID = duckchase.ID
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed

	server, err := tui.NewSSHServer(cfg, store, logger)
	if err != nil {
		return err
	}

	return server.ListenAndServe()
}
