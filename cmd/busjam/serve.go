package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/busjam/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the BusJam SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own session with the level picker.
Runs are stored per server, so all players share one results table.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, generates a key at ~/.busjam/host_key

Examples:
  busjam serve                           # Listen on :23234
  busjam serve --ssh :2222               # Listen on port 2222
  busjam serve --host-key ./my_host_key  # Use a specific host key
  busjam serve --db ./results.db         # Use a specific database

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	defer closeStore(cat.Store)

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	if flagIdleTimeout > 0 {
		cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	}
	if flagFPS > 0 {
		cfg.TickRate = flagFPS
	}

	server, err := tui.NewSSHServer(cfg, cat)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	fmt.Printf("BusJam SSH server on %s with %d levels\n", server.Addr(), len(cat.Levels))
	fmt.Println("Press Ctrl+C to stop")
	return server.ListenAndServe()
}
