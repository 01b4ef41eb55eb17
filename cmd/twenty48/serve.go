package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/twenty48/internal/agent"
	"github.com/vovakirdan/twenty48/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	serveSearch     searchFlags
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server so others can play, watch agents or browse scores.

Every connection gets its own game. All games are recorded in the same
results database, so the scoreboard is shared.

Commands after the host select the screen:
  ssh -p 2222 host                  # play
  ssh -p 2222 host watch expectimax # watch an agent
  ssh -p 2222 host scores           # scoreboard

Examples:
  twenty48 serve
  twenty48 serve --ssh :23234 --host-key ./host_key
  twenty48 serve --strength fast`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH listen address (default from config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Host key file, created when missing (default from config)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveSearch.register(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := serveSearch.apply(cmd, &cfg); err != nil {
		return err
	}

	sc := tui.DefaultSSHServerConfig()
	sc.Address = cfg.Serve.Addr
	sc.HostKeyPath = cfg.Serve.HostKey
	if flagSSHAddr != "" {
		sc.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		sc.HostKeyPath = flagHostKey
	}
	sc.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	sc.AgentOptions = agent.Options{Search: cfg.SearchOptions()}
	sc.Tick = time.Duration(cfg.Play.TickMS) * time.Millisecond

	store, err := openStore()
	if err != nil {
		logger.Warn("could not open results database, games will not be saved", "error", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	server, err := tui.NewSSHServer(sc, store, logger.WithPrefix("ssh"))
	if err != nil {
		return err
	}

	fmt.Printf("twenty48 SSH server listening on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")
	return server.ListenAndServe()
}
