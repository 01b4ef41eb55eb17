package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/twenty48/internal/agent"
	"github.com/vovakirdan/twenty48/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":2222").
	Address string

	// HostKeyPath is the path to the host key file. It is created on
	// first start when missing.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// AgentOptions configures agents started with "watch <agent>" and
	// the hint key.
	AgentOptions agent.Options

	// Tick is the delay between agent moves in watch sessions.
	Tick time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:      ":2222",
		HostKeyPath:  ".ssh/twenty48_ed25519",
		IdleTimeout:  30 * time.Minute,
		AgentOptions: agent.DefaultOptions(),
		Tick:         DefaultTick,
	}
}

// SSHServer serves the play, watch and scoreboard screens over SSH.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a server. store may be nil, in which case games are
// not recorded.
func NewSSHServer(cfg SSHServerConfig, store *storage.Store, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "twenty48-ssh",
		})
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	if dir := filepath.Dir(cfg.HostKeyPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("cannot create host key directory: %w", err)
		}
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(cfg.HostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler picks a screen from the SSH command:
//
//	ssh host               play
//	ssh host watch NAME    watch agent NAME
//	ssh host scores        scoreboard
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		return nil, nil
	}

	model, err := s.modelFor(sess.Command(), pty.Window.Width, pty.Window.Height)
	if err != nil {
		wish.Fatalln(sess, err)
		return nil, nil
	}
	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

func (s *SSHServer) modelFor(cmd []string, width, height int) (tea.Model, error) {
	opts := Options{
		Search: s.config.AgentOptions.Search,
		Store:  s.store,
		Tick:   s.config.Tick,
		Logger: s.logger,
	}

	switch {
	case len(cmd) == 0 || cmd[0] == "play":
	case cmd[0] == "scores":
		return NewScoreboardModel(s.store, width, height), nil
	case cmd[0] == "watch":
		name := "expectimax"
		if len(cmd) > 1 {
			name = cmd[1]
		}
		a, err := agent.Create(name, s.config.AgentOptions)
		if err != nil {
			return nil, err
		}
		opts.Agent = a
	default:
		return nil, fmt.Errorf("unknown command %q (try play, watch <agent> or scores)", cmd[0])
	}

	m := NewModel(opts)
	m.width, m.height = width, height
	m.help.Width = width
	return m, nil
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		s.logger.Info("session started",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
			"command", sess.Command(),
		)
		next(sess)
		s.logger.Info("session ended",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until SIGINT or SIGTERM.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-done:
	case err := <-errCh:
		return fmt.Errorf("ssh server: %w", err)
	}
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
