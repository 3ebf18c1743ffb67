// Package tui provides the terminal client: the board, the level picker, the
// online lobby and SSH server support via Wish.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/watersort/internal/config"
)

const shutdownTimeout = 10 * time.Second

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file. It is created if missing.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		HostKeyPath: "~/.watersort/ssh_host_key",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer serves terminal sessions over SSH. Every session shares the
// level catalogue, the progress store and the room manager; the SSH user
// name is the player name.
type SSHServer struct {
	config  SSHServerConfig
	session SessionConfig
	server  *ssh.Server
	logger  *log.Logger
}

// NewSSHServer creates a new SSH server. session is the template for every
// connection; its Player and size fields are filled per session.
func NewSSHServer(cfg SSHServerConfig, session SessionConfig, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "watersort-ssh",
		})
	}
	if session.Logger == nil {
		session.Logger = logger
	}

	srv := &SSHServer{
		config:  cfg,
		session: session,
		logger:  logger,
	}

	hostKeyPath := config.ExpandHome(cfg.HostKeyPath)
	if hostKeyPath == "" {
		hostKeyPath = config.ExpandHome(DefaultSSHServerConfig().HostKeyPath)
	}
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.newProgram),
			activeterm.Middleware(),
			srv.accessLog,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("tui: ssh server: %w", err)
	}
	srv.server = server
	return srv, nil
}

// newProgram builds the session model for one connection. The SSH user
// plays under their login name.
func (s *SSHServer) newProgram(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sess.Pty()

	cfg := s.session
	cfg.Player = playerName(sess.User())
	cfg.Width, cfg.Height = pty.Window.Width, pty.Window.Height

	return NewSessionModel(cfg), []tea.ProgramOption{tea.WithAltScreen()}
}

// playerName maps an SSH login to a player name.
func playerName(user string) string {
	if user == "" {
		return "guest"
	}
	return user
}

// accessLog records each connection with its duration.
func (s *SSHServer) accessLog(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		start := time.Now()
		player := playerName(sess.User())
		s.logger.Info("player connected", "player", player, "remote", sess.RemoteAddr())
		next(sess)
		s.logger.Info("player disconnected", "player", player, "duration", time.Since(start).Round(time.Second))
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *SSHServer) Run(ctx context.Context) error {
	s.logger.Info("ssh listening", "address", s.config.Address)

	serveErr := make(chan error, 1)
	go func() {
		err := s.server.ListenAndServe()
		if errors.Is(err, ssh.ErrServerClosed) {
			err = nil
		}
		serveErr <- err
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
		return s.Shutdown()
	}
}

// Shutdown stops accepting connections and waits for open sessions up to
// shutdownTimeout.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the configured listen address.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
