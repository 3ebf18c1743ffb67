package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/watersort/internal/api"
	"github.com/vovakirdan/watersort/internal/metrics"
	"github.com/vovakirdan/watersort/internal/multiplayer"
	"github.com/vovakirdan/watersort/internal/platform/tui"
)

var (
	flagHTTPAddr string
	flagSSHAddr  string
	flagHostKey  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and optional SSH server",
	Long: `Start the HTTP API. Rooms, level lookups, pours, solving and generation
are served under /api/v1; /health and /metrics sit at the root.

When an SSH address is configured the terminal client is also served over
SSH and shares rooms with the HTTP API, so a browser player can race a
terminal player.

Host key handling:
  - Uses --host-key or server.host_key_path
  - The key is generated on first start if missing

Examples:
  watersort serve                        # HTTP on :8080
  watersort serve --http :9000
  watersort serve --ssh :2222            # Also serve the terminal client
  watersort serve --difficulty easy

Players connect over SSH with:
  ssh localhost -p 2222`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP listen address (overrides config)")
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH listen address; empty keeps the config value")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to SSH host key (overrides config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	cfg := a.cfg
	if flagHTTPAddr != "" {
		cfg.Server.HTTPAddr = flagHTTPAddr
	}
	if flagSSHAddr != "" {
		cfg.Server.SSHAddr = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.Server.HostKeyPath = flagHostKey
	}

	store := a.openStore()
	if store != nil {
		defer store.Close()
	}

	provider, err := a.provider(store)
	if err != nil {
		return err
	}

	managerCfg := multiplayer.DefaultManagerConfig()
	managerCfg.RoomTTL = cfg.Rooms.TTL
	if cfg.Rooms.CleanupPeriod > 0 {
		managerCfg.CleanupPeriod = cfg.Rooms.CleanupPeriod
	}
	rooms := multiplayer.NewManager(managerCfg, provider, nil, a.logger.WithPrefix("rooms"))
	rooms.Observe(metrics.ObserveRoom)
	metrics.RegisterRoomGauge(rooms.Count)

	deps := api.Deps{
		Levels:    provider,
		Rooms:     rooms,
		Policy:    a.curve,
		GenParams: cfg.GenParams(),
		Logger:    a.logger.WithPrefix("http"),
	}
	session := tui.SessionConfig{
		Levels: provider,
		Rooms:  rooms,
		Theme:  tui.DefaultTheme(),
		Logger: a.logger.WithPrefix("ssh"),
	}
	if store != nil {
		rooms.SetResultSaver(store)
		deps.Progress = store
		session.Progress = store
	}

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.NewHandlers(deps), api.RouterOptions{
		RateLimit: cfg.Server.RateLimit.RPS,
		Burst:     cfg.Server.RateLimit.Burst,
	})
	httpServer := api.NewServer(api.ServerConfig{Address: cfg.Server.HTTPAddr}, router, a.logger.WithPrefix("http"))

	var sshServer *tui.SSHServer
	if cfg.Server.SSHAddr != "" {
		sshServer, err = tui.NewSSHServer(tui.SSHServerConfig{
			Address:     cfg.Server.SSHAddr,
			HostKeyPath: cfg.Server.HostKeyPath,
			IdleTimeout: cfg.Server.IdleTimeout,
		}, session, a.logger.WithPrefix("ssh"))
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rooms.Start()
	defer rooms.Stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpServer.Run(ctx)
	})
	if sshServer != nil {
		g.Go(func() error {
			return sshServer.Run(ctx)
		})
	}

	a.logger.Info("water sort service started", "http", cfg.Server.HTTPAddr, "ssh", cfg.Server.SSHAddr, "levels", len(provider.IDs()))
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	a.logger.Info("stopped")
	return nil
}
