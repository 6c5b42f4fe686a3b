package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	godaemon "github.com/sevlyar/go-daemon"
	"github.com/spf13/cobra"

	"github.com/1broseidon/tabletile/internal/config"
	"github.com/1broseidon/tabletile/internal/daemon"
	"github.com/1broseidon/tabletile/internal/hotkeys"
	"github.com/1broseidon/tabletile/internal/ipc"
	"github.com/1broseidon/tabletile/internal/logging"
	"github.com/1broseidon/tabletile/internal/overlay"
	"github.com/1broseidon/tabletile/internal/platform"
	"github.com/1broseidon/tabletile/internal/runtimepath"
)

func newDaemonCmd(a *app) *cobra.Command {
	var detach bool
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the table daemon",
		Long: `Run the table daemon in the foreground. It seats browser table windows
into the configured slots, grabs the hotkeys and serves the control socket.

With --detach the daemon forks into the background, writing its pid and
log under the runtime and state directories.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if detach {
				child, dctx, err := reborn()
				if err != nil {
					return err
				}
				if child != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "daemon started (pid %d)\n", child.Pid)
					return nil
				}
				defer dctx.Release()
			}
			return runDaemon(cmd.Context(), a)
		},
	}
	cmd.Flags().BoolVar(&detach, "detach", false, "fork into the background")
	return cmd
}

// reborn forks the daemon. In the parent it returns the child process; in
// the child it returns a nil process and the context to release on exit.
func reborn() (*os.Process, *godaemon.Context, error) {
	pidPath, err := runtimepath.PIDPath()
	if err != nil {
		return nil, nil, err
	}
	logPath, err := runtimepath.LogPath()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}

	dctx := &godaemon.Context{
		PidFileName: pidPath,
		PidFilePerm: 0o644,
		LogFileName: logPath,
		LogFilePerm: 0o640,
		WorkDir:     "/",
		Umask:       0o27,
		Args:        os.Args,
	}
	child, err := dctx.Reborn()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to daemonize (pid file %s): %w", pidPath, err)
	}
	return child, dctx, nil
}

func runDaemon(parent context.Context, a *app) error {
	store, cfg, err := a.store()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, "tabletile")
	logger.Info("configuration loaded", "browser", cfg.Browser, "settings", store.Dir())

	applyDisplayEnv(cfg)
	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		return fmt.Errorf("failed to connect to display: %w", err)
	}
	defer backend.Disconnect()

	svc, err := daemon.NewService(daemon.Options{
		Config:  cfg,
		Store:   store,
		Desktop: backend,
		Logger:  logger,
		NewGrabber: func(dispatch hotkeys.Dispatcher) (daemon.HotkeyGrabber, error) {
			h, err := hotkeys.NewHandler(backend, dispatch, logger.With("component", "hotkeys"))
			if err != nil {
				return nil, err
			}
			return h, nil
		},
		Overlay:       newOverlay(backend, cfg, logger),
		WatchSettings: true,
	})
	if err != nil {
		return err
	}

	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return err
	}
	server := ipc.NewServer(socketPath, svc, logger.With("component", "ipc"))
	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start IPC server: %w", err)
	}
	defer server.Stop()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				logger.Info("received SIGHUP, reloading settings")
				if err := svc.Reload(); err != nil {
					logger.Error("reload failed", "error", err)
				}
			}
		}
	}()

	go backend.EventLoop()
	defer backend.QuitEventLoop()

	err = svc.Run(ctx)
	logger.Info("daemon stopped")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// newOverlay returns nil when the overlay is disabled or cannot be drawn;
// the daemon runs without it.
func newOverlay(backend *platform.LinuxBackend, cfg *config.Config, logger *slog.Logger) daemon.SlotOverlay {
	if !cfg.Overlay.Enabled {
		return nil
	}
	colors, err := overlay.ColorsFromConfig(cfg.Overlay.Colors)
	if err != nil {
		logger.Warn("overlay disabled", "error", err)
		return nil
	}
	m, err := overlay.New(backend, overlay.Options{
		Colors:      colors,
		BorderWidth: cfg.Overlay.BorderWidth,
		ShowHint:    cfg.Overlay.ShowHint,
	})
	if err != nil {
		logger.Warn("overlay disabled", "error", err)
		return nil
	}
	return m
}
