package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/1broseidon/tabletile/internal/config"
	"github.com/1broseidon/tabletile/internal/hotkeys"
	"github.com/1broseidon/tabletile/internal/ipc"
	"github.com/1broseidon/tabletile/internal/overlay"
	"github.com/1broseidon/tabletile/internal/platform"
	"github.com/1broseidon/tabletile/internal/settings"
	"github.com/1broseidon/tabletile/internal/tables"
)

// Desktop is the window system and pointer the service drives.
type Desktop interface {
	platform.WindowSystem
	platform.Pointer
}

// HotkeyGrabber owns the global grabs. hotkeys.Handler satisfies it.
type HotkeyGrabber interface {
	Register(bindings hotkeys.Bindings, toggleOnly bool) error
	Unregister()
}

// SlotOverlay draws the slot outlines. overlay.Manager satisfies it.
type SlotOverlay interface {
	Render(states []overlay.SlotState, enabled bool) error
	Hide()
	Close()
}

// Options wires a Service.
type Options struct {
	Config  *config.Config
	Store   *settings.Store
	Desktop Desktop
	Logger  *slog.Logger

	// NewGrabber builds the hotkey grabber around the action queue. Nil
	// runs without global hotkeys, leaving IPC as the only trigger.
	NewGrabber func(dispatch hotkeys.Dispatcher) (HotkeyGrabber, error)
	// Overlay is optional.
	Overlay SlotOverlay
	// WatchSettings reloads when a settings file changes on disk.
	WatchSettings bool
}

// Service wires the tracker, hotkeys and overlay together and answers IPC
// requests.
type Service struct {
	cfg     *config.Config
	store   *settings.Store
	desktop Desktop
	logger  *slog.Logger
	watch   bool

	browser   tables.Browser
	tracker   *tables.Tracker
	performer *hotkeys.Performer
	worker    *hotkeys.Worker
	runner    *Runner
	grabber   HotkeyGrabber
	overlay   SlotOverlay

	started time.Time
	reloads singleflight.Group

	mu       sync.Mutex
	table    settings.TableSettings
	layout   settings.LayoutSettings
	bindings hotkeys.Bindings
	cancel   context.CancelFunc
}

var _ ipc.Handler = (*Service)(nil)

// NewService builds a service. Settings are read when Run starts.
func NewService(opts Options) (*Service, error) {
	if opts.Config == nil || opts.Store == nil || opts.Desktop == nil {
		return nil, errors.New("daemon: config, store and desktop are required")
	}
	browser, err := tables.ParseBrowser(opts.Config.Browser)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Service{
		cfg:     opts.Config,
		store:   opts.Store,
		desktop: opts.Desktop,
		logger:  logger,
		watch:   opts.WatchSettings,
		browser: browser,
		overlay: opts.Overlay,
		started: time.Now(),
	}

	s.tracker = tables.NewTracker(tables.TrackerConfig{
		Interval: opts.Config.PollInterval,
		Logger:   logger.With("component", "tracker"),
	}, tables.NewSelector(opts.Desktop, browser, ""), opts.Desktop, opts.Desktop)

	s.performer = hotkeys.NewPerformer(hotkeys.PerformerConfig{
		StepDelay: opts.Config.ActionDelay,
		Logger:    logger.With("component", "hotkeys"),
		OnToggle:  s.onToggle,
	}, opts.Desktop, opts.Desktop, s.tracker)

	s.worker = hotkeys.NewWorker(opts.Config.QueueSize, s.performer, logger.With("component", "worker"))

	s.runner = NewRunner(RunnerConfig{
		Logger:  logger.With("component", "runner"),
		OnEvent: func(tables.Event) { s.refreshOverlay() },
	}, s.tracker)

	if opts.NewGrabber != nil {
		g, err := opts.NewGrabber(s.worker)
		if err != nil {
			return nil, fmt.Errorf("hotkeys: %w", err)
		}
		s.grabber = g
	}
	return s, nil
}

// Run loads the settings, seats the open tables and serves until ctx is
// cancelled, Shutdown is called or the runner fails.
func (s *Service) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	if err := s.loadSettings(); err != nil {
		return err
	}
	if err := s.registerHotkeys(); err != nil {
		s.logger.Warn("some hotkeys could not be grabbed", "error", err)
	}
	if err := s.tracker.ArrangeOnStart(); err != nil {
		return fmt.Errorf("arrange tables: %w", err)
	}
	s.refreshOverlay()
	defer s.release()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.worker.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return s.runner.Run(gctx)
	})
	if s.watch {
		s.startWatcher(gctx, g)
	}

	s.logger.Info("daemon running", "browser", s.browser, "slots", len(s.tracker.Snapshot().Slots))
	return g.Wait()
}

func (s *Service) startWatcher(ctx context.Context, g *errgroup.Group) {
	w, err := settings.NewWatcher(s.store.Dir(), settings.DefaultDebounce, s.logger.With("component", "watcher"))
	if err != nil {
		s.logger.Warn("settings will not reload automatically", "error", err)
		return
	}
	changes := make(chan struct{})
	g.Go(func() error {
		w.Run(ctx, changes)
		return nil
	})
	g.Go(func() error {
		for range changes {
			if err := s.Reload(); err != nil {
				s.logger.Error("reload after settings change failed", "error", err)
			}
		}
		return nil
	})
}

func (s *Service) release() {
	if s.grabber != nil {
		s.grabber.Unregister()
	}
	if s.overlay != nil {
		s.overlay.Close()
	}
}

// loadSettings reads the three settings files and applies them to the
// tracker and performer. Slot bindings are dropped.
func (s *Service) loadSettings() error {
	table, err := s.store.LoadTable()
	if err != nil {
		return err
	}
	layout, err := s.store.LoadLayout()
	if err != nil {
		return err
	}
	keys, err := s.store.LoadHotkeys()
	if err != nil {
		return err
	}
	bindings, err := hotkeys.ParseBindings(keys)
	if err != nil {
		return fmt.Errorf("%s: %w", s.store.Path(settings.HotkeysFile), err)
	}

	s.tracker.SetSource(tables.NewSelector(s.desktop, s.browser, table.SearchString))
	s.tracker.InitializeSlots(layout, table)
	s.performer.SetTable(table)

	s.mu.Lock()
	s.table, s.layout, s.bindings = table, layout, bindings
	s.mu.Unlock()

	s.logger.Debug("settings loaded", "dir", s.store.Dir(), "tables", layout.TableCount, "search", table.SearchString)
	return nil
}

func (s *Service) registerHotkeys() error {
	if s.grabber == nil {
		return nil
	}
	s.mu.Lock()
	bindings := s.bindings
	s.mu.Unlock()
	return s.grabber.Register(bindings, !s.performer.Enabled())
}

// onToggle regrabs so that while disabled only the toggle key is taken
// from the applications.
func (s *Service) onToggle(enabled bool) {
	if err := s.registerHotkeys(); err != nil {
		s.logger.Warn("regrab after toggle failed", "enabled", enabled, "error", err)
	}
	s.refreshOverlay()
}

func (s *Service) refreshOverlay() {
	if s.overlay == nil {
		return
	}
	if !s.performer.Enabled() {
		s.overlay.Hide()
		return
	}
	states := overlay.StatesFromSlots(s.tracker.Snapshot().Slots)
	if err := s.overlay.Render(states, true); err != nil {
		s.logger.Warn("overlay render failed", "error", err)
	}
}

// Status implements ipc.Handler.
func (s *Service) Status() ipc.StatusData {
	snap := s.tracker.Snapshot()
	seated := 0
	for i := range snap.Slots {
		if snap.Slots[i].Occupied() {
			seated++
		}
	}
	unassigned := make([]uint32, len(snap.Unassigned))
	for i, w := range snap.Unassigned {
		unassigned[i] = uint32(w)
	}

	s.mu.Lock()
	search := s.table.SearchString
	s.mu.Unlock()

	return ipc.StatusData{
		HotkeysEnabled: s.performer.Enabled(),
		Browser:        string(s.browser),
		SearchString:   search,
		TableCount:     len(snap.Slots),
		Tracked:        len(snap.Tracked),
		Seated:         seated,
		Unassigned:     unassigned,
		UptimeSeconds:  int64(time.Since(s.started).Seconds()),
		PID:            os.Getpid(),
	}
}

// Slots implements ipc.Handler.
func (s *Service) Slots() []ipc.SlotInfo {
	snap := s.tracker.Snapshot()

	titles := make(map[platform.WindowID]string)
	if windows, err := s.desktop.ListWindows(); err == nil {
		for _, w := range windows {
			titles[w.ID] = w.Title
		}
	}

	out := make([]ipc.SlotInfo, len(snap.Slots))
	for i, sl := range snap.Slots {
		out[i] = ipc.SlotInfo{
			ID:     sl.ID,
			X:      sl.Left,
			Y:      sl.Top,
			Width:  sl.Width,
			Height: sl.Height,
			Window: uint32(sl.Window),
			Title:  titles[sl.Window],
		}
	}
	return out
}

// PerformAction queues a named action as if its hotkey was pressed.
func (s *Service) PerformAction(name string) error {
	action, err := hotkeys.ParseAction(strings.ToUpper(strings.TrimSpace(name)))
	if err != nil {
		return err
	}
	if action == hotkeys.ActionToggle {
		_, err := s.SetHotkeys(nil)
		return err
	}
	if !s.performer.Enabled() {
		return errors.New("hotkeys are disabled")
	}
	if !s.worker.Submit(action) {
		return errors.New("action queue is full")
	}
	return nil
}

// SetHotkeys flips the enabled flag when enabled is nil, otherwise sets it.
func (s *Service) SetHotkeys(enabled *bool) (bool, error) {
	if enabled == nil {
		return s.performer.Toggle(), nil
	}
	s.performer.SetEnabled(*enabled)
	return s.performer.Enabled(), nil
}

// Reload re-reads the settings files, re-seats the tables and regrabs the
// hotkeys. Concurrent calls share one reload.
func (s *Service) Reload() error {
	_, err, _ := s.reloads.Do("reload", func() (any, error) {
		s.logger.Info("reloading settings")
		if err := s.loadSettings(); err != nil {
			return nil, err
		}
		if err := s.tracker.ArrangeOnStart(); err != nil {
			return nil, fmt.Errorf("arrange tables: %w", err)
		}
		if err := s.registerHotkeys(); err != nil {
			s.logger.Warn("some hotkeys could not be grabbed", "error", err)
		}
		s.refreshOverlay()
		return nil, nil
	})
	return err
}

// Arrange re-seats every open table from scratch.
func (s *Service) Arrange() error {
	if err := s.tracker.ArrangeOnStart(); err != nil {
		return err
	}
	s.refreshOverlay()
	return nil
}

// Shutdown makes Run return.
func (s *Service) Shutdown() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		s.logger.Info("shutdown requested")
		cancel()
	}
}
