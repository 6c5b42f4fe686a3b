package daemon

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/tabletile/internal/config"
	"github.com/1broseidon/tabletile/internal/hotkeys"
	"github.com/1broseidon/tabletile/internal/platform"
	"github.com/1broseidon/tabletile/internal/settings"
)

type fakeDesktop struct {
	mu      sync.Mutex
	windows map[platform.WindowID]platform.Window
	order   []platform.WindowID
	active  platform.WindowID
	pointer platform.Point
	steps   []string
}

func newFakeDesktop() *fakeDesktop {
	return &fakeDesktop{windows: make(map[platform.WindowID]platform.Window)}
}

func (d *fakeDesktop) open(w platform.Window) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.windows[w.ID] = w
	d.order = append(d.order, w.ID)
}

func (d *fakeDesktop) recorded() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.steps...)
}

func (d *fakeDesktop) ListWindows() ([]platform.Window, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]platform.Window, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.windows[id])
	}
	return out, nil
}

func (d *fakeDesktop) WindowBounds(id platform.WindowID) (platform.Rect, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	w, ok := d.windows[id]
	if !ok {
		return platform.Rect{}, fmt.Errorf("no window %d", id)
	}
	return w.Bounds, nil
}

func (d *fakeDesktop) ActiveWindow() (platform.WindowID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active, nil
}

func (d *fakeDesktop) Activate(id platform.WindowID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.active = id
	return nil
}

func (d *fakeDesktop) Move(id platform.WindowID, x, y int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	w := d.windows[id]
	w.Bounds.X, w.Bounds.Y = x, y
	d.windows[id] = w
	return nil
}

func (d *fakeDesktop) Resize(id platform.WindowID, width, height int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	w := d.windows[id]
	w.Bounds.Width, w.Bounds.Height = width, height
	d.windows[id] = w
	return nil
}

func (d *fakeDesktop) Position() (platform.Point, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pointer, nil
}

func (d *fakeDesktop) MoveTo(p platform.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pointer = p
	d.steps = append(d.steps, fmt.Sprintf("move %d,%d", p.X, p.Y))
	return nil
}

func (d *fakeDesktop) Click(b platform.MouseButton) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.steps = append(d.steps, "click "+b.String())
	return nil
}

func (d *fakeDesktop) ButtonHeld(platform.MouseButton) (bool, error) {
	return false, nil
}

type fakeGrabber struct {
	mu         sync.Mutex
	toggleOnly []bool
	released   bool
}

func (g *fakeGrabber) Register(_ hotkeys.Bindings, toggleOnly bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.toggleOnly = append(g.toggleOnly, toggleOnly)
	return nil
}

func (g *fakeGrabber) Unregister() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.released = true
}

func (g *fakeGrabber) lastToggleOnly() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.toggleOnly[len(g.toggleOnly)-1]
}

type fixture struct {
	svc     *Service
	desktop *fakeDesktop
	grabber *fakeGrabber
	store   *settings.Store
	done    chan error
}

// startService seeds two 400x300 slots at (0,0) and (500,0) and a matching
// Chrome table near each of them.
func startService(t *testing.T) *fixture {
	t.Helper()

	store := settings.NewStore(t.TempDir())
	table := settings.DefaultTableSettings()
	table.Width, table.Height = 400, 300
	table.SearchString = "Table"
	require.NoError(t, table.SetButton(settings.ButtonFold, platform.Point{X: 50, Y: 250}, platform.Rect{Width: 400, Height: 300}))
	require.NoError(t, store.SaveTable(table))

	layout := settings.DefaultLayoutSettings()
	require.NoError(t, layout.SetOrigins([]platform.Point{{X: 0, Y: 0}, {X: 500, Y: 0}}))
	require.NoError(t, store.SaveLayout(layout))

	desktop := newFakeDesktop()
	desktop.open(platform.Window{ID: 1, Title: "Table 1 - Google Chrome", Bounds: platform.Rect{X: 20, Y: 10, Width: 400, Height: 300}})
	desktop.open(platform.Window{ID: 2, Title: "Notes - Mozilla Firefox", Bounds: platform.Rect{X: 0, Y: 0, Width: 400, Height: 300}})
	desktop.open(platform.Window{ID: 3, Title: "Table 2 - Google Chrome", Bounds: platform.Rect{X: 480, Y: 10, Width: 400, Height: 300}})

	cfg := config.DefaultConfig()
	cfg.PollInterval = 10 * time.Millisecond
	cfg.ActionDelay = 0

	grabber := &fakeGrabber{}
	svc, err := NewService(Options{
		Config:  cfg,
		Store:   store,
		Desktop: desktop,
		NewGrabber: func(hotkeys.Dispatcher) (HotkeyGrabber, error) {
			return grabber, nil
		},
	})
	require.NoError(t, err)

	f := &fixture{svc: svc, desktop: desktop, grabber: grabber, store: store, done: make(chan error, 1)}
	go func() { f.done <- svc.Run(context.Background()) }()
	t.Cleanup(func() {
		svc.Shutdown()
		<-f.done
	})

	require.Eventually(t, func() bool { return svc.Status().Seated == 2 }, 2*time.Second, 5*time.Millisecond)
	return f
}

func TestServiceSeatsMatchingTables(t *testing.T) {
	f := startService(t)

	status := f.svc.Status()
	assert.Equal(t, "chrome", status.Browser)
	assert.Equal(t, "Table", status.SearchString)
	assert.Equal(t, 2, status.TableCount)
	assert.Equal(t, 2, status.Tracked)
	assert.True(t, status.HotkeysEnabled)

	slots := f.svc.Slots()
	require.Len(t, slots, 2)
	assert.Equal(t, uint32(1), slots[0].Window)
	assert.Equal(t, "Table 1 - Google Chrome", slots[0].Title)
	assert.Equal(t, uint32(3), slots[1].Window)
	assert.Equal(t, "Table 2 - Google Chrome", slots[1].Title)
}

func TestServicePerformActionClicksSeatedTable(t *testing.T) {
	f := startService(t)
	require.NoError(t, f.desktop.Activate(3))
	require.NoError(t, f.desktop.MoveTo(platform.Point{X: 600, Y: 100}))

	require.NoError(t, f.svc.PerformAction("fold"))

	want := []string{"move 600,100", "click left", "move 550,250", "click left", "move 600,100"}
	require.Eventually(t, func() bool { return len(f.desktop.recorded()) == len(want) }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, want, f.desktop.recorded())
}

func TestServiceRejectsUnknownAction(t *testing.T) {
	f := startService(t)
	assert.Error(t, f.svc.PerformAction("JUMP"))
}

func TestServiceToggleRegrabsAndRejectsActions(t *testing.T) {
	f := startService(t)

	off := false
	enabled, err := f.svc.SetHotkeys(&off)
	require.NoError(t, err)
	assert.False(t, enabled)
	assert.True(t, f.grabber.lastToggleOnly())

	err = f.svc.PerformAction("FOLD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")

	require.NoError(t, f.svc.PerformAction("ENABLE_DISABLE"))
	assert.True(t, f.svc.Status().HotkeysEnabled)
	assert.False(t, f.grabber.lastToggleOnly())
}

func TestServiceReloadAppliesNewSearchString(t *testing.T) {
	f := startService(t)

	table, err := f.store.LoadTable()
	require.NoError(t, err)
	table.SearchString = "Tournament"
	require.NoError(t, f.store.SaveTable(table))

	require.NoError(t, f.svc.Reload())
	status := f.svc.Status()
	assert.Equal(t, "Tournament", status.SearchString)
	assert.Zero(t, status.Tracked)
	assert.Zero(t, status.Seated)
}

func TestServiceShutdownStopsRun(t *testing.T) {
	f := startService(t)

	f.svc.Shutdown()
	select {
	case err := <-f.done:
		assert.NoError(t, err)
		f.done <- nil
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Shutdown")
	}
	f.grabber.mu.Lock()
	defer f.grabber.mu.Unlock()
	assert.True(t, f.grabber.released)
}

func TestNewServiceRejectsUnknownBrowser(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Browser = "lynx"
	_, err := NewService(Options{Config: cfg, Store: settings.NewStore(t.TempDir()), Desktop: newFakeDesktop()})
	assert.Error(t, err)
}
