package hotkeys

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/1broseidon/tabletile/internal/platform"
	"github.com/1broseidon/tabletile/internal/settings"
	"github.com/1broseidon/tabletile/internal/slots"
)

// ErrButtonNotConfigured is returned when an action needs a button offset
// that was never grabbed.
var ErrButtonNotConfigured = errors.New("button coordinate not configured")

// ActiveWindows reads and changes the focused window.
type ActiveWindows interface {
	ActiveWindow() (platform.WindowID, error)
	Activate(id platform.WindowID) error
}

// SlotLocator resolves slots. tables.Tracker satisfies it.
type SlotLocator interface {
	SlotForWindow(w platform.WindowID) (slots.Slot, bool)
	Slot(id string) (slots.Slot, bool)
}

// PerformerConfig holds performer settings.
type PerformerConfig struct {
	// StepDelay is slept between pointer steps so the browser sees
	// distinct events.
	StepDelay time.Duration
	Logger    *slog.Logger
	// OnToggle is called after the enabled flag changes.
	OnToggle func(enabled bool)
}

// Performer runs actions against the table under the pointer.
type Performer struct {
	pointer  platform.Pointer
	windows  ActiveWindows
	slots    SlotLocator
	delay    time.Duration
	logger   *slog.Logger
	onToggle func(bool)

	enabled atomic.Bool

	mu      sync.RWMutex
	offsets map[settings.Button]settings.Offset
}

// NewPerformer returns an enabled performer with no button offsets.
func NewPerformer(cfg PerformerConfig, pointer platform.Pointer, windows ActiveWindows, locator SlotLocator) *Performer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	p := &Performer{
		pointer:  pointer,
		windows:  windows,
		slots:    locator,
		delay:    cfg.StepDelay,
		logger:   logger,
		onToggle: cfg.OnToggle,
		offsets:  make(map[settings.Button]settings.Offset),
	}
	p.enabled.Store(true)
	return p
}

// SetTable replaces the button offsets.
func (p *Performer) SetTable(table settings.TableSettings) {
	offsets := make(map[settings.Button]settings.Offset, len(table.ButtonCoordinates))
	for b, o := range table.ButtonCoordinates {
		offsets[b] = o
	}
	p.mu.Lock()
	p.offsets = offsets
	p.mu.Unlock()
}

func (p *Performer) offset(b settings.Button) (platform.Point, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	o, ok := p.offsets[b]
	if !ok {
		return platform.Point{}, fmt.Errorf("%w: %s", ErrButtonNotConfigured, b)
	}
	return o.Point(), nil
}

// Enabled reports whether actions other than the toggle run.
func (p *Performer) Enabled() bool {
	return p.enabled.Load()
}

// SetEnabled sets the enabled flag and reports whether it changed.
func (p *Performer) SetEnabled(enabled bool) bool {
	if p.enabled.Swap(enabled) == enabled {
		return false
	}
	p.logger.Info("hotkeys toggled", "enabled", enabled)
	if p.onToggle != nil {
		p.onToggle(enabled)
	}
	return true
}

// Toggle flips the enabled flag and returns the new value.
func (p *Performer) Toggle() bool {
	for {
		cur := p.enabled.Load()
		if p.enabled.CompareAndSwap(cur, !cur) {
			p.logger.Info("hotkeys toggled", "enabled", !cur)
			if p.onToggle != nil {
				p.onToggle(!cur)
			}
			return !cur
		}
	}
}

// Perform runs a single action. Actions other than the toggle are ignored
// while disabled.
func (p *Performer) Perform(ctx context.Context, a Action) error {
	if a == ActionToggle {
		p.Toggle()
		return nil
	}
	if !p.Enabled() {
		p.logger.Debug("action ignored while disabled", "action", a)
		return nil
	}

	if b, ok := a.Button(); ok {
		return p.click(ctx, b, a.MovesToAmount())
	}
	if n, ok := a.SlotNumber(); ok {
		return p.moveToSlot(n)
	}
	return fmt.Errorf("unknown action %v", a)
}

// click focuses the table under the pointer, clicks button b on it and
// then either returns the pointer or parks it on the amount field.
func (p *Performer) click(ctx context.Context, b settings.Button, toAmount bool) error {
	offset, err := p.offset(b)
	if err != nil {
		return err
	}

	original, err := p.pointer.Position()
	if err != nil {
		return fmt.Errorf("read pointer: %w", err)
	}

	origin, ok, err := p.focusedSlotOrigin(ctx)
	if err != nil || !ok {
		return err
	}

	if err := p.pointer.MoveTo(origin.Add(offset)); err != nil {
		return fmt.Errorf("move pointer to %s: %w", b, err)
	}
	if err := p.pause(ctx); err != nil {
		return err
	}
	if err := p.pointer.Click(platform.ButtonLeft); err != nil {
		return fmt.Errorf("click %s: %w", b, err)
	}
	if err := p.pause(ctx); err != nil {
		return err
	}

	target := original
	if toAmount {
		if amount, err := p.offset(settings.ButtonAmount); err == nil {
			target = origin.Add(amount)
		} else {
			p.logger.Warn("amount field not configured, restoring pointer")
		}
	}
	if err := p.pointer.MoveTo(target); err != nil {
		return fmt.Errorf("move pointer: %w", err)
	}
	p.logger.Debug("clicked table button", "button", b, "origin", origin)
	return nil
}

// focusedSlotOrigin left-clicks to focus the table under the pointer and
// returns the origin of its slot. ok is false when the focused window is
// not seated.
func (p *Performer) focusedSlotOrigin(ctx context.Context) (platform.Point, bool, error) {
	if err := p.pointer.Click(platform.ButtonLeft); err != nil {
		return platform.Point{}, false, fmt.Errorf("focus click: %w", err)
	}
	if err := p.pause(ctx); err != nil {
		return platform.Point{}, false, err
	}
	active, err := p.windows.ActiveWindow()
	if err != nil {
		return platform.Point{}, false, fmt.Errorf("read active window: %w", err)
	}
	slot, ok := p.slots.SlotForWindow(active)
	if !ok {
		p.logger.Debug("active window has no slot", "window", active)
		return platform.Point{}, false, nil
	}
	return slot.Origin(), true, nil
}

// moveToSlot warps the pointer to the center of slot n and focuses its
// window.
func (p *Performer) moveToSlot(n int) error {
	slot, ok := p.slots.Slot(settings.SlotID(n))
	if !ok {
		return &slots.SlotError{Op: "move to", SlotID: settings.SlotID(n), Err: slots.ErrInvalidSlotNum}
	}
	if err := p.pointer.MoveTo(slot.Center()); err != nil {
		return fmt.Errorf("move pointer to %s: %w", slot.ID, err)
	}
	if slot.Occupied() {
		if err := p.windows.Activate(slot.Window); err != nil {
			return fmt.Errorf("activate window %d: %w", slot.Window, err)
		}
	}
	return nil
}

func (p *Performer) pause(ctx context.Context) error {
	if p.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(p.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
