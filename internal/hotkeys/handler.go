package hotkeys

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Dispatcher accepts actions from the X event loop.
type Dispatcher interface {
	Submit(a Action) bool
}

// x11Accessor is implemented by backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler owns the global key and mouse button grabs.
type Handler struct {
	xu       *xgbutil.XUtil
	root     xproto.Window
	dispatch Dispatcher
	logger   *slog.Logger

	mu     sync.Mutex
	active Bindings
}

var ignoreModsOnce sync.Once

// NewHandler creates a handler. backend must expose an X11 connection.
func NewHandler(backend any, dispatch Dispatcher, logger *slog.Logger) (*Handler, error) {
	accessor, ok := backend.(x11Accessor)
	if !ok || accessor.XUtil() == nil {
		return nil, errors.New("hotkeys need an X11 backend")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	xu := accessor.XUtil()

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:       xu,
		root:     accessor.RootWindow(),
		dispatch: dispatch,
		logger:   logger,
	}, nil
}

// Register replaces the current grabs with bindings. When toggleOnly is
// set only the ENABLE_DISABLE binding is grabbed, which hands every other
// key and button back to the applications.
func (h *Handler) Register(bindings Bindings, toggleOnly bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.detach()

	var errs []error
	active := make(Bindings)
	for action, b := range bindings {
		if toggleOnly && action != ActionToggle {
			continue
		}
		if err := h.grab(action, b); err != nil {
			errs = append(errs, fmt.Errorf("%s (%s): %w", action, b.Option, err))
			continue
		}
		active[action] = b
	}
	h.active = active
	h.logger.Debug("hotkeys registered", "count", len(active), "toggle_only", toggleOnly)
	return errors.Join(errs...)
}

// Unregister drops every grab.
func (h *Handler) Unregister() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detach()
	h.active = nil
}

// Active returns the bindings currently grabbed.
func (h *Handler) Active() Bindings {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make(Bindings, len(h.active))
	for a, b := range h.active {
		out[a] = b
	}
	return out
}

func (h *Handler) detach() {
	keybind.Detach(h.xu, h.root)
	mousebind.Detach(h.xu, h.root)
}

func (h *Handler) grab(action Action, b Binding) error {
	switch b.Kind {
	case KindKey:
		return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
			h.fire(action)
		}).Connect(h.xu, h.root, b.Sequence(), true)

	case KindMouse:
		// Grabbing on the root window keeps the press away from the
		// window under the pointer.
		return mousebind.ButtonPressFun(func(xu *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
			h.fire(action)
		}).Connect(h.xu, h.root, b.Sequence(), false, true)

	default:
		return nil
	}
}

func (h *Handler) fire(action Action) {
	h.logger.Debug("hotkey pressed", "action", action)
	h.dispatch.Submit(action)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
