package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgb/xtest"
)

// PointerState is the root-relative pointer position and button mask.
type PointerState struct {
	X    int
	Y    int
	Mask uint16
}

// QueryPointer reads the pointer position and the held-button mask.
func (c *Connection) QueryPointer() (PointerState, error) {
	reply, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return PointerState{}, fmt.Errorf("query pointer: %w", err)
	}
	return PointerState{X: int(reply.RootX), Y: int(reply.RootY), Mask: reply.Mask}, nil
}

// WarpPointer moves the pointer to an absolute root position.
func (c *Connection) WarpPointer(x, y int) error {
	err := xproto.WarpPointerChecked(
		c.XUtil.Conn(),
		xproto.WindowNone, c.Root,
		0, 0, 0, 0,
		int16(x), int16(y),
	).Check()
	if err != nil {
		return fmt.Errorf("warp pointer to %d,%d: %w", x, y, err)
	}
	return nil
}

// FakeClick sends a press/release pair for button through XTEST at the
// current pointer position.
func (c *Connection) FakeClick(button byte) error {
	if err := c.RequireXTest(); err != nil {
		return err
	}
	conn := c.XUtil.Conn()
	for _, typ := range []byte{xproto.ButtonPress, xproto.ButtonRelease} {
		err := xtest.FakeInputChecked(conn, typ, button, xproto.TimeCurrentTime, c.Root, 0, 0, 0).Check()
		if err != nil {
			return fmt.Errorf("fake button %d event %d: %w", button, typ, err)
		}
	}
	c.XUtil.Sync()
	return nil
}

// ButtonMask returns the QueryPointer mask bit for an X button number.
// Buttons above 5 have no mask bit and always report 0.
func ButtonMask(button byte) uint16 {
	switch button {
	case 1:
		return xproto.KeyButMaskButton1
	case 2:
		return xproto.KeyButMaskButton2
	case 3:
		return xproto.KeyButMaskButton3
	case 4:
		return xproto.KeyButMaskButton4
	case 5:
		return xproto.KeyButMaskButton5
	default:
		return 0
	}
}
