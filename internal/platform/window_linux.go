//go:build linux

package platform

import (
	"encoding/binary"
	"strings"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/deni-m/standupTracker/internal/core/model"
)

// x11Client holds a cached X connection with the atoms the sensors need.
// The connection is re-established lazily after an error.
type x11Client struct {
	mu    sync.Mutex
	conn  *xgb.Conn
	root  xproto.Window
	atoms map[string]xproto.Atom
}

var x11AtomNames = []string{
	"_NET_ACTIVE_WINDOW",
	"_NET_WM_NAME",
	"_NET_WM_STATE",
	"_NET_WM_STATE_FULLSCREEN",
	"WM_NAME",
	"WM_CLASS",
	"UTF8_STRING",
}

func (client *x11Client) ensure() error {
	client.mu.Lock()
	defer client.mu.Unlock()
	if client.conn != nil {
		return nil
	}

	conn, err := xgb.NewConn()
	if err != nil {
		return err
	}
	setup := xproto.Setup(conn)
	root := setup.DefaultScreen(conn).Root

	atoms := make(map[string]xproto.Atom, len(x11AtomNames))
	for _, name := range x11AtomNames {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			conn.Close()
			return err
		}
		atoms[name] = reply.Atom
	}

	client.conn = conn
	client.root = root
	client.atoms = atoms
	return nil
}

func (client *x11Client) reset() {
	client.mu.Lock()
	defer client.mu.Unlock()
	if client.conn != nil {
		client.conn.Close()
		client.conn = nil
	}
}

func (client *x11Client) property(window xproto.Window, atom, atomType xproto.Atom, length uint32) ([]byte, error) {
	reply, err := xproto.GetProperty(client.conn, false, window, atom, atomType, 0, length).Reply()
	if err != nil {
		return nil, err
	}
	return reply.Value, nil
}

func (client *x11Client) activeWindow() xproto.Window {
	data, err := client.property(client.root, client.atoms["_NET_ACTIVE_WINDOW"], xproto.AtomWindow, 1)
	if err != nil || len(data) < 4 {
		return 0
	}
	return xproto.Window(binary.LittleEndian.Uint32(data))
}

func (client *x11Client) windowName(window xproto.Window) string {
	data, err := client.property(window, client.atoms["_NET_WM_NAME"], client.atoms["UTF8_STRING"], 256)
	if err == nil && len(data) > 0 {
		return strings.TrimRight(string(data), "\x00")
	}
	data, err = client.property(window, client.atoms["WM_NAME"], xproto.AtomString, 256)
	if err == nil && len(data) > 0 {
		return strings.TrimRight(string(data), "\x00")
	}
	return ""
}

func (client *x11Client) windowClass(window xproto.Window) string {
	data, err := client.property(window, client.atoms["WM_CLASS"], xproto.AtomString, 256)
	if err != nil || len(data) == 0 {
		return ""
	}
	parts := strings.Split(strings.TrimRight(string(data), "\x00"), "\x00")
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// isFullscreen reports whether the active window carries the fullscreen
// window-manager state.
func (client *x11Client) isFullscreen(window xproto.Window) bool {
	data, err := client.property(window, client.atoms["_NET_WM_STATE"], xproto.AtomAtom, 32)
	if err != nil {
		return false
	}
	fullscreen := client.atoms["_NET_WM_STATE_FULLSCREEN"]
	for offset := 0; offset+4 <= len(data); offset += 4 {
		if xproto.Atom(binary.LittleEndian.Uint32(data[offset:])) == fullscreen {
			return true
		}
	}
	return false
}

var sharedX11 x11Client

type windowSensor struct{}

func newWindowSensor() WindowSensor {
	return &windowSensor{}
}

func (sensor *windowSensor) CaptureActiveSample() (*model.ActiveSample, error) {
	if err := sharedX11.ensure(); err != nil {
		return nil, err
	}

	window := sharedX11.activeWindow()
	if window == 0 {
		sharedX11.reset()
		return nil, nil
	}

	title := sharedX11.windowName(window)
	process := sharedX11.windowClass(window)
	if title == "" && process == "" {
		return nil, nil
	}

	return &model.ActiveSample{
		Process: process,
		Title:   title,
	}, nil
}

// activeWindowFullscreen reports whether the currently focused window is
// fullscreen. Used by the presentation sensor.
func activeWindowFullscreen() bool {
	if err := sharedX11.ensure(); err != nil {
		return false
	}
	window := sharedX11.activeWindow()
	if window == 0 {
		return false
	}
	return sharedX11.isFullscreen(window)
}
