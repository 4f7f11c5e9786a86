// Package session inspects environment variables identifying the desktop
// session. The snapshot is used only to order backend probe attempts, never
// to bypass probing.
package session

import (
	"os"
	"strings"
)

// Desktop identifies the desktop environment family
type Desktop string

const (
	DesktopUnknown Desktop = ""
	DesktopGNOME   Desktop = "gnome"
	DesktopKDE     Desktop = "kde"
	DesktopXFCE    Desktop = "xfce"
)

// Session is a point-in-time snapshot of the desktop session
type Session struct {
	Desktop    Desktop
	HasDisplay bool // X11 or Wayland display reachable
	HasBus     bool // D-Bus session bus address present
}

// Detect reads the session snapshot from the environment
func Detect() Session {
	return Session{
		Desktop:    detectDesktop(),
		HasDisplay: os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != "",
		HasBus:     os.Getenv("DBUS_SESSION_BUS_ADDRESS") != "",
	}
}

// Headless returns true when no display server is reachable
func (s Session) Headless() bool {
	return !s.HasDisplay
}

func detectDesktop() Desktop {
	// XDG_CURRENT_DESKTOP may hold a colon-separated list, e.g. "ubuntu:GNOME"
	for _, entry := range strings.Split(os.Getenv("XDG_CURRENT_DESKTOP"), ":") {
		switch strings.ToLower(entry) {
		case "kde", "plasma":
			return DesktopKDE
		case "gnome", "unity", "ubuntu", "cinnamon":
			return DesktopGNOME
		case "xfce":
			return DesktopXFCE
		}
	}
	if os.Getenv("KDE_FULL_SESSION") != "" {
		return DesktopKDE
	}
	if os.Getenv("GNOME_DESKTOP_SESSION_ID") != "" {
		return DesktopGNOME
	}
	return DesktopUnknown
}
