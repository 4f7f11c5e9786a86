//go:build linux

// Package portal talks to the xdg-desktop-portal FileChooser over the D-Bus
// session bus. It is sandbox-safe: Flatpak and Snap sessions route file
// dialogs through the portal regardless of which toolkit renders them.
package portal

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
)

const (
	busName       = "org.freedesktop.portal.Desktop"
	objectPath    = "/org/freedesktop/portal/desktop"
	fileChooser   = "org.freedesktop.portal.FileChooser"
	requestIface  = "org.freedesktop.portal.Request"
	responseOK    = uint32(0)
	responseUser  = uint32(1) // User cancelled
	responseOther = uint32(2)
)

// ErrCancelled reports that the user dismissed the portal dialog
var ErrCancelled = errors.New("portal dialog cancelled")

// Filter restricts the file chooser to a set of extensions
type Filter struct {
	Label      string
	Extensions []string
}

// OpenOptions configures an OpenFile portal call
type OpenOptions struct {
	Title         string
	ParentWindow  string
	Multiple      bool
	Directory     bool
	CurrentFolder string
	Filters       []Filter
}

// SaveOptions configures a SaveFile portal call
type SaveOptions struct {
	Title         string
	ParentWindow  string
	CurrentName   string
	CurrentFolder string
	Filters       []Filter
}

// Available reports whether the portal service is reachable on the session
// bus. Used as a probe; a false result never raises an error. A private
// connection is opened per call: the shared dbus.SessionBus connection must
// never be closed, and an embedding app may be using it.
func Available() bool {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return false
	}
	defer conn.Close()

	var owned bool
	obj := conn.Object("org.freedesktop.DBus", "/org/freedesktop/DBus")
	if err := obj.Call("org.freedesktop.DBus.NameHasOwner", 0, busName).Store(&owned); err != nil {
		return false
	}
	if owned {
		return true
	}
	// The portal service is activatable on demand
	var names []string
	if err := obj.Call("org.freedesktop.DBus.ListActivatableNames", 0).Store(&names); err != nil {
		return false
	}
	for _, n := range names {
		if n == busName {
			return true
		}
	}
	return false
}

// OpenFile shows the portal open dialog and returns the selected paths
func OpenFile(ctx context.Context, opts OpenOptions) ([]string, error) {
	options := map[string]dbus.Variant{
		"multiple":  dbus.MakeVariant(opts.Multiple),
		"directory": dbus.MakeVariant(opts.Directory),
	}
	if opts.CurrentFolder != "" {
		options["current_folder"] = dbus.MakeVariant(nullTerminated(opts.CurrentFolder))
	}
	if len(opts.Filters) > 0 {
		options["filters"] = buildFilters(opts.Filters)
	}
	return call(ctx, fileChooser+".OpenFile", opts.ParentWindow, opts.Title, options)
}

// SaveFile shows the portal save dialog and returns the chosen path
func SaveFile(ctx context.Context, opts SaveOptions) ([]string, error) {
	options := map[string]dbus.Variant{}
	if opts.CurrentName != "" {
		options["current_name"] = dbus.MakeVariant(opts.CurrentName)
	}
	if opts.CurrentFolder != "" {
		options["current_folder"] = dbus.MakeVariant(nullTerminated(opts.CurrentFolder))
	}
	if len(opts.Filters) > 0 {
		options["filters"] = buildFilters(opts.Filters)
	}
	return call(ctx, fileChooser+".SaveFile", opts.ParentWindow, opts.Title, options)
}

type filterRule struct {
	Type    uint32
	Pattern string
}

type filterEntry struct {
	Name  string
	Rules []filterRule
}

func buildFilters(filters []Filter) dbus.Variant {
	entries := make([]filterEntry, 0, len(filters))
	for _, f := range filters {
		rules := make([]filterRule, 0, len(f.Extensions))
		for _, ext := range f.Extensions {
			ext = strings.TrimPrefix(ext, ".")
			pattern := "*." + ext
			if ext == "*" {
				pattern = "*"
			}
			rules = append(rules, filterRule{Type: 0, Pattern: pattern})
		}
		entries = append(entries, filterEntry{Name: f.Label, Rules: rules})
	}
	return dbus.MakeVariant(entries)
}

// requestToken generates a random handle token for the Request object path
func requestToken() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "godialog_token_1"
	}
	return "godialog_" + hex.EncodeToString(b)
}

// current_folder is an "ay" (bytes) option and must be NUL-terminated
func nullTerminated(s string) []byte {
	return append([]byte(s), 0)
}

// requestPath derives the Request object path the portal will use for our
// handle_token, so the Response signal can be subscribed before the method
// call (the response may arrive before the call returns)
func requestPath(sender, token string) dbus.ObjectPath {
	sender = strings.TrimPrefix(sender, ":")
	sender = strings.ReplaceAll(sender, ".", "_")
	return dbus.ObjectPath(objectPath + "/request/" + sender + "/" + token)
}

func call(ctx context.Context, method, parent, title string, options map[string]dbus.Variant) ([]string, error) {
	// A private connection per dialog: concurrent calls must not share a
	// signal stream, and the process-wide shared connection must never be
	// closed out from under an embedding app.
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect to session bus: %w", err)
	}
	defer conn.Close()

	token := requestToken()
	options["handle_token"] = dbus.MakeVariant(token)

	expected := requestPath(conn.Names()[0], token)
	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(expected),
		dbus.WithMatchInterface(requestIface),
		dbus.WithMatchMember("Response"),
	); err != nil {
		return nil, fmt.Errorf("subscribe to portal response: %w", err)
	}

	signals := make(chan *dbus.Signal, 10)
	conn.Signal(signals)
	defer conn.RemoveSignal(signals)

	obj := conn.Object(busName, objectPath)
	var handle dbus.ObjectPath
	if err := obj.CallWithContext(ctx, method, 0, parent, title, options).Store(&handle); err != nil {
		return nil, fmt.Errorf("portal call %s: %w", method, err)
	}
	if handle != expected {
		// Old portal versions ignore handle_token; follow the returned path
		if err := conn.AddMatchSignal(
			dbus.WithMatchObjectPath(handle),
			dbus.WithMatchInterface(requestIface),
			dbus.WithMatchMember("Response"),
		); err != nil {
			return nil, fmt.Errorf("subscribe to portal response: %w", err)
		}
		expected = handle
	}

	for {
		select {
		case <-ctx.Done():
			// Ask the portal to dismiss the dialog before giving up
			conn.Object(busName, expected).Call(requestIface+".Close", 0)
			return nil, ErrCancelled

		case sig, ok := <-signals:
			if !ok {
				return nil, errors.New("portal signal channel closed")
			}
			if sig.Path != expected || sig.Name != requestIface+".Response" {
				continue
			}
			return decodeResponse(sig)
		}
	}
}

func decodeResponse(sig *dbus.Signal) ([]string, error) {
	if len(sig.Body) < 2 {
		return nil, errors.New("unexpected portal signal body")
	}
	response, ok := sig.Body[0].(uint32)
	if !ok {
		return nil, fmt.Errorf("unexpected portal response type %T", sig.Body[0])
	}
	if response == responseUser {
		return nil, ErrCancelled
	}
	if response != responseOK {
		return nil, fmt.Errorf("portal response code %d", response)
	}
	results, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		return nil, fmt.Errorf("unexpected portal results type %T", sig.Body[1])
	}
	uris, _ := results["uris"].Value().([]string)
	paths := make([]string, 0, len(uris))
	for _, u := range uris {
		paths = append(paths, strings.TrimPrefix(u, "file://"))
	}
	return paths, nil
}
