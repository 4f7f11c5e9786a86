//go:build linux

package portal

import (
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
)

func TestRequestPath(t *testing.T) {
	got := requestPath(":1.42", "godialog_ab12")
	want := dbus.ObjectPath("/org/freedesktop/portal/desktop/request/1_42/godialog_ab12")
	if got != want {
		t.Errorf("requestPath = %q, want %q", got, want)
	}
}

func TestDecodeResponse(t *testing.T) {
	cancel := &dbus.Signal{Body: []interface{}{
		responseUser, map[string]dbus.Variant{},
	}}
	if _, err := decodeResponse(cancel); !errors.Is(err, ErrCancelled) {
		t.Errorf("expected ErrCancelled, got %v", err)
	}

	ok := &dbus.Signal{Body: []interface{}{
		responseOK, map[string]dbus.Variant{
			"uris": dbus.MakeVariant([]string{"file:///tmp/a.png", "file:///tmp/b.png"}),
		},
	}}
	paths, err := decodeResponse(ok)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 || paths[0] != "/tmp/a.png" || paths[1] != "/tmp/b.png" {
		t.Errorf("unexpected paths %v", paths)
	}

	other := &dbus.Signal{Body: []interface{}{
		responseOther, map[string]dbus.Variant{},
	}}
	if _, err := decodeResponse(other); err == nil || errors.Is(err, ErrCancelled) {
		t.Errorf("expected a non-cancel error, got %v", err)
	}
}

func TestNullTerminated(t *testing.T) {
	b := nullTerminated("/home/u")
	if len(b) == 0 || b[len(b)-1] != 0 {
		t.Errorf("missing NUL terminator: %q", b)
	}
}
