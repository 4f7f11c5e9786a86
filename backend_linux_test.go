//go:build linux

package godialog

import (
	"strings"
	"testing"
)

func TestZenityArgs(t *testing.T) {
	cases := []struct {
		name string
		req  *Request
		want []string
	}{
		{
			name: "open file with filters",
			req: &Request{
				Kind:    KindOpenFile,
				Title:   "Open Image",
				Filters: []Filter{{Label: "Images", Extensions: []string{"png", "jpg"}}},
			},
			want: []string{
				"--file-selection",
				"--file-filter=Images | *.png *.jpg",
				"--title=Open Image",
			},
		},
		{
			name: "multiple selection uses newline separator",
			req:  &Request{Kind: KindOpenFiles},
			want: []string{"--file-selection", "--multiple", "--separator=\n"},
		},
		{
			name: "folder",
			req:  &Request{Kind: KindOpenFolder, DefaultPath: "/home/u"},
			want: []string{"--file-selection", "--directory", "--filename=/home/u"},
		},
		{
			name: "save confirms overwrite",
			req:  &Request{Kind: KindSaveFile},
			want: []string{"--file-selection", "--save", "--confirm-overwrite"},
		},
		{
			name: "question",
			req:  &Request{Kind: KindMessage, Title: "Hm", Text: "Confirm?"},
			want: []string{"--question", "--text=Confirm?", "--title=Hm"},
		},
		{
			name: "color",
			req:  &Request{Kind: KindColor},
			want: []string{"--color-selection"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := zenityArgs(tc.req)
			if len(got) != len(tc.want) {
				t.Fatalf("argv mismatch:\n got  %q\n want %q", got, tc.want)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Errorf("arg %d: got %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestKdialogArgs(t *testing.T) {
	req := &Request{
		Kind:        KindOpenFile,
		Title:       "Open",
		DefaultPath: "/data",
		Filters:     []Filter{{Label: "Images", Extensions: []string{"png", "jpg"}}},
		Options:     Options{AllowMultiple: true},
	}
	got := strings.Join(kdialogArgs(req), " ")

	for _, want := range []string{
		"--title Open",
		"--getopenfilename /data",
		"*.png *.jpg|Images",
		"--multiple --separate-output",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("argv %q missing %q", got, want)
		}
	}

	folder := kdialogArgs(&Request{Kind: KindOpenFolder})
	if folder[0] != "--getexistingdirectory" || folder[1] != "." {
		t.Errorf("unexpected folder argv %q", folder)
	}

	msg := strings.Join(kdialogArgs(&Request{Kind: KindMessage, Text: "Sure?"}), " ")
	if !strings.Contains(msg, "--yesno Sure?") {
		t.Errorf("unexpected message argv %q", msg)
	}
}

func TestProbeHeadlessFindsNothing(t *testing.T) {
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")
	t.Setenv("DBUS_SESSION_BUS_ADDRESS", "")
	t.Setenv(ScriptEnv, "")
	SetScript(nil)

	if backends := probePlatformBackends(); len(backends) != 0 {
		ids := make([]string, 0, len(backends))
		for _, d := range backends {
			ids = append(ids, d.ID)
		}
		t.Errorf("headless probe found backends: %v", ids)
	}

	r := NewRegistry(probePlatformBackends)
	if _, err := r.Select(KindOpenFile); err == nil {
		t.Error("expected an error selecting in a headless session")
	}
}

func TestPortalWindowHandle(t *testing.T) {
	if got := portalWindowHandle(0); got != "" {
		t.Errorf("expected empty handle, got %q", got)
	}
	if got := portalWindowHandle(0x2a00003); got != "x11:2a00003" {
		t.Errorf("unexpected handle %q", got)
	}
}
