package godialog

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newScriptedKit(t *testing.T, src string) *Kit {
	t.Helper()
	SetScript([]byte(src))
	t.Cleanup(func() { SetScript(nil) })

	k := New(&Config{
		Timeout: 5 * time.Second,
		Probe: func() []*Descriptor {
			if d := scriptedDescriptor(); d != nil {
				return []*Descriptor{d}
			}
			return nil
		},
	})
	t.Cleanup(k.Close)
	return k
}

func TestKitShow(t *testing.T) {
	k := newScriptedKit(t, `
outcome = "selected"
paths = ["/tmp/out.txt"]
`)

	res := k.Show(context.Background(), &Request{Kind: KindSaveFile, Title: "Save"})
	if res.Outcome != OutcomeSelected || res.Path() != "/tmp/out.txt" {
		t.Fatalf("unexpected result %s %v (err=%v)", res.Outcome, res.Paths, res.Err)
	}
}

func TestKitShowAsync(t *testing.T) {
	k := newScriptedKit(t, `outcome = "confirmed"`)

	h := k.ShowAsync(&Request{Kind: KindMessage, Text: "Proceed?"})
	res := k.Wait(h)
	if res.Outcome != OutcomeConfirmed || !res.Confirmed {
		t.Fatalf("unexpected result %s (err=%v)", res.Outcome, res.Err)
	}

	// Observed handles are released
	res, done := k.Poll(h)
	if !done || !errors.Is(res.Err, ErrUnknownHandle) {
		t.Errorf("expected ErrUnknownHandle after Wait, got %v", res.Err)
	}
}

func TestKitNoBackend(t *testing.T) {
	k := New(&Config{Probe: func() []*Descriptor { return nil }})
	defer k.Close()

	res := k.Show(context.Background(), &Request{Kind: KindOpenFile})
	if !res.Failed() || !errors.Is(res.Err, ErrNoBackend) {
		t.Fatalf("expected ErrNoBackend, got %s (err=%v)", res.Outcome, res.Err)
	}
}

func TestKitBackendsListed(t *testing.T) {
	k := newScriptedKit(t, `outcome = "cancelled"`)

	backends, err := k.Registry().Backends()
	if err != nil {
		t.Fatal(err)
	}
	if len(backends) != 1 || backends[0].ID != backendScript {
		t.Fatalf("unexpected backends %v", backends)
	}
}
