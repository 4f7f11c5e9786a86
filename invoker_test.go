//go:build !windows

package godialog

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"
)

// shDescriptor fakes an external backend with a shell one-liner standing in
// for the dialog tool
func shDescriptor(id string, script string, kinds ...Kind) *Descriptor {
	return &Descriptor{
		ID:    id,
		Mode:  InvokeExternal,
		Tool:  "/bin/sh",
		kinds: kindSet(kinds...),
		args: func(req *Request) []string {
			return []string{"-c", script}
		},
	}
}

func TestInvokeExternalSelected(t *testing.T) {
	d := shDescriptor("stub", `printf '/tmp/a.png\n'`, KindOpenFile)
	iv := NewInvoker(nil, 0)

	req := &Request{
		Kind:    KindOpenFile,
		Title:   "Open",
		Filters: []Filter{{Label: "Images", Extensions: []string{"png", "jpg"}}},
	}
	res := iv.Invoke(context.Background(), d, req)
	if res.Outcome != OutcomeSelected {
		t.Fatalf("expected Selected, got %s (err=%v)", res.Outcome, res.Err)
	}
	if len(res.Paths) != 1 || res.Paths[0] != "/tmp/a.png" {
		t.Errorf("expected [/tmp/a.png], got %v", res.Paths)
	}
}

func TestInvokeExternalCancelCode(t *testing.T) {
	d := shDescriptor("stub", `exit 1`, KindMessage)
	iv := NewInvoker(nil, 0)

	res := iv.Invoke(context.Background(), d, &Request{Kind: KindMessage, Text: "Confirm?"})
	if !res.Cancelled() {
		t.Fatalf("expected Cancelled, got %s (err=%v)", res.Outcome, res.Err)
	}
}

func TestInvokeExternalBackendError(t *testing.T) {
	d := shDescriptor("stub", `echo boom >&2; exit 3`, KindOpenFile)
	iv := NewInvoker(nil, 0)

	res := iv.Invoke(context.Background(), d, &Request{Kind: KindOpenFile})
	if !res.Failed() {
		t.Fatalf("expected Failed, got %s", res.Outcome)
	}
	var be *BackendError
	if !errors.As(res.Err, &be) {
		t.Fatalf("expected BackendError, got %v", res.Err)
	}
	if be.Code != 3 || be.Detail != "boom" {
		t.Errorf("unexpected backend error %+v", be)
	}
}

func TestInvokeExternalTimeout(t *testing.T) {
	d := shDescriptor("hang", `sleep 5`, KindOpenFile)
	iv := NewInvoker(nil, 1*time.Second)

	start := time.Now()
	res := iv.Invoke(context.Background(), d, &Request{Kind: KindOpenFile})
	elapsed := time.Since(start)

	if !res.Failed() || !errors.Is(res.Err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %s (err=%v)", res.Outcome, res.Err)
	}
	// Invoke returns only after the subprocess has been killed and reaped,
	// so a bounded elapsed time proves the sleep did not run to completion.
	if elapsed < 900*time.Millisecond || elapsed > 1500*time.Millisecond {
		t.Errorf("timeout fired after %v, expected between 1s and 1.5s", elapsed)
	}
}

func TestInvokeExternalTimeoutKillsProcessGroup(t *testing.T) {
	// The stub forks a child that inherits the output pipes. Invoke must
	// still return on time: the whole process group is killed, so Wait is
	// not held hostage by descendants of the direct child.
	d := shDescriptor("hang", `sleep 5 & wait`, KindOpenFile)
	iv := NewInvoker(nil, 1*time.Second)

	start := time.Now()
	res := iv.Invoke(context.Background(), d, &Request{Kind: KindOpenFile})
	elapsed := time.Since(start)

	if !res.Failed() || !errors.Is(res.Err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %s (err=%v)", res.Outcome, res.Err)
	}
	if elapsed > 1500*time.Millisecond {
		t.Errorf("Invoke returned after %v; forked children were not killed", elapsed)
	}
}

func TestInvokeExternalCancellation(t *testing.T) {
	d := shDescriptor("hang", `sleep 5`, KindOpenFile)
	iv := NewInvoker(nil, 0)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	res := iv.Invoke(ctx, d, &Request{Kind: KindOpenFile})
	if !res.Cancelled() {
		t.Fatalf("expected Cancelled, got %s (err=%v)", res.Outcome, res.Err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancellation took %v, subprocess apparently not killed", elapsed)
	}
}

func TestInvokeUnsupportedKind(t *testing.T) {
	d := shDescriptor("stub", `exit 0`, KindOpenFile)
	iv := NewInvoker(nil, 0)

	res := iv.Invoke(context.Background(), d, &Request{Kind: KindFont})
	if !res.Failed() || !errors.Is(res.Err, ErrUnsupportedKind) {
		t.Fatalf("expected ErrUnsupportedKind, got %s (err=%v)", res.Outcome, res.Err)
	}
}

func TestInvokeWrongThread(t *testing.T) {
	// Pin the test goroutine so it cannot share an OS thread with the
	// guard's captured thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	guardCh := make(chan *Guard)
	go func() {
		g := CaptureGuard()
		guardCh <- g
		g.Serve()
	}()
	g := <-guardCh
	defer g.Stop()

	d := &Descriptor{
		ID:               "native-stub",
		Mode:             InvokeInProcess,
		RequiresUIThread: true,
		kinds:            kindSet(KindOpenFile),
		call: func(ctx context.Context, req *Request) Result {
			return selected([]string{"/native"})
		},
	}

	iv := NewInvoker(g, 0)
	res := iv.Invoke(context.Background(), d, &Request{Kind: KindOpenFile})
	if !res.Failed() || !errors.Is(res.Err, ErrWrongThread) {
		t.Fatalf("expected ErrWrongThread, got %s (err=%v)", res.Outcome, res.Err)
	}

	// The same call marshalled through the guard succeeds
	var marshalled Result
	if err := g.Run(func() error {
		marshalled = iv.Invoke(context.Background(), d, &Request{Kind: KindOpenFile})
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if marshalled.Outcome != OutcomeSelected {
		t.Fatalf("expected Selected via guard, got %s (err=%v)", marshalled.Outcome, marshalled.Err)
	}
}
