package godialog

import (
	"context"
	"errors"
	"testing"
	"time"
)

func delayDescriptor(id string, delay time.Duration, kinds ...Kind) *Descriptor {
	return &Descriptor{
		ID:    id,
		Mode:  InvokeInProcess,
		kinds: kindSet(kinds...),
		call: func(ctx context.Context, req *Request) Result {
			select {
			case <-ctx.Done():
				return cancelled()
			case <-time.After(delay):
				return selected([]string{"/" + id})
			}
		},
	}
}

func newTestBridge(descriptors ...*Descriptor) *Bridge {
	r := NewRegistry(func() []*Descriptor { return descriptors })
	return NewBridge(r, NewInvoker(nil, 0), nil, 2)
}

func waitBounded(t *testing.T, b *Bridge, h Handle, limit time.Duration) Result {
	t.Helper()
	resCh := make(chan Result, 1)
	go func() { resCh <- b.Wait(h) }()
	select {
	case res := <-resCh:
		return res
	case <-time.After(limit):
		t.Fatalf("handle unresolved after %v", limit)
		return Result{}
	}
}

func TestBridgeSubmitAndPoll(t *testing.T) {
	b := newTestBridge(delayDescriptor("quick", 30*time.Millisecond, KindOpenFile))
	defer b.Stop()

	h := b.Submit(&Request{Kind: KindOpenFile})

	deadline := time.Now().Add(2 * time.Second)
	for {
		res, done := b.Poll(h)
		if done {
			if res.Outcome != OutcomeSelected || res.Path() != "/quick" {
				t.Fatalf("unexpected result %s %v (err=%v)", res.Outcome, res.Paths, res.Err)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("Poll never completed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// Handle is released after observation
	res, done := b.Poll(h)
	if !done || !errors.Is(res.Err, ErrUnknownHandle) {
		t.Errorf("expected ErrUnknownHandle after release, got %v", res.Err)
	}
}

func TestBridgeCancelAlwaysResolvesCancelled(t *testing.T) {
	b := newTestBridge(delayDescriptor("slow", 10*time.Second, KindOpenFile))
	defer b.Stop()

	// Submit then immediately cancel, repeatedly, so some cancellations
	// land before the worker starts and some after.
	for i := 0; i < 10; i++ {
		h := b.Submit(&Request{Kind: KindOpenFile})
		b.Cancel(h)
		res := waitBounded(t, b, h, 2*time.Second)
		if !res.Cancelled() {
			t.Fatalf("iteration %d: expected Cancelled, got %s (err=%v)", i, res.Outcome, res.Err)
		}
	}
}

func TestBridgeCancelAfterCompletionIsNoOp(t *testing.T) {
	b := newTestBridge(delayDescriptor("quick", 10*time.Millisecond, KindOpenFile))
	defer b.Stop()

	h := b.Submit(&Request{Kind: KindOpenFile})
	// Wait for completion without observing the handle
	time.Sleep(300 * time.Millisecond)

	b.Cancel(h)
	res := waitBounded(t, b, h, time.Second)
	if res.Outcome != OutcomeSelected {
		t.Fatalf("late Cancel overwrote result: %s (err=%v)", res.Outcome, res.Err)
	}
}

func TestBridgeConcurrentCompletionOrder(t *testing.T) {
	b := newTestBridge(
		delayDescriptor("slow", 300*time.Millisecond, KindOpenFile),
		delayDescriptor("quick", 10*time.Millisecond, KindMessage),
	)
	defer b.Stop()

	slow := b.Submit(&Request{Kind: KindOpenFile})
	quick := b.Submit(&Request{Kind: KindMessage})

	// The later submission may complete first; both must resolve.
	if res := waitBounded(t, b, quick, 2*time.Second); res.Outcome != OutcomeSelected {
		t.Errorf("quick: unexpected %s (err=%v)", res.Outcome, res.Err)
	}
	if res := waitBounded(t, b, slow, 2*time.Second); res.Outcome != OutcomeSelected {
		t.Errorf("slow: unexpected %s (err=%v)", res.Outcome, res.Err)
	}
}

func TestBridgeSelectErrorSurfaces(t *testing.T) {
	b := newTestBridge(delayDescriptor("files", time.Millisecond, KindOpenFile))
	defer b.Stop()

	h := b.Submit(&Request{Kind: KindFont})
	res := waitBounded(t, b, h, 2*time.Second)
	if !res.Failed() || !errors.Is(res.Err, ErrUnsupportedKind) {
		t.Fatalf("expected ErrUnsupportedKind, got %s (err=%v)", res.Outcome, res.Err)
	}
}

func TestBridgeStopResolvesPending(t *testing.T) {
	b := newTestBridge(delayDescriptor("slow", 10*time.Second, KindOpenFile))

	h := b.Submit(&Request{Kind: KindOpenFile})
	time.Sleep(50 * time.Millisecond)
	b.Stop()

	res := waitBounded(t, b, h, 2*time.Second)
	if !res.Cancelled() {
		t.Fatalf("expected Cancelled after Stop, got %s (err=%v)", res.Outcome, res.Err)
	}
}

func TestBridgeUnknownHandle(t *testing.T) {
	b := newTestBridge(delayDescriptor("quick", time.Millisecond, KindOpenFile))
	defer b.Stop()

	res, done := b.Poll(Handle("nope"))
	if !done || !errors.Is(res.Err, ErrUnknownHandle) {
		t.Errorf("expected ErrUnknownHandle, got %v", res.Err)
	}
	b.Cancel(Handle("nope")) // Must not panic
}
