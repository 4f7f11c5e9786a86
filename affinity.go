package godialog

import (
	"log"
	"runtime"
	"sync"
)

type guardedCall struct {
	fn   func() error
	done chan error
}

// Guard enforces UI-thread affinity for in-process backends. A captured
// guard remembers the OS thread it was created on and marshals closures
// there through a call queue serviced by Serve. A pass-through guard (the
// default on platforms whose backends are external processes) runs
// everything inline.
type Guard struct {
	required bool
	tid      uint64
	calls    chan guardedCall

	mu      sync.Mutex
	serving bool
	stop    chan struct{}
}

// PassthroughGuard returns a guard with no thread requirement
func PassthroughGuard() *Guard {
	return &Guard{}
}

// CaptureGuard pins the calling goroutine to its OS thread and returns a
// guard that marshals work back to that thread. Call it from the UI thread
// (the main goroutine in most GUI programs), then keep that goroutine in
// Serve while dialogs are in flight.
func CaptureGuard() *Guard {
	runtime.LockOSThread()
	return &Guard{
		required: true,
		tid:      currentThreadID(),
		calls:    make(chan guardedCall),
	}
}

// Required returns true if the guard enforces a thread requirement
func (g *Guard) Required() bool {
	return g.required
}

// OnRequiredThread returns true if the caller may run guarded work inline.
// The check is meaningful only when the calling goroutine is locked to its
// OS thread, which holds for the captured thread itself.
func (g *Guard) OnRequiredThread() bool {
	if !g.required {
		return true
	}
	return currentThreadID() == g.tid
}

// Serve services marshalled calls. It must run on the captured thread and
// blocks until Stop is called. Calling Serve on a pass-through guard is a
// no-op.
func (g *Guard) Serve() {
	if !g.required {
		return
	}
	if !g.OnRequiredThread() {
		log.Printf("Warning: Guard.Serve called off the captured thread")
	}

	g.mu.Lock()
	if g.serving {
		g.mu.Unlock()
		return
	}
	g.serving = true
	g.stop = make(chan struct{})
	stop := g.stop
	g.mu.Unlock()

	for {
		select {
		case c := <-g.calls:
			c.done <- c.fn()
		case <-stop:
			return
		}
	}
}

// Stop unblocks Serve
func (g *Guard) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.serving {
		return
	}
	g.serving = false
	close(g.stop)
}

// Run executes fn on the required thread and returns its error. When the
// caller is already on that thread (or the guard is pass-through) fn runs
// inline, so Run never deadlocks when called from the required thread.
func (g *Guard) Run(fn func() error) error {
	if g.OnRequiredThread() {
		return fn()
	}
	c := guardedCall{fn: fn, done: make(chan error, 1)}
	g.calls <- c
	return <-c.done
}
