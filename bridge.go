package godialog

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// DefaultWorkers is the bridge worker pool size. Native dialogs run
// independently, so a small pool is enough.
const DefaultWorkers = 4

// Handle identifies one in-flight asynchronous dialog call
type Handle string

// pendingCall tracks one submitted request until the caller observes or
// cancels it. The result slot is written at most once.
type pendingCall struct {
	req    *Request
	ctx    context.Context
	cancel context.CancelFunc

	once     sync.Once
	result   Result
	resolved chan struct{}
}

func (p *pendingCall) resolve(r Result) {
	p.once.Do(func() {
		p.result = r
		close(p.resolved)
	})
}

// Bridge executes Invoker calls on a worker pool so submitting contexts are
// never blocked. Results are delivered per handle; concurrent submissions
// may complete out of order.
type Bridge struct {
	registry *Registry
	invoker  *Invoker
	guard    *Guard

	jobs chan Handle

	mu       sync.Mutex
	pending  map[Handle]*pendingCall
	running  bool
	stopChan chan struct{}
	workers  int
}

// NewBridge creates a bridge over the given registry and invoker. workers
// <= 0 uses DefaultWorkers.
func NewBridge(registry *Registry, invoker *Invoker, guard *Guard, workers int) *Bridge {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if guard == nil {
		guard = PassthroughGuard()
	}
	return &Bridge{
		registry: registry,
		invoker:  invoker,
		guard:    guard,
		jobs:     make(chan Handle, workers),
		pending:  make(map[Handle]*pendingCall),
		workers:  workers,
	}
}

// Submit queues a dialog call and returns immediately
func (b *Bridge) Submit(req *Request) Handle {
	ctx, cancel := context.WithCancel(context.Background())
	p := &pendingCall{
		req:      req,
		ctx:      ctx,
		cancel:   cancel,
		resolved: make(chan struct{}),
	}
	h := Handle(uuid.NewString())

	b.mu.Lock()
	if !b.running {
		b.running = true
		b.stopChan = make(chan struct{})
		for i := 0; i < b.workers; i++ {
			go b.work()
		}
	}
	b.pending[h] = p
	b.mu.Unlock()

	go func() {
		select {
		case b.jobs <- h:
		case <-ctx.Done():
			p.resolve(cancelled())
		}
	}()
	return h
}

// Poll returns the result if the call has completed. The handle is released
// once its result has been observed.
func (b *Bridge) Poll(h Handle) (Result, bool) {
	b.mu.Lock()
	p, ok := b.pending[h]
	b.mu.Unlock()
	if !ok {
		return failed(ErrUnknownHandle), true
	}

	select {
	case <-p.resolved:
		b.release(h)
		return p.result, true
	default:
		return Result{}, false
	}
}

// Wait blocks until the call completes and returns its result
func (b *Bridge) Wait(h Handle) Result {
	b.mu.Lock()
	p, ok := b.pending[h]
	b.mu.Unlock()
	if !ok {
		return failed(ErrUnknownHandle)
	}
	<-p.resolved
	b.release(h)
	return p.result
}

// Cancel aborts an in-flight call. The result slot always resolves to
// Cancelled; cancelling a completed call is a no-op. External-process
// backends have their subprocess killed; in-process backends are
// best-effort — the native call may run to completion and its result is
// then discarded.
func (b *Bridge) Cancel(h Handle) {
	b.mu.Lock()
	p, ok := b.pending[h]
	b.mu.Unlock()
	if !ok {
		return
	}
	p.resolve(cancelled())
	p.cancel()
}

// Stop shuts down the worker pool. Every unobserved call resolves to
// Cancelled, so no handle is ever left unresolved.
func (b *Bridge) Stop() {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return
	}
	b.running = false
	close(b.stopChan)
	pending := make([]*pendingCall, 0, len(b.pending))
	for _, p := range b.pending {
		pending = append(pending, p)
	}
	b.mu.Unlock()

	for _, p := range pending {
		p.resolve(cancelled())
		p.cancel()
	}
}

func (b *Bridge) release(h Handle) {
	b.mu.Lock()
	if p, ok := b.pending[h]; ok {
		p.cancel()
		delete(b.pending, h)
	}
	b.mu.Unlock()
}

func (b *Bridge) work() {
	for {
		select {
		case h := <-b.jobs:
			b.execute(h)
		case <-b.stopChan:
			return
		}
	}
}

func (b *Bridge) execute(h Handle) {
	b.mu.Lock()
	p, ok := b.pending[h]
	b.mu.Unlock()
	if !ok {
		return
	}

	select {
	case <-p.resolved:
		// Cancelled before the worker picked it up
		return
	default:
	}

	d, err := b.registry.Select(p.req.Kind)
	if err != nil {
		p.resolve(failed(err))
		return
	}

	var res Result
	if d.Mode == InvokeInProcess && d.RequiresUIThread {
		// Marshal to the UI thread; the guard's Serve loop runs there
		_ = b.guard.Run(func() error {
			res = b.invoker.Invoke(p.ctx, d, p.req)
			return nil
		})
	} else {
		res = b.invoker.Invoke(p.ctx, d, p.req)
	}
	p.resolve(res)
}
