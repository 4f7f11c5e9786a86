// Package godialog opens native operating-system dialogs (file pickers,
// message boxes, color and font pickers) and bridges their results back to
// the caller as typed values.
//
// The package probes the running platform and desktop session once, picks
// the best available backend (Cocoa panels, the xdg-desktop-portal file
// chooser, zenity/kdialog, PowerShell WinForms, or a configured Tengo
// script) and invokes it with correct thread affinity. Callers in
// event-loop programs use ShowAsync/Poll so they are never blocked.
package godialog

import (
	"context"
	"sync"
	"time"
)

// Config holds settings for a Kit
type Config struct {
	// Timeout bounds external-process invocations; 0 disables it.
	// In-process native dialogs are never subject to a timeout.
	Timeout time.Duration

	// Workers sets the async worker pool size; 0 uses DefaultWorkers
	Workers int

	// Guard supplies UI-thread affinity. GUI programs on platforms with a
	// mandated thread (macOS) should pass CaptureGuard() created on the
	// main thread and keep that thread in Guard.Serve. Nil means no
	// affinity requirement, which is correct for external-process backends.
	Guard *Guard

	// Probe overrides backend discovery; nil uses the platform default
	Probe ProbeFunc
}

// Kit bundles the registry, invoker, guard and bridge into one usable
// instance. The zero-config Default kit suits most programs; embedders with
// their own event loop construct a Kit explicitly.
type Kit struct {
	registry *Registry
	invoker  *Invoker
	guard    *Guard
	bridge   *Bridge
}

// New creates a Kit. A nil config uses defaults.
func New(cfg *Config) *Kit {
	if cfg == nil {
		cfg = &Config{}
	}
	guard := cfg.Guard
	if guard == nil {
		guard = PassthroughGuard()
	}
	registry := NewRegistry(cfg.Probe)
	invoker := NewInvoker(guard, cfg.Timeout)
	return &Kit{
		registry: registry,
		invoker:  invoker,
		guard:    guard,
		bridge:   NewBridge(registry, invoker, guard, cfg.Workers),
	}
}

// Show displays the dialog and blocks until it produces a result. Backends
// that require the UI thread must be called from it (use ShowAsync with a
// captured guard otherwise; the call is rejected with ErrWrongThread, never
// silently rescheduled).
func (k *Kit) Show(ctx context.Context, req *Request) Result {
	d, err := k.registry.Select(req.Kind)
	if err != nil {
		return failed(err)
	}
	return k.invoker.Invoke(ctx, d, req)
}

// ShowAsync queues the dialog on the bridge and returns a pollable handle
func (k *Kit) ShowAsync(req *Request) Handle {
	return k.bridge.Submit(req)
}

// Poll returns the async result once available
func (k *Kit) Poll(h Handle) (Result, bool) {
	return k.bridge.Poll(h)
}

// Wait blocks until the async result is available
func (k *Kit) Wait(h Handle) Result {
	return k.bridge.Wait(h)
}

// Cancel aborts an in-flight async call; its handle resolves to Cancelled
func (k *Kit) Cancel(h Handle) {
	k.bridge.Cancel(h)
}

// Registry exposes the backend registry (inspection, Invalidate)
func (k *Kit) Registry() *Registry {
	return k.registry
}

// Guard returns the kit's affinity guard
func (k *Kit) Guard() *Guard {
	return k.guard
}

// Close stops the worker pool and unblocks the guard's Serve loop
func (k *Kit) Close() {
	k.bridge.Stop()
	k.guard.Stop()
}

var (
	defaultKit  *Kit
	defaultOnce sync.Once
)

// Default returns the process-wide Kit, created on first use
func Default() *Kit {
	defaultOnce.Do(func() {
		defaultKit = New(nil)
	})
	return defaultKit
}

// Show displays a dialog through the default kit and blocks for the result
func Show(req *Request) Result {
	return Default().Show(context.Background(), req)
}

// ShowAsync queues a dialog through the default kit
func ShowAsync(req *Request) Handle {
	return Default().ShowAsync(req)
}
