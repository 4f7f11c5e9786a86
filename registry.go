package godialog

import (
	"context"
	"log"
	"sort"
	"sync"
)

// InvocationMode distinguishes how a backend is driven
type InvocationMode int

const (
	// InvokeExternal spawns a helper process and captures its output
	InvokeExternal InvocationMode = iota
	// InvokeInProcess calls into the platform directly
	InvokeInProcess
)

func (m InvocationMode) String() string {
	if m == InvokeInProcess {
		return "in-process"
	}
	return "external-process"
}

// Descriptor describes one probed dialog backend. The registry hands out
// descriptors read-only; all fields are fixed after probing.
type Descriptor struct {
	ID               string
	Priority         int // Higher wins
	Mode             InvocationMode
	RequiresUIThread bool
	Tool             string // Resolved executable path for external backends

	kinds map[Kind]bool

	// args builds argv (after the tool path) for external backends
	args func(req *Request) []string

	// call performs the dialog for in-process backends
	call func(ctx context.Context, req *Request) Result
}

// Supports returns true if the backend can show the given dialog kind
func (d *Descriptor) Supports(kind Kind) bool {
	return d.kinds[kind]
}

// Kinds returns the backend's capability set
func (d *Descriptor) Kinds() []Kind {
	out := make([]Kind, 0, len(d.kinds))
	for k := range d.kinds {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func kindSet(kinds ...Kind) map[Kind]bool {
	m := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		m[k] = true
	}
	return m
}

// ProbeFunc discovers usable backends in the current environment. The
// returned slice may be empty (headless session).
type ProbeFunc func() []*Descriptor

// Registry caches the probed backend set for the process lifetime. Probing
// runs lazily on first Select and is idempotent until Invalidate is called.
type Registry struct {
	probe ProbeFunc

	mu       sync.Mutex
	probed   bool
	backends []*Descriptor // Sorted by priority, highest first
}

// NewRegistry creates a registry with the given probe. A nil probe uses the
// platform default.
func NewRegistry(probe ProbeFunc) *Registry {
	if probe == nil {
		probe = probePlatformBackends
	}
	return &Registry{probe: probe}
}

// Select returns the highest-priority backend whose capability set covers
// kind. Probing happens at most once between calls to Invalidate.
func (r *Registry) Select(kind Kind) (*Descriptor, error) {
	backends, err := r.ensureProbed()
	if err != nil {
		return nil, err
	}
	for _, d := range backends {
		if d.Supports(kind) {
			return d, nil
		}
	}
	return nil, ErrUnsupportedKind
}

// Backends returns the probed descriptors in priority order
func (r *Registry) Backends() ([]*Descriptor, error) {
	return r.ensureProbed()
}

// Invalidate drops the cached probe result. The next Select probes again;
// intended for desktop session changes.
func (r *Registry) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.probed = false
	r.backends = nil
}

func (r *Registry) ensureProbed() ([]*Descriptor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.probed {
		backends := r.probe()
		sort.SliceStable(backends, func(i, j int) bool {
			return backends[i].Priority > backends[j].Priority
		})
		r.backends = backends
		r.probed = true
		if len(backends) == 0 {
			log.Printf("Warning: no dialog backends found in this environment")
		}
	}

	if len(r.backends) == 0 {
		return nil, ErrNoBackend
	}
	return r.backends, nil
}
