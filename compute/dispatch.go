package compute

import (
	"sync"

	"github.com/colvex/colvex/array"
)

// Args bundles a compute invocation's inputs. Individual functions only
// populate the fields relevant to them; the dispatch loop passes the same
// Args to every kernel and the fallback.
type Args struct {
	Inputs []array.Array
	Op     Operator
	Scalar interface{} // used by compare/cast for a constant RHS
}

// KernelFunc attempts to compute fn's result for args against one
// encoding's fast path. Returning handled=false tells the dispatcher to
// try the next kernel; handled=true with a non-nil error is an
// authoritative failure that stops the search (spec §4.1: "kernel
// returns None to try another kernel, Some(Err) is authoritative"). out
// is an array.Array for most functions, but some (search_sorted) return a
// different result type.
type KernelFunc func(args Args) (out any, handled bool, err error)

// Fn is one compute function's vtable: an ordered list of
// encoding-specific kernels tried before falling back to the canonical
// implementation. Grounded on compute/mod.rs's ComputeFn
// {vtable, kernels: RwLock<Vec<Kernel>>}.
type Fn struct {
	name     string
	mu       sync.RWMutex
	kernels  []KernelFunc
	fallback KernelFunc
}

func newFn(name string, fallback KernelFunc) *Fn {
	return &Fn{name: name, fallback: fallback}
}

// Register adds an encoding-specific kernel, tried in registration order
// before the canonical fallback.
func (f *Fn) Register(k KernelFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kernels = append(f.kernels, k)
}

// TryKernels runs only the registered kernels in order, without falling
// back to the canonical implementation. Returns handled=false if no
// kernel claimed the invocation.
func (f *Fn) TryKernels(args Args) (out any, handled bool, err error) {
	f.mu.RLock()
	kernels := append([]KernelFunc(nil), f.kernels...)
	f.mu.RUnlock()

	for _, k := range kernels {
		out, handled, err = k(args)
		if handled {
			return out, true, err
		}
	}
	return nil, false, nil
}

// Invoke runs the two-stage dispatch: try every registered kernel in
// order, then the canonical fallback.
func (f *Fn) Invoke(args Args) (any, error) {
	if out, handled, err := f.TryKernels(args); handled {
		return out, err
	}
	out, _, err := f.fallback(args)
	return out, err
}

// InvokeArray is Invoke for functions whose result is always an
// array.Array.
func (f *Fn) InvokeArray(args Args) (array.Array, error) {
	out, err := f.Invoke(args)
	return asArray(out), err
}

// asArray unwraps a kernel's `any` result as an array.Array, tolerating a
// nil result (authoritative failure or unhandled).
func asArray(out any) array.Array {
	if out == nil {
		return nil
	}
	return out.(array.Array)
}

// registry holds every named compute function, mirroring vortex's global
// compute-function registry (one ComputeFn instance per operation).
var registry = struct {
	mu    sync.RWMutex
	funcs map[string]*Fn
}{funcs: make(map[string]*Fn)}

func register(name string, fallback KernelFunc) *Fn {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	fn := newFn(name, fallback)
	registry.funcs[name] = fn
	return fn
}

// Lookup returns the named compute function, or nil if unregistered.
func Lookup(name string) *Fn {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return registry.funcs[name]
}
