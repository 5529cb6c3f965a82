package syscore

import (
	"fmt"
	"sync"

	"github.com/jonwraymond/powerops/suspend"
)

// Op holds the low-power hooks for one core subsystem. Either hook may
// be nil: a nil Suspend always succeeds and a nil Resume is skipped.
type Op struct {
	// Suspend quiesces the subsystem. It runs after devices and
	// processors are down, so it must not block or spawn work.
	Suspend func() error

	// Resume reverses Suspend.
	Resume func()
}

// Registry is an ordered collection of core subsystem hooks.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	ops   map[string]Op
	order []string // Maintains registration order
}

// NewRegistry creates an empty hook registry.
func NewRegistry() *Registry {
	return &Registry{
		ops: make(map[string]Op),
	}
}

// Register adds the hooks for a named subsystem. Registering a name
// twice replaces the hooks but keeps the original position in the
// suspend order.
func (r *Registry) Register(name string, op Op) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ops[name]; !exists {
		r.order = append(r.order, name)
	}
	r.ops[name] = op
}

// Unregister removes a subsystem's hooks. Unknown names are ignored.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ops[name]; !exists {
		return
	}
	delete(r.ops, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Names returns the registered subsystem names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Suspend runs the suspend hooks in reverse registration order. If a
// hook fails, the subsystems suspended before it are resumed and the
// failure is returned; the remaining hooks never run.
func (r *Registry) Suspend() error {
	names, ops := r.snapshot()

	for i := len(ops) - 1; i >= 0; i-- {
		if ops[i].Suspend == nil {
			continue
		}
		if err := ops[i].Suspend(); err != nil {
			// Undo in resume order: the ops after the failed one
			// in registration order are the ones already down.
			for j := i + 1; j < len(ops); j++ {
				if ops[j].Resume != nil {
					ops[j].Resume()
				}
			}
			return fmt.Errorf("syscore: %s suspend failed: %w", names[i], err)
		}
	}
	return nil
}

// Resume runs the resume hooks in registration order. A failed Suspend
// resumes its own partial progress, so Resume should only follow a
// Suspend that succeeded.
func (r *Registry) Resume() {
	_, ops := r.snapshot()

	for _, op := range ops {
		if op.Resume != nil {
			op.Resume()
		}
	}
}

func (r *Registry) snapshot() ([]string, []Op) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := append([]string(nil), r.order...)
	ops := make([]Op, len(names))
	for i, name := range names {
		ops[i] = r.ops[name]
	}
	return names, ops
}

var _ suspend.Syscore = (*Registry)(nil)
