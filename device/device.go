package device

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/powerops/suspend"
)

// Level is the power level a device has settled at.
type Level int

const (
	// LevelActive means the device is fully operational.
	LevelActive Level = iota

	// LevelSuspended means the main suspend callback has run.
	LevelSuspended

	// LevelOff means the late suspend callback has also run.
	LevelOff
)

// String returns a human-readable level name.
func (l Level) String() string {
	switch l {
	case LevelActive:
		return "active"
	case LevelSuspended:
		return "suspended"
	case LevelOff:
		return "off"
	default:
		return "unknown"
	}
}

// hook is one power transition callback.
type hook func(ctx context.Context) error

// Callbacks holds the power transition callbacks for one device. Any
// callback may be nil; the device still settles at the next level.
type Callbacks struct {
	// Suspend quiesces I/O and saves state. Runs while the rest of the
	// system is still up.
	Suspend func(ctx context.Context) error

	// SuspendLate finishes the power-down after the whole device set
	// has suspended. Runs with other devices already quiet.
	SuspendLate func(ctx context.Context) error

	// ResumeEarly reverses SuspendLate.
	ResumeEarly func(ctx context.Context) error

	// Resume reverses Suspend.
	Resume func(ctx context.Context) error
}

// Config holds the settings for a device registry.
type Config struct {
	// Async runs the callbacks within each stage concurrently instead
	// of in registration order. Default: false.
	Async bool

	// Parallelism caps the number of concurrent callbacks per stage
	// when Async is set. Default: 0 (unbounded).
	Parallelism int
}

type entry struct {
	callbacks Callbacks
	level     Level
}

// Registry tracks devices and moves them through suspend and resume
// stages. It is safe for concurrent use.
type Registry struct {
	config Config

	mu      sync.RWMutex
	devices map[string]*entry
	order   []string // Maintains registration order
}

// NewRegistry creates a device registry with the given configuration.
func NewRegistry(config ...Config) *Registry {
	cfg := Config{}
	if len(config) > 0 {
		cfg = config[0]
	}
	return &Registry{
		config:  cfg,
		devices: make(map[string]*entry),
	}
}

// Register adds a device. Registering a name twice replaces the
// callbacks, keeps the original position in the suspend order, and
// settles the device back at the active level.
func (r *Registry) Register(name string, callbacks Callbacks) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.devices[name]; !exists {
		r.order = append(r.order, name)
	}
	r.devices[name] = &entry{callbacks: callbacks}
}

// Unregister removes a device. Unknown names are ignored.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.devices[name]; !exists {
		return
	}
	delete(r.devices, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Names returns the registered device names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Level returns the level a device has settled at.
func (r *Registry) Level(name string) (Level, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.devices[name]
	if !ok {
		return LevelActive, false
	}
	return d.level, true
}

// SuspendStart runs the main suspend callbacks in reverse registration
// order. It stops at the first failure, leaving the already suspended
// devices where they are; ResumeEnd brings them back.
func (r *Registry) SuspendStart(ctx context.Context) error {
	_, err := r.suspendStage(ctx, LevelActive, LevelSuspended, "suspend",
		func(cb Callbacks) hook { return cb.Suspend })
	return err
}

// SuspendEnd runs the late suspend callbacks in reverse registration
// order. On failure it runs the early resume callback for the devices
// it had already powered off, so the set is left uniformly at the
// suspended level.
func (r *Registry) SuspendEnd(ctx context.Context) error {
	moved, err := r.suspendStage(ctx, LevelSuspended, LevelOff, "late suspend",
		func(cb Callbacks) hook { return cb.SuspendLate })
	if err == nil {
		return nil
	}

	// Undo this stage's own progress, oldest registration first;
	// earlier stages are the caller's responsibility.
	rctx := context.WithoutCancel(ctx)
	errs := []error{err}
	for i := len(moved) - 1; i >= 0; i-- {
		name := moved[i]
		r.mu.RLock()
		d, ok := r.devices[name]
		var cb hook
		if ok {
			cb = d.callbacks.ResumeEarly
		}
		r.mu.RUnlock()
		if !ok {
			continue
		}
		if rerr := invoke(rctx, cb); rerr != nil {
			errs = append(errs, fmt.Errorf("device: %s early resume failed: %w", name, rerr))
		}
		r.settle(name, LevelOff, LevelSuspended)
	}
	return errors.Join(errs...)
}

// ResumeStart runs the early resume callbacks in registration order,
// continuing past failures so every device gets its chance.
func (r *Registry) ResumeStart(ctx context.Context) error {
	return r.resumeStage(ctx, LevelOff, LevelSuspended, "early resume",
		func(cb Callbacks) hook { return cb.ResumeEarly })
}

// ResumeEnd returns every device to the active level in registration
// order, continuing past failures. A device still powered off gets its
// early resume callback first, so ResumeEnd alone fully recovers any
// partial suspend.
func (r *Registry) ResumeEnd(ctx context.Context) error {
	early := r.resumeStage(ctx, LevelOff, LevelSuspended, "early resume",
		func(cb Callbacks) hook { return cb.ResumeEarly })
	main := r.resumeStage(ctx, LevelSuspended, LevelActive, "resume",
		func(cb Callbacks) hook { return cb.Resume })
	return errors.Join(early, main)
}

type snap struct {
	name  string
	cb    Callbacks
	level Level
}

func (r *Registry) snapshot() []snap {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]snap, 0, len(r.order))
	for _, name := range r.order {
		d := r.devices[name]
		out = append(out, snap{name: name, cb: d.callbacks, level: d.level})
	}
	return out
}

// settle moves a device between levels, refusing if it was
// unregistered or moved in the meantime.
func (r *Registry) settle(name string, from, to Level) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.devices[name]
	if !ok || d.level != from {
		return false
	}
	d.level = to
	return true
}

func (r *Registry) suspendStage(ctx context.Context, from, to Level, verb string, pick func(Callbacks) hook) ([]string, error) {
	devs := r.snapshot()
	if r.config.Async {
		return r.suspendStageAsync(ctx, devs, from, to, verb, pick)
	}

	var moved []string
	for i := len(devs) - 1; i >= 0; i-- {
		d := devs[i]
		if d.level != from {
			continue
		}
		if err := invoke(ctx, pick(d.cb)); err != nil {
			return moved, fmt.Errorf("device: %s %s failed: %w", d.name, verb, err)
		}
		if r.settle(d.name, from, to) {
			moved = append(moved, d.name)
		}
	}
	return moved, nil
}

func (r *Registry) suspendStageAsync(ctx context.Context, devs []snap, from, to Level, verb string, pick func(Callbacks) hook) ([]string, error) {
	g, gctx := errgroup.WithContext(ctx)
	if r.config.Parallelism > 0 {
		g.SetLimit(r.config.Parallelism)
	}

	var mu sync.Mutex
	var moved []string
	for _, d := range devs {
		d := d
		if d.level != from {
			continue
		}
		g.Go(func() error {
			// A failure elsewhere aborts the stage; devices that
			// have not started yet simply stay where they are.
			if gctx.Err() != nil {
				return nil
			}
			if err := invoke(gctx, pick(d.cb)); err != nil {
				return fmt.Errorf("device: %s %s failed: %w", d.name, verb, err)
			}
			if r.settle(d.name, from, to) {
				mu.Lock()
				moved = append(moved, d.name)
				mu.Unlock()
			}
			return nil
		})
	}
	err := g.Wait()
	return moved, err
}

func (r *Registry) resumeStage(ctx context.Context, from, to Level, verb string, pick func(Callbacks) hook) error {
	// Resume must run even when the surrounding attempt was canceled.
	ctx = context.WithoutCancel(ctx)
	devs := r.snapshot()

	if r.config.Async {
		return r.resumeStageAsync(ctx, devs, from, to, verb, pick)
	}

	var errs []error
	for _, d := range devs {
		if d.level != from {
			continue
		}
		if err := invoke(ctx, pick(d.cb)); err != nil {
			errs = append(errs, fmt.Errorf("device: %s %s failed: %w", d.name, verb, err))
		}
		// A device whose resume callback failed still counts as
		// settled; leaving it behind would wedge the next cycle.
		r.settle(d.name, from, to)
	}
	return errors.Join(errs...)
}

func (r *Registry) resumeStageAsync(ctx context.Context, devs []snap, from, to Level, verb string, pick func(Callbacks) hook) error {
	var g errgroup.Group
	if r.config.Parallelism > 0 {
		g.SetLimit(r.config.Parallelism)
	}

	var mu sync.Mutex
	var errs []error
	for _, d := range devs {
		d := d
		if d.level != from {
			continue
		}
		g.Go(func() error {
			if err := invoke(ctx, pick(d.cb)); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("device: %s %s failed: %w", d.name, verb, err))
				mu.Unlock()
			}
			r.settle(d.name, from, to)
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

func invoke(ctx context.Context, cb hook) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if cb == nil {
		return nil
	}
	return cb(ctx)
}

var _ suspend.Devices = (*Registry)(nil)
