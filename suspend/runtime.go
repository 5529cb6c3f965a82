package suspend

import (
	"context"
	"runtime"
	"runtime/debug"
	"sync/atomic"
)

// RuntimeProcessors implements Processors on the Go scheduler: offline
// collapses execution to a single processor, online restores the
// previous parallelism.
type RuntimeProcessors struct {
	saved atomic.Int64
}

// NewRuntimeProcessors creates a Processors backed by GOMAXPROCS.
func NewRuntimeProcessors() *RuntimeProcessors {
	return &RuntimeProcessors{}
}

// OfflineAll reduces the scheduler to one processor and remembers the
// previous setting for OnlineAll.
func (p *RuntimeProcessors) OfflineAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.saved.Store(int64(runtime.GOMAXPROCS(1)))
	return nil
}

// OnlineAll restores the parallelism OfflineAll saved. Calling it
// without a prior OfflineAll is a no-op.
func (p *RuntimeProcessors) OnlineAll() {
	if prev := p.saved.Swap(0); prev > 0 {
		runtime.GOMAXPROCS(int(prev))
	}
}

// DirectInterrupts is the default Interrupts strategy. It only tracks
// the masked window; processes have no hardware interrupt line to
// mask, but collaborators can consult Disabled to pause delivery.
type DirectInterrupts struct {
	disabled atomic.Bool
}

// NewDirectInterrupts creates the default interrupt strategy.
func NewDirectInterrupts() *DirectInterrupts {
	return &DirectInterrupts{}
}

// Disable marks interrupt delivery as masked.
func (d *DirectInterrupts) Disable() { d.disabled.Store(true) }

// Enable unmasks interrupt delivery.
func (d *DirectInterrupts) Enable() { d.disabled.Store(false) }

// Disabled reports whether delivery is currently masked.
func (d *DirectInterrupts) Disabled() bool { return d.disabled.Load() }

// GCThrottle implements AllocThrottle by disabling the garbage
// collector across the device window, so collection cycles cannot
// churn allocation while hardware is down.
type GCThrottle struct {
	saved atomic.Int64
	held  atomic.Bool
}

// NewGCThrottle creates an AllocThrottle backed by the GC percentage.
func NewGCThrottle() *GCThrottle {
	return &GCThrottle{}
}

// Restrict turns the collector off, saving the previous target.
// Nested calls are collapsed; only the first saves.
func (g *GCThrottle) Restrict() {
	if g.held.Swap(true) {
		return
	}
	g.saved.Store(int64(debug.SetGCPercent(-1)))
}

// Restore reinstates the collector target Restrict saved.
func (g *GCThrottle) Restore() {
	if !g.held.Swap(false) {
		return
	}
	debug.SetGCPercent(int(g.saved.Load()))
}

var (
	_ Processors    = (*RuntimeProcessors)(nil)
	_ Interrupts    = (*DirectInterrupts)(nil)
	_ AllocThrottle = (*GCThrottle)(nil)
)
