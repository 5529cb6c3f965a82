package suspend

import "context"

// Notifier broadcasts sleep transition events to interested observers.
//
// Contract:
// - PreSuspend runs before tasks freeze; an error vetoes the attempt.
// - PostSuspend runs on the way back to the operative state, even when
//   the attempt failed early or the matching PreSuspend never ran; its
//   error is logged, not propagated.
// - Concurrency: called only from the goroutine driving the attempt.
type Notifier interface {
	PreSuspend(ctx context.Context) error
	PostSuspend(ctx context.Context) error
}

// Freezer parks and releases freezable tasks.
//
// Contract:
// - FreezeAll blocks until every task is parked or the freezer gives
//   up; on failure no task may be left parked.
// - ThawAll must be idempotent: the unwind path calls it even when
//   FreezeAll failed or never ran.
type Freezer interface {
	FreezeAll(ctx context.Context) error
	ThawAll()
}

// Devices drives the device framework through its four suspend stages.
//
// Contract:
// - SuspendStart takes devices from active to the late suspend point;
//   SuspendEnd takes them from late to final. ResumeStart and
//   ResumeEnd mirror them on the way back.
// - Each call must be idempotent on an already-settled device set: the
//   unwind path may resume stages a failed suspend never reached.
// - A failed SuspendEnd must recover its own partial progress back to
//   the late point before returning.
type Devices interface {
	SuspendStart(ctx context.Context) error
	SuspendEnd(ctx context.Context) error
	ResumeStart(ctx context.Context) error
	ResumeEnd(ctx context.Context) error
}

// Processors takes secondary processing units offline for the deepest
// part of the sleep.
//
// Contract:
// - OnlineAll reverses OfflineAll and must tolerate a partial offline:
//   it runs even when OfflineAll failed midway.
type Processors interface {
	OfflineAll(ctx context.Context) error
	OnlineAll()
}

// Syscore suspends core, non-device subsystems. They go down last and
// come back first.
//
// Contract:
// - Suspend runs with processors offline and interrupts masked; a
//   failure must leave any subsystems it already suspended resumed.
// - Resume is called only after a Suspend that succeeded.
type Syscore interface {
	Suspend() error
	Resume()
}

// WakeSource answers the final allowed-to-sleep check.
//
// Contract:
// - Pending reports whether a wakeup condition arrived since the
//   source was armed; detecting one disarms the source.
// - Disarm drops the armed snapshot after a hardware entry.
type WakeSource interface {
	Pending() bool
	Disarm()
}

// Console quiesces the logging console around the sleep. Prepare and
// Restore bracket the whole attempt; Suspend and Resume bracket the
// device window inside it. All four are best-effort and must not fail.
type Console interface {
	Prepare()
	Restore()
	Suspend()
	Resume()
}

// Trace stops telemetry export across the device window, where an
// exporter write could touch suspended hardware. Best-effort.
type Trace interface {
	Stop()
	Start()
}

// Syncer flushes durable writer state to stable storage before any
// device is touched.
type Syncer interface {
	Sync(ctx context.Context) error
}

// SyncerFunc adapts a function to the Syncer interface.
type SyncerFunc func(ctx context.Context) error

// Sync calls f.
func (f SyncerFunc) Sync(ctx context.Context) error { return f(ctx) }

// Interrupts is the strategy for masking interrupt delivery on the
// primary unit across the core-subsystem window.
type Interrupts interface {
	Disable()
	Enable()
}

// AllocThrottle restricts resource allocation across the device
// window, keeping allocation pressure off suspended hardware.
type AllocThrottle interface {
	Restrict()
	Restore()
}

// Monitor observes whole sleep transitions for telemetry.
//
// Contract:
// - SuspendStart opens the observation; the returned context carries
//   it and is threaded through the attempt.
// - SuspendEnd closes the observation with the attempt outcome. The
//   context must be the one SuspendStart returned.
type Monitor interface {
	SuspendStart(ctx context.Context, state string) context.Context
	SuspendEnd(ctx context.Context, state string, err error)
}

// No-op collaborator defaults. A zero Config gets one of each, so the
// Manager sequences cleanly with nothing attached.

type noopNotifier struct{}

func (n *noopNotifier) PreSuspend(ctx context.Context) error  { return nil }
func (n *noopNotifier) PostSuspend(ctx context.Context) error { return nil }

type noopFreezer struct{}

func (f *noopFreezer) FreezeAll(ctx context.Context) error { return nil }
func (f *noopFreezer) ThawAll()                            {}

type noopDevices struct{}

func (d *noopDevices) SuspendStart(ctx context.Context) error { return nil }
func (d *noopDevices) SuspendEnd(ctx context.Context) error   { return nil }
func (d *noopDevices) ResumeStart(ctx context.Context) error  { return nil }
func (d *noopDevices) ResumeEnd(ctx context.Context) error    { return nil }

type noopProcessors struct{}

func (p *noopProcessors) OfflineAll(ctx context.Context) error { return nil }
func (p *noopProcessors) OnlineAll()                           {}

type noopSyscore struct{}

func (s *noopSyscore) Suspend() error { return nil }
func (s *noopSyscore) Resume()        {}

type noopWakeSource struct{}

func (w *noopWakeSource) Pending() bool { return false }
func (w *noopWakeSource) Disarm()       {}

type noopConsole struct{}

func (c *noopConsole) Prepare() {}
func (c *noopConsole) Restore() {}
func (c *noopConsole) Suspend() {}
func (c *noopConsole) Resume()  {}

type noopTrace struct{}

func (t *noopTrace) Stop()  {}
func (t *noopTrace) Start() {}

type noopSyncer struct{}

func (s *noopSyncer) Sync(ctx context.Context) error { return nil }

type noopThrottle struct{}

func (t *noopThrottle) Restrict() {}
func (t *noopThrottle) Restore()  {}

type noopMonitor struct{}

func (m *noopMonitor) SuspendStart(ctx context.Context, state string) context.Context { return ctx }
func (m *noopMonitor) SuspendEnd(ctx context.Context, state string, err error)        {}
