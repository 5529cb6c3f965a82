package suspend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/jonwraymond/powerops/observe"
)

// Config holds the Manager's collaborators. Every slot is optional; a
// zero Config yields a Manager that sequences correctly with no-op
// collaborators, which is also the shape most tests want.
type Config struct {
	// Notifier receives pre- and post-transition broadcasts.
	// Default: no-op
	Notifier Notifier

	// Freezer parks freezable tasks for the duration of the sleep.
	// Default: no-op
	Freezer Freezer

	// Devices drives the device framework through its suspend stages.
	// Default: no-op
	Devices Devices

	// Processors takes secondary processing units offline around the
	// core window.
	// Default: no-op (see RuntimeProcessors for a real one)
	Processors Processors

	// Syscore suspends core non-device subsystems last and resumes
	// them first.
	// Default: no-op
	Syscore Syscore

	// Wakeup is the wake source consulted before hardware entry.
	// Default: never pending
	Wakeup WakeSource

	// Console quiesces console output around the transition.
	// Default: no-op (see observe.DeferredWriter)
	Console Console

	// Trace stops telemetry export across the device window.
	// Default: no-op (see observe.TraceGate)
	Trace Trace

	// Syncer flushes durable state before devices are touched.
	// Default: no-op
	Syncer Syncer

	// Interrupts masks interrupt delivery across the core window.
	// Default: NewDirectInterrupts()
	Interrupts Interrupts

	// Throttle restricts allocation across the device window.
	// Default: no-op (see GCThrottle for a real one)
	Throttle AllocThrottle

	// Monitor observes whole transitions for telemetry.
	// Default: no-op (see observe.PowerMonitor)
	Monitor Monitor

	// Logger receives transition progress logs.
	// Default: observe.NopLogger()
	Logger observe.Logger
}

// Manager owns the whole-machine sleep sequence. It serializes
// transition attempts, drives the collaborators through the suspend
// and resume phases in order, and aggregates outcome statistics.
type Manager struct {
	config Config
	log    observe.Logger

	// sleepLock serializes transitions and driver registration.
	sleepLock *semaphore.Weighted
	busy      atomic.Bool

	driverMu sync.RWMutex
	driver   *Driver

	gate *freezeGate

	statsMu sync.Mutex
	stats   Stats

	testMu sync.RWMutex
	test   TestConfig
}

// NewManager creates a sleep transition manager. Collaborators left
// nil in the config are replaced with no-op implementations.
func NewManager(config ...Config) *Manager {
	cfg := Config{}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Notifier == nil {
		cfg.Notifier = &noopNotifier{}
	}
	if cfg.Freezer == nil {
		cfg.Freezer = &noopFreezer{}
	}
	if cfg.Devices == nil {
		cfg.Devices = &noopDevices{}
	}
	if cfg.Processors == nil {
		cfg.Processors = &noopProcessors{}
	}
	if cfg.Syscore == nil {
		cfg.Syscore = &noopSyscore{}
	}
	if cfg.Wakeup == nil {
		cfg.Wakeup = &noopWakeSource{}
	}
	if cfg.Console == nil {
		cfg.Console = &noopConsole{}
	}
	if cfg.Trace == nil {
		cfg.Trace = &noopTrace{}
	}
	if cfg.Syncer == nil {
		cfg.Syncer = &noopSyncer{}
	}
	if cfg.Interrupts == nil {
		cfg.Interrupts = NewDirectInterrupts()
	}
	if cfg.Throttle == nil {
		cfg.Throttle = &noopThrottle{}
	}
	if cfg.Monitor == nil {
		cfg.Monitor = &noopMonitor{}
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}

	return &Manager{
		config:    cfg,
		log:       cfg.Logger.WithSubsystem("suspend"),
		sleepLock: semaphore.NewWeighted(1),
		gate:      newFreezeGate(),
	}
}

// SetDriver installs the platform sleep driver. It waits for any
// transition in flight to finish first, so a driver is never swapped
// under a running sequence. A nil driver deregisters the platform.
func (m *Manager) SetDriver(ctx context.Context, drv *Driver) error {
	if err := m.sleepLock.Acquire(ctx, 1); err != nil {
		return err
	}
	defer m.sleepLock.Release(1)

	m.driverMu.Lock()
	m.driver = drv
	m.driverMu.Unlock()
	return nil
}

// SupportedStates returns the sleep states a Suspend call would
// currently accept, shallowest first.
func (m *Manager) SupportedStates() []State {
	var states []State
	for _, s := range []State{StateFreeze, StateStandby, StateMem} {
		if _, err := m.validate(s); err == nil {
			states = append(states, s)
		}
	}
	return states
}

// Wake releases a transition idling in the freeze state. The wakeup
// is latched: calling Wake while the attempt is still freezing tasks
// or suspending devices ends the idle the moment it is reached.
// Waking a manager that is not suspended is a no-op.
func (m *Manager) Wake() {
	m.gate.signal()
}

// Busy reports whether a transition is in flight.
func (m *Manager) Busy() bool {
	return m.busy.Load()
}

// Stats returns a snapshot of the transition counters.
func (m *Manager) Stats() Stats {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	return m.stats
}

func (m *Manager) recordOutcome(err error) {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	if err == nil {
		m.stats.Success++
		return
	}
	m.stats.Fail++
	m.stats.LastError = err
	var perr *PhaseError
	if errors.As(err, &perr) {
		m.stats.LastFailedPhase = perr.Phase
	}
}

func (m *Manager) noteFreezeFailure() {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	m.stats.FailedFreeze++
}

// Suspend transitions the machine into the given sleep state and
// blocks until it wakes again. On return the machine is operative
// regardless of the outcome; the error reports how deep the attempt
// got before unwinding, nil meaning a full sleep and clean wake.
func (m *Manager) Suspend(ctx context.Context, state State) error {
	m.log.Info(ctx, "sleep entry", observe.Field{Key: "state", Value: state.String()})
	err := m.enterState(ctx, state)
	m.recordOutcome(err)
	if err != nil {
		m.log.Error(ctx, "sleep exit", observe.Field{Key: "state", Value: state.String()}, observe.Field{Key: "error", Value: err.Error()})
		return err
	}
	m.log.Info(ctx, "sleep exit", observe.Field{Key: "state", Value: state.String()})
	return nil
}

// validate checks that the state is sleepable right now and snapshots
// the driver the attempt will use. Freeze never consults the driver,
// so it resolves to nil even when one is registered.
func (m *Manager) validate(state State) (*Driver, error) {
	if state == StateFreeze {
		lvl := m.TestMode().Level
		if lvl == TestCore || lvl == TestProcessors {
			return nil, fmt.Errorf("%w: freeze supports none/freezer/devices/platform test checkpoints", ErrInvalidState)
		}
		return nil, nil
	}

	m.driverMu.RLock()
	drv := m.driver
	m.driverMu.RUnlock()

	if drv == nil || drv.Enter == nil {
		return nil, ErrNoDriver
	}
	if drv.Valid != nil && !drv.Valid(state) {
		return nil, fmt.Errorf("%w: %s unsupported by platform driver", ErrInvalidState, state)
	}
	return drv, nil
}

/// enterState is the top of the sequence: it takes the transition
// lock, brackets the attempt with monitoring and console deferral,
// and splits the work into prepare, devicesAndEnter, and finish.
func (m *Manager) enterState(ctx context.Context, state State) (err error) {
	if !state.valid() {
		return fmt.Errorf("%w: %d", ErrInvalidState, int(state))
	}
	drv, err := m.validate(state)
	if err != nil {
		return err
	}

	if !m.sleepLock.TryAcquire(1) {
		return ErrBusy
	}
	defer m.sleepLock.Release(1)

	m.busy.Store(true)
	defer m.busy.Store(false)

	mctx := m.config.Monitor.SuspendStart(ctx, state.String())
	defer func() {
		m.config.Monitor.SuspendEnd(mctx, state.String(), err)
	}()
	ctx = mctx

	// A wakeup latched by a previous attempt must not end this one.
	if state == StateFreeze {
		m.gate.reset()
	}

	m.log.Debug(ctx, "preparing system for sleep", observe.Field{Key: "state", Value: state.String()})

	m.log.Info(ctx, "syncing storage")
	if serr := m.config.Syncer.Sync(ctx); serr != nil {
		m.log.Warn(ctx, "storage sync failed", observe.Field{Key: "error", Value: serr.Error()})
	}

	err = m.prepare(ctx)
	if err == nil {
		if m.checkpoint(TestFreezer) {
			err = &PhaseError{Phase: PhaseFreeze, Err: ErrCheckpointAbort}
		} else {
			m.log.Debug(ctx, "entering sleep", observe.Field{Key: "state", Value: state.String()})
			m.config.Throttle.Restrict()
			err = m.devicesAndEnter(ctx, drv, state)
			m.config.Throttle.Restore()
		}
	}

	m.log.Debug(ctx, "finishing wakeup", observe.Field{Key: "state", Value: state.String()})
	m.finish(ctx)
	return err
}

// prepare brackets the early, always-unwound half: console deferral,
// the pre-transition broadcast, and task freezing.
func (m *Manager) prepare(ctx context.Context) error {
	m.config.Console.Prepare()

	if err := m.config.Notifier.PreSuspend(ctx); err != nil {
		return &PhaseError{Phase: PhaseNotify, Err: err}
	}

	m.log.Debug(ctx, "freezing tasks")
	if err := m.config.Freezer.FreezeAll(ctx); err != nil {
		m.noteFreezeFailure()
		return &PhaseError{Phase: PhaseFreeze, Err: err}
	}
	return nil
}

// finish is the unconditional tail of every attempt, however deep it
// got: thaw tasks, broadcast the post-transition event, lift console
// deferral. It must run even when the caller's context is done.
func (m *Manager) finish(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)

	m.log.Debug(ctx, "thawing tasks")
	m.config.Freezer.ThawAll()

	if err := m.config.Notifier.PostSuspend(ctx); err != nil {
		m.log.Warn(ctx, "post-suspend notification failed", observe.Field{Key: "error", Value: err.Error()})
	}

	m.config.Console.Restore()
}
