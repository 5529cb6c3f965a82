package suspend

import (
	"context"

	"github.com/jonwraymond/powerops/observe"
)

// enterMark records how deep an entry attempt got, selecting which
// unwind steps its deferred recovery runs.
type enterMark int

const (
	markNone enterMark = iota
	markDevicesFinal
	markProcessorsOff
)

// devicesAndEnter runs the device window: driver session, console and
// trace quiescing, the two outer device stages, and the entry loop.
// Whatever happens inside, devices are resumed and the driver session
// closed before it returns.
func (m *Manager) devicesAndEnter(ctx context.Context, drv *Driver, state State) error {
	needsDriver := state.NeedsDriver()

	// The driver session closes last, after devices resume.
	defer func() {
		if needsDriver && drv.End != nil {
			drv.End()
		}
	}()

	if needsDriver && drv.Begin != nil {
		if err := drv.Begin(state); err != nil {
			return &PhaseError{Phase: PhaseBegin, Err: err}
		}
	}

	m.config.Console.Suspend()
	m.config.Trace.Stop()
	defer func() {
		m.config.Trace.Start()
		m.config.Console.Resume()
	}()

	// Resume must run however deep the attempt got, even when the
	// caller's context is already done.
	rctx := context.WithoutCancel(ctx)
	defer func() {
		if err := m.config.Devices.ResumeEnd(rctx); err != nil {
			m.log.Error(rctx, "device resume failed", observe.Field{Key: "error", Value: err.Error()})
		}
	}()

	if err := m.config.Devices.SuspendStart(ctx); err != nil {
		m.log.Error(ctx, "some devices failed to suspend", observe.Field{Key: "error", Value: err.Error()})
		if needsDriver && drv.Recover != nil {
			drv.Recover()
		}
		return &PhaseError{Phase: PhaseDevices, Err: err}
	}

	if m.checkpoint(TestDevices) {
		if needsDriver && drv.Recover != nil {
			drv.Recover()
		}
		return &PhaseError{Phase: PhaseDevices, Err: ErrCheckpointAbort}
	}

	// The driver can ask for another round after a wake it considers
	// premature; a pending wakeup or an error always ends the loop.
	for {
		wakePending, err := m.enterOnce(ctx, drv, state)
		if err != nil || wakePending {
			return err
		}
		if !(needsDriver && drv.SuspendAgain != nil && drv.SuspendAgain()) {
			return nil
		}
	}
}

// enterOnce takes the machine from the late device point into the
// sleep state and back out again. A true wakePending with a nil error
// means a wakeup raced the entry and the sleep was skipped.
func (m *Manager) enterOnce(ctx context.Context, drv *Driver, state State) (wakePending bool, err error) {
	needsDriver := state.NeedsDriver()
	mark := markNone

	defer func() {
		rctx := context.WithoutCancel(ctx)
		switch mark {
		case markProcessorsOff:
			m.config.Processors.OnlineAll()
			fallthrough
		case markDevicesFinal:
			if needsDriver && drv.Wake != nil {
				drv.Wake()
			}
			if rerr := m.config.Devices.ResumeStart(rctx); rerr != nil {
				m.log.Error(rctx, "early device resume failed", observe.Field{Key: "error", Value: rerr.Error()})
			}
		}
		if needsDriver && drv.Finish != nil {
			drv.Finish()
		}
	}()

	if needsDriver && drv.Prepare != nil {
		if perr := drv.Prepare(); perr != nil {
			return false, &PhaseError{Phase: PhasePrepare, Err: perr}
		}
	}

	if derr := m.config.Devices.SuspendEnd(ctx); derr != nil {
		m.log.Error(ctx, "some devices failed to power down", observe.Field{Key: "error", Value: derr.Error()})
		return false, &PhaseError{Phase: PhaseDevicesLate, Err: derr}
	}
	mark = markDevicesFinal

	if needsDriver && drv.PrepareLate != nil {
		if perr := drv.PrepareLate(); perr != nil {
			return false, &PhaseError{Phase: PhasePrepareLate, Err: perr}
		}
	}

	if m.checkpoint(TestPlatform) {
		return false, &PhaseError{Phase: PhasePrepareLate, Err: ErrCheckpointAbort}
	}

	if state == StateFreeze {
		// Freeze is frozen tasks plus suspended devices plus an idle
		// wait; no processor offlining, no hardware entry.
		m.gate.wait()
		return false, nil
	}

	// From here the unwind must bring processors back even when
	// offlining only got partway.
	mark = markProcessorsOff
	if cerr := m.config.Processors.OfflineAll(ctx); cerr != nil {
		return false, &PhaseError{Phase: PhaseProcessors, Err: cerr}
	}
	if m.checkpoint(TestProcessors) {
		return false, &PhaseError{Phase: PhaseProcessors, Err: ErrCheckpointAbort}
	}

	m.config.Interrupts.Disable()

	if serr := m.config.Syscore.Suspend(); serr != nil {
		err = &PhaseError{Phase: PhaseSyscore, Err: serr}
	} else {
		// The wake check has side effects and runs unconditionally;
		// the checkpoint decides before the check does.
		wakePending = m.config.Wakeup.Pending()
		if m.checkpoint(TestCore) {
			err = &PhaseError{Phase: PhaseEnter, Err: ErrCheckpointAbort}
		} else if !wakePending {
			if eerr := drv.Enter(state); eerr != nil {
				err = &PhaseError{Phase: PhaseEnter, Err: eerr}
			}
			m.config.Wakeup.Disarm()
		}
		m.config.Syscore.Resume()
	}

	m.config.Interrupts.Enable()
	return wakePending, err
}
