// Package suspend orchestrates whole-machine transitions into and out
// of low-power sleep states.
//
// The Manager owns the sequencing: observers are notified, freezable
// tasks are parked, devices are quiesced in stages, secondary
// processors go offline, core subsystems shut down, and the platform
// driver's enter hook performs the actual hardware sleep. Every
// forward phase has an unwind counterpart that runs in exact reverse
// order, even when a later phase fails partway through, so any error
// return leaves the machine fully operative again.
//
// # Sleep States
//
// Targets form an ordered set. StateFreeze is the lightweight variant:
// frozen tasks, suspended devices, and an idle wait on a wake gate —
// no processor offlining and no hardware entry. StateStandby and
// StateMem hand control to a registered platform Driver for the
// hardware-specific steps.
//
// # Basic Usage
//
//	mgr := suspend.NewManager(suspend.Config{
//	    Freezer: tasks,
//	    Devices: devices,
//	})
//
//	err := mgr.SetDriver(ctx, &suspend.Driver{
//	    Valid: suspend.ValidOnlyMem,
//	    Enter: enterHardwareSleep,
//	})
//	if err != nil {
//	    return err
//	}
//
//	// Blocks until the machine wakes again.
//	err = mgr.Suspend(ctx, suspend.StateMem)
//
// # Collaborators
//
// The Manager does not own devices, tasks, or platform hardware; it
// drives them through the collaborator interfaces in Config. Every
// slot has a no-op default, so a zero Config exercises the sequencing
// alone. The sibling packages provide real implementations: notify,
// freezer, device, syscore, wakeup, and observe.
//
// # Concurrency
//
// At most one attempt runs at a time. A second concurrent Suspend
// fails fast with ErrBusy rather than queuing; driver registration
// blocks until no attempt is in flight. The whole sequence runs on the
// calling goroutine — the only suspension point is the freeze gate,
// released by Manager.Wake.
//
// # Testing Rollback
//
// SetTestMode installs a checkpoint at which attempts abort with
// ErrCheckpointAbort, forcing the unwind path without real hardware.
package suspend
