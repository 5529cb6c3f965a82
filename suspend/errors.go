package suspend

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the suspend package.
var (
	// ErrInvalidState indicates the requested sleep state is outside
	// the valid range or declined by the platform driver.
	ErrInvalidState = errors.New("suspend: invalid sleep state")

	// ErrBusy indicates another suspend attempt holds the sleep lock.
	ErrBusy = errors.New("suspend: transition already in progress")

	// ErrNoDriver indicates a hardware sleep state was requested with
	// no platform driver registered.
	ErrNoDriver = errors.New("suspend: no platform driver")

	// ErrCheckpointAbort indicates a test checkpoint forced the attempt
	// to unwind.
	ErrCheckpointAbort = errors.New("suspend: aborted at test checkpoint")

	// ErrInvalidTestLevel indicates an unknown test checkpoint name.
	ErrInvalidTestLevel = errors.New("suspend: invalid test checkpoint level")
)

// Phase identifies one forward step of the sleep sequence. Each phase
// has an unwind counterpart that runs when a later step fails.
type Phase int

const (
	// PhaseNone means no phase was recorded.
	PhaseNone Phase = iota
	// PhaseNotify is the pre-suspend observer broadcast.
	PhaseNotify
	// PhaseFreeze parks freezable tasks.
	PhaseFreeze
	// PhaseBegin is the platform driver's Begin hook.
	PhaseBegin
	// PhaseDevices suspends devices down to the late ordering point.
	PhaseDevices
	// PhasePrepare is the platform driver's Prepare hook.
	PhasePrepare
	// PhaseDevicesLate drives devices from the late point to final.
	PhaseDevicesLate
	// PhasePrepareLate is the platform driver's PrepareLate hook.
	PhasePrepareLate
	// PhaseProcessors takes secondary processors offline.
	PhaseProcessors
	// PhaseSyscore suspends core subsystems.
	PhaseSyscore
	// PhaseEnter is the platform hardware entry.
	PhaseEnter
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseNone:
		return "none"
	case PhaseNotify:
		return "notify"
	case PhaseFreeze:
		return "freeze"
	case PhaseBegin:
		return "begin"
	case PhaseDevices:
		return "devices"
	case PhasePrepare:
		return "prepare"
	case PhaseDevicesLate:
		return "devices-late"
	case PhasePrepareLate:
		return "prepare-late"
	case PhaseProcessors:
		return "processors"
	case PhaseSyscore:
		return "syscore"
	case PhaseEnter:
		return "enter"
	default:
		return "unknown"
	}
}

// PhaseError reports a forward-phase failure together with the phase
// that produced it. The underlying cause is preserved unmodified.
type PhaseError struct {
	Phase Phase
	Err   error
}

// Error returns the phase and cause.
func (e *PhaseError) Error() string {
	return fmt.Sprintf("suspend: phase %s: %v", e.Phase, e.Err)
}

// Unwrap returns the underlying cause.
func (e *PhaseError) Unwrap() error {
	return e.Err
}
