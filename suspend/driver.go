package suspend

// Driver is the platform capability table for hardware sleep states.
// Every hook is optional except Enter, without which a hardware state
// cannot be entered. Hooks run serialized under the Manager's sleep
// lock, always on the goroutine driving the attempt.
//
// Call order across one attempt: Begin, Prepare, PrepareLate, Enter,
// Wake, Finish, End. Wake mirrors PrepareLate and Finish mirrors
// Prepare on the way back out; End closes whatever Begin opened and
// runs regardless of how far the attempt progressed.
//
// StateFreeze never consults the driver, even when one is registered.
type Driver struct {
	// Valid reports whether the driver can enter the given state. A
	// nil Valid accepts every hardware state.
	Valid func(state State) bool

	// Begin opens a transition to the given state, before any device
	// is touched. A failure aborts the attempt with only End left to
	// run.
	Begin func(state State) error

	// Prepare runs once devices have reached the late suspend point.
	// A failure unwinds through Finish.
	Prepare func() error

	// PrepareLate runs after devices reach their final suspended
	// point, immediately before processors go offline. A failure
	// unwinds through Wake.
	PrepareLate func() error

	// Enter performs the hardware sleep and returns when the machine
	// wakes. Required for hardware states.
	Enter func(state State) error

	// Wake mirrors PrepareLate: it runs once processors are back
	// online, before early device resume.
	Wake func()

	// Finish mirrors Prepare: it runs after early device resume.
	Finish func()

	// End closes whatever Begin opened. It always runs.
	End func()

	// Recover is called when device suspend fails partway through,
	// before the devices are resumed.
	Recover func()

	// SuspendAgain reports whether the platform wants the low-level
	// entry repeated after a wake, without re-running device suspend.
	// Consulted only after an entry that neither failed nor detected
	// a pending wakeup.
	SuspendAgain func() bool
}

// ValidOnlyMem is a Valid hook for platforms that support only
// suspend-to-RAM.
func ValidOnlyMem(state State) bool {
	return state == StateMem
}
