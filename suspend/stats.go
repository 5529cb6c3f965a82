package suspend

// Stats aggregates transition outcomes across the Manager's lifetime.
// Every Suspend call lands in exactly one of Success or Fail.
type Stats struct {
	// Success counts transitions that completed their sleep and woke
	// cleanly, including spurious wakeups that skipped the entry.
	Success uint64

	// Fail counts transitions that returned an error, whatever the
	// depth: rejected states, busy collisions, and phase failures all
	// count.
	Fail uint64

	// FailedFreeze counts failures specifically in task freezing, a
	// subset of Fail tracked separately because freezing is the usual
	// suspect when sleep stops working.
	FailedFreeze uint64

	// LastFailedPhase is the phase of the most recent phase failure.
	// Rejections that never start the sequence do not update it.
	LastFailedPhase Phase

	// LastError is the error from the most recent failed transition.
	LastError error
}
