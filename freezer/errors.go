package freezer

import "errors"

// Sentinel errors for freeze operations.
var (
	// ErrFreezeTimeout is returned when registered tasks fail to park
	// within the configured timeout.
	ErrFreezeTimeout = errors.New("freezer: freezing of tasks failed")

	// ErrFreezeAborted is returned when the freeze is canceled before
	// every task parked.
	ErrFreezeAborted = errors.New("freezer: freeze aborted")
)
