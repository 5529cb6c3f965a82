package wakeup

import "errors"

// ErrStaleCount is returned by Arm when the event count moved past the
// caller's snapshot or a wake hold is still in progress. The caller
// should re-read the count and decide again whether to sleep.
var ErrStaleCount = errors.New("wakeup: event count is stale")
