package observe_test

import (
	"github.com/jonwraymond/powerops/observe"
	"github.com/jonwraymond/powerops/suspend"
)

// The observe types plug straight into the suspend manager's
// collaborator slots.
var (
	_ suspend.Monitor = (*observe.PowerMonitor)(nil)
	_ suspend.Console = (*observe.DeferredWriter)(nil)
	_ suspend.Trace   = (*observe.TraceGate)(nil)
)
