// Package control exposes a suspend.Manager over HTTP.
//
// The endpoints follow the shape of an operating system's power
// control files: reading reports the current setting, writing
// triggers or reconfigures a transition.
//
//	GET  /power/state    supported sleep states, space separated
//	POST /power/state    enter the named state; blocks until wakeup
//	GET  /power/stats    transition statistics as JSON
//	GET  /power/pm_test  checkpoint levels, active one bracketed
//	PUT  /power/pm_test  select the checkpoint level by name
//	POST /power/wake     release a transition idling in freeze
//	GET  /power/ready    readiness of the sleep path
//
// Writing /power/state is synchronous: the response arrives after the
// machine has slept and woken, with the transition's outcome mapped
// onto the status code. Handlers are plain http.HandlerFunc values on
// a standard ServeMux, so they compose with any middleware; a
// bearer-token middleware is provided for surfaces reachable beyond
// the local host.
package control
