// Package observe provides observability primitives for sleep
// transitions.
//
// It is a pure instrumentation library: no state machine, no device
// handling, no I/O beyond exporter setup. Consumers wire the observer
// into the suspend manager or the control surface.
package observe
