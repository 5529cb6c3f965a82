// Package syscore manages suspend and resume hooks for core subsystems
// that must run after devices are quiesced and the machine is down to a
// single active worker.
//
// Hooks are invoked in a strict mirror-image order: Suspend runs the
// registered operations last-to-first, and Resume runs them first-to-last.
// A subsystem registered after its dependencies is therefore suspended
// before them and resumed after them.
//
// When a suspend hook fails, the operations that had already been
// suspended are resumed before the error is returned, so a failed
// transition never strands a subsystem in its low-power state.
package syscore
