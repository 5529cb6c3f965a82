// Package notify broadcasts sleep transition events to registered
// observers.
//
// A Chain delivers events in registration order. Pre-suspend delivery is
// a gate: any observer can veto the transition by returning an error, and
// later observers never see the event. Post-suspend delivery is an
// announcement: every observer runs, and failures are reported but never
// keep the machine from returning to the operative state.
package notify
