package suspend

import "fmt"

// State identifies a sleep target. Values are ordered: states above
// StateFreeze require a platform driver for hardware entry, while
// StateFreeze stays software-only.
type State int

const (
	// StateOn is the operative state. It is not a valid suspend target.
	StateOn State = iota
	// StateFreeze is the lightweight sleep variant: frozen tasks,
	// suspended devices, idle processors. No hardware entry.
	StateFreeze
	// StateStandby is a shallow hardware sleep with fast wakeup.
	StateStandby
	// StateMem is suspend-to-RAM, the deepest volatile sleep.
	StateMem
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateOn:
		return "on"
	case StateFreeze:
		return "freeze"
	case StateStandby:
		return "standby"
	case StateMem:
		return "mem"
	default:
		return "unknown"
	}
}

// NeedsDriver reports whether entering s requires a platform driver.
func (s State) NeedsDriver() bool {
	return s > StateFreeze
}

// valid reports whether s is inside the suspendable range.
func (s State) valid() bool {
	return s >= StateFreeze && s <= StateMem
}

// ParseState maps a state name to its State value. Only suspendable
// states parse; "on" is rejected along with unknown names.
func ParseState(name string) (State, error) {
	switch name {
	case "freeze":
		return StateFreeze, nil
	case "standby":
		return StateStandby, nil
	case "mem":
		return StateMem, nil
	default:
		return StateOn, fmt.Errorf("%w: %q", ErrInvalidState, name)
	}
}
