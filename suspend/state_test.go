package suspend

import (
	"errors"
	"testing"
)

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateOn, "on"},
		{StateFreeze, "freeze"},
		{StateStandby, "standby"},
		{StateMem, "mem"},
		{State(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", int(tt.state), got, tt.want)
		}
	}
}

func TestState_NeedsDriver(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{StateOn, false},
		{StateFreeze, false},
		{StateStandby, true},
		{StateMem, true},
	}

	for _, tt := range tests {
		if got := tt.state.NeedsDriver(); got != tt.want {
			t.Errorf("%v.NeedsDriver() = %v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestParseState(t *testing.T) {
	for _, state := range []State{StateFreeze, StateStandby, StateMem} {
		got, err := ParseState(state.String())
		if err != nil {
			t.Fatalf("ParseState(%q) error = %v", state.String(), err)
		}
		if got != state {
			t.Errorf("ParseState(%q) = %v, want %v", state.String(), got, state)
		}
	}
}

func TestParseState_Rejects(t *testing.T) {
	// "on" names the operative state, not a sleep target, so it does
	// not parse either.
	for _, name := range []string{"on", "disk", "MEM", "mem ", ""} {
		if _, err := ParseState(name); !errors.Is(err, ErrInvalidState) {
			t.Errorf("ParseState(%q) error = %v, want %v", name, err, ErrInvalidState)
		}
	}
}
