package suspend

import (
	"fmt"
	"time"
)

// TestLevel selects a checkpoint at which a transition aborts and
// unwinds instead of entering the sleep state. Each level stops one
// step deeper into the sequence, so the rollback path from that depth
// can be exercised on its own.
type TestLevel int

const (
	// TestNone disables checkpointing; transitions run to completion.
	TestNone TestLevel = iota
	// TestCore aborts after core subsystems suspend, in place of the
	// hardware entry itself.
	TestCore
	// TestProcessors aborts after secondary processors go offline.
	TestProcessors
	// TestPlatform aborts after the platform's late preparation.
	TestPlatform
	// TestDevices aborts after devices reach the late suspend point.
	TestDevices
	// TestFreezer aborts after tasks freeze, before any device work.
	TestFreezer
)

// TestLevels lists all checkpoint levels from none to shallowest.
var TestLevels = []TestLevel{
	TestNone,
	TestCore,
	TestProcessors,
	TestPlatform,
	TestDevices,
	TestFreezer,
}

// String returns the level's name.
func (l TestLevel) String() string {
	switch l {
	case TestNone:
		return "none"
	case TestCore:
		return "core"
	case TestProcessors:
		return "processors"
	case TestPlatform:
		return "platform"
	case TestDevices:
		return "devices"
	case TestFreezer:
		return "freezer"
	default:
		return "unknown"
	}
}

// ParseTestLevel maps a level name to its TestLevel.
func ParseTestLevel(name string) (TestLevel, error) {
	for _, l := range TestLevels {
		if l.String() == name {
			return l, nil
		}
	}
	return TestNone, fmt.Errorf("%w: %q", ErrInvalidTestLevel, name)
}

// TestConfig holds the checkpoint settings for rollback testing.
type TestConfig struct {
	// Level is the checkpoint at which transitions abort.
	// Default: TestNone
	Level TestLevel

	// Delay holds the system at the checkpoint before unwinding, so
	// externally visible effects of that depth can be observed. The
	// wait is a busy spin: at checkpoint depth timers may be gone.
	// Default: 0
	Delay time.Duration
}

// SetTestMode installs the checkpoint configuration. It applies to
// transitions that start after the call.
func (m *Manager) SetTestMode(cfg TestConfig) {
	m.testMu.Lock()
	defer m.testMu.Unlock()
	m.test = cfg
}

// TestMode returns the current checkpoint configuration.
func (m *Manager) TestMode() TestConfig {
	m.testMu.RLock()
	defer m.testMu.RUnlock()
	return m.test
}

// checkpoint reports whether the transition should abort at the given
// level, holding for the configured delay first when it should.
func (m *Manager) checkpoint(level TestLevel) bool {
	m.testMu.RLock()
	cfg := m.test
	m.testMu.RUnlock()
	if cfg.Level != level {
		return false
	}
	if cfg.Delay > 0 {
		deadline := time.Now().Add(cfg.Delay)
		for time.Now().Before(deadline) {
		}
	}
	return true
}
