package suspend

import (
	"context"
	"errors"
	"runtime"
	"runtime/debug"
	"testing"
)

func TestRuntimeProcessors_OfflineOnline(t *testing.T) {
	before := runtime.GOMAXPROCS(0)
	p := NewRuntimeProcessors()

	if err := p.OfflineAll(context.Background()); err != nil {
		t.Fatalf("OfflineAll() error = %v", err)
	}
	if got := runtime.GOMAXPROCS(0); got != 1 {
		t.Errorf("GOMAXPROCS after offline = %d, want 1", got)
	}

	p.OnlineAll()
	if got := runtime.GOMAXPROCS(0); got != before {
		t.Errorf("GOMAXPROCS after online = %d, want %d", got, before)
	}
}

func TestRuntimeProcessors_OnlineWithoutOffline(t *testing.T) {
	before := runtime.GOMAXPROCS(0)

	p := NewRuntimeProcessors()
	p.OnlineAll()

	if got := runtime.GOMAXPROCS(0); got != before {
		t.Errorf("GOMAXPROCS = %d after stray OnlineAll, want %d", got, before)
	}
}

func TestRuntimeProcessors_CancelledContext(t *testing.T) {
	before := runtime.GOMAXPROCS(0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewRuntimeProcessors()
	if err := p.OfflineAll(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("OfflineAll() error = %v, want %v", err, context.Canceled)
	}
	if got := runtime.GOMAXPROCS(0); got != before {
		t.Errorf("GOMAXPROCS = %d after rejected offline, want %d", got, before)
	}
}

func TestDirectInterrupts_Toggles(t *testing.T) {
	d := NewDirectInterrupts()

	if d.Disabled() {
		t.Error("Disabled() = true before Disable")
	}
	d.Disable()
	if !d.Disabled() {
		t.Error("Disabled() = false after Disable")
	}
	d.Enable()
	if d.Disabled() {
		t.Error("Disabled() = true after Enable")
	}
}

func TestGCThrottle_RestrictRestore(t *testing.T) {
	orig := debug.SetGCPercent(100)
	defer debug.SetGCPercent(orig)

	g := NewGCThrottle()
	g.Restrict()
	if got := debug.SetGCPercent(-1); got != -1 {
		t.Errorf("GC percent during restriction = %d, want -1", got)
	}

	g.Restore()
	if got := debug.SetGCPercent(100); got != 100 {
		t.Errorf("GC percent after restore = %d, want 100", got)
	}
}

func TestGCThrottle_NestedRestrictCollapses(t *testing.T) {
	orig := debug.SetGCPercent(100)
	defer debug.SetGCPercent(orig)

	g := NewGCThrottle()
	g.Restrict()
	// A second restriction must not capture the disabled setting as
	// the value to restore.
	g.Restrict()
	g.Restore()

	if got := debug.SetGCPercent(100); got != 100 {
		t.Errorf("GC percent after collapsed restore = %d, want 100", got)
	}
}

func TestGCThrottle_RestoreWithoutRestrict(t *testing.T) {
	orig := debug.SetGCPercent(100)
	defer debug.SetGCPercent(orig)

	g := NewGCThrottle()
	g.Restore()

	if got := debug.SetGCPercent(100); got != 100 {
		t.Errorf("GC percent after stray restore = %d, want 100", got)
	}
}
