package suspend

import "sync"

// freezeGate is the idle wait at the bottom of the freeze state. The
// signal is latched until the next reset, so a wakeup raised at any
// point after the attempt starts is never lost, even when it arrives
// before the gate begins waiting.
type freezeGate struct {
	mu    sync.Mutex
	cond  *sync.Cond
	woken bool
}

func newFreezeGate() *freezeGate {
	g := &freezeGate{}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// reset clears a stale latch. Called once at the start of each freeze
// attempt, before any collaborator runs.
func (g *freezeGate) reset() {
	g.mu.Lock()
	g.woken = false
	g.mu.Unlock()
}

// wait blocks until signal latches a wakeup.
func (g *freezeGate) wait() {
	g.mu.Lock()
	for !g.woken {
		g.cond.Wait()
	}
	g.mu.Unlock()
}

// signal latches a wakeup and releases any waiter.
func (g *freezeGate) signal() {
	g.mu.Lock()
	g.woken = true
	g.mu.Unlock()
	g.cond.Broadcast()
}
