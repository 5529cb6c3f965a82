package freezer

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jonwraymond/powerops/suspend"
)

// Config configures a Set.
type Config struct {
	// Timeout bounds how long FreezeAll waits for every task to park.
	// Default: 20 seconds
	Timeout time.Duration
}

// Task is one cooperatively freezable worker. The goroutine owning it
// calls Checkpoint at points where pausing is safe.
type Task struct {
	name   string
	set    *Set
	parked bool // guarded by set.mu
}

// Name returns the task name.
func (t *Task) Name() string {
	return t.name
}

// Checkpoint parks the calling goroutine while a freeze is in force and
// returns once the Set is thawed. With no freeze in force it returns
// immediately.
func (t *Task) Checkpoint() {
	s := t.set
	s.mu.Lock()
	for s.frozen {
		t.parked = true
		s.cond.Broadcast()
		s.cond.Wait()
	}
	t.parked = false
	s.mu.Unlock()
}

// Set tracks freezable tasks and drives freeze/thaw cycles over them.
type Set struct {
	config Config

	mu     sync.Mutex
	cond   *sync.Cond
	frozen bool
	tasks  map[*Task]struct{}
}

// NewSet creates a task set.
func NewSet(config ...Config) *Set {
	cfg := Config{
		Timeout: 20 * time.Second,
	}
	if len(config) > 0 {
		cfg = config[0]
		if cfg.Timeout <= 0 {
			cfg.Timeout = 20 * time.Second
		}
	}

	s := &Set{
		config: cfg,
		tasks:  make(map[*Task]struct{}),
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Register adds a task. The returned Task belongs to the goroutine that
// will call Checkpoint on it.
func (s *Set) Register(name string) *Task {
	t := &Task{name: name, set: s}

	s.mu.Lock()
	s.tasks[t] = struct{}{}
	s.mu.Unlock()

	return t
}

// Unregister removes a task from freeze accounting. A goroutine already
// parked in Checkpoint stays parked until the next thaw.
func (s *Set) Unregister(t *Task) {
	s.mu.Lock()
	delete(s.tasks, t)
	s.mu.Unlock()
}

// Names returns the registered task names, sorted.
func (s *Set) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.tasks))
	for t := range s.tasks {
		names = append(names, t.name)
	}
	sort.Strings(names)
	return names
}

// Frozen reports whether a freeze is in force.
func (s *Set) Frozen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frozen
}

// FreezeAll demands a freeze and waits until every registered task has
// parked in Checkpoint. On timeout or context cancellation the freeze is
// released before returning, so either all tasks end up frozen or none
// do; the timeout error names the tasks that failed to park.
func (s *Set) FreezeAll(ctx context.Context) error {
	s.mu.Lock()
	s.frozen = true
	s.cond.Broadcast()

	timedOut := false
	timer := time.AfterFunc(s.config.Timeout, func() {
		s.mu.Lock()
		timedOut = true
		s.mu.Unlock()
		s.cond.Broadcast()
	})
	defer timer.Stop()

	stop := context.AfterFunc(ctx, func() {
		s.cond.Broadcast()
	})
	defer stop()

	for !s.allParkedLocked() {
		if timedOut {
			busy := s.busyNamesLocked()
			s.releaseLocked()
			s.mu.Unlock()
			return fmt.Errorf("%w after %v (busy: %s)",
				ErrFreezeTimeout, s.config.Timeout, strings.Join(busy, ", "))
		}
		if err := ctx.Err(); err != nil {
			s.releaseLocked()
			s.mu.Unlock()
			return fmt.Errorf("%w: %v", ErrFreezeAborted, err)
		}
		s.cond.Wait()
	}
	s.mu.Unlock()
	return nil
}

// ThawAll releases every parked task. Idempotent; safe to call with no
// freeze in force.
func (s *Set) ThawAll() {
	s.mu.Lock()
	s.releaseLocked()
	s.mu.Unlock()
}

func (s *Set) allParkedLocked() bool {
	for t := range s.tasks {
		if !t.parked {
			return false
		}
	}
	return true
}

func (s *Set) busyNamesLocked() []string {
	var busy []string
	for t := range s.tasks {
		if !t.parked {
			busy = append(busy, t.name)
		}
	}
	sort.Strings(busy)
	return busy
}

func (s *Set) releaseLocked() {
	s.frozen = false
	s.cond.Broadcast()
}

// Ensure Set satisfies the suspend collaborator contract.
var _ suspend.Freezer = (*Set)(nil)
