package wakeup

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jonwraymond/powerops/observe"
	"github.com/jonwraymond/powerops/suspend"
)

// Config holds the settings for a wakeup registry.
type Config struct {
	// OnWake is invoked after any event is recorded or a source
	// activates, outside the registry lock. It is typically wired to
	// the suspend manager's Wake method so that an idle freeze ends as
	// soon as something happens. Default: nil (no callback).
	OnWake func()

	// Logger receives a diagnostic line naming the sources that held
	// the system awake whenever a pending wakeup aborts a sleep.
	// Default: observe.NopLogger()
	Logger observe.Logger
}

// Source reports wakeup events on behalf of one device or subsystem.
// Create sources with Registry.NewSource; the zero value is not usable.
type Source struct {
	reg    *Registry
	name   string
	active bool   // guarded by reg.mu
	events uint64 // guarded by reg.mu
}

// Name returns the name the source was registered under.
func (s *Source) Name() string { return s.name }

// Active reports whether the source currently holds the system awake.
func (s *Source) Active() bool {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	return s.active
}

// Events returns the number of completed events this source reported.
func (s *Source) Events() uint64 {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	return s.events
}

// Activate opens a wake hold: the system counts as busy until
// Deactivate is called. Activating an already active source is a no-op.
func (s *Source) Activate() {
	s.reg.mu.Lock()
	if s.active {
		s.reg.mu.Unlock()
		return
	}
	s.active = true
	s.reg.inProgress++
	s.reg.mu.Unlock()

	s.reg.notify()
}

// Deactivate closes a wake hold and counts the event as completed.
// Deactivating an inactive source is a no-op.
func (s *Source) Deactivate() {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	if !s.active {
		return
	}
	s.active = false
	s.events++
	s.reg.inProgress--
	s.reg.counter++
}

// RecordEvent reports an instantaneous wakeup event: the completed
// count advances without opening a hold.
func (s *Source) RecordEvent() {
	s.reg.mu.Lock()
	s.events++
	s.reg.counter++
	s.reg.mu.Unlock()

	s.reg.notify()
}

// Registry aggregates wakeup events across all registered sources.
// It is safe for concurrent use.
type Registry struct {
	config Config
	log    observe.Logger

	mu         sync.Mutex
	sources    map[*Source]struct{}
	counter    uint64 // completed events across all sources
	inProgress int    // open wake holds
	armed      bool
	saved      uint64
}

// NewRegistry creates a wakeup registry with the given configuration.
func NewRegistry(config ...Config) *Registry {
	cfg := Config{}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}
	return &Registry{
		config:  cfg,
		log:     cfg.Logger.WithSubsystem("wakeup"),
		sources: make(map[*Source]struct{}),
	}
}

// NewSource registers a new event source under the given name. Names
// are diagnostic only and need not be unique.
func (r *Registry) NewSource(name string) *Source {
	s := &Source{reg: r, name: name}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[s] = struct{}{}
	return s
}

// Unregister removes a source. An open wake hold is closed first so the
// in-progress accounting stays balanced.
func (r *Registry) Unregister(s *Source) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sources[s]; !ok {
		return
	}
	if s.active {
		s.active = false
		r.inProgress--
		r.counter++
	}
	delete(r.sources, s)
}

// Counter returns the number of completed wakeup events so far.
func (r *Registry) Counter() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counter
}

// Arm enables pendency checking against the given count snapshot.
// It fails with ErrStaleCount when events completed past the snapshot
// or a wake hold is open, in which case the registry stays disarmed.
func (r *Registry) Arm(count uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.armed = false
	if r.inProgress > 0 {
		return fmt.Errorf("%w: %d wake holds in progress", ErrStaleCount, r.inProgress)
	}
	if r.counter != count {
		return fmt.Errorf("%w: count is %d, snapshot was %d", ErrStaleCount, r.counter, count)
	}
	r.saved = count
	r.armed = true
	return nil
}

// Pending reports whether a wakeup event fired since the registry was
// armed. Detecting pendency disarms the registry, so the caller must
// re-arm before the next sleep attempt. An unarmed registry never
// reports pending.
func (r *Registry) Pending() bool {
	r.mu.Lock()
	if !r.armed {
		r.mu.Unlock()
		return false
	}
	pending := r.counter != r.saved || r.inProgress > 0
	if pending {
		r.armed = false
	}
	var blockers []string
	if pending {
		blockers = r.activeNamesLocked()
	}
	r.mu.Unlock()

	if pending {
		r.log.Info(context.Background(), "wakeup pending, aborting sleep",
			observe.Field{Key: "active_sources", Value: strings.Join(blockers, " ")})
	}
	return pending
}

// Disarm disables pendency checking until the next Arm.
func (r *Registry) Disarm() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.armed = false
}

// Armed reports whether pendency checking is enabled.
func (r *Registry) Armed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.armed
}

// ActiveNames returns the names of sources holding the system awake,
// sorted for stable diagnostics.
func (r *Registry) ActiveNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeNamesLocked()
}

func (r *Registry) activeNamesLocked() []string {
	var names []string
	for s := range r.sources {
		if s.active {
			names = append(names, s.name)
		}
	}
	sort.Strings(names)
	return names
}

func (r *Registry) notify() {
	if r.config.OnWake != nil {
		r.config.OnWake()
	}
}

var _ suspend.WakeSource = (*Registry)(nil)
