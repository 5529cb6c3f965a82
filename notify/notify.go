package notify

import (
	"context"
	"errors"
	"sync"

	"github.com/jonwraymond/powerops/suspend"
)

// Event selects which side of a sleep transition is being announced.
type Event int

const (
	// EventPreSuspend is broadcast before tasks are frozen. An observer
	// returning an error vetoes the transition.
	EventPreSuspend Event = iota
	// EventPostSuspend is broadcast after thaw, on the way back to the
	// operative state. Delivery is best-effort: every observer runs.
	EventPostSuspend
)

// String returns the event name.
func (e Event) String() string {
	switch e {
	case EventPreSuspend:
		return "pre-suspend"
	case EventPostSuspend:
		return "post-suspend"
	default:
		return "unknown"
	}
}

// Func is an observer callback. The same observer sees both event kinds
// and must tolerate a post-suspend event with no matching pre-suspend:
// recovery paths announce completion unconditionally.
type Func func(ctx context.Context, event Event) error

// Chain broadcasts sleep transition events to observers in registration
// order.
type Chain struct {
	mu        sync.RWMutex
	observers map[string]Func
	order     []string // Maintains registration order
}

// NewChain creates an empty observer chain.
func NewChain() *Chain {
	return &Chain{
		observers: make(map[string]Func),
		order:     make([]string, 0),
	}
}

// Register adds an observer under name. Re-registering a name replaces
// the callback but keeps its position in the delivery order.
func (c *Chain) Register(name string, fn Func) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.observers[name]; !exists {
		c.order = append(c.order, name)
	}
	c.observers[name] = fn
}

// Unregister removes an observer.
func (c *Chain) Unregister(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.observers, name)

	// Remove from order
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Names returns the observer names in delivery order.
func (c *Chain) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, len(c.order))
	copy(names, c.order)
	return names
}

// Call delivers event to every observer in registration order.
//
// For EventPreSuspend the first error stops delivery and is returned as
// the veto. For EventPostSuspend every observer runs regardless of
// errors, and the collected errors are returned joined.
func (c *Chain) Call(ctx context.Context, event Event) error {
	c.mu.RLock()
	fns := make([]Func, 0, len(c.order))
	for _, name := range c.order {
		fns = append(fns, c.observers[name])
	}
	c.mu.RUnlock()

	if event == EventPreSuspend {
		for _, fn := range fns {
			if err := fn(ctx, event); err != nil {
				return err
			}
		}
		return nil
	}

	var errs []error
	for _, fn := range fns {
		if err := fn(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PreSuspend broadcasts EventPreSuspend.
func (c *Chain) PreSuspend(ctx context.Context) error {
	return c.Call(ctx, EventPreSuspend)
}

// PostSuspend broadcasts EventPostSuspend.
func (c *Chain) PostSuspend(ctx context.Context) error {
	return c.Call(ctx, EventPostSuspend)
}

// Ensure Chain satisfies the suspend collaborator contract.
var _ suspend.Notifier = (*Chain)(nil)
