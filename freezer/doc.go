// Package freezer quiesces cooperative worker goroutines for the
// duration of a sleep transition.
//
// Workers register with a Set and call Task.Checkpoint at points where it
// is safe to pause. While a freeze is in force, Checkpoint parks the
// calling goroutine; ThawAll releases every parked goroutine at once.
//
// # Freezing
//
// FreezeAll demands a freeze and waits until every registered task has
// parked. A task that never reaches a checkpoint holds the freeze up;
// after the configured timeout FreezeAll gives up, releases anything that
// did park, and returns an error naming the busy tasks:
//
//	set := freezer.NewSet()
//	task := set.Register("uploader")
//
//	go func() {
//	    for work := range jobs {
//	        task.Checkpoint() // parks here while frozen
//	        process(work)
//	    }
//	}()
//
//	if err := set.FreezeAll(ctx); err != nil {
//	    // err names the tasks that refused to freeze
//	}
//
// FreezeAll either freezes everything or leaves nothing frozen, so a
// failed freeze never strands workers. ThawAll is idempotent and safe to
// call with no freeze in force.
package freezer
