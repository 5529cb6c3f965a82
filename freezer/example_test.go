package freezer_test

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/powerops/freezer"
)

func ExampleSet() {
	set := freezer.NewSet()
	task := set.Register("indexer")

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			// A well-behaved worker checkpoints between work items.
			task.Checkpoint()
			select {
			case <-stop:
				return
			default:
				time.Sleep(time.Millisecond)
			}
		}
	}()

	if err := set.FreezeAll(context.Background()); err != nil {
		fmt.Println("freeze failed:", err)
		return
	}
	fmt.Println("frozen:", set.Frozen())

	set.ThawAll()
	close(stop)
	<-done
	fmt.Println("frozen:", set.Frozen())

	// Output:
	// frozen: true
	// frozen: false
}

func ExampleSet_timeout() {
	set := freezer.NewSet(freezer.Config{Timeout: 10 * time.Millisecond})
	set.Register("stuck-worker")

	// The worker never checkpoints, so freezing gives up at the deadline.
	err := set.FreezeAll(context.Background())
	fmt.Println(err)

	// Output:
	// freezer: freezing of tasks failed after 10ms (busy: stuck-worker)
}
