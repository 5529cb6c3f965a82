package syscore_test

import (
	"fmt"

	"github.com/jonwraymond/powerops/syscore"
)

func ExampleRegistry() {
	reg := syscore.NewRegistry()

	reg.Register("clocksource", syscore.Op{
		Suspend: func() error {
			fmt.Println("clocksource down")
			return nil
		},
		Resume: func() { fmt.Println("clocksource up") },
	})
	reg.Register("rtc", syscore.Op{
		Suspend: func() error {
			fmt.Println("rtc down")
			return nil
		},
		Resume: func() { fmt.Println("rtc up") },
	})

	// Suspend runs newest-first, Resume runs oldest-first.
	if err := reg.Suspend(); err == nil {
		reg.Resume()
	}

	// Output:
	// rtc down
	// clocksource down
	// clocksource up
	// rtc up
}
