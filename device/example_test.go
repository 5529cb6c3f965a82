package device_test

import (
	"context"
	"fmt"

	"github.com/jonwraymond/powerops/device"
)

func ExampleRegistry() {
	reg := device.NewRegistry()

	reg.Register("storage", device.Callbacks{
		Suspend: func(context.Context) error {
			fmt.Println("storage: flush and park")
			return nil
		},
		Resume: func(context.Context) error {
			fmt.Println("storage: spin up")
			return nil
		},
	})
	reg.Register("network", device.Callbacks{
		Suspend: func(context.Context) error {
			fmt.Println("network: close links")
			return nil
		},
		Resume: func(context.Context) error {
			fmt.Println("network: reconnect")
			return nil
		},
	})

	ctx := context.Background()

	// Devices suspend newest-first and resume oldest-first.
	if err := reg.SuspendStart(ctx); err != nil {
		fmt.Println("suspend failed:", err)
		return
	}
	if err := reg.ResumeEnd(ctx); err != nil {
		fmt.Println("resume failed:", err)
		return
	}

	// Output:
	// network: close links
	// storage: flush and park
	// storage: spin up
	// network: reconnect
}
