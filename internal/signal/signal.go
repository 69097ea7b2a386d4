// Package signal provides utilities for handling OS signals in a graceful manner.
package signal

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// RunWithContext calls action with a context that is cancelled when SIGINT
// or SIGTERM arrives. Unlike an immediate exit, this lets the action restore
// terminal state before the process ends. A second signal is handled by the
// runtime's default behavior.
func RunWithContext(action func(context.Context)) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			signal.Stop(sigChan)
			cancel()
		case <-ctx.Done():
		}
	}()

	action(ctx)
}
