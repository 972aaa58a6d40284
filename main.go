// ./main.go
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/vex0ray/spyglass/cmd"
	"github.com/vex0ray/spyglass/internal/observability"
)

// main is the entry point for the spyglass sidecar.
func main() {
	// A signal-aware context lets a host stop the serve loop cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	observability.Sync()

	// A canceled context is a graceful shutdown, not a failure.
	if err != nil && !errors.Is(err, context.Canceled) {
		os.Exit(1)
	}
}
