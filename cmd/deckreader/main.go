// Command deckreader extracts slide text in reading order from PowerPoint
// decks.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tsawler/deckreader/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
