// Command yarowsky disambiguates one word across a news corpus by
// bootstrapping a decision list from seed collocations.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Version info
const Version = "0.3.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
