// Command webcheck evaluates configured checks against web pages and keeps
// a history of their results.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/raysh454/webcheck/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.ExecuteContext(ctx)
}
