// Command distctl runs schema migrations and offline distributions against the configured database.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"donorapi/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logging.New(os.Stderr, "info", time.UTC).Error("distctl_failed", "error_message", err.Error())
		stop()
		os.Exit(1)
	}
}
