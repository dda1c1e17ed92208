// Command wishctl is a terminal client for the wishes server.
package main

import (
	"Wishwall/internal/cli/commands"
	"Wishwall/internal/config"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Set via -ldflags "-X main.version=... -X main.buildDate=...".
var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	cfg := config.NewConfig()
	if cfg.Version {
		fmt.Fprintf(commands.Out, "Wishwall CLI %s (built %s)\nserver: %s\n", version, buildDate, cfg.ServerURL)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := commands.Dispatch(ctx, cfg, flag.Args())
	stop()
	os.Exit(code)
}
