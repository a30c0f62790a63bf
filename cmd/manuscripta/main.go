// Package main starts the journal manuscript console: a single-user,
// role-scoped command loop over the journal's SQLite store.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	consolecmd "github.com/openpress/manuscripta/internal/cmd/console"
	"github.com/openpress/manuscripta/internal/platform/config"
)

func main() {
	cfg, err := consolecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := consolecmd.Run(ctx, cfg, os.Stdin, os.Stdout, os.Stderr); err != nil {
		config.Exitf("Error: %v", err)
	}
}
