// Package main is the entry point for the courier command queue tool.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/courier/cmd/courier/commands"
	"go.trai.ch/courier/internal/app"
	"go.trai.ch/courier/internal/core/domain"
	_ "go.trai.ch/courier/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run() int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Initialize application components
	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		// Write directly to stderr
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	// 2. Interface - CLI
	cli := commands.New(components.App)

	// 3. Execution
	if err := cli.Execute(ctx); err != nil {
		// Each failed command was already logged by the resolver.
		if errors.Is(err, domain.ErrCommandFailed) {
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}
