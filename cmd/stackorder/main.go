package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/stackorder/internal/cli"
	apperrors "github.com/matzehuels/stackorder/pkg/errors"
)

// Set via ldflags: -X main.version=... -X main.commit=... -X main.date=...
var (
	version string
	commit  string
	date    string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, apperrors.UserMessage(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cli.SetVersion(version, commit, date)

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	// Errors are printed once, by main.
	root.SilenceErrors = true

	return root.ExecuteContext(ctx)
}
