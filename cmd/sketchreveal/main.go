package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchreveal/internal/cli"
	"github.com/matzehuels/sketchreveal/pkg/errors"
)

// Exit codes beyond 0 and 1.
const (
	exitUsage       = 2   // bad input: unreadable SVG, unknown mode, empty prompt
	exitConfig      = 78  // sysexits EX_CONFIG: no provider configured
	exitInterrupted = 130 // SIGINT
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	cancel()
	if err != nil && !stderrors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, errors.UserMessage(err))
	}
	os.Exit(exitCode(err))
}

// run executes the command line. Commands that start long-lived work
// (serve, play) stop it themselves when ctx is cancelled.
func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	preRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		return preRun(cmd, args)
	}

	return root.ExecuteContext(ctx)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, context.Canceled):
		return exitInterrupted
	case errors.IsInputValidation(err):
		return exitUsage
	case errors.GetCode(err) == errors.ErrCodeConfiguration:
		return exitConfig
	}
	return 1
}
