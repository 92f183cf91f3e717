package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tunegen/tunegen/internal/platform/errors"
)

const (
	exitOK    = 0
	exitUsage = 2
	exitError = 1
)

// callerPWDEnv lets wrapper scripts that cd elsewhere keep the user's
// directory as the base for relative paths and default output.
const callerPWDEnv = "TUNEGEN_CALLER_PWD"

// Streams are the process outputs. Summaries go to Stdout, logs to Stderr.
type Streams struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes the CLI for os.Args-style argv and returns the exit code.
// SIGINT cancels the run between files.
func Run(argv []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	args := []string{}
	if len(argv) > 1 {
		args = argv[1:]
	}
	return Execute(ctx, args, Streams{Stdout: os.Stdout, Stderr: os.Stderr})
}

// Execute runs the command tree on args (without the program name).
func Execute(ctx context.Context, args []string, streams Streams) int {
	root := newRootCmd(streams)
	root.SetArgs(args)
	root.SetOut(streams.Stdout)
	root.SetErr(streams.Stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	_, _ = fmt.Fprintln(streams.Stderr, "error: "+err.Error())
	return exitCode(err)
}

func newRootCmd(streams Streams) *cobra.Command {
	root := &cobra.Command{
		Use:           "tunegen",
		Short:         "Turn a project tree into training and validation JSONL datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.NewUsage(err.Error())
	})

	root.AddCommand(newGenerateCmd(streams))
	root.AddCommand(newVersionCmd(streams))
	return root
}

func exitCode(err error) int {
	switch errors.KindOf(err) {
	case errors.KindUsage, errors.KindConfig, errors.KindInvalidRatio, errors.KindPathNotFound:
		return exitUsage
	case "":
		if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
			return exitError
		}
		// cobra's own errors: unknown command, bad arguments.
		return exitUsage
	default:
		return exitError
	}
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return errors.NewUsage(err.Error())
		}
		return nil
	}
}

func invocationCWD() string {
	if v := strings.TrimSpace(os.Getenv(callerPWDEnv)); v != "" {
		if abs, err := filepath.Abs(v); err == nil {
			return abs
		}
		return v
	}
	if cwd, err := os.Getwd(); err == nil && strings.TrimSpace(cwd) != "" {
		return cwd
	}
	return "."
}
