package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"slices"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if hasVerboseFlag(os.Args[1:]) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...any) {}))
	}

	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args, DefaultEnv())
	stop()
	os.Exit(code)
}

// hasVerboseFlag reports whether -v or --verbose appears before flag parsing.
func hasVerboseFlag(args []string) bool {
	return slices.Contains(args, "-v") || slices.Contains(args, "--verbose")
}

// runMain dispatches to a command and maps its error to an exit code.
func runMain(ctx context.Context, args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	warnUnknownEnvVars(env.Stderr)

	cmd, rest := args[1], args[2:]
	var err error
	switch cmd {
	case "edit":
		err = runEdit(ctx, rest, env)
	case "extract":
		err = runExtract(ctx, rest, env)
	case "history":
		err = runHistory(ctx, rest, env)
	case "doctor":
		return runDoctorCmd(ctx, rest, env)
	case "completion":
		err = runCompletion(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "pdfedit %s (%s/%s, %s)\n", Version, runtime.GOOS, runtime.GOARCH, runtime.Version())
	case "help", "-h", "--help":
		err = runHelp(rest, env)
	default:
		printUsage(env.Stderr)
		err = fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}

	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(env.Stderr, "canceled")
		} else {
			fmt.Fprintf(env.Stderr, "error: %v\n", err)
		}
		return exitCodeFor(err)
	}
	return ExitSuccess
}
