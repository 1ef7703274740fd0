package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	slurphttp "github.com/ligustah/urlcat/internal/http"
	"github.com/ligustah/urlcat/pkg/urlcat/blobsource"
)

// Exit codes
const (
	ExitSuccess         = 0
	ExitGeneralError    = 1
	ExitInvalidArgs     = 2
	ExitSourceNotAccess = 3
	ExitStorageError    = 5
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return ExitInvalidArgs
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "cat":
		return runCat(cmdArgs)
	case "metadata":
		return runMetadata(cmdArgs)
	case "help", "-h", "--help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		return ExitInvalidArgs
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: urlcat <command> [options] URL...

Commands:
  cat       Stream the concatenation of URLs, optionally limited to a byte range
  metadata  Print the response metadata of each URL as JSON

Run 'urlcat <command> -h' for command-specific help.`)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(os.Stderr, "\n[urlcat] Received interrupt, shutting down...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// isSourceError reports whether err means a resource could not be read.
func isSourceError(err error) bool {
	var statusErr *slurphttp.StatusError
	return errors.Is(err, slurphttp.ErrNotFound) ||
		errors.Is(err, slurphttp.ErrForbidden) ||
		errors.Is(err, slurphttp.ErrUnauthorized) ||
		errors.Is(err, slurphttp.ErrMethodNotAllowed) ||
		errors.Is(err, slurphttp.ErrServerError) ||
		errors.Is(err, slurphttp.ErrInvalidURL) ||
		errors.Is(err, blobsource.ErrObjectNotFound) ||
		errors.As(err, &statusErr)
}
