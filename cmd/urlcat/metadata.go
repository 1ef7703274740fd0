package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ligustah/urlcat/internal/config"
	slurphttp "github.com/ligustah/urlcat/internal/http"
	"github.com/ligustah/urlcat/pkg/urlcat"
)

// stdout is where metadata records are printed. Tests replace it.
var stdout io.Writer = os.Stdout

// runMetadata prints one JSON record per URL. Probe failures never fail
// the command: the record of an unreachable URL carries only its URL.
func runMetadata(args []string) int {
	fs := flag.NewFlagSet("metadata", flag.ContinueOnError)

	logError := fs.Bool("log-error", false, "Log probe errors to stderr")
	timeout := fs.Duration("timeout", 0, "Per-request timeout (0 disables)")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: urlcat metadata [options] URL...

Probe each URL with HEAD, falling back to GET, and print its response
metadata as one JSON object per line.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return ExitSuccess
		}
		return ExitInvalidArgs
	}

	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one URL is required")
		fs.Usage()
		return ExitInvalidArgs
	}

	cfg := config.Default()
	cfg.Timeout = *timeout

	ctx, cancel := signalContext()
	defer cancel()

	metadata := urlcat.GetMetadata(ctx, fs.Args(), urlcat.Options{
		Transport: slurphttp.NewClient(cfg.HTTPOptions()),
		LogError:  *logError,
	})

	enc := json.NewEncoder(stdout)
	for _, md := range metadata {
		fields, err := md.Fields()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", md.URL, err)
			return ExitGeneralError
		}
		if err := enc.Encode(fields); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitGeneralError
		}
	}

	if ctx.Err() != nil {
		return ExitGeneralError
	}
	return ExitSuccess
}
