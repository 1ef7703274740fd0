package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ligustah/urlcat/internal/config"
	slurphttp "github.com/ligustah/urlcat/internal/http"
	"github.com/ligustah/urlcat/internal/progress"
	"github.com/ligustah/urlcat/internal/sink"
	"github.com/ligustah/urlcat/pkg/urlcat"
	"github.com/ligustah/urlcat/pkg/urlcat/blobsource"
)

// runCat streams the concatenation of the given URLs to a file, stdout or
// an object in a bucket.
func runCat(args []string) int {
	fs := flag.NewFlagSet("cat", flag.ContinueOnError)

	configPath := fs.String("config", "", "YAML config file")
	start := fs.String("start", "", "Range start offset (e.g. 1024 or 1KB)")
	end := fs.String("end", "", "Range length past start (e.g. 4MB)")
	output := fs.String("output", "", "Output file path (default stdout)")
	bucket := fs.String("bucket", "", "Destination bucket URL")
	object := fs.String("object", "", "Destination object key (with -bucket)")
	sourceBucket := fs.String("source-bucket", "", "Read arguments as object keys from this bucket URL")
	logError := fs.Bool("log-error", false, "Log probe and fetch errors to stderr")
	showProgress := fs.Bool("progress", false, "Show progress output")
	timeout := fs.Duration("timeout", 0, "Per-request timeout (0 disables)")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: urlcat cat [options] URL...

Stream the concatenation of URLs, in order. With -start or -end only the
requested byte range is written and resources outside it are not fetched.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return ExitSuccess
		}
		return ExitInvalidArgs
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadFromFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitInvalidArgs
		}
		cfg = loaded
	}
	if err := cfg.LoadFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}

	override := config.Config{
		URLs:         fs.Args(),
		LogError:     *logError,
		Output:       *output,
		Bucket:       *bucket,
		Object:       *object,
		SourceBucket: *sourceBucket,
		Progress:     *showProgress,
		Timeout:      *timeout,
	}
	if *start != "" || *end != "" {
		rng, err := parseRangeFlags(*start, *end)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitInvalidArgs
		}
		override.Range = rng
	}
	cfg = cfg.Merge(override)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fs.Usage()
		return ExitInvalidArgs
	}

	ctx, cancel := signalContext()
	defer cancel()

	return catURLs(ctx, cfg)
}

func parseRangeFlags(start, end string) (*config.RangeConfig, error) {
	var rng config.RangeConfig
	if start != "" {
		n, err := progress.ParseBytes(start)
		if err != nil {
			return nil, fmt.Errorf("invalid -start: %w", err)
		}
		rng.Start = n
	}
	if end != "" {
		n, err := progress.ParseBytes(end)
		if err != nil {
			return nil, fmt.Errorf("invalid -end: %w", err)
		}
		rng.End = n
	}
	return &rng, nil
}

func catURLs(ctx context.Context, cfg config.Config) int {
	opts, closeSource, err := sourceOptions(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening source bucket: %v\n", err)
		return ExitStorageError
	}
	defer closeSource()

	var (
		stream io.ReadCloser
		total  int64
		count  = len(cfg.URLs)
	)
	if opts.Range != nil || cfg.Progress {
		res, err := urlcat.StreamWithMetadata(ctx, cfg.URLs, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitGeneralError
		}
		stream = res.Stream
		count = len(res.URLs)
		total = expectedSize(res)
	} else {
		stream = urlcat.StreamFromURLs(ctx, cfg.URLs, opts)
	}

	w, err := sink.Open(ctx, cfg.Destination())
	if err != nil {
		stream.Close()
		fmt.Fprintf(os.Stderr, "Error opening output: %v\n", err)
		return ExitStorageError
	}

	var wrap func(io.Writer) io.Writer
	if cfg.Progress {
		reporter := progress.NewReporter(progress.Options{
			TotalSize: total,
			Resources: count,
		})
		reporter.Start()
		defer reporter.Stop()
		wrap = reporter.Writer
	}

	if _, err := sink.Copy(w, stream, wrap); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		switch {
		case ctx.Err() != nil:
			return ExitGeneralError
		case isSourceError(err):
			return ExitSourceNotAccess
		case cfg.Bucket != "":
			return ExitStorageError
		default:
			return ExitGeneralError
		}
	}

	return ExitSuccess
}

// sourceOptions builds stream options from cfg. The returned func releases
// any bucket opened for -source-bucket.
func sourceOptions(ctx context.Context, cfg config.Config) (urlcat.Options, func(), error) {
	opts := urlcat.Options{
		Header:   cfg.Header(),
		LogError: cfg.LogError,
		Range:    cfg.URLRange(),
	}

	if cfg.SourceBucket == "" {
		opts.Transport = slurphttp.NewClient(cfg.HTTPOptions())
		return opts, func() {}, nil
	}

	src, err := blobsource.Open(ctx, cfg.SourceBucket)
	if err != nil {
		return urlcat.Options{}, nil, err
	}
	opts.Transport = src
	return opts, func() { src.Close() }, nil
}

// expectedSize is the number of bytes res is expected to produce, or 0 if
// unknown. Ranged output is always reported as unknown.
func expectedSize(res *urlcat.Result) int64 {
	if res.Range != nil {
		return 0
	}

	var total int64
	for _, md := range res.Metadata {
		if md.ContentLength <= 0 {
			return 0
		}
		total += md.ContentLength
	}
	return total
}
