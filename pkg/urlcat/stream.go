package urlcat

import (
	"context"
	"fmt"
)

// StreamFromURLs returns a reader over the plain concatenation of urls.
func StreamFromURLs(ctx context.Context, urls []string, opts Options) *Reader {
	return NewReader(Generate(ctx, urls, opts))
}

// Result is returned by StreamWithMetadata.
type Result struct {
	// Stream reads the selected bytes. The caller must close it.
	Stream *Reader

	// Metadata holds one record per requested URL, pruned or not.
	Metadata []Metadata

	// URLs is the pruned list that Stream reads from.
	URLs []string

	// Range is the range applied to URLs, relative to the first of them.
	// Nil when no range was requested.
	Range *Range
}

// StreamWithMetadata probes urls, prunes those lying outside opts.Range, and
// returns a stream over the rest together with the metadata of every URL.
// The urls slice is not modified.
func StreamWithMetadata(ctx context.Context, urls []string, opts Options) (*Result, error) {
	metadata := GetMetadata(ctx, urls, opts)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("urlcat: resolve metadata: %w", err)
	}

	lengths := make([]int64, len(metadata))
	for i, md := range metadata {
		lengths[i] = md.contentLength()
	}

	p := resolveRange(lengths, opts.Range)
	kept := p.apply(urls)

	return &Result{
		Stream:   NewReader(GenerateWithMetadata(ctx, kept, metadata, opts, p.rng)),
		Metadata: metadata,
		URLs:     kept,
		Range:    p.rng,
	}, nil
}
