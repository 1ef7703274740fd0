// Package http provides the HTTP transport used to fetch and probe the
// resources being concatenated.
//
// This package handles:
//   - HEAD requests to read resource metadata
//   - GET probes that are cancelled as soon as headers arrive, for servers
//     that reject HEAD
//   - Streaming GET requests exposed as lazy chunk sequences
//   - Retry with exponential backoff
//
// # Usage
//
//	client := http.NewClient(http.Options{
//	    MaxIdleConnsPerHost: 16,
//	    Timeout:             30 * time.Second,
//	    RetryAttempts:       3,
//	})
//
//	// Probe a resource
//	resp, err := client.Head(ctx, url, nil)
//	// resp.StatusCode, resp.Header.Get("Content-Length")
//
//	// Stream a resource
//	for chunk, err := range client.Stream(ctx, url, nil) {
//	    ...
//	}
package http
