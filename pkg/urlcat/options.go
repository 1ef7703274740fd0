package urlcat

import (
	"context"
	"iter"
	"log"
	"net/http"
	"os"
	"sync"

	slurphttp "github.com/ligustah/urlcat/internal/http"
)

// Range is a byte window over the concatenation of all resources.
//
// Start is the first byte offset to include. End is applied to the chunk in
// which Start falls as the upper bound of chunk[Start:Start+End]; during
// pruning it is compared against cumulative resource lengths.
type Range struct {
	Start int64
	End   int64
}

// Transport is the HTTP collaborator used to probe and stream resources.
// Returned responses must have their bodies closed already.
type Transport interface {
	// Head performs a lightweight existence probe.
	Head(ctx context.Context, url string, header http.Header) (*http.Response, error)

	// ProbeGet performs a GET that is cancelled once headers arrive.
	ProbeGet(ctx context.Context, url string, header http.Header) (*http.Response, error)

	// Stream returns the body of url as a lazy chunk sequence.
	Stream(ctx context.Context, url string, header http.Header) iter.Seq2[[]byte, error]
}

// Mapper produces the chunk sequence for a URL in place of the transport.
// Returning nil falls back to the transport.
type Mapper interface {
	Map(ctx context.Context, url string, opts any) iter.Seq2[[]byte, error]
}

// MapperFunc adapts a function to the Mapper interface.
type MapperFunc func(ctx context.Context, url string, opts any) iter.Seq2[[]byte, error]

// Map calls f.
func (f MapperFunc) Map(ctx context.Context, url string, opts any) iter.Seq2[[]byte, error] {
	return f(ctx, url, opts)
}

// Options configures concatenation. The zero value streams every URL over
// the default transport with no range.
type Options struct {
	// Transport performs the HTTP requests. Default: an internal client with
	// slurphttp.DefaultOptions.
	Transport Transport

	// Header is added to every request issued through Transport.
	Header http.Header

	// Mapper, when set, produces chunk sequences instead of Transport.
	Mapper Mapper

	// MapperOptions is passed through to Mapper.
	MapperOptions any

	// LogError enables logging of metadata probe failures.
	LogError bool

	// Logger receives probe failures when LogError is set.
	// Default: stderr with an "[urlcat] " prefix.
	Logger *log.Logger

	// Range restricts the output. Only honored on the metadata path.
	Range *Range
}

var (
	defaultTransportOnce sync.Once
	defaultTransport     Transport
)

func (o Options) transport() Transport {
	if o.Transport != nil {
		return o.Transport
	}
	defaultTransportOnce.Do(func() {
		defaultTransport = slurphttp.NewClient(slurphttp.DefaultOptions())
	})
	return defaultTransport
}

func (o Options) logf(format string, args ...any) {
	if !o.LogError {
		return
	}
	logger := o.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "[urlcat] ", log.LstdFlags)
	}
	logger.Printf(format, args...)
}
