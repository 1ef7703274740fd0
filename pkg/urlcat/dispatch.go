package urlcat

import (
	"context"
	"iter"
)

// dispatch builds one chunk sequence per URL, in order. Sequences are built
// up front; no request is made until a sequence is iterated.
func dispatch(ctx context.Context, urls []string, opts Options) []iter.Seq2[[]byte, error] {
	streams := make([]iter.Seq2[[]byte, error], len(urls))
	for i, url := range urls {
		var seq iter.Seq2[[]byte, error]
		if opts.Mapper != nil {
			seq = opts.Mapper.Map(ctx, url, opts.MapperOptions)
		}
		if seq == nil {
			seq = opts.transport().Stream(ctx, url, opts.Header)
		}
		streams[i] = seq
	}
	return streams
}
