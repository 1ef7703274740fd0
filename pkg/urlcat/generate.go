package urlcat

import (
	"context"
	"iter"
)

// Generate yields every chunk of every URL, in order, unmodified.
func Generate(ctx context.Context, urls []string, opts Options) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		for _, stream := range dispatch(ctx, urls, opts) {
			for chunk, err := range stream {
				if !yield(chunk, err) || err != nil {
					return
				}
			}
		}
	}
}

// rangeState is folded over every chunk of every URL.
type rangeState struct {
	bytesSeen     int64
	sawRangeStart bool
}

// GenerateWithMetadata yields the concatenation of urls restricted to rng.
// When rng is nil, opts.Range is used; when both are nil every chunk is
// yielded unmodified.
//
// Chunks are dropped until the running byte count passes rng.Start. From the
// chunk that crosses it, chunk[rng.Start:rng.Start+rng.End] is yielded, with
// both bounds clamped to the chunk; every later chunk is yielded whole.
//
// metadata is accepted for parity with StreamWithMetadata and is not
// consulted.
func GenerateWithMetadata(ctx context.Context, urls []string, metadata []Metadata, opts Options, rng *Range) iter.Seq2[[]byte, error] {
	if rng == nil {
		rng = opts.Range
	}

	return func(yield func([]byte, error) bool) {
		var st rangeState

		for _, stream := range dispatch(ctx, urls, opts) {
			for chunk, err := range stream {
				if err != nil {
					yield(nil, err)
					return
				}

				if rng == nil || st.sawRangeStart {
					if !yield(chunk, nil) {
						return
					}
					continue
				}

				st.bytesSeen += int64(len(chunk))
				if st.bytesSeen <= rng.Start {
					continue
				}

				st.sawRangeStart = true
				if !yield(sliceChunk(chunk, rng.Start, rng.Start+rng.End), nil) {
					return
				}
			}
		}
	}
}

// sliceChunk returns chunk[lo:hi] with both bounds clamped to the chunk.
func sliceChunk(chunk []byte, lo, hi int64) []byte {
	n := int64(len(chunk))
	lo = max(0, min(lo, n))
	hi = max(lo, min(hi, n))
	return chunk[lo:hi]
}
