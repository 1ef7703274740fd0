package urlcat

import (
	"context"
	"errors"
	"iter"
	"testing"
)

// seqOf yields each chunk in order.
func seqOf(chunks ...string) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		for _, c := range chunks {
			if !yield([]byte(c), nil) {
				return
			}
		}
	}
}

// failingSeq yields chunks and then err.
func failingSeq(err error, chunks ...string) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		for _, c := range chunks {
			if !yield([]byte(c), nil) {
				return
			}
		}
		yield(nil, err)
	}
}

// fixedMapper returns the same chunks for every URL.
func fixedMapper(chunks ...string) Mapper {
	return MapperFunc(func(ctx context.Context, url string, opts any) iter.Seq2[[]byte, error] {
		return seqOf(chunks...)
	})
}

// mapperOf maps each URL to its own sequence; unknown URLs return nil.
func mapperOf(streams map[string]iter.Seq2[[]byte, error]) Mapper {
	return MapperFunc(func(ctx context.Context, url string, opts any) iter.Seq2[[]byte, error] {
		return streams[url]
	})
}

func collect(t *testing.T, seq iter.Seq2[[]byte, error]) []string {
	t.Helper()
	var chunks []string
	for chunk, err := range seq {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		chunks = append(chunks, string(chunk))
	}
	return chunks
}

func joined(chunks []string) string {
	var s string
	for _, c := range chunks {
		s += c
	}
	return s
}

var errNoServer = errors.New("no server")
