// Package blobsource reads resources from a gocloud.dev/blob bucket, so that
// objects can be concatenated in place of HTTP resources.
//
// A Source is both a urlcat.Mapper, for streaming objects while probing
// metadata elsewhere, and a urlcat.Transport, for running the whole ranged
// pipeline against a bucket. Resource "URLs" are object keys.
package blobsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strconv"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"
	"gocloud.dev/gcerrors"

	"github.com/ligustah/urlcat/pkg/urlcat"
)

// ErrObjectNotFound is returned when a key does not exist in the bucket.
var ErrObjectNotFound = errors.New("blobsource: object not found")

var (
	_ urlcat.Mapper    = (*Source)(nil)
	_ urlcat.Transport = (*Source)(nil)
)

// Source streams objects from a bucket.
type Source struct {
	bucket  *blob.Bucket
	bufSize int
	owned   bool
}

// Option configures a Source.
type Option func(*Source)

// WithBufferSize sets the size of yielded chunks. Default: 32KiB.
func WithBufferSize(n int) Option {
	return func(s *Source) {
		if n > 0 {
			s.bufSize = n
		}
	}
}

// New returns a Source reading from bucket. The bucket stays owned by the
// caller.
func New(bucket *blob.Bucket, options ...Option) *Source {
	s := &Source{bucket: bucket, bufSize: 32 * 1024}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Open opens the bucket at bucketURL, e.g. "s3://bucket?region=us-east-1"
// or "file:///tmp/parts". The Source must be closed.
func Open(ctx context.Context, bucketURL string, options ...Option) (*Source, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("blobsource: open bucket: %w", err)
	}
	s := New(bucket, options...)
	s.owned = true
	return s, nil
}

// Close closes the bucket if the Source opened it.
func (s *Source) Close() error {
	if !s.owned {
		return nil
	}
	return s.bucket.Close()
}

// Map streams the object at key. opts may be a *blob.ReaderOptions.
func (s *Source) Map(ctx context.Context, key string, opts any) iter.Seq2[[]byte, error] {
	readerOpts, _ := opts.(*blob.ReaderOptions)
	return s.stream(ctx, key, readerOpts)
}

// Stream implements urlcat.Transport. The header is ignored.
func (s *Source) Stream(ctx context.Context, key string, _ http.Header) iter.Seq2[[]byte, error] {
	return s.stream(ctx, key, nil)
}

// Head implements urlcat.Transport by reading the object's attributes.
func (s *Source) Head(ctx context.Context, key string, _ http.Header) (*http.Response, error) {
	attrs, err := s.bucket.Attributes(ctx, key)
	if err != nil {
		return nil, wrapErr(key, err)
	}

	header := http.Header{}
	header.Set("Content-Length", strconv.FormatInt(attrs.Size, 10))
	if attrs.ContentType != "" {
		header.Set("Content-Type", attrs.ContentType)
	}
	if attrs.ETag != "" {
		header.Set("ETag", attrs.ETag)
	}
	if !attrs.ModTime.IsZero() {
		header.Set("Last-Modified", attrs.ModTime.UTC().Format(http.TimeFormat))
	}

	return &http.Response{
		Status:        "200 OK",
		StatusCode:    http.StatusOK,
		Proto:         "blob",
		Header:        header,
		ContentLength: attrs.Size,
		Body:          http.NoBody,
	}, nil
}

// ProbeGet implements urlcat.Transport. Attributes are always available,
// so it is the same as Head.
func (s *Source) ProbeGet(ctx context.Context, key string, header http.Header) (*http.Response, error) {
	return s.Head(ctx, key, header)
}

func (s *Source) stream(ctx context.Context, key string, opts *blob.ReaderOptions) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		r, err := s.bucket.NewReader(ctx, key, opts)
		if err != nil {
			yield(nil, wrapErr(key, err))
			return
		}
		defer r.Close()

		buf := make([]byte, s.bufSize)
		for {
			n, readErr := r.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				if !yield(chunk, nil) {
					return
				}
			}
			if readErr == io.EOF {
				return
			}
			if readErr != nil {
				yield(nil, fmt.Errorf("blobsource: read %s: %w", key, readErr))
				return
			}
		}
	}
}

func wrapErr(key string, err error) error {
	if gcerrors.Code(err) == gcerrors.NotFound {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	return fmt.Errorf("blobsource: %s: %w", key, err)
}
