// Package sink opens the destination a concatenated stream is written to:
// stdout, a local file, or an object in a gocloud.dev/blob bucket.
package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"
)

// Destination selects where output goes. With BucketURL set the output is
// written to Object in that bucket; otherwise to Path, where "" and "-"
// mean stdout.
type Destination struct {
	Path      string
	BucketURL string
	Object    string
}

// Open returns a writer for dest. Closing it commits the output; for bucket
// objects an aborted write is never made visible.
func Open(ctx context.Context, dest Destination) (io.WriteCloser, error) {
	if dest.BucketURL != "" {
		if dest.Object == "" {
			return nil, errors.New("sink: object is required with a bucket")
		}
		bucket, err := blob.OpenBucket(ctx, dest.BucketURL)
		if err != nil {
			return nil, fmt.Errorf("sink: open bucket: %w", err)
		}
		return OpenObject(ctx, bucket, dest.Object, true)
	}

	if dest.Path == "" || dest.Path == "-" {
		return nopCloser{os.Stdout}, nil
	}

	f, err := os.Create(dest.Path)
	if err != nil {
		return nil, fmt.Errorf("sink: create %s: %w", dest.Path, err)
	}
	return f, nil
}

// OpenObject returns a writer for key in bucket. When closeBucket is set
// the bucket is closed along with the writer.
func OpenObject(ctx context.Context, bucket *blob.Bucket, key string, closeBucket bool) (io.WriteCloser, error) {
	ctx, cancel := context.WithCancel(ctx)
	w, err := bucket.NewWriter(ctx, key, nil)
	if err != nil {
		cancel()
		if closeBucket {
			err = multierr.Append(err, bucket.Close())
		}
		return nil, fmt.Errorf("sink: open object %s: %w", key, err)
	}
	return &objectWriter{w: w, bucket: bucket, cancel: cancel, closeBucket: closeBucket}, nil
}

type objectWriter struct {
	w           *blob.Writer
	bucket      *blob.Bucket
	cancel      context.CancelFunc
	closeBucket bool
	failed      bool
}

func (o *objectWriter) Write(p []byte) (int, error) {
	n, err := o.w.Write(p)
	if err != nil {
		o.failed = true
	}
	return n, err
}

// Abort discards the object instead of committing it on Close.
func (o *objectWriter) Abort() {
	o.failed = true
}

func (o *objectWriter) Close() error {
	if o.failed {
		// Cancelling the writer's context before Close drops the upload.
		o.cancel()
	}
	err := o.w.Close()
	o.cancel()
	if o.closeBucket {
		err = multierr.Append(err, o.bucket.Close())
	}
	if o.failed {
		return nil
	}
	return err
}

// Aborter is implemented by writers that can discard partial output.
type Aborter interface {
	Abort()
}

// Copy writes r to w, aborting w if the copy fails, then closes both. wrap,
// if not nil, wraps w for the copy (e.g. to count bytes). The returned
// error combines the copy error with any close errors.
func Copy(w io.WriteCloser, r io.ReadCloser, wrap func(io.Writer) io.Writer) (int64, error) {
	var dst io.Writer = w
	if wrap != nil {
		dst = wrap(w)
	}

	n, err := io.Copy(dst, r)
	if err != nil {
		if a, ok := w.(Aborter); ok {
			a.Abort()
		}
	}
	err = multierr.Combine(err, r.Close(), w.Close())
	if err != nil {
		return n, fmt.Errorf("sink: copy: %w", err)
	}
	return n, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
