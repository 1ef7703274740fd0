package blobsource

import (
	"context"
	"errors"
	"io"
	"testing"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/memblob"

	"github.com/ligustah/urlcat/pkg/urlcat"
)

func openTestBucket(t *testing.T, objects map[string]string) *blob.Bucket {
	t.Helper()

	ctx := context.Background()
	bucket, err := blob.OpenBucket(ctx, "mem://")
	if err != nil {
		t.Fatalf("open bucket: %v", err)
	}
	t.Cleanup(func() { bucket.Close() })

	for key, data := range objects {
		if err := bucket.WriteAll(ctx, key, []byte(data), nil); err != nil {
			t.Fatalf("write %s: %v", key, err)
		}
	}
	return bucket
}

var parts = map[string]string{
	"parts/0": "abcdefgh",
	"parts/1": "ijklmnop",
	"parts/2": "qrstuvwx",
}

var keys = []string{"parts/0", "parts/1", "parts/2"}

func TestMap(t *testing.T) {
	src := New(openTestBucket(t, parts), WithBufferSize(3))

	var got []byte
	for chunk, err := range src.Map(context.Background(), "parts/1", nil) {
		if err != nil {
			t.Fatalf("Map: %v", err)
		}
		if len(chunk) > 3 {
			t.Errorf("expected chunks of at most 3 bytes, got %d", len(chunk))
		}
		got = append(got, chunk...)
	}

	if string(got) != "ijklmnop" {
		t.Errorf("expected 'ijklmnop', got %q", got)
	}
}

func TestMapReaderOptions(t *testing.T) {
	src := New(openTestBucket(t, parts))

	n := 0
	for _, err := range src.Map(context.Background(), "parts/0", &blob.ReaderOptions{}) {
		if err != nil {
			t.Fatalf("Map: %v", err)
		}
		n++
	}
	if n == 0 {
		t.Error("expected at least one chunk")
	}
}

func TestMapNotFound(t *testing.T) {
	src := New(openTestBucket(t, parts))

	for _, err := range src.Map(context.Background(), "missing", nil) {
		if !errors.Is(err, ErrObjectNotFound) {
			t.Errorf("expected ErrObjectNotFound, got %v", err)
		}
	}
}

func TestHead(t *testing.T) {
	src := New(openTestBucket(t, parts))

	resp, err := src.Head(context.Background(), "parts/2", nil)
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Length"); got != "8" {
		t.Errorf("expected content-length '8', got %q", got)
	}

	if _, err := src.ProbeGet(context.Background(), "missing", nil); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestConcatenateAsMapper(t *testing.T) {
	src := New(openTestBucket(t, parts))

	r := urlcat.StreamFromURLs(context.Background(), keys, urlcat.Options{Mapper: src})
	defer r.Close()

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "abcdefghijklmnopqrstuvwx" {
		t.Errorf("expected full concatenation, got %q", got)
	}
}

func TestRangedPipelineAsTransport(t *testing.T) {
	src := New(openTestBucket(t, parts))

	res, err := urlcat.StreamWithMetadata(context.Background(), keys, urlcat.Options{
		Transport: src,
		Range:     &urlcat.Range{Start: 10, End: 11},
	})
	if err != nil {
		t.Fatalf("StreamWithMetadata: %v", err)
	}
	defer res.Stream.Close()

	if len(res.URLs) != 1 || res.URLs[0] != "parts/1" {
		t.Errorf("expected only parts/1 kept, got %v", res.URLs)
	}

	got, err := io.ReadAll(res.Stream)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "kl" {
		t.Errorf("expected 'kl', got %q", got)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	src, err := Open(context.Background(), "file://"+dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
