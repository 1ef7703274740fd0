// Package testutils provides shared test infrastructure.
package testutils

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
)

// Resource is a body served at /{Name}.
type Resource struct {
	Name string
	Data []byte
}

// ServerOptions tweaks how a ResourceServer answers.
type ServerOptions struct {
	// RejectHead answers HEAD requests with 405 Method Not Allowed.
	RejectHead bool

	// OmitContentLength streams bodies chunked, without Content-Length.
	OmitContentLength bool
}

// ResourceServer serves a fixed set of resources and records requests.
type ResourceServer struct {
	*httptest.Server

	resources []Resource

	mu       sync.Mutex
	requests []string
}

// StartResourceServer starts a server for resources. It is closed when the
// test ends.
func StartResourceServer(t *testing.T, resources []Resource, opts ServerOptions) *ResourceServer {
	t.Helper()

	byPath := make(map[string][]byte, len(resources))
	for _, r := range resources {
		byPath["/"+r.Name] = r.Data
	}

	s := &ResourceServer{resources: resources}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.Path)
		s.mu.Unlock()

		data, ok := byPath[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}

		if r.Method == http.MethodHead && opts.RejectHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		if !opts.OmitContentLength {
			w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		}
		w.Header().Set("ETag", fmt.Sprintf(`"%s"`, r.URL.Path))

		if r.Method == http.MethodHead {
			return
		}

		if opts.OmitContentLength {
			// Flushing before the body forces chunked encoding.
			w.WriteHeader(http.StatusOK)
			w.(http.Flusher).Flush()
		}
		w.Write(data)
	}))
	t.Cleanup(s.Close)

	return s
}

// URLs returns the URL of every resource, in order.
func (s *ResourceServer) URLs() []string {
	urls := make([]string, len(s.resources))
	for i, r := range s.resources {
		urls[i] = s.URL + "/" + r.Name
	}
	return urls
}

// Requests returns "METHOD /path" for every request received so far.
func (s *ResourceServer) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// GenerateTestData returns size bytes of a deterministic pattern.
func GenerateTestData(size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 256)
	}
	return data
}

// CompareReaderToData compares reader output with expected data in chunks.
func CompareReaderToData(t *testing.T, reader io.Reader, expected []byte) {
	t.Helper()

	buf := make([]byte, 64*1024)
	offset := 0

	for {
		n, err := reader.Read(buf)
		if n > 0 {
			if offset+n > len(expected) {
				t.Fatalf("read more data than expected: offset=%d, n=%d, expected len=%d",
					offset, n, len(expected))
			}
			if !bytes.Equal(buf[:n], expected[offset:offset+n]) {
				t.Fatalf("data mismatch at offset %d", offset)
			}
			offset += n
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("read error at offset %d: %v", offset, err)
		}
	}

	if offset != len(expected) {
		t.Fatalf("incomplete read: got %d bytes, want %d", offset, len(expected))
	}
}
