package urlcat

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Metadata is the response metadata of one resource. A resource whose
// probes all failed has only URL set.
type Metadata struct {
	URL           string      `mapstructure:"url"`
	Status        string      `mapstructure:"status"`
	StatusCode    int         `mapstructure:"statusCode"`
	Proto         string      `mapstructure:"proto"`
	Header        http.Header `mapstructure:"headers"`
	ContentLength int64       `mapstructure:"contentLength"`
}

func newMetadata(url string, resp *http.Response) Metadata {
	md := Metadata{URL: url}
	if resp == nil {
		return md
	}
	md.Status = resp.Status
	md.StatusCode = resp.StatusCode
	md.Proto = resp.Proto
	md.Header = resp.Header.Clone()
	md.ContentLength = resp.ContentLength
	return md
}

// Fields renders m as a generic record. Keys beginning with an underscore
// and function values are omitted.
func (m Metadata) Fields() (map[string]any, error) {
	var raw map[string]any
	if err := mapstructure.Decode(m, &raw); err != nil {
		return nil, err
	}

	fields := make(map[string]any, len(raw))
	for k, v := range raw {
		if strings.HasPrefix(k, "_") {
			continue
		}
		if v != nil && reflect.TypeOf(v).Kind() == reflect.Func {
			continue
		}
		fields[k] = v
	}
	return fields, nil
}

// contentLength parses the Content-Length header. Missing or malformed
// values count as 0.
func (m Metadata) contentLength() int64 {
	n, err := strconv.ParseInt(m.Header.Get("Content-Length"), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// GetMetadata probes every URL in order and returns one record per URL.
//
// Each URL is probed with HEAD; if that fails the resource is probed with a
// GET that is cancelled once headers arrive. Probe failures are never
// returned: they are logged when opts.LogError is set, and the record is
// left empty.
func GetMetadata(ctx context.Context, urls []string, opts Options) []Metadata {
	transport := opts.transport()
	metadata := make([]Metadata, 0, len(urls))

	for _, url := range urls {
		resp, err := transport.Head(ctx, url, opts.Header)
		if err != nil {
			opts.logf("head %s: %v", url, err)

			resp, err = transport.ProbeGet(ctx, url, opts.Header)
			if err != nil && !errors.Is(err, context.Canceled) {
				opts.logf("get %s: %v", url, err)
			}
		}

		metadata = append(metadata, newMetadata(url, resp))
	}

	return metadata
}
