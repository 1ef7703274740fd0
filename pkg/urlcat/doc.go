// Package urlcat concatenates the bodies of several HTTP resources into a
// single logical stream.
//
// The resources are read strictly in order, one fully drained before the
// next is requested. A global byte range may be applied across resource
// boundaries, in which case resource metadata is probed first and resources
// lying entirely outside the range are pruned before any body is fetched.
//
// # Plain concatenation
//
//	r := urlcat.StreamFromURLs(ctx, urls, urlcat.Options{})
//	defer r.Close()
//	io.Copy(dst, r)
//
// # Ranged concatenation with metadata
//
//	res, err := urlcat.StreamWithMetadata(ctx, urls, urlcat.Options{
//	    Range:    &urlcat.Range{Start: 10, End: 11},
//	    LogError: true,
//	})
//	defer res.Stream.Close()
//
// # Sequences
//
// [Generate] and [GenerateWithMetadata] return iter.Seq2[[]byte, error]
// values. They are single-pass: every call issues fresh requests, and
// breaking out of the loop releases the current response body. A transport
// error is yielded once and ends the sequence.
//
// # Custom sources
//
// A [Mapper] replaces the transport for producing chunk sequences, e.g. to
// read objects from a bucket (see the blobsource package) or to feed fixed
// data in tests.
package urlcat
