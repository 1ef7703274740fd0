// Package progress reports how much of a concatenated stream has been
// written.
//
// # Usage
//
//	reporter := progress.NewReporter(progress.Options{
//	    TotalSize: totalBytes,
//	    Resources: len(urls),
//	    Output:    os.Stderr,
//	})
//
//	reporter.Start()
//	defer reporter.Stop()
//
//	io.Copy(reporter.Writer(dst), stream)
//
// # Output Format
//
//	[urlcat] Streaming 3 resources | Total size: 2.50 GB
//	[urlcat] Progress: 45.2% | 1.13 GB / 2.50 GB | Speed: 120.00 MB/s | ETA: 11s
//
// When the total size is unknown (0), percentage and ETA are omitted.
package progress
