package urlcat_test

import (
	"context"
	"fmt"
	"io"
	"iter"

	"github.com/ligustah/urlcat/pkg/urlcat"
)

// parts stands in for remote resources.
var parts = map[string]string{
	"https://example.com/part-0": "Hello, ",
	"https://example.com/part-1": "sharded ",
	"https://example.com/part-2": "world!",
}

func partsMapper() urlcat.Mapper {
	return urlcat.MapperFunc(func(ctx context.Context, url string, opts any) iter.Seq2[[]byte, error] {
		return func(yield func([]byte, error) bool) {
			yield([]byte(parts[url]), nil)
		}
	})
}

func ExampleStreamFromURLs() {
	urls := []string{
		"https://example.com/part-0",
		"https://example.com/part-1",
		"https://example.com/part-2",
	}

	r := urlcat.StreamFromURLs(context.Background(), urls, urlcat.Options{Mapper: partsMapper()})
	defer r.Close()

	data, _ := io.ReadAll(r)
	fmt.Println(string(data))
	// Output: Hello, sharded world!
}

func ExampleGenerate() {
	urls := []string{"https://example.com/part-0", "https://example.com/part-2"}

	for chunk, err := range urlcat.Generate(context.Background(), urls, urlcat.Options{Mapper: partsMapper()}) {
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Printf("%q\n", chunk)
	}
	// Output:
	// "Hello, "
	// "world!"
}

func ExampleGenerateWithMetadata() {
	urls := []string{"https://example.com/part-1"}
	rng := &urlcat.Range{Start: 0, End: 7}

	for chunk, err := range urlcat.GenerateWithMetadata(context.Background(), urls, nil, urlcat.Options{Mapper: partsMapper()}, rng) {
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Printf("%q\n", chunk)
	}
	// Output: "sharded"
}
