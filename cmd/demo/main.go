package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dgallion1/docslice/internal/convert"
	"github.com/dgallion1/docslice/internal/document"
	"github.com/dgallion1/docslice/internal/fetch"
	"github.com/dgallion1/docslice/internal/pipeline"
	"github.com/dgallion1/docslice/internal/splitter"
)

// Fetches one document URL, runs the pipeline, and prints a few chunks with
// their metadata. Useful for eyeballing heading lineage on a real document.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <document-url>\n", os.Args[0])
		os.Exit(1)
	}
	url := os.Args[1]

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	fetcher := fetch.NewClient(30*time.Second, 0)
	defer fetcher.Close()

	proc := pipeline.NewProcessor(fetcher, splitter.DefaultConfig(), convert.Options{PDFFallbackPdftotext: true}, log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res := <-proc.LoadAndChunkAsync(ctx, url)
	if res.Err != nil {
		fmt.Fprintf(os.Stderr, "pipeline failed: %v\n", res.Err)
		os.Exit(1)
	}

	fmt.Printf("%d chunks from %s\n\n", len(res.Chunks), url)
	for i, c := range res.Chunks {
		if i >= 5 {
			fmt.Printf("... %d more chunks\n", len(res.Chunks)-i)
			break
		}
		printChunk(i, c)
	}
}

func printChunk(i int, c document.Chunk) {
	fmt.Printf("--- chunk %d ---\n", i)
	for _, key := range []string{"H1", "H2", "H3", "H4"} {
		if v, ok := c.Metadata[key]; ok {
			fmt.Printf("%s: %v\n", key, v)
		}
	}
	if phrases, ok := c.Metadata[document.MetaImportantPhrases]; ok {
		fmt.Printf("important: %v\n", phrases)
	}
	content := c.Content
	if len(content) > 200 {
		content = content[:200] + "..."
	}
	fmt.Printf("%s\n\n", content)
}
