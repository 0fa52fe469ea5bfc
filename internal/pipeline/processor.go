package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/docslice/internal/convert"
	"github.com/dgallion1/docslice/internal/document"
	"github.com/dgallion1/docslice/internal/hierarchy"
	"github.com/dgallion1/docslice/internal/markdown"
	"github.com/dgallion1/docslice/internal/splitter"
)

// Fetcher downloads a document and reports its content type.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (data []byte, contentType string, err error)
}

// Processor runs the document pipeline: fetch, convert to markdown, extract
// headings, split into sized chunks, map heading lineage, extract emphasis.
// A Processor holds no per-document state; concurrent invocations for
// different documents are safe.
type Processor struct {
	fetcher  Fetcher
	splitCfg splitter.Config
	convOpts convert.Options
	log      *slog.Logger
}

// NewProcessor builds a pipeline processor. splitCfg is validated on each
// run so per-request overrides go through the same checks.
func NewProcessor(fetcher Fetcher, splitCfg splitter.Config, convOpts convert.Options, log *slog.Logger) *Processor {
	return &Processor{
		fetcher:  fetcher,
		splitCfg: splitCfg,
		convOpts: convOpts,
		log:      log,
	}
}

// LoadAndChunk fetches the document at url and returns its enriched chunks.
// Every stage either fully succeeds or aborts the invocation; there is no
// partial output.
func (p *Processor) LoadAndChunk(ctx context.Context, url string) ([]document.Chunk, error) {
	return p.LoadAndChunkWith(ctx, url, p.splitCfg)
}

// LoadAndChunkWith is LoadAndChunk with a per-call splitter config.
func (p *Processor) LoadAndChunkWith(ctx context.Context, url string, splitCfg splitter.Config) ([]document.Chunk, error) {
	log := p.log.With("url", url)

	data, contentType, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	log.Info("fetched document", "bytes", len(data), "content_type", contentType)

	conv, err := convert.ForDocument(contentType, url, p.convOpts)
	if err != nil {
		return nil, err
	}
	text, err := conv.Convert(data)
	if err != nil {
		return nil, err
	}

	headings := markdown.ExtractHeadings(text)
	pieces, err := splitter.Split(text, splitCfg)
	if err != nil {
		return nil, fmt.Errorf("split document: %w", err)
	}

	// Each chunk's path is computed independently from the shared heading
	// sequence; the piece offset is input-only bookkeeping and never lands
	// in the final metadata.
	mapper := hierarchy.NewMapper(headings)
	chunks := make([]document.Chunk, 0, len(pieces))
	for _, piece := range pieces {
		meta := map[string]any{}
		for key, text := range mapper.PathAt(piece.StartOffset) {
			meta[key] = text
		}
		if phrases := markdown.ExtractEmphasis(piece.Content); len(phrases) > 0 {
			meta[document.MetaImportantPhrases] = phrases
		}
		chunks = append(chunks, document.Chunk{Content: piece.Content, Metadata: meta})
	}

	log.Info("chunked document", "headings", len(headings), "chunks", len(chunks))
	return chunks, nil
}

// LoadMarkdown fetches a document and returns its markdown rendition
// without chunking it.
func (p *Processor) LoadMarkdown(ctx context.Context, url string) (string, error) {
	data, contentType, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	conv, err := convert.ForDocument(contentType, url, p.convOpts)
	if err != nil {
		return "", err
	}
	return conv.Convert(data)
}

// Result is the outcome of an asynchronous pipeline run.
type Result struct {
	Chunks []document.Chunk
	Err    error
}

// LoadAndChunkAsync runs LoadAndChunk on a background goroutine so callers
// are not blocked on network I/O or conversion. Same inputs, same outputs,
// same error set as the blocking call. The channel receives exactly one
// Result and is then closed.
func (p *Processor) LoadAndChunkAsync(ctx context.Context, url string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		chunks, err := p.LoadAndChunk(ctx, url)
		out <- Result{Chunks: chunks, Err: err}
	}()
	return out
}
