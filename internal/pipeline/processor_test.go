package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/docslice/internal/convert"
	"github.com/dgallion1/docslice/internal/fetch"
	"github.com/dgallion1/docslice/internal/splitter"
)

const sampleDoc = `# Guide

This guide explains the plan. The **waiting period** is twelve months for
anything listed below, and the rest of this paragraph is padding so that the
splitter has enough material to cut the document into several chunks.

## Guide to Claims

Submit your claim with the **required
documents** within thirty days. More padding text follows so this section is
long enough to cross at least one chunk boundary on its own, which matters
for the lineage assertions in the tests below.

# Appendix

Tables and definitions live here, with no emphasis at all.
`

func markdownServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/markdown")
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testProcessor() *Processor {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	fetcher := fetch.NewClient(5*time.Second, 0)
	return NewProcessor(fetcher, splitter.Config{ChunkSize: 200, ChunkOverlap: 40}, convert.Options{}, log)
}

func TestLoadAndChunk_HeadingLineage(t *testing.T) {
	srv := markdownServer(t, sampleDoc)
	p := testProcessor()

	chunks, err := p.LoadAndChunk(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 3 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}

	for i, c := range chunks {
		if _, ok := c.Metadata["start_offset"]; ok {
			t.Errorf("chunk %d: transient start_offset leaked into metadata", i)
		}

		switch {
		case strings.Contains(c.Content, "Submit your claim"):
			if c.Metadata["H1"] != "Guide" {
				t.Errorf("chunk %d: H1 = %v, want Guide", i, c.Metadata["H1"])
			}
			if c.Metadata["H2"] != "Guide to Claims" {
				t.Errorf("chunk %d: H2 = %v, want Guide to Claims", i, c.Metadata["H2"])
			}
		case strings.Contains(c.Content, "Tables and definitions"):
			if c.Metadata["H1"] != "Appendix" {
				t.Errorf("chunk %d: H1 = %v, want Appendix", i, c.Metadata["H1"])
			}
			if _, ok := c.Metadata["H2"]; ok {
				t.Errorf("chunk %d: stale H2 survived under Appendix: %v", i, c.Metadata)
			}
		}
	}
}

func TestLoadAndChunk_EmphasisMetadata(t *testing.T) {
	srv := markdownServer(t, sampleDoc)
	p := testProcessor()

	chunks, err := p.LoadAndChunk(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sawWaitingPeriod := false
	for i, c := range chunks {
		phrases, ok := c.Metadata["important_phrases"].([]string)
		if strings.Contains(c.Content, "**waiting period**") {
			if !ok {
				t.Fatalf("chunk %d: expected important_phrases, got %v", i, c.Metadata)
			}
			sawWaitingPeriod = true
			found := false
			for _, ph := range phrases {
				if ph == "waiting period" {
					found = true
				}
			}
			if !found {
				t.Errorf("chunk %d: phrases = %v, want to include %q", i, phrases, "waiting period")
			}
		}
		if strings.Contains(c.Content, "Tables and definitions") && !strings.Contains(c.Content, "**") {
			if _, ok := c.Metadata["important_phrases"]; ok {
				t.Errorf("chunk %d: important_phrases present for emphasis-free chunk", i)
			}
		}
	}
	if !sawWaitingPeriod {
		t.Error("no chunk contained the waiting period emphasis span")
	}
}

func TestLoadAndChunk_FetchErrorAbortsPipeline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()
	p := testProcessor()

	chunks, err := p.LoadAndChunk(context.Background(), srv.URL)
	var statusErr *fetch.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *fetch.StatusError, got %v", err)
	}
	if chunks != nil {
		t.Errorf("expected no partial output, got %d chunks", len(chunks))
	}
}

func TestLoadAndChunk_UnsupportedTypeFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte{0x89, 'P', 'N', 'G'})
	}))
	defer srv.Close()
	p := testProcessor()

	if _, err := p.LoadAndChunk(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for unsupported content type")
	}
}

func TestLoadAndChunkAsync_MatchesBlockingCall(t *testing.T) {
	srv := markdownServer(t, sampleDoc)
	p := testProcessor()

	blocking, err := p.LoadAndChunk(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, ok := <-p.LoadAndChunkAsync(context.Background(), srv.URL)
	if !ok {
		t.Fatal("async channel closed without a result")
	}
	if res.Err != nil {
		t.Fatalf("unexpected async error: %v", res.Err)
	}
	if !reflect.DeepEqual(res.Chunks, blocking) {
		t.Error("async result differs from blocking result")
	}

	if _, open := <-p.LoadAndChunkAsync(context.Background(), srv.URL); !open {
		t.Fatal("expected one result before close")
	}
}

func TestLoadAndChunkAsync_PropagatesErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()
	p := testProcessor()

	res := <-p.LoadAndChunkAsync(context.Background(), srv.URL)
	var statusErr *fetch.StatusError
	if !errors.As(res.Err, &statusErr) {
		t.Fatalf("expected *fetch.StatusError, got %v", res.Err)
	}
}

func TestLoadAndChunkWith_InvalidSplitConfig(t *testing.T) {
	srv := markdownServer(t, sampleDoc)
	p := testProcessor()

	_, err := p.LoadAndChunkWith(context.Background(), srv.URL, splitter.Config{ChunkSize: 100, ChunkOverlap: 100})
	if err == nil {
		t.Fatal("expected splitter config error")
	}
}
