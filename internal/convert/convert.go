// Package convert turns fetched document bytes into markdown text with
// '#'-style heading markers and '**' emphasis spans, the form the rest of the
// pipeline consumes.
package convert

import (
	"fmt"
	"mime"
	"net/url"
	"path"
	"strings"
)

// Converter produces markdown from raw document bytes.
type Converter interface {
	Convert(data []byte) (string, error)
}

// ConversionError reports a converter failure. It aborts the pipeline; no
// partial result is returned.
type ConversionError struct {
	Format string
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert %s: %v", e.Format, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Options carries converter configuration.
type Options struct {
	PDFFallbackPdftotext bool
}

const docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// ForDocument picks a converter from the response Content-Type, falling back
// to the URL path extension when the type is missing or generic.
func ForDocument(contentType, rawURL string, opts Options) (Converter, error) {
	mediaType := ""
	if contentType != "" {
		if mt, _, err := mime.ParseMediaType(contentType); err == nil {
			mediaType = mt
		}
	}

	switch mediaType {
	case "application/pdf", "application/x-pdf":
		return &PDFConverter{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case "text/html", "application/xhtml+xml":
		return &HTMLConverter{}, nil
	case docxMIME:
		return &DOCXConverter{}, nil
	case "text/markdown", "text/x-markdown", "text/plain":
		return &MarkdownConverter{}, nil
	}

	switch urlExt(rawURL) {
	case ".pdf":
		return &PDFConverter{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".html", ".htm":
		return &HTMLConverter{}, nil
	case ".docx":
		return &DOCXConverter{}, nil
	case ".md", ".markdown", ".txt":
		return &MarkdownConverter{}, nil
	}

	return nil, fmt.Errorf("unsupported document type %q for %s", contentType, rawURL)
}

// urlExt returns the lowercased extension of the URL path, ignoring query
// strings (blob-store URLs carry signatures after '?').
func urlExt(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return strings.ToLower(path.Ext(rawURL))
	}
	return strings.ToLower(path.Ext(u.Path))
}
