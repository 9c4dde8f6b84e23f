package extract

import (
	"context"
	"time"
)

// Acquisition methods.
const (
	MethodPDFText = "pdf-text"
	MethodPDFOCR  = "pdf-ocr"
	MethodMixed   = "mixed"
)

// PageSource reads a PDF's native text layer, one string per page. A page
// with no selectable text yields an empty string.
type PageSource interface {
	Pages(path string) ([]string, error)
}

// PageRecognizer turns a single rasterized page into text.
type PageRecognizer interface {
	RecognizePage(ctx context.Context, path string, page int) (string, error)
}

// TextResult is the outcome of acquiring text for one PDF.
type TextResult struct {
	Text      string
	PageCount int // total pages in the document
	Scanned   int // pages actually read (TOC/MaxPages budget)
	OCRPages  int // pages that went through OCR
	Method    string
	Duration  time.Duration
	Warnings  []string
}
