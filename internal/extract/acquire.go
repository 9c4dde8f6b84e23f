// Package extract turns a PDF into raw text and raw text into field
// candidates. Text acquisition prefers the native text layer and falls back
// to OCR for individual pages that have none.
package extract

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// AcquirerConfig bounds how much of each document is read.
type AcquirerConfig struct {
	MaxPages    int      // hard cap on pages scanned per PDF; 0 = no cap
	TOCKeywords []string // markers that end the front-matter scan
	OCREnabled  bool
}

// Acquirer produces a text blob for a PDF.
type Acquirer struct {
	cfg    AcquirerConfig
	native PageSource
	ocr    PageRecognizer
	logger *slog.Logger
}

func NewAcquirer(cfg AcquirerConfig, native PageSource, ocr PageRecognizer, logger *slog.Logger) *Acquirer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Acquirer{cfg: cfg, native: native, ocr: ocr, logger: logger}
}

// Acquire reads the front pages of the PDF at path. Pages with a native text
// layer are used as-is; blank pages are rasterized and recognized exactly
// once each, when OCR is enabled. A page whose OCR fails is recorded as a
// warning and skipped.
func (a *Acquirer) Acquire(ctx context.Context, path string) (TextResult, error) {
	start := time.Now()

	pages, err := a.native.Pages(path)
	if err != nil {
		return TextResult{}, err
	}

	budget := a.pageBudget(pages)
	res := TextResult{PageCount: len(pages), Scanned: budget}

	var b strings.Builder
	for i := 0; i < budget; i++ {
		text := pages[i]
		if strings.TrimSpace(text) == "" {
			if !a.cfg.OCREnabled {
				continue
			}
			a.logger.Info("using ocr for page", "path", path, "page", i+1)
			text, err = a.ocr.RecognizePage(ctx, path, i+1)
			if err != nil {
				res.Warnings = append(res.Warnings, err.Error())
				continue
			}
			res.OCRPages++
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(text)
	}

	res.Text = b.String()
	res.Duration = time.Since(start)
	switch {
	case res.OCRPages == 0:
		res.Method = MethodPDFText
	case res.OCRPages == res.Scanned:
		res.Method = MethodPDFOCR
	default:
		res.Method = MethodMixed
	}
	return res, nil
}

// pageBudget decides how many leading pages to read: up to the page where a
// TOC/chapter marker first appears in the native text, else min(5, pages),
// always capped by MaxPages.
func (a *Acquirer) pageBudget(pages []string) int {
	budget := min(5, len(pages))

	probe := min(10, len(pages))
scan:
	for i := 0; i < probe; i++ {
		text := strings.ToLower(pages[i])
		for _, kw := range a.cfg.TOCKeywords {
			if strings.Contains(text, kw) {
				a.logger.Debug("found toc marker", "keyword", kw, "page", i+1)
				// Read the pages before the marker; a marker on the first
				// page still leaves that page in scope.
				budget = max(1, i)
				break scan
			}
		}
	}

	if a.cfg.MaxPages > 0 && budget > a.cfg.MaxPages {
		budget = a.cfg.MaxPages
	}
	return budget
}
