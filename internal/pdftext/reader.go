// Package pdftext reads the native text layer of a PDF, page by page.
package pdftext

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Reader extracts the embedded text layer without rasterizing anything.
type Reader struct {
	logger *slog.Logger
}

func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger}
}

// Pages returns the native text of each page, one entry per page, in order.
// A page whose text layer is missing or unreadable yields an empty string;
// only failing to open the document is an error.
func (r *Reader) Pages(path string) ([]string, error) {
	f, doc, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			r.logger.Warn("close pdf", "path", path, "error", cerr)
		}
	}()

	n := doc.NumPage()
	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		page := doc.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Treat an unreadable text layer like a scanned page.
			r.logger.Debug("no text layer", "path", path, "page", i, "error", err)
			pages = append(pages, "")
			continue
		}
		pages = append(pages, strings.TrimRight(text, "\n"))
	}
	return pages, nil
}
