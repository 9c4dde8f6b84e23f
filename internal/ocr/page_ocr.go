// Package ocr rasterizes PDF pages and recognizes them with an external
// tesseract binary. Pages are rendered one at a time with pdftoppm so a PDF
// that mixes text and scanned pages only pays for the scanned ones.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// Config selects the external binaries and rendering parameters.
type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	Language string // tesseract language, default "eng"
	DPI      int    // rasterization DPI, default 300
}

// PageOCR renders single PDF pages to PNG and runs tesseract on them.
type PageOCR struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewPageOCR(cfg Config, logger *slog.Logger) *PageOCR {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &PageOCR{cfg: cfg, runner: ExecRunner{}, logger: logger}
}

// WithRunner swaps the command runner; tests use this to stub the binaries.
func (p *PageOCR) WithRunner(r Runner) *PageOCR {
	p.runner = r
	return p
}

// RecognizePage rasterizes the 1-based page of the PDF at path and returns
// the recognized text.
func (p *PageOCR) RecognizePage(ctx context.Context, path string, page int) (string, error) {
	if page < 1 {
		return "", fmt.Errorf("page must be >= 1, got %d", page)
	}

	tmpDir, err := os.MkdirTemp("", "pdfcontacts-ocr-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			p.logger.Warn("failed to remove temp dir", "dir", tmpDir, "error", rmErr)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -f N -l N -r <dpi> -png <in.pdf> <tmp/page>
	pageArg := strconv.Itoa(page)
	_, errb, err := p.runner.Run(ctx, p.cfg.Pdftoppm,
		"-f", pageArg, "-l", pageArg,
		"-r", strconv.Itoa(p.cfg.DPI),
		"-png", path, prefix)
	if err != nil {
		return "", fmt.Errorf("pdftoppm page %d: %w (%s)", page, err, truncate(string(errb), 512))
	}

	// pdftoppm names the output page-N.png, zero-padded depending on the
	// document's page count, so glob instead of guessing the padding.
	matches, _ := filepath.Glob(prefix + "-*.png")
	if len(matches) == 0 {
		return "", fmt.Errorf("pdftoppm produced no image for page %d", page)
	}
	sort.Strings(matches)
	img := matches[0]

	// tesseract <img> stdout -l <lang>
	out, errb, err := p.runner.Run(ctx, p.cfg.Tesseract, img, "stdout", "-l", p.cfg.Language)
	if err != nil {
		return "", fmt.Errorf("tesseract page %d: %w (%s)", page, err, truncate(string(errb), 512))
	}

	p.logger.Debug("ocr page ok", "path", path, "page", page, "bytes", len(out))
	return string(out), nil
}
