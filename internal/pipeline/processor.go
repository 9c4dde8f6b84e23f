// Package pipeline coordinates the per-file flow: acquire text, extract
// field candidates, merge them into the running record set.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/leadharvest/pdfcontacts/internal/extract"
	"github.com/leadharvest/pdfcontacts/internal/ingest"
	"github.com/leadharvest/pdfcontacts/internal/records"
	"github.com/leadharvest/pdfcontacts/internal/repository"
)

// TextAcquirer is stage 1: PDF file -> text blob.
type TextAcquirer interface {
	Acquire(ctx context.Context, path string) (extract.TextResult, error)
}

// BatchStats summarizes one processing run.
type BatchStats struct {
	Files        int
	Processed    int
	Deduplicated int
	Empty        int
	Failed       int
}

// Processor runs the batch. Per-file failures are logged and skipped; only
// infrastructure failures (an unusable catalog) abort the run.
type Processor struct {
	acquirer TextAcquirer
	builder  *records.Builder
	catalog  repository.FileCatalog
	force    bool
	logger   *slog.Logger
}

func NewProcessor(acquirer TextAcquirer, builder *records.Builder, catalog repository.FileCatalog, force bool, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		acquirer: acquirer,
		builder:  builder,
		catalog:  catalog,
		force:    force,
		logger:   logger,
	}
}

// Run processes each path in order and merges the results into the builder.
func (p *Processor) Run(ctx context.Context, paths []string) BatchStats {
	stats := BatchStats{Files: len(paths)}
	for _, path := range paths {
		switch outcome := p.processFile(ctx, path); outcome {
		case outcomeOK:
			stats.Processed++
		case outcomeDedup:
			stats.Deduplicated++
		case outcomeEmpty:
			stats.Empty++
		case outcomeFailed:
			stats.Failed++
		}
	}
	return stats
}

type outcome int

const (
	outcomeOK outcome = iota
	outcomeDedup
	outcomeEmpty
	outcomeFailed
)

func (p *Processor) processFile(ctx context.Context, path string) outcome {
	start := time.Now()
	p.logger.Info("processing file", "path", path)

	hash, hashHex, err := ingest.HashFile(path)
	if err != nil {
		p.logger.Error("processor.hash.failed", "path", path, "error", err)
		return outcomeFailed
	}

	entry, seen, err := p.catalog.UpsertByHash(ctx, path, hash, start)
	if err != nil {
		p.logger.Error("processor.catalog.failed", "path", path, "error", err)
		return outcomeFailed
	}
	if seen && !p.force {
		// The previous run's records were already merged in at startup, so
		// skipping extraction leaves the output content unchanged.
		p.logger.Info("skipping file seen before", "path", path, "hash", hashHex, "first_seen", entry.FirstSeen)
		return outcomeDedup
	}

	res, err := p.acquirer.Acquire(ctx, path)
	if err != nil {
		p.logger.Error("processor.acquire.failed", "path", path, "error", err)
		return outcomeFailed
	}
	for _, w := range res.Warnings {
		p.logger.Warn("acquire warning", "path", path, "warning", w)
	}
	if strings.TrimSpace(res.Text) == "" {
		p.logger.Warn("no text extracted", "path", path)
		return outcomeEmpty
	}

	cand := extract.ExtractFields(res.Text)
	p.builder.AddBatch(path, cand)

	p.logger.Info("processor.file.ok",
		"path", path,
		"method", res.Method,
		"pages_scanned", res.Scanned,
		"ocr_pages", res.OCRPages,
		"emails", len(cand.Emails),
		"phones", len(cand.Phones),
		"urls", len(cand.URLs),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return outcomeOK
}
