// Package ingest discovers the PDF files a run will process.
package ingest

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/leadharvest/pdfcontacts/constants"
)

// DirStats summarizes a directory scan.
type DirStats struct {
	Scanned uint32
	Matched uint32
	Skipped uint32
}

// ListPDFs walks root and returns up to maxFiles matching PDF paths, in walk
// order. Hidden files and directories are skipped. maxFiles <= 0 means no
// limit.
func ListPDFs(root string, maxFiles int) ([]string, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("input directory is required")
	}

	var paths []string
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			stats.Skipped++
			return nil // continue walking
		}
		if isHidden(path) && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		stats.Scanned++
		if constants.MapExtToFormat(filepath.Ext(path)) != constants.PDF {
			return nil
		}
		stats.Matched++
		if maxFiles > 0 && len(paths) >= maxFiles {
			stats.Skipped++
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return paths, stats, err
	}
	return paths, stats, nil
}

func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}
