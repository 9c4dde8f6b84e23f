// Package repository persists which files have been processed before, keyed
// by content hash. This is the only state carried across runs besides the
// CSV outputs themselves.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/leadharvest/pdfcontacts/internal/common"
)

const schema = `
CREATE TABLE IF NOT EXISTS processed_files (
	id           TEXT PRIMARY KEY,
	source_path  TEXT NOT NULL,
	content_hash BLOB NOT NULL UNIQUE,
	first_seen   TEXT NOT NULL
);
`

// CatalogEntry is one processed-file row.
type CatalogEntry struct {
	ID          uuid.UUID
	SourcePath  string
	ContentHash []byte
	FirstSeen   time.Time
}

// FileCatalog is the behavior the pipeline depends on.
type FileCatalog interface {
	// UpsertByHash records the file unless its hash is already known.
	// The second return is true when the file was seen before.
	UpsertByHash(ctx context.Context, sourcePath string, hash []byte, seenAt time.Time) (CatalogEntry, bool, error)
	Close() error
}

type sqliteCatalog struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenCatalog opens (creating if needed) the SQLite catalog at path.
func OpenCatalog(ctx context.Context, path string, logger *slog.Logger) (FileCatalog, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, common.WrapError(err, "open catalog")
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, common.WrapError(err, "init catalog schema")
	}
	logger.Debug("catalog opened", "path", path)
	return &sqliteCatalog{db: db, logger: logger}, nil
}

func (c *sqliteCatalog) UpsertByHash(ctx context.Context, sourcePath string, hash []byte, seenAt time.Time) (CatalogEntry, bool, error) {
	if existing, err := c.getByHash(ctx, hash); err == nil {
		return existing, true, nil
	} else if !errors.Is(err, common.ErrNotFound) {
		return CatalogEntry{}, false, err
	}

	entry := CatalogEntry{
		ID:          uuid.New(),
		SourcePath:  sourcePath,
		ContentHash: hash,
		FirstSeen:   seenAt.UTC(),
	}
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO processed_files (id, source_path, content_hash, first_seen) VALUES (?, ?, ?, ?)`,
		entry.ID.String(), entry.SourcePath, entry.ContentHash, entry.FirstSeen.Format(time.RFC3339),
	)
	if err != nil {
		c.logger.Error("failed to insert catalog row", "source_path", sourcePath, "error", err)
		return CatalogEntry{}, false, common.WrapError(err, "insert catalog row")
	}
	return entry, false, nil
}

func (c *sqliteCatalog) getByHash(ctx context.Context, hash []byte) (CatalogEntry, error) {
	var entry CatalogEntry
	var id, firstSeen string
	err := c.db.QueryRowContext(ctx,
		`SELECT id, source_path, first_seen FROM processed_files WHERE content_hash = ?`,
		hash,
	).Scan(&id, &entry.SourcePath, &firstSeen)
	if errors.Is(err, sql.ErrNoRows) {
		return CatalogEntry{}, common.ErrNotFound
	}
	if err != nil {
		return CatalogEntry{}, err
	}
	entry.ContentHash = hash
	if entry.ID, err = uuid.Parse(id); err != nil {
		return CatalogEntry{}, fmt.Errorf("corrupt catalog id %q: %w", id, err)
	}
	if entry.FirstSeen, err = time.Parse(time.RFC3339, firstSeen); err != nil {
		return CatalogEntry{}, fmt.Errorf("corrupt catalog timestamp %q: %w", firstSeen, err)
	}
	return entry, nil
}

func (c *sqliteCatalog) Close() error {
	return c.db.Close()
}
