// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists extracted documentation segments in SQLite and
// builds a full-text index over them. Ingestion is incremental: files whose
// modification time has not changed since the last run are skipped.
package catalog

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/litdoc/internal/extract"
	"github.com/pdiddy/litdoc/pkg/types"
)

const (
	dbFile            = "litdoc.db"
	defaultMaxResults = 20
)

// Store manages the catalog SQLite database.
type Store struct {
	db         *sql.DB
	indexDir   string
	maxResults int
}

// NewStore opens or creates the catalog database at cfg.IndexDir/litdoc.db
// and creates the schema if it does not exist.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.IndexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(cfg.IndexDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{
		db:         db,
		indexDir:   cfg.IndexDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS files (
			path TEXT PRIMARY KEY,
			blocks INTEGER NOT NULL,
			partial INTEGER NOT NULL,
			warnings TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS segments (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			path TEXT NOT NULL REFERENCES files(path),
			block INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			kind TEXT NOT NULL,
			lang TEXT,
			text TEXT NOT NULL,
			start_offset INTEGER NOT NULL,
			end_offset INTEGER NOT NULL,
			start_line INTEGER NOT NULL,
			unclosed INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_segments_path ON segments(path)`,
		`CREATE INDEX IF NOT EXISTS idx_segments_kind ON segments(kind)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			path TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='segments_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE segments_fts USING fts5(text, content=segments, content_rowid=rowid)`,
			`CREATE TRIGGER segments_ai AFTER INSERT ON segments BEGIN
				INSERT INTO segments_fts(rowid, text) VALUES (new.rowid, new.text);
			END`,
			`CREATE TRIGGER segments_ad AFTER DELETE ON segments BEGIN
				INSERT INTO segments_fts(segments_fts, rowid, text) VALUES('delete', old.rowid, old.text);
			END`,
			`CREATE TRIGGER segments_au AFTER UPDATE ON segments BEGIN
				INSERT INTO segments_fts(segments_fts, rowid, text) VALUES('delete', old.rowid, old.text);
				INSERT INTO segments_fts(rowid, text) VALUES (new.rowid, new.text);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// IngestSummary holds counts from a catalog indexing run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int

	// Removed counts catalogued files dropped because they no longer
	// exist. It is not part of Total.
	Removed int
}

// Total returns the number of files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest extracts every file under paths whose modification time changed
// since it was last indexed and replaces its rows. Unchanged files are
// skipped. Files with malformed blocks are indexed with their partial
// segments; files that can no longer be read lose their rows, and so do
// catalogued files that were deleted from disk. When anything changed,
// export.yaml is rewritten.
func (s *Store) Ingest(ctx context.Context, paths []string, cfg types.ExtractConfig, w io.Writer) (IngestSummary, error) {
	files, err := extract.Collect(paths)
	if err != nil {
		return IngestSummary{}, err
	}

	var summary IngestSummary

	for _, path := range files {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		info, err := os.Stat(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", path, err)
			summary.Failed++
			s.dropFailed(ctx, path, w)
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM indexing_status WHERE path = ?`, path,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", path)
			summary.Skipped++
			continue
		}

		isUpdate := err == nil

		result, err := extract.ExtractFile(path, cfg)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", path, err)
			summary.Failed++
			s.dropFailed(ctx, path, w)
			continue
		}

		if err := s.ingestFile(ctx, &result, modTime, isUpdate); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", path, err)
			summary.Failed++
			continue
		}

		n := segmentCount(result)
		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d segments)\n", path, n)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d segments)\n", path, n)
			summary.Indexed++
		}
	}

	removed, err := s.prune(ctx, w)
	if err != nil {
		return summary, err
	}
	summary.Removed = removed

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d, removed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed, summary.Removed)

	if summary.Indexed > 0 || summary.Updated > 0 || summary.Failed > 0 || summary.Removed > 0 {
		if err := s.ExportYAML(ctx, QueryOptions{}); err != nil {
			fmt.Fprintf(w, "warning: export.yaml write failed: %v\n", err)
		}
	}

	return summary, nil
}

func (s *Store) ingestFile(ctx context.Context, result *types.FileResult, modTime string, isUpdate bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM segments WHERE path = ?`, result.Path); err != nil {
			return fmt.Errorf("deleting old segments: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO files (path, blocks, partial, warnings) VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
			blocks=excluded.blocks, partial=excluded.partial, warnings=excluded.warnings`,
		result.Path, len(result.Blocks), result.HasPartial(), strings.Join(result.Warnings, "\n"),
	)
	if err != nil {
		return fmt.Errorf("upserting file: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO segments
			(id, path, block, seq, kind, lang, text, start_offset, end_offset, start_line, unclosed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for bi, blk := range result.Blocks {
		for si, seg := range blk.Segments {
			id := SegmentID(result.Path, bi, si, seg)
			_, err := stmt.ExecContext(ctx,
				id, result.Path, bi, si, string(seg.Kind), seg.Lang, seg.Text,
				seg.Start, seg.End, seg.StartLine, seg.Unclosed,
			)
			if err != nil {
				return fmt.Errorf("inserting segment %s: %w", id, err)
			}
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO indexing_status (path, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(path) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		result.Path, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating indexing status: %w", err)
	}

	return tx.Commit()
}

// dropFailed removes the rows of a file that failed this run so stale
// segments do not stay searchable. Removal errors are reported on w.
func (s *Store) dropFailed(ctx context.Context, path string, w io.Writer) {
	if err := s.removeFile(ctx, path); err != nil {
		fmt.Fprintf(w, "warning: removing %s from catalog: %v\n", path, err)
	}
}

// prune removes catalogued files that no longer exist on disk.
func (s *Store) prune(ctx context.Context, w io.Writer) (int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path FROM files ORDER BY path`)
	if err != nil {
		return 0, fmt.Errorf("listing catalogued files: %w", err)
	}
	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scanning path: %w", err)
		}
		paths = append(paths, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	removed := 0
	for _, p := range paths {
		if _, err := os.Stat(p); !errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := s.removeFile(ctx, p); err != nil {
			return removed, err
		}
		fmt.Fprintf(w, "removed %s\n", p)
		removed++
	}
	return removed, nil
}

// removeFile deletes every row recorded for path.
func (s *Store) removeFile(ctx context.Context, path string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM segments WHERE path = ?`,
		`DELETE FROM files WHERE path = ?`,
		`DELETE FROM indexing_status WHERE path = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, path); err != nil {
			return fmt.Errorf("removing %s: %w", path, err)
		}
	}
	return tx.Commit()
}

// SegmentID generates a deterministic ID from the segment's location and
// content: the first 12 hex characters of SHA-256 over path, block index,
// position, kind, and text. Re-extracting unchanged content yields the same ID.
func SegmentID(path string, block, seq int, seg types.Segment) string {
	h := sha256.New()
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(block) + ":" + strconv.Itoa(seq)))
	h.Write([]byte{0})
	h.Write([]byte(seg.Kind))
	h.Write([]byte{0})
	h.Write([]byte(seg.Text))
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}

func segmentCount(r types.FileResult) int {
	n := 0
	for _, b := range r.Blocks {
		n += len(b.Segments)
	}
	return n
}
