// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/litdoc/pkg/types"
)

// QueryOptions holds parameters for catalog queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string.
	Query string

	// Kind filters by segment kind.
	Kind types.SegmentKind

	// Lang filters by fence language tag.
	Lang string

	// Path filters by source file.
	Path string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Kind == "" && q.Lang == "" && q.Path == ""
}

// QueryResult is a stored segment with its location in the catalog.
type QueryResult struct {
	ID    string `json:"id" yaml:"id"`
	Path  string `json:"path" yaml:"path"`
	Block int    `json:"block" yaml:"block"`
	Seq   int    `json:"seq" yaml:"seq"`
	types.Segment `yaml:",inline"`
}

// Retrieve queries the catalog with optional full-text search and
// structured filters. Full-text results are ranked by relevance;
// filter-only results are ordered by path, block, and position.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT g.id, g.path, g.block, g.seq, g.kind, g.lang, g.text,
				g.start_offset, g.end_offset, g.start_line, g.unclosed
			FROM segments_fts
			JOIN segments g ON g.rowid = segments_fts.rowid
			WHERE segments_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT g.id, g.path, g.block, g.seq, g.kind, g.lang, g.text,
				g.start_offset, g.end_offset, g.start_line, g.unclosed
			FROM segments g
			WHERE 1=1`)
	}

	if opts.Kind != "" {
		qb.WriteString(` AND g.kind = ?`)
		args = append(args, string(opts.Kind))
	}

	if opts.Lang != "" {
		qb.WriteString(` AND lower(g.lang) = lower(?)`)
		args = append(args, opts.Lang)
	}

	if opts.Path != "" {
		qb.WriteString(` AND g.path = ?`)
		args = append(args, opts.Path)
	}

	if useFTS {
		qb.WriteString(` ORDER BY segments_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY g.path, g.block, g.seq`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var (
			qr   QueryResult
			kind string
			lang sql.NullString
		)

		if err := rows.Scan(
			&qr.ID, &qr.Path, &qr.Block, &qr.Seq, &kind, &lang, &qr.Text,
			&qr.Start, &qr.End, &qr.StartLine, &qr.Unclosed,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		qr.Kind = types.SegmentKind(kind)
		if lang.Valid {
			qr.Lang = lang.String
		}

		results = append(results, qr)
	}

	return results, rows.Err()
}

// Trace returns the raw source text of a stored segment, re-read from its
// file. It fails when the file no longer covers the recorded byte range.
func (s *Store) Trace(ctx context.Context, segmentID string) (string, error) {
	var path string
	var start, end int

	err := s.db.QueryRowContext(ctx,
		`SELECT path, start_offset, end_offset FROM segments WHERE id = ?`, segmentID,
	).Scan(&path, &start, &end)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("segment %s not found", segmentID)
		}
		return "", fmt.Errorf("looking up segment: %w", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if end > len(content) || start > end {
		return "", fmt.Errorf("%s changed since indexing: re-run index store", path)
	}

	return string(content[start:end]), nil
}
