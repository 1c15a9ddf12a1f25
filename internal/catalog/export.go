// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ExportEntry holds one segment for export.
type ExportEntry struct {
	ID        string `json:"id" yaml:"id"`
	Path      string `json:"path" yaml:"path"`
	Block     int    `json:"block" yaml:"block"`
	Kind      string `json:"kind" yaml:"kind"`
	Lang      string `json:"lang,omitempty" yaml:"lang,omitempty"`
	StartLine int    `json:"start_line" yaml:"start_line"`
	Text      string `json:"text" yaml:"text"`
	Unclosed  bool   `json:"unclosed,omitempty" yaml:"unclosed,omitempty"`
}

const exportLimit = 100000

// ExportYAML writes the catalog to <index-dir>/export.yaml. It supports the
// same filters as Retrieve.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) error {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(s.ExportPath("yaml"), data, 0o644)
}

// ExportJSON writes the catalog to <index-dir>/export.json. It supports the
// same filters as Retrieve.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) error {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(s.ExportPath("json"), data, 0o644)
}

// ExportPath returns the export file path for ext ("yaml" or "json").
func (s *Store) ExportPath(ext string) string {
	return filepath.Join(s.indexDir, "export."+ext)
}

func (s *Store) exportEntries(ctx context.Context, opts QueryOptions) ([]ExportEntry, error) {
	if opts.MaxResults <= 0 {
		opts.MaxResults = exportLimit
	}
	results, err := s.Retrieve(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(results))
	for i, r := range results {
		entries[i] = ExportEntry{
			ID:        r.ID,
			Path:      r.Path,
			Block:     r.Block,
			Kind:      string(r.Kind),
			Lang:      r.Lang,
			StartLine: r.StartLine,
			Text:      r.Text,
			Unclosed:  r.Unclosed,
		}
	}

	return entries, nil
}
