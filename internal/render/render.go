// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns extracted documentation blocks into output
// documents: normalized Markdown, standalone HTML, YAML, or JSON.
// Renderers never modify their input and produce identical bytes for
// identical input.
package render

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/litdoc/pkg/types"
)

// Renderer writes a set of file results to w.
type Renderer interface {
	Render(w io.Writer, results []types.FileResult) error
}

// New returns the renderer for cfg.Format. An empty format selects Markdown.
func New(cfg types.RenderConfig) (Renderer, error) {
	switch cfg.Format {
	case types.OutputMarkdown, "":
		return markdownRenderer{}, nil
	case types.OutputHTML:
		return newHTMLRenderer(cfg.Title), nil
	case types.OutputYAML:
		return yamlRenderer{}, nil
	case types.OutputJSON:
		return jsonRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported format %q: use markdown, html, yaml, or json", cfg.Format)
	}
}

// ParseFormat maps a flag value or file extension onto an OutputFormat.
func ParseFormat(s string) (types.OutputFormat, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "markdown", "md", "":
		return types.OutputMarkdown, nil
	case "html", "htm":
		return types.OutputHTML, nil
	case "yaml", "yml":
		return types.OutputYAML, nil
	case "json":
		return types.OutputJSON, nil
	}
	return "", fmt.Errorf("unsupported format %q: use markdown, html, yaml, or json", s)
}

// String renders results into memory.
func String(r Renderer, results []types.FileResult) (string, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, results); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteFile renders results to path, creating parent directories. A path
// of "-" or "" writes to stdout.
func WriteFile(path string, r Renderer, results []types.FileResult) error {
	if path == "" || path == "-" {
		return r.Render(os.Stdout, results)
	}
	out, err := String(r, results)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// fenceFor picks a backtick fence longer than any backtick run in text.
func fenceFor(text string) string {
	longest, run := 0, 0
	for i := 0; i < len(text); i++ {
		if text[i] == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	return strings.Repeat("`", max(3, longest+1))
}
