// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"io"
	"strings"

	"github.com/pdiddy/litdoc/pkg/types"
)

type markdownRenderer struct{}

// Render writes one "## path" section per file with at least one block
// or an error. Prose is copied verbatim; fenced segments are re-emitted with
// normalized backtick fences.
func (markdownRenderer) Render(w io.Writer, results []types.FileResult) error {
	var b strings.Builder
	for _, r := range results {
		if len(r.Blocks) == 0 && !r.Failed() {
			continue
		}
		b.WriteString("## " + r.Path + "\n\n")
		if r.Failed() {
			b.WriteString("> error: " + r.Error + "\n\n")
			continue
		}
		for _, blk := range r.Blocks {
			if blk.Partial {
				b.WriteString("> warning: " + blk.Error + "\n\n")
			}
			for _, s := range blk.Segments {
				writeMarkdownSegment(&b, s)
			}
		}
	}

	out := strings.TrimRight(b.String(), "\n")
	if out == "" {
		return nil
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}

func writeMarkdownSegment(b *strings.Builder, s types.Segment) {
	if !s.IsFenced() {
		b.WriteString(s.Text + "\n\n")
		return
	}
	fence := fenceFor(s.Text)
	b.WriteString(fence + s.Lang + "\n")
	if s.Lines > 0 {
		b.WriteString(s.Text + "\n")
	}
	b.WriteString(fence + "\n\n")
}
