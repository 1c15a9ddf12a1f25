// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/pdiddy/litdoc/internal/extract"
	"github.com/pdiddy/litdoc/pkg/types"
)

const defaultHTMLTitle = "Documentation"

type htmlRenderer struct {
	title string
	md    goldmark.Markdown
}

func newHTMLRenderer(title string) htmlRenderer {
	if title == "" {
		title = defaultHTMLTitle
	}
	return htmlRenderer{
		title: title,
		md:    goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Render writes a standalone HTML page. Prose is converted as
// GitHub-flavored Markdown with raw HTML suppressed; code is escaped
// verbatim; algorithm listings become a header list and nested ordered
// steps when they parse, and preformatted text otherwise.
func (h htmlRenderer) Render(w io.Writer, results []types.FileResult) error {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n</head>\n<body>\n<main>\n", html.EscapeString(h.title))

	for _, r := range results {
		if len(r.Blocks) == 0 && !r.Failed() {
			continue
		}
		path := html.EscapeString(r.Path)
		fmt.Fprintf(&b, "<section class=\"litdoc-file\" data-path=\"%s\">\n<h2>%s</h2>\n", path, path)
		if r.Failed() {
			fmt.Fprintf(&b, "<p class=\"litdoc-error\">%s</p>\n", html.EscapeString(r.Error))
		}
		for _, blk := range r.Blocks {
			if err := h.writeBlock(&b, blk); err != nil {
				return fmt.Errorf("rendering %s: %w", r.Path, err)
			}
		}
		b.WriteString("</section>\n")
	}

	b.WriteString("</main>\n</body>\n</html>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func (h htmlRenderer) writeBlock(b *strings.Builder, blk types.DocumentationBlock) error {
	fmt.Fprintf(b, "<article class=\"litdoc-block\" data-start-line=\"%d\">\n", blk.StartLine)
	if blk.Partial {
		fmt.Fprintf(b, "<p class=\"litdoc-warning\">%s</p>\n", html.EscapeString(blk.Error))
	}
	for _, s := range blk.Segments {
		switch s.Kind {
		case types.KindProse:
			var buf bytes.Buffer
			if err := h.md.Convert([]byte(s.Text), &buf); err != nil {
				return fmt.Errorf("converting prose at line %d: %w", s.StartLine, err)
			}
			b.WriteString("<div class=\"litdoc-prose\">\n")
			b.Write(buf.Bytes())
			b.WriteString("</div>\n")
		case types.KindAlgorithm:
			writeAlgorithm(b, s)
		default:
			writeCode(b, s)
		}
	}
	b.WriteString("</article>\n")
	return nil
}

func writeCode(b *strings.Builder, s types.Segment) {
	b.WriteString("<pre class=\"litdoc-code\"><code")
	if s.Lang != "" {
		fmt.Fprintf(b, " class=\"language-%s\"", html.EscapeString(s.Lang))
	}
	b.WriteString(">" + html.EscapeString(s.Text) + "</code></pre>\n")
}

func writeAlgorithm(b *strings.Builder, s types.Segment) {
	alg := extract.ParseAlgorithm(s.Text)
	if len(alg.Steps) == 0 {
		b.WriteString("<pre class=\"litdoc-algorithm\">" + html.EscapeString(s.Text) + "</pre>\n")
		return
	}

	b.WriteString("<figure class=\"litdoc-algorithm\">\n")
	if alg.Title != "" {
		b.WriteString("<figcaption>" + html.EscapeString(alg.Title) + "</figcaption>\n")
	}
	if alg.Input != "" || alg.Output != "" {
		b.WriteString("<dl>\n")
		if alg.Input != "" {
			b.WriteString("<dt>Input</dt><dd>" + html.EscapeString(alg.Input) + "</dd>\n")
		}
		if alg.Output != "" {
			b.WriteString("<dt>Output</dt><dd>" + html.EscapeString(alg.Output) + "</dd>\n")
		}
		b.WriteString("</dl>\n")
	}
	for _, p := range alg.Preamble {
		b.WriteString("<p>" + html.EscapeString(p) + "</p>\n")
	}
	writeSteps(b, alg.Steps)
	b.WriteString("</figure>\n")
}

// writeSteps emits nested ordered lists. A step may open at most one level
// deeper than the step before it; deeper jumps are clamped.
func writeSteps(b *strings.Builder, steps []types.AlgorithmStep) {
	b.WriteString("<ol>\n")
	level := 0
	for i, s := range steps {
		d := 0
		if i > 0 {
			d = min(s.Depth, level+1)
			if d > level {
				b.WriteString("\n<ol>\n")
			} else {
				b.WriteString("</li>\n")
				for ; level > d; level-- {
					b.WriteString("</ol>\n</li>\n")
				}
			}
		}
		level = d
		fmt.Fprintf(b, "<li data-step=\"%s\">%s", html.EscapeString(s.Number), html.EscapeString(s.Text))
	}
	if len(steps) > 0 {
		b.WriteString("</li>\n")
		for ; level > 0; level-- {
			b.WriteString("</ol>\n</li>\n")
		}
	}
	b.WriteString("</ol>\n")
}
