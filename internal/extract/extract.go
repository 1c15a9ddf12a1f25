// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract finds literate documentation regions in source text and
// splits them into typed segments: prose, fenced code blocks, and fenced
// algorithm listings.
//
// A region opens with a line holding only a tagged comment marker such as
// "/*lt" or `"""lt` and ends at the first matching end marker. Inside a
// region, fences are CommonMark-style runs of three or more backticks or
// tildes. Extraction is pure: it performs no I/O and keeps no state between
// calls.
package extract

import (
	"errors"
	"strings"

	"github.com/pdiddy/litdoc/pkg/types"
)

// DefaultAlgorithmTags are the fence tags treated as algorithm listings.
var DefaultAlgorithmTags = []string{"algorithm", "algo", "pseudo", "pseudocode"}

type options struct {
	styles   []types.CommentStyle
	algoTags map[string]bool
}

// Option configures Extract.
type Option func(*options)

// WithStyles restricts the comment conventions Extract recognizes.
// Passing no styles keeps the default (all known styles).
func WithStyles(styles ...types.CommentStyle) Option {
	return func(o *options) {
		if len(styles) > 0 {
			o.styles = styles
		}
	}
}

// WithAlgorithmTags replaces the fence tags treated as algorithm listings.
func WithAlgorithmTags(tags ...string) Option {
	return func(o *options) {
		if len(tags) == 0 {
			return
		}
		o.algoTags = make(map[string]bool, len(tags))
		for _, t := range tags {
			o.algoTags[strings.ToLower(t)] = true
		}
	}
}

func newOptions(opts []Option) options {
	o := options{styles: AllStyles()}
	WithAlgorithmTags(DefaultAlgorithmTags...)(&o)
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// line is a span of the source without its terminating newline.
type line struct {
	start, end int
	num        int
}

func splitLines(src string) []line {
	var lines []line
	start, num := 0, 1
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			lines = append(lines, line{start: start, end: i, num: num})
			start = i + 1
			num++
		}
	}
	if start < len(src) {
		lines = append(lines, line{start: start, end: len(src), num: num})
	}
	return lines
}

// Extract scans src and returns its documentation blocks in source order.
//
// Malformed blocks do not stop the scan. Each block holding a fence that is
// never closed, or whose region never ends, is returned with Partial set and
// contributes a *FenceError to the returned error, which joins all of them.
// Input without any region yields an empty slice and a nil error.
func Extract(src string, opts ...Option) ([]types.DocumentationBlock, error) {
	o := newOptions(opts)
	lines := splitLines(src)

	var (
		blocks []types.DocumentationBlock
		errs   []error
	)

	for i := 0; i < len(lines); i++ {
		ln := lines[i]
		raw := src[ln.start:ln.end]
		d, ok := matchOpener(raw, o.styles)
		if !ok {
			continue
		}

		block := types.DocumentationBlock{
			Start:     ln.start + strings.Index(raw, d.open),
			StartLine: ln.num,
			Style:     d.style,
		}

		bodyStart := ln.end + 1
		if bodyStart > len(src) {
			bodyStart = len(src)
		}

		var body []line
		next := len(lines)
		idx := strings.Index(src[bodyStart:], d.close)
		if idx < 0 {
			body = lines[i+1:]
			block.End = len(src)
			block.EndLine = lines[len(lines)-1].num
		} else {
			closeAt := bodyStart + idx
			j := i + 1
			for j < len(lines) && lines[j].end < closeAt {
				body = append(body, lines[j])
				j++
			}
			// The closing line may carry content before the marker.
			cl := lines[j]
			frag := strings.TrimRight(src[cl.start:closeAt], " \t")
			if strings.TrimSpace(frag) != "" {
				body = append(body, line{start: cl.start, end: cl.start + len(frag), num: cl.num})
			}
			block.End = closeAt + len(d.close)
			block.EndLine = cl.num
			next = j + 1
		}

		segs, fenceErr := segment(src, body, o)
		block.Segments = segs

		// An unclosed fence and a missing end marker are reported separately;
		// the fence error comes first.
		var blockErrs []*FenceError
		if fenceErr != nil {
			blockErrs = append(blockErrs, fenceErr)
		}
		if idx < 0 {
			blockErrs = append(blockErrs, &FenceError{Line: block.StartLine, Marker: d.open, Err: ErrUnterminatedRegion})
		}
		msgs := make([]string, 0, len(blockErrs))
		for _, fe := range blockErrs {
			fe.Block = len(blocks)
			msgs = append(msgs, fe.Error())
			errs = append(errs, fe)
		}
		if len(blockErrs) > 0 {
			block.Partial = true
			block.Error = strings.Join(msgs, "; ")
		}

		blocks = append(blocks, block)
		i = next - 1
	}

	return blocks, errors.Join(errs...)
}

// segment splits the body lines of one region into segments. It returns a
// *FenceError when the last fence is still open at the end of the body.
func segment(src string, body []line, o options) ([]types.Segment, *FenceError) {
	var (
		segs     []types.Segment
		prose    []line
		open     *fence
		openLine line
		inner    []line
	)

	flushProse := func() {
		defer func() { prose = nil }()
		first, last := 0, len(prose)-1
		for first <= last && isBlank(src[prose[first].start:prose[first].end]) {
			first++
		}
		for last >= first && isBlank(src[prose[last].start:prose[last].end]) {
			last--
		}
		if first > last {
			return
		}
		start, end := prose[first].start, prose[last].end
		segs = append(segs, types.Segment{
			Kind:      types.KindProse,
			Text:      src[start:end],
			Start:     start,
			End:       end,
			StartLine: prose[first].num,
		})
	}

	emitFence := func(closeLine *line) {
		seg := types.Segment{
			Kind:      types.KindCode,
			Lang:      open.tag,
			Start:     openLine.start,
			End:       openLine.end,
			StartLine: openLine.num,
			OpenFence: src[openLine.start:openLine.end],
			Lines:     len(inner),
		}
		if o.algoTags[strings.ToLower(open.tag)] {
			seg.Kind = types.KindAlgorithm
		}
		if len(inner) > 0 {
			seg.Text = src[inner[0].start:inner[len(inner)-1].end]
			seg.End = inner[len(inner)-1].end
		}
		if closeLine != nil {
			seg.CloseFence = src[closeLine.start:closeLine.end]
			seg.End = closeLine.end
		} else {
			seg.Unclosed = true
		}
		segs = append(segs, seg)
		open, inner = nil, nil
	}

	for _, bl := range body {
		text := src[bl.start:bl.end]
		if open == nil {
			if f, ok := parseFence(text); ok {
				flushProse()
				open, openLine = &f, bl
				continue
			}
			prose = append(prose, bl)
			continue
		}
		if open.closedBy(text) {
			emitFence(&bl)
			continue
		}
		inner = append(inner, bl)
	}

	if open != nil {
		fe := &FenceError{Line: openLine.num, Marker: open.marker(), Tag: open.tag, Err: ErrMalformedFence}
		emitFence(nil)
		return segs, fe
	}
	flushProse()
	return segs, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
