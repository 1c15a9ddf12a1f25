// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the litdoc pipeline:
// documentation blocks and their segments as produced by extraction, the
// per-file results consumed by renderers and the catalog, and the typed
// configuration for each stage.
package types

// SegmentKind tags the variant of a Segment.
type SegmentKind string

const (
	KindProse     SegmentKind = "prose"
	KindCode      SegmentKind = "code"
	KindAlgorithm SegmentKind = "algorithm"
)

// CommentStyle names a documentation-comment convention.
type CommentStyle string

const (
	// StyleC covers /*lt ... */ regions (C, Go, Rust, Java, JS and friends).
	StyleC CommentStyle = "c"

	// StylePython covers """lt ... """ and '''lt ... ''' regions.
	StylePython CommentStyle = "python"
)

// Segment is one typed, ordered unit of content within a DocumentationBlock.
// Prose segments carry only Text; code and algorithm segments also carry the
// fence lines they were read from so the original block can be re-emitted.
type Segment struct {
	// Kind is prose, code, or algorithm.
	Kind SegmentKind `json:"kind" yaml:"kind"`

	// Lang is the fence language tag. Empty for prose and untagged fences.
	Lang string `json:"lang,omitempty" yaml:"lang,omitempty"`

	// Text is the segment content. For fenced segments it is exactly the
	// lines between the fence lines, joined by "\n", without a trailing newline.
	Text string `json:"text" yaml:"text"`

	// Start and End are byte offsets into the source, End exclusive.
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`

	// StartLine is the 1-based line of the first byte of the segment.
	StartLine int `json:"start_line" yaml:"start_line"`

	// OpenFence and CloseFence are the raw fence lines (without line breaks).
	// CloseFence is empty when Unclosed is set.
	OpenFence  string `json:"open_fence,omitempty" yaml:"open_fence,omitempty"`
	CloseFence string `json:"close_fence,omitempty" yaml:"close_fence,omitempty"`

	// Lines is the number of content lines inside a fence.
	Lines int `json:"lines,omitempty" yaml:"lines,omitempty"`

	// Unclosed marks a fence that was still open when its region ended.
	Unclosed bool `json:"unclosed,omitempty" yaml:"unclosed,omitempty"`
}

// IsFenced reports whether the segment came from a fenced block.
func (s Segment) IsFenced() bool {
	return s.Kind == KindCode || s.Kind == KindAlgorithm
}

// Raw re-emits a fenced segment exactly as it appeared in the source,
// src[Start:End]: the opening fence line, the content lines, and the
// closing fence line when there is one. For prose it returns Text.
func (s Segment) Raw() string {
	if !s.IsFenced() {
		return s.Text
	}
	out := s.OpenFence
	if s.Lines > 0 {
		out += "\n" + s.Text
	}
	if s.Unclosed {
		return out
	}
	return out + "\n" + s.CloseFence
}

// DocumentationBlock is one contiguous literate comment region.
type DocumentationBlock struct {
	// Start and End are byte offsets of the region, from the first byte of
	// the opening marker through the last byte of the closing marker.
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`

	// StartLine and EndLine are the 1-based lines of the markers.
	StartLine int `json:"start_line" yaml:"start_line"`
	EndLine   int `json:"end_line" yaml:"end_line"`

	// Style is the comment convention the region was recognized with.
	Style CommentStyle `json:"style" yaml:"style"`

	// Segments holds the region's content in source order.
	Segments []Segment `json:"segments" yaml:"segments"`

	// Partial is set when a fence or the region itself was never closed.
	Partial bool `json:"partial,omitempty" yaml:"partial,omitempty"`

	// Error describes why the block is partial. Empty otherwise.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// FileResult holds the extraction output for a single source file.
type FileResult struct {
	// Path is the file path as given to the extractor.
	Path string `json:"path" yaml:"path"`

	// Blocks lists the documentation blocks in source order.
	Blocks []DocumentationBlock `json:"blocks" yaml:"blocks"`

	// Warnings lists the per-block diagnostics (malformed fences,
	// unterminated regions).
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// Error records a failure to read or decode the file. Empty on success.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// HasPartial reports whether any block in the file is partial.
func (r FileResult) HasPartial() bool {
	for _, b := range r.Blocks {
		if b.Partial {
			return true
		}
	}
	return false
}

// Failed reports whether the file could not be extracted at all.
func (r FileResult) Failed() bool {
	return r.Error != ""
}
