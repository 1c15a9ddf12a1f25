// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedFence reports a fence opened but not closed before its
	// documentation region ends.
	ErrMalformedFence = errors.New("malformed fence")

	// ErrUnterminatedRegion reports a documentation region whose end marker
	// never appears.
	ErrUnterminatedRegion = errors.New("unterminated documentation region")

	// ErrInvalidUTF8 reports a source file that is not valid UTF-8 text.
	ErrInvalidUTF8 = errors.New("invalid UTF-8")
)

// FenceError locates a malformed block. It wraps ErrMalformedFence or
// ErrUnterminatedRegion.
type FenceError struct {
	// Path is the source file, when known.
	Path string

	// Block is the zero-based index of the block within its file.
	Block int

	// Line is the 1-based line of the unclosed fence or region opener.
	Line int

	// Marker is the opener as written, e.g. "```rust" or "/*lt".
	Marker string

	// Tag is the fence language tag, if any.
	Tag string

	Err error
}

func (e *FenceError) Error() string {
	loc := fmt.Sprintf("line %d", e.Line)
	if e.Path != "" {
		loc = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	return fmt.Sprintf("%s: block %d: %v: %s opened but never closed", loc, e.Block, e.Err, e.Marker)
}

func (e *FenceError) Unwrap() error {
	return e.Err
}

// FenceErrors unpacks the *FenceError values joined into err by Extract.
func FenceErrors(err error) []*FenceError {
	if err == nil {
		return nil
	}
	var out []*FenceError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, FenceErrors(e)...)
		}
		return out
	}
	var fe *FenceError
	if errors.As(err, &fe) {
		out = append(out, fe)
	}
	return out
}
