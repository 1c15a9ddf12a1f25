// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"path/filepath"
	"strings"

	"github.com/pdiddy/litdoc/pkg/types"
)

// docTag follows the comment opener to mark a literate documentation region.
const docTag = "lt"

// delimiter is one opener/closer pair of a comment style.
type delimiter struct {
	style types.CommentStyle
	open  string
	close string
}

var styleDelimiters = map[types.CommentStyle][]delimiter{
	types.StyleC: {
		{style: types.StyleC, open: "/*" + docTag, close: "*/"},
	},
	types.StylePython: {
		{style: types.StylePython, open: `"""` + docTag, close: `"""`},
		{style: types.StylePython, open: `'''` + docTag, close: `'''`},
	},
}

// extensionStyles maps lowercase file extensions to their comment style.
var extensionStyles = map[string]types.CommentStyle{
	".c": types.StyleC, ".h": types.StyleC, ".cc": types.StyleC, ".cpp": types.StyleC,
	".hpp": types.StyleC, ".cs": types.StyleC, ".css": types.StyleC, ".go": types.StyleC,
	".java": types.StyleC, ".js": types.StyleC, ".jsx": types.StyleC, ".kt": types.StyleC,
	".rs": types.StyleC, ".scala": types.StyleC, ".swift": types.StyleC, ".ts": types.StyleC,
	".tsx": types.StyleC, ".php": types.StyleC,
	".py": types.StylePython, ".pyi": types.StylePython,
}

// AllStyles returns every known comment style in a fixed order.
func AllStyles() []types.CommentStyle {
	return []types.CommentStyle{types.StyleC, types.StylePython}
}

// ParseStyle validates a style name.
func ParseStyle(name string) (types.CommentStyle, bool) {
	s := types.CommentStyle(strings.ToLower(strings.TrimSpace(name)))
	_, ok := styleDelimiters[s]
	return s, ok
}

// StyleFor returns the comment styles to use for path. Files with an
// unknown extension are scanned with every style.
func StyleFor(path string) []types.CommentStyle {
	if s, ok := extensionStyles[strings.ToLower(filepath.Ext(path))]; ok {
		return []types.CommentStyle{s}
	}
	return AllStyles()
}

// KnownExtension reports whether path has an extension with a registered style.
func KnownExtension(path string) bool {
	_, ok := extensionStyles[strings.ToLower(filepath.Ext(path))]
	return ok
}

// matchOpener reports whether the raw line is a region opener for one of
// styles: the opener marker alone, allowing surrounding whitespace.
func matchOpener(raw string, styles []types.CommentStyle) (delimiter, bool) {
	trimmed := strings.TrimSpace(raw)
	for _, s := range styles {
		for _, d := range styleDelimiters[s] {
			if trimmed == d.open {
				return d, true
			}
		}
	}
	return delimiter{}, false
}
