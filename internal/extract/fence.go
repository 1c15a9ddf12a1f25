// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import "strings"

const minFenceLen = 3

// fence describes an opening fence line.
type fence struct {
	char byte
	n    int
	info string
	tag  string
}

// parseFence reports whether line opens a fenced block. The info string
// follows the fence run; its first word is the language tag. Backtick
// fences may not carry backticks in the info string.
func parseFence(line string) (fence, bool) {
	t := strings.TrimSpace(line)
	if len(t) < minFenceLen || (t[0] != '`' && t[0] != '~') {
		return fence{}, false
	}
	ch := t[0]
	n := runLength(t, ch)
	if n < minFenceLen {
		return fence{}, false
	}
	info := strings.TrimSpace(t[n:])
	if ch == '`' && strings.IndexByte(info, '`') >= 0 {
		return fence{}, false
	}
	f := fence{char: ch, n: n, info: info}
	if fields := strings.Fields(info); len(fields) > 0 {
		f.tag = fields[0]
	}
	return f, true
}

// closedBy reports whether line closes f: a run of the same character at
// least as long as the opener and nothing else but whitespace.
func (f fence) closedBy(line string) bool {
	t := strings.TrimSpace(line)
	if t == "" || t[0] != f.char {
		return false
	}
	n := runLength(t, f.char)
	return n >= f.n && n == len(t)
}

// marker returns the opening fence as written, for diagnostics.
func (f fence) marker() string {
	m := strings.Repeat(string(f.char), f.n)
	if f.info != "" {
		m += f.info
	}
	return m
}

func runLength(s string, ch byte) int {
	n := 0
	for n < len(s) && s[n] == ch {
		n++
	}
	return n
}
