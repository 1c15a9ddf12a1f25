// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package check compares freshly rendered documentation with a committed
// copy and reports a line diff when they differ.
package check

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// contextLines is the number of unchanged lines kept around each change.
const contextLines = 3

// Result is the outcome of comparing rendered output with a file.
type Result struct {
	Path    string
	Stale   bool
	Missing bool

	// Lines is the line diff from the file (old) to the rendered output
	// (new), with unchanged runs trimmed to contextLines around changes.
	Lines []DiffLine
}

// Op is the kind of a diff line.
type Op int

const (
	OpEqual Op = iota
	OpDelete
	OpInsert
	OpSkip
)

// DiffLine is one line of a diff. OpSkip lines carry the number of
// elided unchanged lines in Text.
type DiffLine struct {
	Op   Op
	Text string
}

// Check compares rendered with the contents of path. A missing file is
// stale; other read failures are returned as errors.
func Check(rendered, path string) (Result, error) {
	res := Result{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return res, fmt.Errorf("reading %s: %w", path, err)
		}
		res.Missing = true
	}

	current := string(data)
	if current == rendered && !res.Missing {
		return res, nil
	}

	res.Stale = true
	res.Lines = lineDiff(current, rendered)
	return res, nil
}

func lineDiff(from, to string) []DiffLine {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out []DiffLine
	for _, d := range diffs {
		op := OpEqual
		switch d.Type {
		case diffpatch.DiffDelete:
			op = OpDelete
		case diffpatch.DiffInsert:
			op = OpInsert
		}
		for _, l := range splitLines(d.Text) {
			out = append(out, DiffLine{Op: op, Text: l})
		}
	}
	return trimContext(out)
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// trimContext replaces unchanged runs that are further than contextLines
// from any change with a single OpSkip line.
func trimContext(lines []DiffLine) []DiffLine {
	keep := make([]bool, len(lines))
	for i, l := range lines {
		if l.Op == OpEqual {
			continue
		}
		for j := max(0, i-contextLines); j <= min(len(lines)-1, i+contextLines); j++ {
			keep[j] = true
		}
	}

	var out []DiffLine
	skipped := 0
	for i, l := range lines {
		if keep[i] {
			if skipped > 0 {
				out = append(out, DiffLine{Op: OpSkip, Text: fmt.Sprintf("%d unchanged lines", skipped)})
				skipped = 0
			}
			out = append(out, l)
			continue
		}
		skipped++
	}
	if skipped > 0 {
		out = append(out, DiffLine{Op: OpSkip, Text: fmt.Sprintf("%d unchanged lines", skipped)})
	}
	return out
}

// WriteDiff writes r's diff to w in unified style. Deleted lines are red
// and inserted lines green when colored is set.
func (r Result) WriteDiff(w io.Writer, colored bool) error {
	if !r.Stale {
		return nil
	}

	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)
	for _, c := range []*color.Color{red, green, cyan} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	from := r.Path
	if r.Missing {
		from = "/dev/null"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "--- %s\n+++ %s (rendered)\n", from, r.Path)
	for _, l := range r.Lines {
		switch l.Op {
		case OpDelete:
			b.WriteString(red.Sprint("-"+l.Text) + "\n")
		case OpInsert:
			b.WriteString(green.Sprint("+"+l.Text) + "\n")
		case OpSkip:
			b.WriteString(cyan.Sprint("@@ "+l.Text+" @@") + "\n")
		default:
			b.WriteString(" " + l.Text + "\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// UseColor reports whether w is a terminal.
func UseColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
