package check

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbered(n int, replace map[int]string) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		if r, ok := replace[i]; ok {
			b.WriteString(r + "\n")
			continue
		}
		fmt.Fprintf(&b, "%d\n", i)
	}
	return b.String()
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "DOCS.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCheckUpToDate(t *testing.T) {
	path := writeFile(t, "## a.rs\n\nHello\n")
	res, err := Check("## a.rs\n\nHello\n", path)
	require.NoError(t, err)
	assert.False(t, res.Stale)
	assert.Empty(t, res.Lines)

	var buf bytes.Buffer
	require.NoError(t, res.WriteDiff(&buf, false))
	assert.Empty(t, buf.String())
}

func TestCheckMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.md")
	res, err := Check("a\nb\n", path)
	require.NoError(t, err)
	assert.True(t, res.Stale)
	assert.True(t, res.Missing)
	assert.Equal(t, []DiffLine{{OpInsert, "a"}, {OpInsert, "b"}}, res.Lines)

	var buf bytes.Buffer
	require.NoError(t, res.WriteDiff(&buf, false))
	assert.Equal(t, "--- /dev/null\n+++ "+path+" (rendered)\n+a\n+b\n", buf.String())
}

func TestCheckUnreadable(t *testing.T) {
	_, err := Check("x", t.TempDir())
	assert.Error(t, err)
}

func TestCheckTrimsContext(t *testing.T) {
	path := writeFile(t, numbered(10, nil))
	res, err := Check(numbered(10, map[int]string{8: "eight"}), path)
	require.NoError(t, err)
	require.True(t, res.Stale)

	want := []DiffLine{
		{OpSkip, "4 unchanged lines"},
		{OpEqual, "5"},
		{OpEqual, "6"},
		{OpEqual, "7"},
		{OpDelete, "8"},
		{OpInsert, "eight"},
		{OpEqual, "9"},
		{OpEqual, "10"},
	}
	assert.Equal(t, want, res.Lines)

	var buf bytes.Buffer
	require.NoError(t, res.WriteDiff(&buf, false))
	assert.Contains(t, buf.String(), "@@ 4 unchanged lines @@\n 5\n 6\n 7\n-8\n+eight\n 9\n 10\n")
}

func TestCheckSeparateHunks(t *testing.T) {
	path := writeFile(t, numbered(20, nil))
	res, err := Check(numbered(20, map[int]string{2: "two", 19: "nineteen"}), path)
	require.NoError(t, err)

	var skips []string
	for _, l := range res.Lines {
		if l.Op == OpSkip {
			skips = append(skips, l.Text)
		}
	}
	// Lines 6 through 15 fall outside both context windows.
	assert.Equal(t, []string{"10 unchanged lines"}, skips)
}

func TestWriteDiffColored(t *testing.T) {
	path := writeFile(t, "old\n")
	res, err := Check("new\n", path)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, res.WriteDiff(&buf, true))
	out := buf.String()
	assert.Contains(t, out, "\x1b[31m-old\x1b[0m")
	assert.Contains(t, out, "\x1b[32m+new\x1b[0m")
}

func TestUseColor(t *testing.T) {
	assert.False(t, UseColor(&bytes.Buffer{}))
}
