package extract

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/litdoc/pkg/types"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestStyleFor(t *testing.T) {
	tests := []struct {
		path string
		want []types.CommentStyle
	}{
		{"main.rs", []types.CommentStyle{types.StyleC}},
		{"pkg/calc.PY", []types.CommentStyle{types.StylePython}},
		{"lib.go", []types.CommentStyle{types.StyleC}},
		{"README", AllStyles()},
		{"notes.txt", AllStyles()},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, StyleFor(tt.path))
		})
	}
}

func TestParseStyle(t *testing.T) {
	s, ok := ParseStyle(" Python ")
	assert.True(t, ok)
	assert.Equal(t, types.StylePython, s)

	_, ok = ParseStyle("lisp")
	assert.False(t, ok)
}

func TestExtractFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("reads and extracts", func(t *testing.T) {
		path := filepath.Join(dir, "main.rs")
		writeFile(t, path, rustSample)

		r, err := ExtractFile(path, types.ExtractConfig{})
		require.NoError(t, err)
		assert.Equal(t, path, r.Path)
		assert.Len(t, r.Blocks, 1)
		assert.Empty(t, r.Warnings)
	})

	t.Run("uses extension styles", func(t *testing.T) {
		path := filepath.Join(dir, "mixed.rs")
		writeFile(t, path, pythonSample)

		r, err := ExtractFile(path, types.ExtractConfig{})
		require.NoError(t, err)
		assert.Empty(t, r.Blocks)
	})

	t.Run("config styles override extension", func(t *testing.T) {
		path := filepath.Join(dir, "mixed2.rs")
		writeFile(t, path, pythonSample)

		r, err := ExtractFile(path, types.ExtractConfig{Styles: []types.CommentStyle{types.StylePython}})
		require.NoError(t, err)
		assert.Len(t, r.Blocks, 1)
	})

	t.Run("warnings carry the path", func(t *testing.T) {
		path := filepath.Join(dir, "bad.rs")
		writeFile(t, path, "/*lt\n```rust\nfn f(){}\n*/\n")

		r, err := ExtractFile(path, types.ExtractConfig{})
		require.NoError(t, err)
		require.Len(t, r.Warnings, 1)
		assert.True(t, strings.HasPrefix(r.Warnings[0], path+":2:"), r.Warnings[0])
		assert.True(t, r.HasPartial())
	})

	t.Run("rejects invalid UTF-8", func(t *testing.T) {
		path := filepath.Join(dir, "binary.rs")
		writeFile(t, path, "/*lt\n\xff\xfe\n*/\n")

		_, err := ExtractFile(path, types.ExtractConfig{})
		assert.ErrorIs(t, err, ErrInvalidUTF8)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ExtractFile(filepath.Join(dir, "nope.rs"), types.ExtractConfig{})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "b.rs"), "")
	writeFile(t, filepath.Join(dir, "src", "a.py"), "")
	writeFile(t, filepath.Join(dir, "src", "notes.txt"), "")
	writeFile(t, filepath.Join(dir, "src", ".cache", "c.rs"), "")
	writeFile(t, filepath.Join(dir, "doc.txt"), "")

	files, err := Collect([]string{filepath.Join(dir, "doc.txt"), filepath.Join(dir, "src"), filepath.Join(dir, "src", "a.py")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "doc.txt"),
		filepath.Join(dir, "src", "a.py"),
		filepath.Join(dir, "src", "b.rs"),
	}, files)

	_, err = Collect([]string{filepath.Join(dir, "missing")})
	assert.Error(t, err)
}

func TestExtractAll(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.rs"), rustSample)
	writeFile(t, filepath.Join(dir, "b.py"), "\"\"\"lt\n```python\nprint()\n\"\"\"\n")
	writeFile(t, filepath.Join(dir, "c.go"), "package main\n")
	writeFile(t, filepath.Join(dir, "d.rs"), "\xff\n")
	writeFile(t, filepath.Join(dir, "e.py"), pythonSample)

	var buf strings.Builder
	results, summary, err := ExtractAll(context.Background(), []string{dir}, types.ExtractConfig{Workers: 2}, &buf)
	require.NoError(t, err)

	require.Len(t, results, 5)
	for i, name := range []string{"a.rs", "b.py", "c.go", "d.rs", "e.py"} {
		assert.Equal(t, filepath.Join(dir, name), results[i].Path)
	}

	assert.Equal(t, BatchSummary{Extracted: 2, Empty: 1, Malformed: 1, Failed: 1}, summary)
	assert.Equal(t, 5, summary.Total())
	assert.True(t, summary.HasFailures())

	out := buf.String()
	assert.Contains(t, out, "extracted "+filepath.Join(dir, "a.rs")+" (1 blocks)")
	assert.Contains(t, out, "malformed "+filepath.Join(dir, "b.py"))
	assert.Contains(t, out, "empty     "+filepath.Join(dir, "c.go"))
	assert.Contains(t, out, "failed    "+filepath.Join(dir, "d.rs"))
}

func TestExtractAllOrderIndependentOfWorkers(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.rs", "b.rs", "c.rs", "d.rs", "e.rs", "f.rs"} {
		writeFile(t, filepath.Join(dir, name), rustSample)
	}

	var serial, parallel strings.Builder
	r1, _, err := ExtractAll(context.Background(), []string{dir}, types.ExtractConfig{Workers: 1}, &serial)
	require.NoError(t, err)
	r8, _, err := ExtractAll(context.Background(), []string{dir}, types.ExtractConfig{Workers: 8}, &parallel)
	require.NoError(t, err)

	assert.Equal(t, r1, r8)
	assert.Equal(t, serial.String(), parallel.String())
}

func TestExtractAllCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.rs"), rustSample)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf strings.Builder
	results, summary, err := ExtractAll(ctx, []string{dir}, types.ExtractConfig{}, &buf)
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 1)
	assert.True(t, results[0].Failed())
	assert.Equal(t, 1, summary.Failed)
}
