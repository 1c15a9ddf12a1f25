package main

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/litdoc/pkg/types"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunExtract(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		wantErr  string
		wantDocs string
	}{
		{
			name:     "well formed",
			source:   "/*lt\nHello\n```rust\nfn f(){}\n```\n*/\nfn f(){}\n",
			wantDocs: "Hello\n\n```rust\nfn f(){}\n```\n",
		},
		{
			name:     "unclosed fence",
			source:   "/*lt\nIntro\n```go\nx := 1\n*/\n",
			wantErr:  "1 file(s) with malformed blocks, 0 file(s) failed",
			wantDocs: "```go\nx := 1\n```\n",
		},
		{
			name:     "unterminated region",
			source:   "/*lt\nIntro\n",
			wantErr:  "1 file(s) with malformed blocks",
			wantDocs: "Intro\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)

			dir := t.TempDir()
			src := writeSource(t, dir, "lib.rs", tt.source)
			out := filepath.Join(dir, "docs", "API.md")
			viper.Set(keyOutput, out)

			err := runExtract(extractCmd, []string{src})
			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}

			// Recovered content is written even when the run fails.
			data, readErr := os.ReadFile(out)
			require.NoError(t, readErr)
			assert.Contains(t, string(data), tt.wantDocs)
		})
	}
}

func TestRunExtractUnreadableFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	src := writeSource(t, dir, "bad.rs", "/*lt\n\xff\xfe\n*/\n")
	viper.Set(keyOutput, filepath.Join(dir, "API.md"))

	err := runExtract(extractCmd, []string{src})
	assert.ErrorContains(t, err, "1 file(s) failed")
}

func TestNewWatcher(t *testing.T) {
	w := newWatcher(types.RenderConfig{Output: "docs/API.md"})
	assert.Equal(t, []string{"docs/API.md"}, w.Ignore)
	require.NotNil(t, w.Match)
	assert.True(t, w.Match("src/lib.rs"))
	assert.False(t, w.Match("docs/API.md"))

	assert.Empty(t, newWatcher(types.RenderConfig{Output: "-"}).Ignore)
	assert.Empty(t, newWatcher(types.RenderConfig{}).Ignore)
}

func TestVersionString(t *testing.T) {
	assert.Equal(t, version, versionString(true))
	long := versionString(false)
	assert.True(t, strings.HasPrefix(long, "litdoc "+version+" ("))
	assert.Contains(t, long, runtime.GOOS+"/"+runtime.GOARCH)
}
