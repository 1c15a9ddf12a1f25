// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"unicode/utf8"

	"github.com/sourcegraph/conc/pool"

	"github.com/pdiddy/litdoc/pkg/types"
)

// BatchSummary holds counts from a batch extraction run.
type BatchSummary struct {
	Extracted int
	Empty     int
	Malformed int
	Failed    int
}

// Total returns the number of files processed.
func (s BatchSummary) Total() int {
	return s.Extracted + s.Empty + s.Malformed + s.Failed
}

// HasFailures reports whether any file was unreadable or held a malformed block.
func (s BatchSummary) HasFailures() bool {
	return s.Malformed > 0 || s.Failed > 0
}

// Options converts an ExtractConfig into Extract options for path. Styles
// from the config win over the ones implied by the file extension.
func Options(path string, cfg types.ExtractConfig) []Option {
	styles := cfg.Styles
	if len(styles) == 0 {
		styles = StyleFor(path)
	}
	return []Option{WithStyles(styles...), WithAlgorithmTags(cfg.AlgorithmTags...)}
}

// ExtractFile reads path and extracts its documentation blocks. Read
// failures and non-UTF-8 content return an error; malformed blocks do not,
// they are listed in the result's Warnings.
func ExtractFile(path string, cfg types.ExtractConfig) (types.FileResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.FileResult{Path: path}, fmt.Errorf("reading %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return types.FileResult{Path: path}, fmt.Errorf("decoding %s: %w", path, ErrInvalidUTF8)
	}
	return ExtractSource(path, string(data), cfg), nil
}

// ExtractSource extracts src as if read from path.
func ExtractSource(path, src string, cfg types.ExtractConfig) types.FileResult {
	blocks, err := Extract(src, Options(path, cfg)...)
	result := types.FileResult{Path: path, Blocks: blocks}
	for _, fe := range FenceErrors(err) {
		fe.Path = path
		result.Warnings = append(result.Warnings, fe.Error())
	}
	return result
}

// Collect expands paths into the list of files to extract. Files named
// directly are kept as given; directories are walked recursively for files
// with a known source extension, skipping hidden directories. The result
// keeps argument order, with each directory's files in lexical order.
func Collect(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if KnownExtension(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", p, err)
		}
	}
	return files, nil
}

// ExtractAll extracts every file under paths with a bounded pool of
// workers. Results come back in collection order regardless of scheduling,
// and one progress line per file is written to w in that same order.
// Per-file failures are recorded in the results and the summary; the
// returned error is reserved for collection failures and cancellation.
func ExtractAll(ctx context.Context, paths []string, cfg types.ExtractConfig, w io.Writer) ([]types.FileResult, BatchSummary, error) {
	files, err := Collect(paths)
	if err != nil {
		return nil, BatchSummary{}, err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]types.FileResult, len(files))
	p := pool.New().WithMaxGoroutines(workers)
	for i, f := range files {
		i, f := i, f
		p.Go(func() {
			if err := ctx.Err(); err != nil {
				results[i] = types.FileResult{Path: f, Error: err.Error()}
				return
			}
			r, err := ExtractFile(f, cfg)
			if err != nil {
				r.Error = err.Error()
			}
			results[i] = r
		})
	}
	p.Wait()

	var summary BatchSummary
	for _, r := range results {
		switch {
		case r.Failed():
			fmt.Fprintf(w, "failed    %s: %s\n", r.Path, r.Error)
			summary.Failed++
		case r.HasPartial():
			fmt.Fprintf(w, "malformed %s (%d blocks)\n", r.Path, len(r.Blocks))
			for _, warn := range r.Warnings {
				fmt.Fprintf(w, "  %s\n", warn)
			}
			summary.Malformed++
		case len(r.Blocks) == 0:
			fmt.Fprintf(w, "empty     %s\n", r.Path)
			summary.Empty++
		default:
			fmt.Fprintf(w, "extracted %s (%d blocks)\n", r.Path, len(r.Blocks))
			summary.Extracted++
		}
	}

	return results, summary, ctx.Err()
}
