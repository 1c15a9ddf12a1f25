// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pdiddy/litdoc/internal/extract"
	"github.com/pdiddy/litdoc/internal/render"
	"github.com/pdiddy/litdoc/internal/watch"
	"github.com/pdiddy/litdoc/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract [paths...]",
	Short: "Extract documentation regions and render them",
	Long: `Extract reads source files (directories are walked for known source
extensions), collects their documentation regions, and renders the result
in the chosen format.

Regions with an unclosed fence are still rendered with the content that was
recovered, but the command exits nonzero. With --watch the command keeps
running and re-renders whenever a watched file changes.`,
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}
	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	buildErr := extractAndRender(ctx, paths, cfg)

	watchMode, _ := cmd.Flags().GetBool("watch")
	if !watchMode {
		return buildErr
	}
	if buildErr != nil {
		log.Warn().Err(buildErr).Msg("initial build incomplete")
	}

	log.Info().Strs("paths", paths).Msg("watching for changes")
	return newWatcher(cfg.Render).Run(ctx, paths, func(ctx context.Context) error {
		return extractAndRender(ctx, paths, cfg)
	})
}

// newWatcher reacts only to source files, never to the rendered output,
// which may live inside a watched directory.
func newWatcher(cfg types.RenderConfig) *watch.Watcher {
	w := &watch.Watcher{Match: extract.KnownExtension}
	if cfg.Output != "" && cfg.Output != "-" {
		w.Ignore = []string{cfg.Output}
	}
	return w
}

// extractAndRender runs one extraction over paths and writes the rendered
// output. Partial output is still written when some files fail.
func extractAndRender(ctx context.Context, paths []string, cfg types.PipelineConfig) error {
	results, summary, err := extract.ExtractAll(ctx, paths, cfg.Extract, progressWriter(cfg.Render.Output))
	if err != nil {
		return err
	}
	logProblems(results)

	r, err := render.New(cfg.Render)
	if err != nil {
		return err
	}
	if err := render.WriteFile(cfg.Render.Output, r, results); err != nil {
		return err
	}
	if cfg.Render.Output != "" && cfg.Render.Output != "-" {
		log.Info().Str("output", cfg.Render.Output).Str("format", string(cfg.Render.Format)).
			Int("files", summary.Total()).Msg("wrote documentation")
	}

	return summaryError(summary)
}

// progressWriter keeps per-file progress off stdout when stdout carries
// the rendered document.
func progressWriter(output string) io.Writer {
	if output == "" || output == "-" {
		return os.Stderr
	}
	return os.Stdout
}

func logProblems(results []types.FileResult) {
	for _, r := range results {
		if r.Failed() {
			log.Error().Str("path", r.Path).Msg(r.Error)
		}
		for _, w := range r.Warnings {
			log.Warn().Str("path", r.Path).Msg(w)
		}
	}
}

func summaryError(s extract.BatchSummary) error {
	if !s.HasFailures() {
		return nil
	}
	return fmt.Errorf("%d file(s) with malformed blocks, %d file(s) failed", s.Malformed, s.Failed)
}

func addExtractFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(keyFormat, "f", string(types.OutputMarkdown), "output format: markdown, html, yaml, or json")
	cmd.Flags().String(keyTitle, "", "document title for html output")
	cmd.Flags().Int(keyWorkers, 0, "concurrent files (0 = number of CPUs)")
	cmd.Flags().StringSlice(keyAlgorithmTags, nil, "fence tags rendered as algorithms (default algorithm,algo,pseudo,pseudocode)")
	cmd.Flags().StringSlice(keyStyle, nil, "comment styles to recognize: c, python (default: by file extension)")
}

func init() {
	addExtractFlags(extractCmd)
	extractCmd.Flags().StringP(keyOutput, "o", "-", "output file (- for stdout)")
	extractCmd.Flags().BoolP("watch", "w", false, "re-render when source files change")

	rootCmd.AddCommand(extractCmd)
}
