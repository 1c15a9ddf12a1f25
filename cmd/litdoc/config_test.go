package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/litdoc/internal/extract"
	"github.com/pdiddy/litdoc/pkg/types"
)

func TestPipelineConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := pipelineConfig()
	require.NoError(t, err)
	assert.Equal(t, types.OutputMarkdown, cfg.Render.Format)
	assert.Equal(t, defaultIndexDir, cfg.Catalog.IndexDir)
	assert.Empty(t, cfg.Extract.Styles)
	assert.Empty(t, cfg.Extract.AlgorithmTags)
}

func TestPipelineConfigFromFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "litdoc.yaml")
	content := `format: html
title: Calculator
workers: 3
algorithm-tags: [algorithm, steps]
style: [python]
index-dir: /tmp/litdoc-index
max-results: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())

	cfg, err := pipelineConfig()
	require.NoError(t, err)
	assert.Equal(t, types.RenderConfig{Format: types.OutputHTML, Title: "Calculator"}, cfg.Render)
	assert.Equal(t, types.ExtractConfig{
		AlgorithmTags: []string{"algorithm", "steps"},
		Styles:        []types.CommentStyle{types.StylePython},
		Workers:       3,
	}, cfg.Extract)
	assert.Equal(t, types.CatalogConfig{IndexDir: "/tmp/litdoc-index", MaxResults: 5}, cfg.Catalog)
}

func TestPipelineConfigRejectsUnknownValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Reset()
	viper.Set(keyFormat, "pdf")
	_, err := pipelineConfig()
	assert.Error(t, err)

	viper.Reset()
	viper.Set(keyStyle, []string{"lisp"})
	_, err = pipelineConfig()
	assert.ErrorContains(t, err, "unknown comment style")
}

func TestSummaryError(t *testing.T) {
	assert.NoError(t, summaryError(extract.BatchSummary{Extracted: 3, Empty: 1}))
	assert.EqualError(t, summaryError(extract.BatchSummary{Malformed: 2, Failed: 1}), "2 file(s) with malformed blocks, 1 file(s) failed")
}
