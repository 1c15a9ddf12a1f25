// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/pdiddy/litdoc/internal/extract"
	"github.com/pdiddy/litdoc/internal/render"
	"github.com/pdiddy/litdoc/pkg/types"
)

// Config keys. Each matches the flag of the same name, so a flag, a
// LITDOC_* environment variable, or a litdoc.yaml entry can set it.
const (
	keyFormat        = "format"
	keyOutput        = "output"
	keyTitle         = "title"
	keyWorkers       = "workers"
	keyAlgorithmTags = "algorithm-tags"
	keyStyle         = "style"
	keyIndexDir      = "index-dir"
	keyMaxResults    = "max-results"
)

// pipelineConfig assembles the stage configuration from viper.
func pipelineConfig() (types.PipelineConfig, error) {
	var cfg types.PipelineConfig

	format, err := render.ParseFormat(viper.GetString(keyFormat))
	if err != nil {
		return cfg, err
	}
	cfg.Render = types.RenderConfig{
		Format: format,
		Output: viper.GetString(keyOutput),
		Title:  viper.GetString(keyTitle),
	}

	cfg.Extract = types.ExtractConfig{
		AlgorithmTags: viper.GetStringSlice(keyAlgorithmTags),
		Workers:       viper.GetInt(keyWorkers),
	}
	for _, name := range viper.GetStringSlice(keyStyle) {
		style, ok := extract.ParseStyle(name)
		if !ok {
			return cfg, fmt.Errorf("unknown comment style %q: use c or python", name)
		}
		cfg.Extract.Styles = append(cfg.Extract.Styles, style)
	}

	indexDir := viper.GetString(keyIndexDir)
	if indexDir == "" {
		indexDir = defaultIndexDir
	}
	cfg.Catalog = types.CatalogConfig{
		IndexDir:   indexDir,
		MaxResults: viper.GetInt(keyMaxResults),
	}

	return cfg, nil
}
