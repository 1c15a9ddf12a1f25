// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ExtractConfig holds settings for the extraction stage.
type ExtractConfig struct {
	// AlgorithmTags lists the fence tags treated as algorithm listings
	// (default: algorithm, algo, pseudo, pseudocode). Matching ignores case.
	AlgorithmTags []string `json:"algorithm_tags,omitempty" yaml:"algorithm_tags,omitempty"`

	// Styles restricts the comment conventions recognized. Empty means
	// pick by file extension.
	Styles []CommentStyle `json:"styles,omitempty" yaml:"styles,omitempty"`

	// Workers bounds concurrent file extraction (default GOMAXPROCS).
	Workers int `json:"workers" yaml:"workers"`
}

// OutputFormat selects the rendered output format.
type OutputFormat string

const (
	OutputMarkdown OutputFormat = "markdown"
	OutputHTML     OutputFormat = "html"
	OutputYAML     OutputFormat = "yaml"
	OutputJSON     OutputFormat = "json"
)

// RenderConfig holds settings for the render stage.
type RenderConfig struct {
	// Format selects markdown, html, yaml, or json.
	Format OutputFormat `json:"format" yaml:"format"`

	// Output is the destination path; "-" or empty writes to stdout.
	Output string `json:"output" yaml:"output"`

	// Title is the document title used by the HTML renderer.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// CatalogConfig holds settings for the catalog stage.
type CatalogConfig struct {
	// IndexDir is the directory holding litdoc.db and exports.
	IndexDir string `json:"index_dir" yaml:"index_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Extract ExtractConfig `json:"extract" yaml:"extract"`
	Render  RenderConfig  `json:"render" yaml:"render"`
	Catalog CatalogConfig `json:"catalog" yaml:"catalog"`
}
