// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/litdoc/pkg/types"
)

type yamlRenderer struct{}

func (yamlRenderer) Render(w io.Writer, results []types.FileResult) error {
	if results == nil {
		results = []types.FileResult{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

type jsonRenderer struct{}

func (jsonRenderer) Render(w io.Writer, results []types.FileResult) error {
	if results == nil {
		results = []types.FileResult{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}
