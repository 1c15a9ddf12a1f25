//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// exampleDir holds the annotated sample sources rendered by Docs.
const exampleDir = "examples"

// Docs renders the annotated examples to docs/examples.md and docs/examples.html.
func Docs() error {
	mg.Deps(Build, Init)
	bin := filepath.Join(binDir, binName)
	for _, format := range []string{"md", "html"} {
		out := filepath.Join("docs", "examples."+format)
		if err := sh.RunV(bin, "extract", exampleDir, "--format", format, "--title", "litdoc examples", "--output", out); err != nil {
			return err
		}
	}
	return nil
}

// CheckDocs fails when docs/examples.md is out of date with the examples.
func CheckDocs() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "check", exampleDir, "--against", filepath.Join("docs", "examples.md"))
}

// Index stores the annotated examples in the local catalog.
func Index() error {
	mg.Deps(Build, Init)
	return sh.RunV(filepath.Join(binDir, binName), "index", "store", exampleDir)
}
