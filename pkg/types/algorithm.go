// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Algorithm is the structured reading of an algorithm listing such as
//
//	Algorithm: Division with Zero Check
//	Input: dividend, divisor
//	Output: result or error
//	1: if divisor = 0 then
//	2:     return Error("Division by zero")
//	3: end
type Algorithm struct {
	Title  string `json:"title,omitempty" yaml:"title,omitempty"`
	Input  string `json:"input,omitempty" yaml:"input,omitempty"`
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	// Steps lists the numbered lines in order.
	Steps []AlgorithmStep `json:"steps,omitempty" yaml:"steps,omitempty"`

	// Preamble keeps non-blank lines that are neither headers nor steps.
	Preamble []string `json:"preamble,omitempty" yaml:"preamble,omitempty"`
}

// AlgorithmStep is one numbered line of an algorithm listing.
type AlgorithmStep struct {
	// Number is the label before the colon, e.g. "3" or "3a".
	Number string `json:"number" yaml:"number"`

	// Depth is the nesting level from the indentation after the colon.
	Depth int `json:"depth" yaml:"depth"`

	Text string `json:"text" yaml:"text"`
}
