// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/pdiddy/litdoc/pkg/types"
)

// stepPattern matches numbered algorithm lines: "3: text" or "3a. text".
var stepPattern = regexp.MustCompile(`^(\d+[a-z]?)[:.](.*)$`)

const indentWidth = 4

// ParseAlgorithm reads an algorithm listing into its headers and numbered
// steps. Header keys (Algorithm, Input, Output) match without regard to
// case. Step depth comes from the indentation after the step label: one
// level per four spaces or per tab, not counting the single separating space.
func ParseAlgorithm(text string) types.Algorithm {
	var alg types.Algorithm
	for _, raw := range strings.Split(text, "\n") {
		ln := strings.TrimRight(raw, " \t\r")
		trimmed := strings.TrimSpace(ln)
		if trimmed == "" {
			continue
		}

		if key, val, ok := header(trimmed); ok {
			switch key {
			case "algorithm":
				alg.Title = val
			case "input":
				alg.Input = val
			case "output":
				alg.Output = val
			}
			continue
		}

		if m := stepPattern.FindStringSubmatch(trimmed); m != nil {
			rest := strings.TrimPrefix(m[2], " ")
			body := strings.TrimLeft(rest, " \t")
			alg.Steps = append(alg.Steps, types.AlgorithmStep{
				Number: m[1],
				Depth:  depth(rest[:len(rest)-len(body)]),
				Text:   body,
			})
			continue
		}

		alg.Preamble = append(alg.Preamble, trimmed)
	}
	return alg
}

func header(line string) (key, val string, ok bool) {
	k, v, found := strings.Cut(line, ":")
	if !found {
		return "", "", false
	}
	key = strings.ToLower(strings.TrimSpace(k))
	switch key {
	case "algorithm", "input", "output":
		return key, strings.TrimSpace(v), true
	}
	return "", "", false
}

func depth(indent string) int {
	d, spaces := 0, 0
	for _, r := range indent {
		switch r {
		case '\t':
			d++
		case ' ':
			spaces++
		}
	}
	return d + spaces/indentWidth
}
