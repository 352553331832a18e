// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"
	"regexp"
	"strings"
)

// EnvBlock is one \begin{name}...\end{name} environment occurrence.
type EnvBlock struct {
	// StartLine and EndLine are 0-based and inclusive.
	StartLine int
	EndLine   int
	Lines     []string
}

// Contains reports whether any line of the block matches the pattern.
func (b EnvBlock) Contains(pattern *regexp.Regexp) bool {
	for _, line := range b.Lines {
		if pattern.MatchString(line) {
			return true
		}
	}
	return false
}

// FindEnvironments extracts every \begin{name}/\end{name} block from the
// content, including starred variants. An unclosed environment runs to the
// end of the file; dangling content is still worth checking.
func FindEnvironments(content, name string) []EnvBlock {
	begin := regexp.MustCompile(fmt.Sprintf(`\\begin\{%s\*?\}`, regexp.QuoteMeta(name)))
	end := regexp.MustCompile(fmt.Sprintf(`\\end\{%s\*?\}`, regexp.QuoteMeta(name)))

	lines := strings.Split(content, "\n")
	var blocks []EnvBlock
	start := -1
	for i, line := range lines {
		if start < 0 {
			if begin.MatchString(line) {
				start = i
			}
			continue
		}
		if end.MatchString(line) {
			blocks = append(blocks, EnvBlock{
				StartLine: start,
				EndLine:   i,
				Lines:     lines[start : i+1],
			})
			start = -1
		}
	}
	if start >= 0 {
		blocks = append(blocks, EnvBlock{
			StartLine: start,
			EndLine:   len(lines) - 1,
			Lines:     lines[start:],
		})
	}
	return blocks
}
