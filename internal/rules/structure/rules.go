// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package structure runs pure text checks over document headings: empty
// sections and heading-level skips. No index dependency.
package structure

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"crossref-scan/internal/report"
	"crossref-scan/internal/rules"
)

// heading is one recognized heading line with its nesting level.
type heading struct {
	line  int
	level int
	title string
}

var (
	markdownHeading = regexp.MustCompile(`^\s{0,3}(#{1,6})\s+(.*\S)`)
	latexHeading    = regexp.MustCompile(`\\(section|subsection|subsubsection)\*?\{([^}]*)\}`)
)

// latexLevels maps sectioning commands onto markdown-equivalent depth.
var latexLevels = map[string]int{
	"section":       1,
	"subsection":    2,
	"subsubsection": 3,
}

// collectHeadings extracts headings in document order.
func collectHeadings(content string) []heading {
	var headings []heading
	for lineNum, line := range strings.Split(content, "\n") {
		if m := markdownHeading.FindStringSubmatch(line); m != nil {
			headings = append(headings, heading{line: lineNum, level: len(m[1]), title: strings.TrimSpace(m[2])})
			continue
		}
		if m := latexHeading.FindStringSubmatch(line); m != nil {
			headings = append(headings, heading{line: lineNum, level: latexLevels[m[1]], title: strings.TrimSpace(m[2])})
		}
	}
	return headings
}

// Rules returns the structure rule family in its fixed order.
func Rules() []*rules.Rule {
	return []*rules.Rule{
		EmptySections(),
		HeadingLevels(),
	}
}

// EmptySections flags a heading immediately followed by another heading
// with nothing but blank lines in between. Any non-blank line between two
// headings disqualifies the pair.
func EmptySections() *rules.Rule {
	const id = "empty-sections"
	return &rules.Rule{
		ID:          id,
		Category:    report.CategoryStructure,
		Severity:    report.SeverityWarning,
		Description: "Sections should have content before the next heading",
		Enabled:     true,
		Validate: func(ctx context.Context, vc *rules.Context) ([]report.Issue, error) {
			var issues []report.Issue
			for _, file := range vc.Files {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				content, err := vc.Content(ctx, file)
				if err != nil {
					continue
				}
				lines := strings.Split(content, "\n")
				headings := collectHeadings(content)
				for i := 0; i+1 < len(headings); i++ {
					current, next := headings[i], headings[i+1]
					if !onlyBlankBetween(lines, current.line, next.line) {
						continue
					}
					issues = append(issues, report.Issue{
						ID:         rules.IssueID(id, file, current.line),
						RuleID:     id,
						Severity:   report.SeverityWarning,
						Category:   report.CategoryStructure,
						Message:    fmt.Sprintf("Section '%s' has no content", current.title),
						Location:   report.Location{File: file, Line: current.line, Column: -1},
						Suggestion: "Add content to the section or remove the heading",
					})
				}
			}
			return issues, nil
		},
	}
}

// onlyBlankBetween reports whether every line strictly between two line
// numbers is blank.
func onlyBlankBetween(lines []string, from, to int) bool {
	for i := from + 1; i < to; i++ {
		if strings.TrimSpace(lines[i]) != "" {
			return false
		}
	}
	return true
}

// HeadingLevels flags a heading nested two or more levels below its
// predecessor. Stepping down one level is legal nesting; only a jump of
// previous+2 or more fires.
func HeadingLevels() *rules.Rule {
	const id = "heading-levels"
	return &rules.Rule{
		ID:          id,
		Category:    report.CategoryStructure,
		Severity:    report.SeverityWarning,
		Description: "Heading levels should not skip",
		Enabled:     true,
		Validate: func(ctx context.Context, vc *rules.Context) ([]report.Issue, error) {
			var issues []report.Issue
			for _, file := range vc.Files {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				content, err := vc.Content(ctx, file)
				if err != nil {
					continue
				}
				headings := collectHeadings(content)
				for i := 1; i < len(headings); i++ {
					previous, current := headings[i-1], headings[i]
					if current.level < previous.level+2 {
						continue
					}
					issues = append(issues, report.Issue{
						ID:       rules.IssueID(id, file, current.line),
						RuleID:   id,
						Severity: report.SeverityWarning,
						Category: report.CategoryStructure,
						Message: fmt.Sprintf("Heading level skips from %d to %d at '%s'",
							previous.level, current.level, current.title),
						Location:   report.Location{File: file, Line: current.line, Column: -1},
						Suggestion: fmt.Sprintf("Use a level-%d heading here", previous.level+1),
					})
				}
			}
			return issues, nil
		},
	}
}
