// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package figure pattern-scans figure environments for missing labels,
// missing captions and hardcoded numbering.
package figure

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"crossref-scan/internal/report"
	"crossref-scan/internal/rules"
)

var (
	labelPattern   = regexp.MustCompile(`\\label\{[^}]+\}`)
	captionPattern = regexp.MustCompile(`\\caption\{`)
	// hardcodedNumber matches prose like "Figure 3" or "Fig. 3", which goes
	// stale the moment figures are reordered.
	hardcodedNumber = regexp.MustCompile(`\b(?:Figure|Fig\.)\s+\d+`)
)

// Rules returns the figure rule family in its fixed order.
func Rules() []*rules.Rule {
	return []*rules.Rule{
		MissingLabels(),
		MissingCaptions(),
		Numbering(),
	}
}

// MissingLabels flags figure environments with no \label inside.
func MissingLabels() *rules.Rule {
	const id = "figures-missing-labels"
	return &rules.Rule{
		ID:          id,
		Category:    report.CategoryFigure,
		Severity:    report.SeverityWarning,
		Description: "Figure environments should carry a label",
		Enabled:     true,
		Validate: func(ctx context.Context, vc *rules.Context) ([]report.Issue, error) {
			return scanBlocks(ctx, vc, id, func(block rules.EnvBlock) *report.Issue {
				if block.Contains(labelPattern) {
					return nil
				}
				return &report.Issue{
					Severity:   report.SeverityWarning,
					Message:    "Figure has no label",
					Suggestion: `Add \label{fig:...} so the figure can be referenced`,
				}
			})
		},
	}
}

// MissingCaptions flags figure environments with no \caption inside.
func MissingCaptions() *rules.Rule {
	const id = "figures-missing-captions"
	return &rules.Rule{
		ID:          id,
		Category:    report.CategoryFigure,
		Severity:    report.SeverityWarning,
		Description: "Figure environments should carry a caption",
		Enabled:     true,
		Validate: func(ctx context.Context, vc *rules.Context) ([]report.Issue, error) {
			return scanBlocks(ctx, vc, id, func(block rules.EnvBlock) *report.Issue {
				if block.Contains(captionPattern) {
					return nil
				}
				return &report.Issue{
					Severity:   report.SeverityWarning,
					Message:    "Figure has no caption",
					Suggestion: `Add \caption{...} describing the figure`,
				}
			})
		},
	}
}

// Numbering flags hardcoded "Figure N" literals in prose; captions are
// exempt since the number there is the rendered output, not a reference.
func Numbering() *rules.Rule {
	const id = "figure-numbering"
	return &rules.Rule{
		ID:          id,
		Category:    report.CategoryFigure,
		Severity:    report.SeverityInfo,
		Description: "Figures should be referenced by label, not hardcoded number",
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
				for lineNum, line := range strings.Split(content, "\n") {
					if captionPattern.MatchString(line) || strings.Contains(line, `\ref{`) ||
						strings.Contains(line, `\autoref{`) || strings.Contains(line, `\cref{`) {
						continue
					}
					if m := hardcodedNumber.FindString(line); m != "" {
						issues = append(issues, report.Issue{
							ID:         rules.IssueID(id, file, lineNum),
							RuleID:     id,
							Severity:   report.SeverityInfo,
							Category:   report.CategoryFigure,
							Message:    fmt.Sprintf("Hardcoded figure number '%s'", m),
							Location:   report.Location{File: file, Line: lineNum, Column: -1},
							Suggestion: `Use \ref{fig:...} so numbering survives reordering`,
						})
					}
				}
			}
			return issues, nil
		},
	}
}

// scanBlocks runs a per-block check over every figure environment in scope.
func scanBlocks(ctx context.Context, vc *rules.Context, ruleID string, check func(rules.EnvBlock) *report.Issue) ([]report.Issue, error) {
	var issues []report.Issue
	for _, file := range vc.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		content, err := vc.Content(ctx, file)
		if err != nil {
			continue
		}
		for _, block := range rules.FindEnvironments(content, "figure") {
			issue := check(block)
			if issue == nil {
				continue
			}
			issue.ID = rules.IssueID(ruleID, file, block.StartLine)
			issue.RuleID = ruleID
			issue.Category = report.CategoryFigure
			issue.Location = report.Location{File: file, Line: block.StartLine, Column: -1}
			issues = append(issues, *issue)
		}
	}
	return issues, nil
}
