// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package table pattern-scans table environments for missing labels and
// captions, symmetric with the figure rules.
package table

import (
	"context"
	"regexp"

	"crossref-scan/internal/report"
	"crossref-scan/internal/rules"
)

var (
	labelPattern   = regexp.MustCompile(`\\label\{[^}]+\}`)
	captionPattern = regexp.MustCompile(`\\caption\{`)
)

// Rules returns the table rule family in its fixed order.
func Rules() []*rules.Rule {
	return []*rules.Rule{
		MissingLabels(),
		MissingCaptions(),
	}
}

// MissingLabels flags table environments with no \label inside.
func MissingLabels() *rules.Rule {
	const id = "tables-missing-labels"
	return &rules.Rule{
		ID:          id,
		Category:    report.CategoryTable,
		Severity:    report.SeverityWarning,
		Description: "Table environments should carry a label",
		Enabled:     true,
		Validate: func(ctx context.Context, vc *rules.Context) ([]report.Issue, error) {
			return scanBlocks(ctx, vc, id, func(block rules.EnvBlock) *report.Issue {
				if block.Contains(labelPattern) {
					return nil
				}
				return &report.Issue{
					Severity:   report.SeverityWarning,
					Message:    "Table has no label",
					Suggestion: `Add \label{tab:...} so the table can be referenced`,
				}
			})
		},
	}
}

// MissingCaptions flags table environments with no \caption inside.
func MissingCaptions() *rules.Rule {
	const id = "tables-missing-captions"
	return &rules.Rule{
		ID:          id,
		Category:    report.CategoryTable,
		Severity:    report.SeverityWarning,
		Description: "Table environments should carry a caption",
		Enabled:     true,
		Validate: func(ctx context.Context, vc *rules.Context) ([]report.Issue, error) {
			return scanBlocks(ctx, vc, id, func(block rules.EnvBlock) *report.Issue {
				if block.Contains(captionPattern) {
					return nil
				}
				return &report.Issue{
					Severity:   report.SeverityWarning,
					Message:    "Table has no caption",
					Suggestion: `Add \caption{...} describing the table`,
				}
			})
		},
	}
}

// scanBlocks runs a per-block check over every table environment in scope.
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
		for _, block := range rules.FindEnvironments(content, "table") {
			issue := check(block)
			if issue == nil {
				continue
			}
			issue.ID = rules.IssueID(ruleID, file, block.StartLine)
			issue.RuleID = ruleID
			issue.Category = report.CategoryTable
			issue.Location = report.Location{File: file, Line: block.StartLine, Column: -1}
			issues = append(issues, *issue)
		}
	}
	return issues, nil
}
