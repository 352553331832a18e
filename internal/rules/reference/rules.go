// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package reference holds the rules that consume the label index: undefined
// references, duplicate labels and orphaned labels.
package reference

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"crossref-scan/internal/report"
	"crossref-scan/internal/rules"
)

// Rules returns the reference rule family in its fixed order.
func Rules() []*rules.Rule {
	return []*rules.Rule{
		UndefinedReferences(),
		DuplicateLabels(),
		OrphanedLabels(),
	}
}

// UndefinedReferences flags every \ref-family occurrence whose key has no
// label anywhere in the index, with did-you-mean suggestions when a label
// sits within edit distance 3.
func UndefinedReferences() *rules.Rule {
	const id = "undefined-references"
	return &rules.Rule{
		ID:          id,
		Category:    report.CategoryReference,
		Severity:    report.SeverityError,
		Description: "References must point at a defined label",
		Enabled:     true,
		Validate: func(ctx context.Context, vc *rules.Context) ([]report.Issue, error) {
			findings := vc.Resolver.UndefinedReferences(ctx, vc.Index, vc.Store, vc.Files)
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			var issues []report.Issue
			for _, f := range findings {
				issue := report.Issue{
					ID:       rules.IssueID(id, f.File, f.Position.Line),
					RuleID:   id,
					Severity: report.SeverityError,
					Category: report.CategoryReference,
					Message:  fmt.Sprintf("Reference to undefined label '%s'", f.Key),
					Location: report.Location{File: f.File, Line: f.Position.Line, Column: f.Position.Column},
				}
				if candidates := vc.Index.FuzzyCandidates(f.Key); len(candidates) > 0 {
					issue.Suggestion = fmt.Sprintf("Did you mean: %s?", strings.Join(candidates, ", "))
				}
				issues = append(issues, issue)
			}
			return issues, nil
		},
	}
}

// DuplicateLabels flags keys anchored by more than one \label{} site. Only
// sites inside the requested file scope produce issues.
func DuplicateLabels() *rules.Rule {
	const id = "duplicate-labels"
	return &rules.Rule{
		ID:          id,
		Category:    report.CategoryReference,
		Severity:    report.SeverityWarning,
		Description: "Label keys must be defined only once across the corpus",
		Enabled:     true,
		Validate: func(ctx context.Context, vc *rules.Context) ([]report.Issue, error) {
			inScope := make(map[string]bool, len(vc.Files))
			for _, file := range vc.Files {
				inScope[file] = true
			}

			dupes := vc.Index.FindDuplicates()
			keys := make([]string, 0, len(dupes))
			for key := range dupes {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			var issues []report.Issue
			for _, key := range keys {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				sites := dupes[key]
				for _, site := range sites[1:] {
					if !inScope[site.File] {
						continue
					}
					issues = append(issues, report.Issue{
						ID:          rules.IssueID(id, site.File, site.Position.Line),
						RuleID:      id,
						Severity:    report.SeverityWarning,
						Category:    report.CategoryReference,
						Message:     fmt.Sprintf("Label '%s' is defined %d times", key, len(sites)),
						Location:    report.Location{File: site.File, Line: site.Position.Line, Column: site.Position.Column},
						Description: fmt.Sprintf("First defined in %s at line %d", sites[0].File, sites[0].Position.Line+1),
						Suggestion:  "Rename this label so every key has a single definition site",
					})
				}
			}
			return issues, nil
		},
	}
}

// OrphanedLabels reports labels that nothing references.
func OrphanedLabels() *rules.Rule {
	const id = "orphaned-labels"
	return &rules.Rule{
		ID:          id,
		Category:    report.CategoryReference,
		Severity:    report.SeverityInfo,
		Description: "Labels should be referenced at least once",
		Enabled:     true,
		Validate: func(ctx context.Context, vc *rules.Context) ([]report.Issue, error) {
			inScope := make(map[string]bool, len(vc.Files))
			for _, file := range vc.Files {
				inScope[file] = true
			}

			var issues []report.Issue
			for _, entry := range vc.Index.FindOrphans() {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				if !inScope[entry.File] {
					continue
				}
				issues = append(issues, report.Issue{
					ID:         rules.IssueID(id, entry.File, entry.Position.Line),
					RuleID:     id,
					Severity:   report.SeverityInfo,
					Category:   report.CategoryReference,
					Message:    fmt.Sprintf("Label '%s' is never referenced", entry.Key),
					Location:   report.Location{File: entry.File, Line: entry.Position.Line, Column: entry.Position.Column},
					Suggestion: "Remove the label or add a reference to it",
				})
			}
			return issues, nil
		},
	}
}
