// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package citation cross-checks \cite commands in document text against the
// bibliography provider's key set.
package citation

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"crossref-scan/internal/report"
	"crossref-scan/internal/rules"
)

// citePattern matches the natbib/biblatex citation family: \cite, \citep,
// \citet, \textcite, \parencite and friends, with the key list captured.
var citePattern = regexp.MustCompile(`\\(?:[a-zA-Z]*[cC]ite[a-zA-Z]*)\s*(?:\[[^\]]*\]\s*)*\{([^}]*)\}`)

// Rules returns the citation rule family in its fixed order.
func Rules() []*rules.Rule {
	return []*rules.Rule{
		MissingCitations(),
		OrphanedBibEntries(),
	}
}

// citedKeys extracts every cited key per file in scope, preserving
// document-scan order for the occurrence list.
type citedOccurrence struct {
	file string
	line int
	key  string
}

func collectCitations(ctx context.Context, vc *rules.Context) ([]citedOccurrence, error) {
	var occurrences []citedOccurrence
	for _, file := range vc.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		content, err := vc.Content(ctx, file)
		if err != nil {
			// Unreadable files are already tracked by the context.
			continue
		}
		for lineNum, line := range strings.Split(content, "\n") {
			for _, m := range citePattern.FindAllStringSubmatch(line, -1) {
				for _, key := range strings.Split(m[1], ",") {
					key = strings.TrimSpace(key)
					if key == "" {
						continue
					}
					occurrences = append(occurrences, citedOccurrence{file: file, line: lineNum, key: key})
				}
			}
		}
	}
	return occurrences, nil
}

// MissingCitations flags cited keys absent from the bibliography.
func MissingCitations() *rules.Rule {
	const id = "missing-citations"
	return &rules.Rule{
		ID:          id,
		Category:    report.CategoryCitation,
		Severity:    report.SeverityError,
		Description: "Cited keys must exist in the bibliography",
		Enabled:     true,
		Validate: func(ctx context.Context, vc *rules.Context) ([]report.Issue, error) {
			known, err := vc.Bib.AllCitationKeys(ctx)
			if err != nil {
				return nil, fmt.Errorf("loading bibliography: %w", err)
			}
			occurrences, err := collectCitations(ctx, vc)
			if err != nil {
				return nil, err
			}
			var issues []report.Issue
			for _, occ := range occurrences {
				if _, ok := known[occ.key]; ok {
					continue
				}
				issues = append(issues, report.Issue{
					ID:         rules.IssueID(id, occ.file, occ.line),
					RuleID:     id,
					Severity:   report.SeverityError,
					Category:   report.CategoryCitation,
					Message:    fmt.Sprintf("Citation key '%s' not found in bibliography", occ.key),
					Location:   report.Location{File: occ.file, Line: occ.line, Column: -1},
					Suggestion: "Add the entry to the bibliography or fix the key",
				})
			}
			return issues, nil
		},
	}
}

// OrphanedBibEntries reports bibliography entries never cited inside the
// validated file scope.
func OrphanedBibEntries() *rules.Rule {
	const id = "orphaned-bib-entries"
	return &rules.Rule{
		ID:          id,
		Category:    report.CategoryCitation,
		Severity:    report.SeverityInfo,
		Description: "Bibliography entries should be cited somewhere",
		Enabled:     true,
		Validate: func(ctx context.Context, vc *rules.Context) ([]report.Issue, error) {
			known, err := vc.Bib.AllCitationKeys(ctx)
			if err != nil {
				return nil, fmt.Errorf("loading bibliography: %w", err)
			}
			occurrences, err := collectCitations(ctx, vc)
			if err != nil {
				return nil, err
			}
			cited := make(map[string]bool, len(occurrences))
			for _, occ := range occurrences {
				cited[occ.key] = true
			}

			unused := make([]string, 0)
			for key := range known {
				if !cited[key] {
					unused = append(unused, key)
				}
			}
			sort.Strings(unused)

			var issues []report.Issue
			for _, key := range unused {
				issues = append(issues, report.Issue{
					ID:         rules.IssueID(id, "bibliography", 0) + ":" + key,
					RuleID:     id,
					Severity:   report.SeverityInfo,
					Category:   report.CategoryCitation,
					Message:    fmt.Sprintf("Bibliography entry '%s' is never cited", key),
					Location:   report.Location{File: "bibliography", Line: -1, Column: -1},
					Suggestion: "Cite the entry or remove it from the bibliography",
				})
			}
			return issues, nil
		},
	}
}
