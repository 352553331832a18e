// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package shared holds filtering and conversion logic common to all
// formatters.
package shared

import (
	"crossref-scan/internal/report"
)

// FilterIssuesBySeverity returns the issues whose severity is enabled in
// the levels map. A nil map keeps everything.
func FilterIssuesBySeverity(issues []report.Issue, levels map[string]bool) []report.Issue {
	if levels == nil {
		return issues
	}
	var filtered []report.Issue
	for _, issue := range issues {
		if levels[string(issue.Severity)] {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}

// Filtered produces a copy of the results holding only the issues enabled
// by the severity levels, with the summary recomputed to match.
func Filtered(results *report.Results, levels map[string]bool) *report.Results {
	issues := FilterIssuesBySeverity(results.Issues, levels)
	if issues == nil {
		issues = []report.Issue{}
	}
	out := *results
	out.Issues = issues
	out.Summary = report.Summarize(issues)
	return &out
}

// SeverityOrder lists severities from most to least severe, for stable
// display grouping.
var SeverityOrder = []report.Severity{
	report.SeverityCritical,
	report.SeverityError,
	report.SeverityWarning,
	report.SeverityInfo,
}
