// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"fmt"
	"strings"

	"crossref-scan/internal/formatters"
	"crossref-scan/internal/formatters/shared"
	"crossref-scan/internal/report"
)

// Formatter implements CSV output formatting
type Formatter struct{}

// NewFormatter creates a new CSV formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "csv"
}

func (f *Formatter) Description() string {
	return "Comma-separated values for spreadsheet import"
}

func (f *Formatter) FileExtension() string {
	return ".csv"
}

func (f *Formatter) Format(results *report.Results, suppressed []report.SuppressedIssue, options formatters.FormatterOptions) (string, error) {
	filtered := shared.Filtered(results, options.SeverityLevels)

	headers := []string{"File", "Line", "Severity", "Category", "Rule", "Message"}
	if options.Verbose {
		headers = append(headers, "Suggestion")
	}

	rows := []string{strings.Join(headers, ",")}
	for _, issue := range filtered.Issues {
		rows = append(rows, f.createRow(issue, options, false))
	}
	for _, s := range suppressed {
		rows = append(rows, f.createRow(s.Issue, options, true))
	}
	return strings.Join(rows, "\n"), nil
}

// createRow creates one CSV row for an issue
func (f *Formatter) createRow(issue report.Issue, options formatters.FormatterOptions, suppressedRow bool) string {
	severity := string(issue.Severity)
	if suppressedRow {
		severity = severity + " (suppressed)"
	}
	line := ""
	if issue.Location.Line >= 0 {
		line = fmt.Sprintf("%d", issue.Location.Line+1)
	}
	fields := []string{
		escapeCSV(issue.Location.File),
		line,
		severity,
		string(issue.Category),
		issue.RuleID,
		escapeCSV(issue.Message),
	}
	if options.Verbose {
		fields = append(fields, escapeCSV(issue.Suggestion))
	}
	return strings.Join(fields, ",")
}

// escapeCSV quotes a field when it holds commas, quotes or newlines
func escapeCSV(field string) string {
	if strings.ContainsAny(field, ",\"\n") {
		return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	return field
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
