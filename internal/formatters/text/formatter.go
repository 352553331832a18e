// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"

	"crossref-scan/internal/formatters"
	"crossref-scan/internal/formatters/shared"
	"crossref-scan/internal/report"

	"github.com/fatih/color"
)

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[report.Severity]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[report.Severity]*color.Color{
			report.SeverityCritical: color.New(color.FgRed, color.Bold),
			report.SeverityError:    color.New(color.FgRed),
			report.SeverityWarning:  color.New(color.FgYellow),
			report.SeverityInfo:     color.New(color.FgCyan),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable text output with colors"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(results *report.Results, suppressed []report.SuppressedIssue, options formatters.FormatterOptions) (string, error) {
	// Disable colors if requested
	if options.NoColor {
		color.NoColor = true
	}

	filtered := shared.Filtered(results, options.SeverityLevels)

	var b strings.Builder
	if len(filtered.Issues) == 0 {
		b.WriteString("No issues found.\n")
		f.writeFooter(&b, filtered, suppressed)
		return b.String(), nil
	}

	// Group issues by file, preserving report order.
	var fileOrder []string
	byFile := make(map[string][]report.Issue)
	for _, issue := range filtered.Issues {
		file := issue.Location.File
		if _, seen := byFile[file]; !seen {
			fileOrder = append(fileOrder, file)
		}
		byFile[file] = append(byFile[file], issue)
	}

	for _, file := range fileOrder {
		fmt.Fprintf(&b, "%s\n", color.New(color.FgWhite, color.Bold).Sprint(file))
		for _, issue := range byFile[file] {
			tag := f.severityTag(issue.Severity)
			location := ""
			if issue.Location.Line >= 0 {
				location = fmt.Sprintf("%d: ", issue.Location.Line+1)
			}
			fmt.Fprintf(&b, "  %s %s%s [%s]\n", tag, location, issue.Message, issue.RuleID)
			if issue.Suggestion != "" {
				fmt.Fprintf(&b, "      %s\n", color.New(color.FgGreen).Sprintf("suggestion: %s", issue.Suggestion))
			}
			if options.ShowContext && issue.Description != "" {
				fmt.Fprintf(&b, "      %s\n", issue.Description)
			}
		}
		b.WriteString("\n")
	}

	f.writeFooter(&b, filtered, suppressed)
	return b.String(), nil
}

// severityTag renders a fixed-width colored severity marker
func (f *Formatter) severityTag(severity report.Severity) string {
	c, ok := f.colors[severity]
	if !ok {
		c = color.New(color.FgWhite)
	}
	return c.Sprintf("%-8s", strings.ToUpper(string(severity)))
}

// writeFooter appends the summary block
func (f *Formatter) writeFooter(b *strings.Builder, results *report.Results, suppressed []report.SuppressedIssue) {
	fmt.Fprintf(b, "Files scanned: %d\n", results.FilesScanned)
	fmt.Fprintf(b, "Issues: %d", results.Summary.Total)
	var parts []string
	for _, severity := range shared.SeverityOrder {
		if count := results.Summary.BySeverity[severity]; count > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", count, severity))
		}
	}
	if len(parts) > 0 {
		fmt.Fprintf(b, " (%s)", strings.Join(parts, ", "))
	}
	b.WriteString("\n")
	if len(suppressed) > 0 {
		fmt.Fprintf(b, "Suppressed: %d\n", len(suppressed))
	}
	if len(results.Errors) > 0 {
		for _, e := range results.Errors {
			fmt.Fprintf(b, "%s %s\n", color.New(color.FgRed).Sprint("engine error:"), e)
		}
	}
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
