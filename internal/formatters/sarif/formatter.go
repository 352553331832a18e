// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package sarif

import (
	"encoding/json"
	"fmt"

	"crossref-scan/internal/formatters"
	"crossref-scan/internal/formatters/shared"
	"crossref-scan/internal/report"
	"crossref-scan/internal/version"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
)

// Formatter implements SARIF 2.1.0 output for CI annotation
type Formatter struct{}

// NewFormatter creates a new SARIF formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "sarif"
}

func (f *Formatter) Description() string {
	return "SARIF 2.1.0 output for CI and code-scanning integration"
}

func (f *Formatter) FileExtension() string {
	return ".sarif"
}

// sarifLevel maps issue severities onto SARIF result levels
func sarifLevel(severity report.Severity) string {
	switch severity {
	case report.SeverityCritical, report.SeverityError:
		return "error"
	case report.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

func (f *Formatter) Format(results *report.Results, suppressed []report.SuppressedIssue, options formatters.FormatterOptions) (string, error) {
	filtered := shared.Filtered(results, options.SeverityLevels)

	// Collect distinct rules in first-seen order.
	ruleIndex := make(map[string]int)
	var rules []ruleDescriptor
	for _, issue := range filtered.Issues {
		if _, seen := ruleIndex[issue.RuleID]; seen {
			continue
		}
		ruleIndex[issue.RuleID] = len(rules)
		rules = append(rules, ruleDescriptor{
			ID: issue.RuleID,
			ShortDescription: textBlock{
				Text: issue.Message,
			},
			Properties: map[string]string{
				"category": string(issue.Category),
				"severity": string(issue.Severity),
			},
		})
	}

	sarifResults := make([]resultEntry, 0, len(filtered.Issues))
	for _, issue := range filtered.Issues {
		entry := resultEntry{
			RuleID:    issue.RuleID,
			RuleIndex: ruleIndex[issue.RuleID],
			Level:     sarifLevel(issue.Severity),
			Message:   textBlock{Text: issue.Message},
		}
		if issue.Location.File != "" {
			region := &region{}
			if issue.Location.Line >= 0 {
				region.StartLine = issue.Location.Line + 1
			}
			if issue.Location.Column >= 0 {
				region.StartColumn = issue.Location.Column + 1
			}
			entry.Locations = []location{{
				PhysicalLocation: physicalLocation{
					ArtifactLocation: artifactLocation{URI: issue.Location.File},
					Region:           region,
				},
			}}
		}
		sarifResults = append(sarifResults, entry)
	}

	doc := logFile{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []run{{
			Tool: tool{
				Driver: driver{
					Name:    "crossref-scan",
					Version: version.Version,
					Rules:   rules,
				},
			},
			Results: sarifResults,
		}},
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("formatting SARIF: %w", err)
	}
	return string(data), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
