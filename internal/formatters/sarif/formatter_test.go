// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package sarif

import (
	"encoding/json"
	"testing"

	"crossref-scan/internal/formatters"
	"crossref-scan/internal/report"
)

func TestSarifLevel(t *testing.T) {
	tests := []struct {
		severity report.Severity
		level    string
	}{
		{report.SeverityCritical, "error"},
		{report.SeverityError, "error"},
		{report.SeverityWarning, "warning"},
		{report.SeverityInfo, "note"},
	}
	for _, tt := range tests {
		if got := sarifLevel(tt.severity); got != tt.level {
			t.Errorf("sarifLevel(%s) = %q, want %q", tt.severity, got, tt.level)
		}
	}
}

func TestFormatProducesValidSarif(t *testing.T) {
	issues := []report.Issue{
		{
			RuleID: "undefined-references", Severity: report.SeverityError,
			Category: report.CategoryReference,
			Message:  "Reference to undefined label 'fig:gone'",
			Location: report.Location{File: "a.tex", Line: 4, Column: 2},
		},
		{
			RuleID: "undefined-references", Severity: report.SeverityError,
			Category: report.CategoryReference,
			Message:  "Reference to undefined label 'fig:also'",
			Location: report.Location{File: "b.tex", Line: 0, Column: -1},
		},
		{
			RuleID: "orphaned-labels", Severity: report.SeverityInfo,
			Category: report.CategoryReference,
			Message:  "Label 'sec:x' is never referenced",
			Location: report.Location{File: "a.tex", Line: 9, Column: -1},
		},
	}
	results := &report.Results{Issues: issues, Summary: report.Summarize(issues)}

	out, err := NewFormatter().Format(results, nil, formatters.FormatterOptions{})
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var doc logFile
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if doc.Version != "2.1.0" {
		t.Errorf("version = %q, want 2.1.0", doc.Version)
	}
	if len(doc.Runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(doc.Runs))
	}

	run := doc.Runs[0]
	if run.Tool.Driver.Name != "crossref-scan" {
		t.Errorf("driver name = %q", run.Tool.Driver.Name)
	}
	// Two distinct rules despite three results.
	if len(run.Tool.Driver.Rules) != 2 {
		t.Errorf("rule descriptors = %d, want 2", len(run.Tool.Driver.Rules))
	}
	if len(run.Results) != 3 {
		t.Fatalf("results = %d, want 3", len(run.Results))
	}

	first := run.Results[0]
	if first.Level != "error" {
		t.Errorf("level = %q, want error", first.Level)
	}
	if first.RuleIndex != 0 {
		t.Errorf("rule index = %d, want 0", first.RuleIndex)
	}
	region := first.Locations[0].PhysicalLocation.Region
	if region.StartLine != 5 || region.StartColumn != 3 {
		t.Errorf("region = %+v, want 1-based line 5, column 3", region)
	}

	third := run.Results[2]
	if third.RuleIndex != 1 {
		t.Errorf("third result rule index = %d, want 1", third.RuleIndex)
	}
	if third.Level != "note" {
		t.Errorf("third result level = %q, want note", third.Level)
	}
}

func TestFormatEmptyResults(t *testing.T) {
	results := &report.Results{Issues: []report.Issue{}, Summary: report.Summarize(nil)}
	out, err := NewFormatter().Format(results, nil, formatters.FormatterOptions{})
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	var doc logFile
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(doc.Runs[0].Results) != 0 {
		t.Errorf("expected no results, got %d", len(doc.Runs[0].Results))
	}
}
