// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package json

import (
	"encoding/json"
	"fmt"

	"crossref-scan/internal/formatters"
	"crossref-scan/internal/formatters/shared"
	"crossref-scan/internal/report"
)

// Formatter implements JSON output formatting
type Formatter struct{}

// NewFormatter creates a new JSON formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "json"
}

func (f *Formatter) Description() string {
	return "Structured JSON output for programmatic consumption"
}

func (f *Formatter) FileExtension() string {
	return ".json"
}

// document is the top-level JSON payload.
type document struct {
	Results    *report.Results          `json:"results"`
	Suppressed []report.SuppressedIssue `json:"suppressed,omitempty"`
}

func (f *Formatter) Format(results *report.Results, suppressed []report.SuppressedIssue, options formatters.FormatterOptions) (string, error) {
	payload := document{
		Results:    shared.Filtered(results, options.SeverityLevels),
		Suppressed: suppressed,
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("formatting JSON: %w", err)
	}
	return string(data), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
