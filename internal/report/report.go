// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"time"
)

// Severity ranks how serious an issue is. Critical > Error > Warning > Info.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityError    Severity = "error"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Rank returns a comparable weight for severity filtering and sorting.
// Higher is more severe.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	return s.Rank() > 0
}

// Category groups issues by the document concern they relate to.
type Category string

const (
	CategoryReference   Category = "reference"
	CategoryCitation    Category = "citation"
	CategoryFigure      Category = "figure"
	CategoryTable       Category = "table"
	CategoryEquation    Category = "equation"
	CategoryStructure   Category = "structure"
	CategoryFormat      Category = "format"
	CategoryConsistency Category = "consistency"
)

// Location points at the place in the corpus an issue was found.
// Line and Column are 0-based; -1 means unknown.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// Issue is a single finding produced by a validation rule.
type Issue struct {
	ID          string   `json:"id"`
	Severity    Severity `json:"severity"`
	Category    Category `json:"category"`
	Message     string   `json:"message"`
	Location    Location `json:"location"`
	Description string   `json:"description,omitempty"`
	Suggestion  string   `json:"suggestion,omitempty"`
	AutoFixable bool     `json:"auto_fixable"`
	RuleID      string   `json:"rule_id"`
}

// SuppressedIssue is an issue that matched a suppression rule.
type SuppressedIssue struct {
	Issue        Issue      `json:"issue"`
	SuppressedBy string     `json:"suppressed_by"`
	RuleReason   string     `json:"rule_reason"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

// Summary tallies a result set by severity and category.
type Summary struct {
	Total      int              `json:"total"`
	BySeverity map[Severity]int `json:"by_severity"`
	ByCategory map[Category]int `json:"by_category"`
}

// Results is a validation report snapshot. It is recomputed fresh on every
// run and never mutated incrementally.
type Results struct {
	Timestamp    time.Time `json:"timestamp"`
	FilesScanned int       `json:"files_scanned"`
	Issues       []Issue   `json:"issues"`
	Summary      Summary   `json:"summary"`
	// Errors holds engine-level failures (rule crashes, unreadable files)
	// that reduced the report to a partial result.
	Errors []string `json:"errors,omitempty"`
}

// Summarize tallies issues into a Summary in a single pass.
func Summarize(issues []Issue) Summary {
	s := Summary{
		Total:      len(issues),
		BySeverity: make(map[Severity]int),
		ByCategory: make(map[Category]int),
	}
	for _, issue := range issues {
		s.BySeverity[issue.Severity]++
		s.ByCategory[issue.Category]++
	}
	return s
}
