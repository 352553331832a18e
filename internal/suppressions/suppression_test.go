// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package suppressions

import (
	"path/filepath"
	"testing"
	"time"

	"crossref-scan/internal/report"
)

func newTestIssue(ruleID, file string, line int, message string) report.Issue {
	return report.Issue{
		ID:       ruleID + ":" + file,
		RuleID:   ruleID,
		Severity: report.SeverityWarning,
		Category: report.CategoryReference,
		Message:  message,
		Location: report.Location{File: file, Line: line, Column: -1},
	}
}

func TestNewManagerMissingFile(t *testing.T) {
	m := NewManager("/nonexistent/suppressions.yaml")
	if m == nil {
		t.Fatal("expected non-nil manager")
	}
	if len(m.Rules()) != 0 {
		t.Errorf("expected empty rule set, got %d rules", len(m.Rules()))
	}
}

func TestIssueHashStable(t *testing.T) {
	issue := newTestIssue("duplicate-labels", "doc.tex", 4, "Label 'x' is defined 2 times")
	if IssueHash(issue) != IssueHash(issue) {
		t.Error("hash not stable for identical issue")
	}

	// The hash uses the basename, so moving the corpus does not break rules.
	moved := issue
	moved.Location.File = filepath.Join("elsewhere", "doc.tex")
	if IssueHash(issue) != IssueHash(moved) {
		t.Error("hash should be path-independent")
	}

	other := newTestIssue("duplicate-labels", "doc.tex", 5, "Label 'x' is defined 2 times")
	if IssueHash(issue) == IssueHash(other) {
		t.Error("different lines should hash differently")
	}
}

func TestAddRuleAndIsSuppressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suppressions.yaml")
	m := NewManager(path)
	issue := newTestIssue("orphaned-labels", "doc.tex", 10, "Label 'sec:x' is never referenced")

	rule := m.AddRule(issue, "known dead label", "tester", nil)
	if rule.Reason != "known dead label" {
		t.Errorf("reason = %q", rule.Reason)
	}

	suppressed, matched := m.IsSuppressed(issue)
	if !suppressed {
		t.Fatal("issue should be suppressed")
	}
	if matched.ID != rule.ID {
		t.Errorf("matched rule %s, want %s", matched.ID, rule.ID)
	}

	other := newTestIssue("orphaned-labels", "doc.tex", 11, "Label 'sec:y' is never referenced")
	if suppressed, _ := m.IsSuppressed(other); suppressed {
		t.Error("unrelated issue should not be suppressed")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suppressions.yaml")
	m := NewManager(path)
	issue := newTestIssue("figure-numbering", "doc.tex", 3, "Hardcoded figure number 'Figure 2'")
	m.AddRule(issue, "intentional in the appendix", "tester", nil)

	if err := m.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded := NewManager(path)
	if len(reloaded.Rules()) != 1 {
		t.Fatalf("expected 1 rule after reload, got %d", len(reloaded.Rules()))
	}
	if suppressed, _ := reloaded.IsSuppressed(issue); !suppressed {
		t.Error("issue should still be suppressed after reload")
	}
}

func TestExpiredRuleNeverMatches(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "suppressions.yaml"))
	issue := newTestIssue("orphaned-labels", "doc.tex", 1, "msg")

	past := time.Now().Add(-time.Hour)
	m.AddRule(issue, "expired", "tester", &past)

	if suppressed, _ := m.IsSuppressed(issue); suppressed {
		t.Error("expired rule should not suppress")
	}
}

func TestApplySplitsIssues(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "suppressions.yaml"))
	keep := newTestIssue("rule-a", "a.tex", 1, "keep me")
	drop := newTestIssue("rule-b", "b.tex", 2, "drop me")
	m.AddRule(drop, "accepted", "tester", nil)

	kept, suppressed := m.Apply([]report.Issue{keep, drop})
	if len(kept) != 1 || kept[0].RuleID != "rule-a" {
		t.Errorf("kept = %+v, want only rule-a", kept)
	}
	if len(suppressed) != 1 || suppressed[0].Issue.RuleID != "rule-b" {
		t.Errorf("suppressed = %+v, want only rule-b", suppressed)
	}
	if suppressed[0].RuleReason != "accepted" {
		t.Errorf("suppression reason = %q", suppressed[0].RuleReason)
	}
}

func TestSetEnabled(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "suppressions.yaml"))
	issue := newTestIssue("rule-a", "a.tex", 1, "msg")
	m.AddRule(issue, "reason", "tester", nil)

	m.SetEnabled(false)
	if suppressed, _ := m.IsSuppressed(issue); suppressed {
		t.Error("disabled manager should suppress nothing")
	}
	m.SetEnabled(true)
	if suppressed, _ := m.IsSuppressed(issue); !suppressed {
		t.Error("re-enabled manager should suppress again")
	}
}
