// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"crossref-scan/internal/bib"
	"crossref-scan/internal/document"
	"crossref-scan/internal/index"
	"crossref-scan/internal/report"
)

func staticRule(id string, issues []report.Issue, err error) *Rule {
	return &Rule{
		ID:          id,
		Category:    report.CategoryReference,
		Severity:    report.SeverityWarning,
		Description: "test rule",
		Enabled:     true,
		Validate: func(ctx context.Context, vc *Context) ([]report.Issue, error) {
			return issues, err
		},
	}
}

func issueFor(ruleID, file string, line int) report.Issue {
	return report.Issue{
		ID:       IssueID(ruleID, file, line),
		RuleID:   ruleID,
		Severity: report.SeverityWarning,
		Category: report.CategoryReference,
		Message:  "test issue",
		Location: report.Location{File: file, Line: line, Column: -1},
	}
}

func newTestEngine(docs map[string]string) *Engine {
	return NewEngine(index.New(nil), document.NewMemStore(docs), bib.NewStaticProvider(), nil)
}

func TestValidateCollectsInRegistrationOrder(t *testing.T) {
	e := newTestEngine(map[string]string{"a.tex": ""})
	e.Register(staticRule("rule-b", []report.Issue{issueFor("rule-b", "a.tex", 5)}, nil))
	e.Register(staticRule("rule-a", []report.Issue{issueFor("rule-a", "a.tex", 1)}, nil))

	results, err := e.Validate(context.Background(), []string{"a.tex"})
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if len(results.Issues) != 2 {
		t.Fatalf("expected 2 issues, got %d", len(results.Issues))
	}
	if results.Issues[0].RuleID != "rule-b" || results.Issues[1].RuleID != "rule-a" {
		t.Errorf("issue order %s, %s; want registration order rule-b, rule-a",
			results.Issues[0].RuleID, results.Issues[1].RuleID)
	}
	if results.Summary.Total != 2 {
		t.Errorf("summary total = %d, want 2", results.Summary.Total)
	}
}

func TestValidateIsolatesFailingRule(t *testing.T) {
	e := newTestEngine(map[string]string{"a.tex": ""})
	e.Register(staticRule("healthy", []report.Issue{issueFor("healthy", "a.tex", 0)}, nil))
	e.Register(staticRule("broken", nil, errors.New("boom")))

	results, err := e.Validate(context.Background(), []string{"a.tex"})
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if len(results.Issues) != 1 || results.Issues[0].RuleID != "healthy" {
		t.Errorf("issues = %+v, want only the healthy rule's issue", results.Issues)
	}
	if len(results.Errors) != 1 || !strings.Contains(results.Errors[0], "broken") {
		t.Errorf("errors = %v, want one entry naming the broken rule", results.Errors)
	}
}

func TestValidateRecoversFromPanic(t *testing.T) {
	e := newTestEngine(map[string]string{"a.tex": ""})
	e.Register(&Rule{
		ID: "panicky", Category: report.CategoryReference,
		Severity: report.SeverityError, Enabled: true,
		Validate: func(ctx context.Context, vc *Context) ([]report.Issue, error) {
			panic("unexpected state")
		},
	})
	e.Register(staticRule("survivor", []report.Issue{issueFor("survivor", "a.tex", 0)}, nil))

	results, err := e.Validate(context.Background(), []string{"a.tex"})
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if len(results.Issues) != 1 || results.Issues[0].RuleID != "survivor" {
		t.Errorf("issues = %+v, want the surviving rule's issue only", results.Issues)
	}
	if len(results.Errors) != 1 || !strings.Contains(results.Errors[0], "panic") {
		t.Errorf("errors = %v, want one panic entry", results.Errors)
	}
}

func TestSetRuleEnabled(t *testing.T) {
	e := newTestEngine(map[string]string{"a.tex": ""})
	e.Register(staticRule("toggle-me", []report.Issue{issueFor("toggle-me", "a.tex", 0)}, nil))

	if !e.SetRuleEnabled("toggle-me", false) {
		t.Fatal("SetRuleEnabled returned false for a known rule")
	}
	if e.SetRuleEnabled("no-such-rule", false) {
		t.Error("SetRuleEnabled returned true for an unknown rule")
	}

	results, err := e.Validate(context.Background(), []string{"a.tex"})
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if len(results.Issues) != 0 {
		t.Errorf("disabled rule still produced issues: %+v", results.Issues)
	}

	infos := e.Rules()
	if len(infos) != 1 || infos[0].Enabled {
		t.Errorf("rule metadata = %+v, want disabled toggle-me", infos)
	}
}

func TestValidateNilFilesListsStore(t *testing.T) {
	e := newTestEngine(map[string]string{"a.tex": "", "b.tex": ""})
	var seen []string
	e.Register(&Rule{
		ID: "capture", Category: report.CategoryReference,
		Severity: report.SeverityInfo, Enabled: true,
		Validate: func(ctx context.Context, vc *Context) ([]report.Issue, error) {
			seen = append([]string(nil), vc.Files...)
			return nil, nil
		},
	})

	results, err := e.Validate(context.Background(), nil)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if len(seen) != 2 {
		t.Errorf("rule saw files %v, want both documents", seen)
	}
	if results.FilesScanned != 2 {
		t.Errorf("FilesScanned = %d, want 2", results.FilesScanned)
	}
}

type failingStore struct{}

func (failingStore) ListDocuments(ctx context.Context) ([]string, error) {
	return nil, errors.New("store unavailable")
}
func (failingStore) Read(ctx context.Context, file string) (string, error) {
	return "", errors.New("store unavailable")
}
func (failingStore) Metadata(ctx context.Context, file string) (document.Info, error) {
	return document.Info{}, errors.New("store unavailable")
}

func TestValidateListFailureYieldsEmptyReport(t *testing.T) {
	e := NewEngine(index.New(nil), failingStore{}, bib.NewStaticProvider(), nil)
	e.Register(staticRule("never-runs", []report.Issue{issueFor("never-runs", "a.tex", 0)}, nil))

	results, err := e.Validate(context.Background(), nil)
	if err == nil {
		t.Fatal("expected an error when listing fails")
	}
	if results == nil {
		t.Fatal("expected a non-nil report even on listing failure")
	}
	if len(results.Issues) != 0 {
		t.Errorf("issues = %+v, want empty", results.Issues)
	}
	if len(results.Errors) != 1 {
		t.Errorf("errors = %v, want the listing failure recorded", results.Errors)
	}
}

func TestContextCachesReads(t *testing.T) {
	store := &countingStore{docs: map[string]string{"a.tex": "content"}}
	vc := NewContext([]string{"a.tex"}, index.New(nil), store, nil, nil)

	for i := 0; i < 3; i++ {
		content, err := vc.Content(context.Background(), "a.tex")
		if err != nil {
			t.Fatalf("Content failed: %v", err)
		}
		if content != "content" {
			t.Errorf("content = %q", content)
		}
	}
	if store.reads != 1 {
		t.Errorf("store read %d times, want 1", store.reads)
	}

	if _, err := vc.Content(context.Background(), "missing.tex"); err == nil {
		t.Error("expected error for missing file")
	}
	if vc.ReadFailureCount() != 1 {
		t.Errorf("ReadFailureCount = %d, want 1", vc.ReadFailureCount())
	}
}

type countingStore struct {
	docs  map[string]string
	reads int
}

func (s *countingStore) ListDocuments(ctx context.Context) ([]string, error) {
	var files []string
	for f := range s.docs {
		files = append(files, f)
	}
	return files, nil
}

func (s *countingStore) Read(ctx context.Context, file string) (string, error) {
	s.reads++
	content, ok := s.docs[file]
	if !ok {
		return "", fmt.Errorf("document not found: %s", file)
	}
	return content, nil
}

func (s *countingStore) Metadata(ctx context.Context, file string) (document.Info, error) {
	return document.Info{}, nil
}

func TestIssueIDDeterministic(t *testing.T) {
	a := IssueID("my-rule", "doc.tex", 7)
	b := IssueID("my-rule", "doc.tex", 7)
	if a != b {
		t.Errorf("IssueID not deterministic: %q vs %q", a, b)
	}
	if a != "my-rule:doc.tex:7" {
		t.Errorf("IssueID = %q, want my-rule:doc.tex:7", a)
	}
}
