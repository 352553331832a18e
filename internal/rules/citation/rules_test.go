// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package citation

import (
	"context"
	"testing"

	"crossref-scan/internal/bib"
	"crossref-scan/internal/document"
	"crossref-scan/internal/index"
	"crossref-scan/internal/report"
	"crossref-scan/internal/rules"
)

func newContext(docs map[string]string, keys ...string) *rules.Context {
	store := document.NewMemStore(docs)
	files, _ := store.ListDocuments(context.Background())
	return rules.NewContext(files, index.New(nil), store, bib.NewStaticProvider(keys...), nil)
}

func TestMissingCitations(t *testing.T) {
	vc := newContext(map[string]string{
		"paper.tex": `Knuth \cite{knuth1984} and also \cite{missing2020}.`,
	}, "knuth1984")

	issues, err := MissingCitations().Validate(context.Background(), vc)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d: %+v", len(issues), issues)
	}
	issue := issues[0]
	if issue.Severity != report.SeverityError {
		t.Errorf("severity = %s, want error", issue.Severity)
	}
	if issue.Category != report.CategoryCitation {
		t.Errorf("category = %s, want citation", issue.Category)
	}
	if issue.Location.File != "paper.tex" || issue.Location.Line != 0 {
		t.Errorf("location = %+v, want paper.tex line 0", issue.Location)
	}
}

func TestMissingCitationsVariants(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"citep", `\citep{gone}`},
		{"citet", `\citet{gone}`},
		{"textcite", `\textcite{gone}`},
		{"parencite", `\parencite{gone}`},
		{"optional argument", `\cite[p. 42]{gone}`},
		{"capitalized", `\Cite{gone}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vc := newContext(map[string]string{"p.tex": tt.content})
			issues, err := MissingCitations().Validate(context.Background(), vc)
			if err != nil {
				t.Fatalf("Validate failed: %v", err)
			}
			if len(issues) != 1 {
				t.Errorf("expected 1 issue for %q, got %d", tt.content, len(issues))
			}
		})
	}
}

func TestMissingCitationsMultipleKeys(t *testing.T) {
	vc := newContext(map[string]string{
		"p.tex": `\cite{known, unknown}`,
	}, "known")

	issues, err := MissingCitations().Validate(context.Background(), vc)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(issues))
	}
}

func TestOrphanedBibEntries(t *testing.T) {
	vc := newContext(map[string]string{
		"p.tex": `\cite{cited1990}`,
	}, "cited1990", "unused2001", "unused1999")

	issues, err := OrphanedBibEntries().Validate(context.Background(), vc)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %d: %+v", len(issues), issues)
	}
	// Deterministic key order regardless of map iteration.
	if issues[0].ID >= issues[1].ID {
		t.Errorf("issues not in sorted key order: %s, %s", issues[0].ID, issues[1].ID)
	}
	for _, issue := range issues {
		if issue.Severity != report.SeverityInfo {
			t.Errorf("severity = %s, want info", issue.Severity)
		}
		if issue.Location.File != "bibliography" || issue.Location.Line != -1 {
			t.Errorf("location = %+v, want synthetic bibliography location", issue.Location)
		}
	}
}

func TestOrphanedBibEntriesAllCited(t *testing.T) {
	vc := newContext(map[string]string{
		"p.tex": `\cite{a} \cite{b}`,
	}, "a", "b")

	issues, err := OrphanedBibEntries().Validate(context.Background(), vc)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if len(issues) != 0 {
		t.Errorf("expected no issues, got %+v", issues)
	}
}
