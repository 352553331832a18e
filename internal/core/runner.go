// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"time"

	"crossref-scan/internal/bib"
	"crossref-scan/internal/config"
	"crossref-scan/internal/document"
	"crossref-scan/internal/index"
	"crossref-scan/internal/observability"
	"crossref-scan/internal/report"
	"crossref-scan/internal/suppressions"
)

// RunConfig holds configuration for a full analysis run.
type RunConfig struct {
	Store  document.Store
	Bib    bib.Provider
	Checks []string
	// Files restricts validation to a subset; nil validates every document.
	Files    []string
	Config   *config.Config
	Debug    bool
	Observer *observability.StandardObserver
	// SuppressionManager, when non-nil, is applied to issues before
	// returning; RunResult.Suppressed is populated accordingly.
	SuppressionManager *suppressions.Manager
}

// RunResult holds the outcome of a full analysis run.
type RunResult struct {
	Results    *report.Results
	Suppressed []report.SuppressedIssue
	Stats      *index.CorpusStats
	Index      *index.Index
}

// Run performs the core analysis shared by the CLI and embedding callers:
// index the corpus, build the rule engine, validate, apply suppressions.
func Run(ctx context.Context, runConfig RunConfig) (*RunResult, error) {
	cfg := runConfig.Config
	if cfg == nil {
		cfg, _ = config.LoadConfig("")
	}

	observer := runConfig.Observer
	if observer == nil {
		observer = observability.NewStandardObserver(observability.ObservabilityOff, nil)
	}

	idx := index.New(observer)
	stats, err := idx.IndexCorpus(ctx, runConfig.Store, index.Options{
		MaxFiles: cfg.CrossReferences.MaxFilesToIndex,
		Workers:  cfg.CrossReferences.Workers,
	})
	if err != nil {
		return nil, err
	}

	enabledChecks := ParseChecksToRun(runConfig.Checks)
	engine := BuildEngine(idx, runConfig.Store, runConfig.Bib, observer, cfg, enabledChecks)
	if cfg.CrossReferences.RuleTimeoutSeconds >= 0 {
		engine.SetRuleTimeout(time.Duration(cfg.CrossReferences.RuleTimeoutSeconds) * time.Second)
	}

	results, err := engine.Validate(ctx, runConfig.Files)
	if err != nil {
		// Validate already shaped a partial result with its error recorded.
		return &RunResult{Results: results, Stats: stats, Index: idx}, nil
	}

	var suppressed []report.SuppressedIssue
	if runConfig.SuppressionManager != nil {
		var kept []report.Issue
		kept, suppressed = runConfig.SuppressionManager.Apply(results.Issues)
		if kept == nil {
			kept = []report.Issue{}
		}
		results.Issues = kept
		results.Summary = report.Summarize(kept)
	}

	return &RunResult{
		Results:    results,
		Suppressed: suppressed,
		Stats:      stats,
		Index:      idx,
	}, nil
}
