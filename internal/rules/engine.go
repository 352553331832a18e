// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package rules runs the validation rule engine: an ordered registry of
// independent checks, each consuming a shared validation context and
// emitting categorized issues. Rules are plain structs with static
// metadata; nothing in the engine depends on the identity of an enclosing
// object.
package rules

import (
	"context"
	"fmt"
	"sync"
	"time"

	"crossref-scan/internal/bib"
	"crossref-scan/internal/document"
	"crossref-scan/internal/index"
	"crossref-scan/internal/observability"
	"crossref-scan/internal/report"
	"crossref-scan/internal/resolver"
)

// DefaultRuleTimeout bounds a single rule's run. Rule count times file
// count is unbounded, so every rule gets a soft deadline.
const DefaultRuleTimeout = 30 * time.Second

// ValidateFunc is the body of a rule. It must respect ctx and only emit
// issues for files in the validation context.
type ValidateFunc func(ctx context.Context, vc *Context) ([]report.Issue, error)

// Rule couples static metadata with a validator function.
type Rule struct {
	ID          string
	Category    report.Category
	Severity    report.Severity
	Description string
	Enabled     bool
	Validate    ValidateFunc
}

// RuleInfo is the externally visible metadata of a registered rule.
type RuleInfo struct {
	ID          string          `json:"id"`
	Category    report.Category `json:"category"`
	Severity    report.Severity `json:"severity"`
	Description string          `json:"description"`
	Enabled     bool            `json:"enabled"`
}

// Context is the shared input handed to every rule in one run. File
// contents are read once and cached; rules may run concurrently against it.
type Context struct {
	Files    []string
	Index    *index.Index
	Store    document.Store
	Bib      bib.Provider
	Resolver *resolver.Resolver

	mu        sync.Mutex
	contents  map[string]string
	readFails map[string]error
}

// NewContext builds a validation context over the given file scope.
func NewContext(files []string, idx *index.Index, store document.Store, provider bib.Provider, res *resolver.Resolver) *Context {
	return &Context{
		Files:     files,
		Index:     idx,
		Store:     store,
		Bib:       provider,
		Resolver:  res,
		contents:  make(map[string]string),
		readFails: make(map[string]error),
	}
}

// Content returns a document's text, reading it at most once per run.
func (vc *Context) Content(ctx context.Context, file string) (string, error) {
	vc.mu.Lock()
	if content, ok := vc.contents[file]; ok {
		vc.mu.Unlock()
		return content, nil
	}
	if err, ok := vc.readFails[file]; ok {
		vc.mu.Unlock()
		return "", err
	}
	vc.mu.Unlock()

	content, err := vc.Store.Read(ctx, file)

	vc.mu.Lock()
	defer vc.mu.Unlock()
	if err != nil {
		vc.readFails[file] = err
		return "", err
	}
	vc.contents[file] = content
	return content, nil
}

// ReadFailureCount reports how many files in scope could not be read.
func (vc *Context) ReadFailureCount() int {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return len(vc.readFails)
}

// Engine owns the rule registry and orchestrates validation runs.
type Engine struct {
	mu          sync.Mutex
	rules       []*Rule
	store       document.Store
	index       *index.Index
	bib         bib.Provider
	resolver    *resolver.Resolver
	observer    *observability.StandardObserver
	ruleTimeout time.Duration
}

// NewEngine creates an engine over the given collaborators. The bib
// provider may be nil when citation rules are not registered; observer may
// be nil.
func NewEngine(idx *index.Index, store document.Store, provider bib.Provider, observer *observability.StandardObserver) *Engine {
	return &Engine{
		store:       store,
		index:       idx,
		bib:         provider,
		resolver:    resolver.New(observer),
		observer:    observer,
		ruleTimeout: DefaultRuleTimeout,
	}
}

// SetRuleTimeout overrides the per-rule soft deadline; zero disables it.
func (e *Engine) SetRuleTimeout(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ruleTimeout = d
}

// Register appends a rule. Registration order fixes issue order in reports.
func (e *Engine) Register(rule *Rule) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rules = append(e.rules, rule)
}

// SetRuleEnabled toggles one rule; returns false for an unknown id.
func (e *Engine) SetRuleEnabled(id string, enabled bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, rule := range e.rules {
		if rule.ID == id {
			rule.Enabled = enabled
			return true
		}
	}
	return false
}

// Rules lists registered rule metadata in registration order.
func (e *Engine) Rules() []RuleInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	infos := make([]RuleInfo, 0, len(e.rules))
	for _, rule := range e.rules {
		infos = append(infos, RuleInfo{
			ID:          rule.ID,
			Category:    rule.Category,
			Severity:    rule.Severity,
			Description: rule.Description,
			Enabled:     rule.Enabled,
		})
	}
	return infos
}

// Validate runs every enabled rule over the given files (nil means all
// known documents) and returns a fresh report. Rules run concurrently but
// the engine waits for all of them; a failing or panicking rule is logged,
// contributes zero issues, and never aborts the rest. Issue order is
// registration order, then each rule's own document-scan order.
func (e *Engine) Validate(ctx context.Context, files []string) (*report.Results, error) {
	started := time.Now()
	var finish func(bool, map[string]interface{})
	if e.observer != nil {
		finish = e.observer.StartTiming("rule_engine", "validate", "")
	}

	if files == nil {
		listed, err := e.store.ListDocuments(ctx)
		if err != nil {
			if finish != nil {
				finish(false, map[string]interface{}{"error": err.Error()})
			}
			// Explicit empty result plus a top-level error indicator, not
			// a crash and not a nil report.
			return &report.Results{
				Timestamp: started,
				Issues:    []report.Issue{},
				Summary:   report.Summarize(nil),
				Errors:    []string{fmt.Sprintf("listing documents: %v", err)},
			}, err
		}
		files = listed
	}

	e.mu.Lock()
	enabled := make([]*Rule, 0, len(e.rules))
	for _, rule := range e.rules {
		if rule.Enabled {
			enabled = append(enabled, rule)
		}
	}
	timeout := e.ruleTimeout
	e.mu.Unlock()

	vc := NewContext(files, e.index, e.store, e.bib, e.resolver)

	issuesByRule := make([][]report.Issue, len(enabled))
	errsByRule := make([]error, len(enabled))
	var wg sync.WaitGroup
	for i, rule := range enabled {
		wg.Add(1)
		go func(slot int, rule *Rule) {
			defer wg.Done()
			issuesByRule[slot], errsByRule[slot] = e.runRule(ctx, rule, vc, timeout)
		}(i, rule)
	}
	// All per-rule work must resolve before the report is assembled.
	wg.Wait()

	var issues []report.Issue
	var errors []string
	for i, rule := range enabled {
		if errsByRule[i] != nil {
			errors = append(errors, fmt.Sprintf("rule %s: %v", rule.ID, errsByRule[i]))
			continue
		}
		issues = append(issues, issuesByRule[i]...)
	}
	if issues == nil {
		issues = []report.Issue{}
	}

	results := &report.Results{
		Timestamp:    started,
		FilesScanned: len(files) - vc.ReadFailureCount(),
		Issues:       issues,
		Summary:      report.Summarize(issues),
		Errors:       errors,
	}
	if finish != nil {
		finish(true, map[string]interface{}{
			"issue_count": len(issues),
			"rule_count":  len(enabled),
			"file_count":  len(files),
		})
	}
	return results, nil
}

// runRule executes one rule under its soft deadline, converting panics into
// errors so a buggy rule cannot take down the run.
func (e *Engine) runRule(ctx context.Context, rule *Rule, vc *Context, timeout time.Duration) (issues []report.Issue, err error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			issues = nil
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil && e.observer != nil {
			e.observer.LogError("rule_engine", rule.ID, err)
		}
	}()

	issues, err = rule.Validate(ctx, vc)
	if err != nil {
		return nil, err
	}
	return issues, nil
}

// IssueID builds the deterministic issue identifier used by every rule, so
// reruns over an unchanged corpus produce identical reports.
func IssueID(ruleID, file string, line int) string {
	return fmt.Sprintf("%s:%s:%d", ruleID, file, line)
}
