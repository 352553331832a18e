// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package resolver cross-links reference occurrences against the label
// index and reports the ones that point nowhere. Every file read completes
// before UndefinedReferences returns; there is no fire-and-forget path that
// could hand back a half-built result.
package resolver

import (
	"context"
	"sort"
	"sync"

	"crossref-scan/internal/document"
	"crossref-scan/internal/index"
	"crossref-scan/internal/label"
	"crossref-scan/internal/observability"
	"crossref-scan/internal/scanner"
)

// Finding is one reference occurrence whose key is absent from the index.
type Finding struct {
	File     string
	Key      string
	Position label.Position
	Context  string
	Kind     label.RefKind
}

// Resolver re-extracts reference occurrences per file and checks them
// against an index.
type Resolver struct {
	scanner  *scanner.Scanner
	observer *observability.StandardObserver
}

// New creates a Resolver. The observer may be nil.
func New(observer *observability.StandardObserver) *Resolver {
	return &Resolver{scanner: scanner.New(), observer: observer}
}

// UndefinedReferences scans the given files and returns one finding per
// occurrence of a key the index does not define. Files are read
// concurrently, but the function returns only after every read and scan has
// finished; unreadable files are logged and skipped. Findings are ordered
// by file, then by position within the file.
func (r *Resolver) UndefinedReferences(ctx context.Context, idx *index.Index, store document.Store, files []string) []Finding {
	type fileResult struct {
		file     string
		findings []Finding
	}

	results := make(chan fileResult, len(files))
	var wg sync.WaitGroup

	for _, file := range files {
		wg.Add(1)
		go func(file string) {
			defer wg.Done()
			content, err := store.Read(ctx, file)
			if err != nil {
				if r.observer != nil {
					r.observer.LogError("resolver", "read_file", err)
				}
				return
			}
			scanned := r.scanner.Scan(content, file)

			keys := make([]string, 0, len(scanned.References))
			for key := range scanned.References {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			var findings []Finding
			for _, key := range keys {
				if idx.Has(key) {
					continue
				}
				for _, occurrence := range scanned.References[key] {
					findings = append(findings, Finding{
						File:     file,
						Key:      key,
						Position: occurrence.Position,
						Context:  occurrence.Context,
						Kind:     occurrence.Kind,
					})
				}
			}
			results <- fileResult{file: file, findings: findings}
		}(file)
	}

	// Every in-flight read must land before the result is assembled.
	wg.Wait()
	close(results)

	byFile := make(map[string][]Finding, len(files))
	for result := range results {
		byFile[result.file] = result.findings
	}

	var all []Finding
	for _, file := range files {
		findings := byFile[file]
		sort.SliceStable(findings, func(i, j int) bool {
			if findings[i].Position.Line != findings[j].Position.Line {
				return findings[i].Position.Line < findings[j].Position.Line
			}
			return findings[i].Position.Column < findings[j].Position.Column
		})
		all = append(all, findings...)
	}
	return all
}
