// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package index is the authoritative in-memory registry of labels and their
// back-references. One Index value is constructed by the caller and passed
// around explicitly; there is no hidden singleton. A full corpus pass is one
// logical transaction: readers observe the pre- or post-index state, never a
// partially merged one.
package index

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"crossref-scan/internal/document"
	"crossref-scan/internal/label"
	"crossref-scan/internal/observability"
	"crossref-scan/internal/parallel"
	"crossref-scan/internal/scanner"
	"crossref-scan/internal/suggest"
)

// Options tunes corpus indexing.
type Options struct {
	// MaxFiles caps how many documents one pass indexes; 0 means
	// unlimited. Files beyond the cap are skipped deterministically
	// (first N in listing order).
	MaxFiles int
	// Workers sizes the scan pool; 0 means one per CPU.
	Workers int
}

// CorpusStats reports the outcome of a corpus pass.
type CorpusStats struct {
	FilesListed  int
	FilesScanned int
	FilesSkipped int
	Errors       []string
}

// Index holds all known labels keyed by identifier.
type Index struct {
	mu            sync.RWMutex
	labels        map[string]*label.Entry
	order         []string // insertion order of keys, for deterministic reads
	indexedFiles  map[string]bool
	lastIndexedAt time.Time
	filesScanned  int

	scanner  *scanner.Scanner
	observer *observability.StandardObserver
}

// New creates an empty index. The observer may be nil.
func New(observer *observability.StandardObserver) *Index {
	return &Index{
		labels:       make(map[string]*label.Entry),
		indexedFiles: make(map[string]bool),
		scanner:      scanner.New(),
		observer:     observer,
	}
}

// IndexFile scans one document and merges it into the index. Labels whose
// key already exists are not replaced: the new definition site is appended
// to the existing entry (the duplicate-label condition is detected
// separately, never silently resolved). The file's references are then
// resolved against the entire current index, including labels from other
// files.
func (idx *Index) IndexFile(file, content string) {
	scanned := idx.scanner.Scan(content, file)

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.mergeScan(file, scanned)
	idx.resolveReferences(scanned.References)
}

// mergeScan merges one file's labels into the map. Caller holds the write
// lock.
func (idx *Index) mergeScan(file string, scanned *scanner.Result) {
	for i := range scanned.Labels {
		entry := scanned.Labels[i]
		existing, ok := idx.labels[entry.Key]
		if !ok {
			stored := entry
			idx.labels[entry.Key] = &stored
			idx.order = append(idx.order, entry.Key)
			continue
		}
		existing.Definitions = append(existing.Definitions, entry.Definitions...)
		existing.References = append(existing.References, entry.References...)
		if existing.Metadata == nil {
			existing.Metadata = entry.Metadata
		}
	}
	idx.indexedFiles[file] = true
}

// resolveReferences appends each occurrence to its target entry, if the
// target exists. Unresolved keys are the resolver's concern. Caller holds
// the write lock.
func (idx *Index) resolveReferences(refs map[string][]label.Reference) {
	keys := make([]string, 0, len(refs))
	for key := range refs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if entry, ok := idx.labels[key]; ok {
			entry.References = append(entry.References, refs[key]...)
		}
	}
}

// IndexCorpus rebuilds the index wholesale from the store. Per-file scanning
// runs in parallel; the merge into the shared map is serialized and happens
// in listing order, so two passes over an unchanged corpus produce identical
// entry sets. The new state is swapped in only once the pass completes.
// Unreadable files are recorded in the stats and skipped; the pass yields a
// best-effort index rather than failing.
func (idx *Index) IndexCorpus(ctx context.Context, store document.Store, opts Options) (*CorpusStats, error) {
	var finish func(bool, map[string]interface{})
	if idx.observer != nil {
		finish = idx.observer.StartTiming("index", "index_corpus", "")
	}

	files, err := store.ListDocuments(ctx)
	if err != nil {
		if finish != nil {
			finish(false, map[string]interface{}{"error": err.Error()})
		}
		return nil, fmt.Errorf("listing corpus: %w", err)
	}

	stats := &CorpusStats{FilesListed: len(files)}
	if opts.MaxFiles > 0 && len(files) > opts.MaxFiles {
		stats.FilesSkipped = len(files) - opts.MaxFiles
		files = files[:opts.MaxFiles]
	}

	jobs := make([]parallel.Job, 0, len(files))
	for _, file := range files {
		content, readErr := store.Read(ctx, file)
		if readErr != nil {
			stats.Errors = append(stats.Errors, readErr.Error())
			if idx.observer != nil {
				idx.observer.LogError("index", "read_file", readErr)
			}
			continue
		}
		jobs = append(jobs, parallel.Job{File: file, Content: content})
	}

	pool := parallel.NewWorkerPool(opts.Workers, idx.observer)
	results := pool.ScanAll(ctx, jobs)

	// Build the replacement state off to the side, then swap.
	next := &Index{
		labels:       make(map[string]*label.Entry),
		indexedFiles: make(map[string]bool),
	}
	for _, result := range results {
		next.mergeScan(result.File, result.Scan)
	}
	// Resolve references only once every label in the corpus is present, so
	// a reference in an early file to a label in a later file still lands.
	for _, result := range results {
		next.resolveReferences(result.Scan.References)
	}
	stats.FilesScanned = len(results)

	idx.mu.Lock()
	idx.labels = next.labels
	idx.order = next.order
	idx.indexedFiles = next.indexedFiles
	idx.filesScanned = len(results)
	idx.lastIndexedAt = time.Now()
	idx.mu.Unlock()

	if finish != nil {
		finish(true, map[string]interface{}{
			"files_scanned": stats.FilesScanned,
			"label_count":   len(next.order),
		})
	}
	return stats, nil
}

// copyEntry returns a detached copy so callers can hold results across
// later merges without racing the writer.
func copyEntry(entry *label.Entry) label.Entry {
	out := *entry
	out.References = slices.Clone(entry.References)
	out.Definitions = slices.Clone(entry.Definitions)
	if entry.Metadata != nil {
		meta := *entry.Metadata
		out.Metadata = &meta
	}
	return out
}

// Get returns the entry for a key.
func (idx *Index) Get(key string) (label.Entry, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	entry, ok := idx.labels[key]
	if !ok {
		return label.Entry{}, false
	}
	return copyEntry(entry), true
}

// Has reports whether a key is defined.
func (idx *Index) Has(key string) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	_, ok := idx.labels[key]
	return ok
}

// All returns every entry in insertion order.
func (idx *Index) All() []label.Entry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]label.Entry, 0, len(idx.order))
	for _, key := range idx.order {
		out = append(out, copyEntry(idx.labels[key]))
	}
	return out
}

// ByType returns entries of the given type, insertion order preserved.
func (idx *Index) ByType(t label.Type) []label.Entry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	var out []label.Entry
	for _, key := range idx.order {
		if idx.labels[key].Type == t {
			out = append(out, copyEntry(idx.labels[key]))
		}
	}
	return out
}

// ByFile returns entries with at least one definition site in the file.
func (idx *Index) ByFile(file string) []label.Entry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	var out []label.Entry
	for _, key := range idx.order {
		for _, def := range idx.labels[key].Definitions {
			if def.File == file {
				out = append(out, copyEntry(idx.labels[key]))
				break
			}
		}
	}
	return out
}

// FindDuplicates returns keys anchored by more than one \label{} site,
// mapped to all of their definition sites. Merged references never count:
// duplication is a property of definitions only.
func (idx *Index) FindDuplicates() map[string][]label.Definition {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	dupes := make(map[string][]label.Definition)
	for _, key := range idx.order {
		entry := idx.labels[key]
		if len(entry.Definitions) > 1 {
			dupes[key] = slices.Clone(entry.Definitions)
		}
	}
	return dupes
}

// FindOrphans returns labels no reference points at, insertion order
// preserved.
func (idx *Index) FindOrphans() []label.Entry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	var out []label.Entry
	for _, key := range idx.order {
		if len(idx.labels[key].References) == 0 {
			out = append(out, copyEntry(idx.labels[key]))
		}
	}
	return out
}

// GenerateLabel builds an unoccupied key of the form "prefix:slug" from
// context text, appending -1, -2, ... until free.
func (idx *Index) GenerateLabel(contextText string, t label.Type) string {
	slug := label.Slugify(contextText, 30)
	if slug == "" {
		slug = "untitled"
	}
	base := fmt.Sprintf("%s:%s", t.KeyPrefix(), slug)

	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if _, taken := idx.labels[base]; !taken {
		return base
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if _, taken := idx.labels[candidate]; !taken {
			return candidate
		}
	}
}

// ValidateLabelFormat checks a proposed key; each violation gets a distinct
// message.
func (idx *Index) ValidateLabelFormat(key string) error {
	return label.ValidateKeyFormat(key)
}

// Suggest returns ranked autocomplete candidates for a key prefix. refKind
// may be empty; currentFile boosts labels from the caller's file.
func (idx *Index) Suggest(prefix string, refKind label.RefKind, currentFile string) []suggest.Suggestion {
	return idx.suggestAt(prefix, refKind, currentFile, time.Now())
}

func (idx *Index) suggestAt(prefix string, refKind label.RefKind, currentFile string, now time.Time) []suggest.Suggestion {
	entries := idx.snapshot()
	return suggest.Rank(entries, prefix, refKind, currentFile, now)
}

// FuzzyCandidates returns did-you-mean keys for an undefined reference.
func (idx *Index) FuzzyCandidates(key string) []string {
	return suggest.FuzzyCandidates(key, idx.snapshot())
}

func (idx *Index) snapshot() []*label.Entry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	entries := make([]*label.Entry, 0, len(idx.order))
	for _, key := range idx.order {
		copied := copyEntry(idx.labels[key])
		entries = append(entries, &copied)
	}
	return entries
}

// IndexedFiles returns the files merged into the current index, sorted.
func (idx *Index) IndexedFiles() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	files := make([]string, 0, len(idx.indexedFiles))
	for file := range idx.indexedFiles {
		files = append(files, file)
	}
	sort.Strings(files)
	return files
}

// LastIndexedAt returns when the last corpus pass completed.
func (idx *Index) LastIndexedAt() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.lastIndexedAt
}

// FilesScanned returns how many documents the last corpus pass merged.
func (idx *Index) FilesScanned() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.filesScanned
}

// Len returns the number of distinct label keys.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.labels)
}

// String summarizes the index for debug output.
func (idx *Index) String() string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return fmt.Sprintf("index{labels: %d, files: %d}", len(idx.labels), len(idx.indexedFiles))
}
