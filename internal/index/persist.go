// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package index

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"crossref-scan/internal/label"
)

// snapshotVersion tags the dump format so later versions can migrate.
const snapshotVersion = "1.0"

// Snapshot is the serialized form of an index. The index is normally
// rebuilt from source each session; dumps exist for tooling and debugging.
type Snapshot struct {
	Version       string                 `json:"version"`
	LastIndexedAt time.Time              `json:"last_indexed_at"`
	IndexedFiles  []string               `json:"indexed_files"`
	Labels        map[string]label.Entry `json:"labels"`
	KeyOrder      []string               `json:"key_order"`
}

// Save writes a versioned JSON dump of the index.
func (idx *Index) Save(w io.Writer) error {
	idx.mu.RLock()
	snap := Snapshot{
		Version:       snapshotVersion,
		LastIndexedAt: idx.lastIndexedAt,
		IndexedFiles:  make([]string, 0, len(idx.indexedFiles)),
		Labels:        make(map[string]label.Entry, len(idx.labels)),
		KeyOrder:      append([]string(nil), idx.order...),
	}
	for file := range idx.indexedFiles {
		snap.IndexedFiles = append(snap.IndexedFiles, file)
	}
	sort.Strings(snap.IndexedFiles)
	for key, entry := range idx.labels {
		snap.Labels[key] = copyEntry(entry)
	}
	idx.mu.RUnlock()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("writing index snapshot: %w", err)
	}
	return nil
}

// Load replaces the index contents with a previously saved dump.
func (idx *Index) Load(r io.Reader) error {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return fmt.Errorf("reading index snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return fmt.Errorf("unsupported index snapshot version %q", snap.Version)
	}

	labels := make(map[string]*label.Entry, len(snap.Labels))
	for key := range snap.Labels {
		entry := snap.Labels[key]
		labels[key] = &entry
	}
	order := snap.KeyOrder
	if len(order) != len(labels) {
		// Older dumps may lack ordering; fall back to sorted keys.
		order = make([]string, 0, len(labels))
		for key := range labels {
			order = append(order, key)
		}
		sort.Strings(order)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.labels = labels
	idx.order = order
	idx.indexedFiles = make(map[string]bool, len(snap.IndexedFiles))
	for _, file := range snap.IndexedFiles {
		idx.indexedFiles[file] = true
	}
	idx.lastIndexedAt = snap.LastIndexedAt
	idx.filesScanned = len(snap.IndexedFiles)
	return nil
}
