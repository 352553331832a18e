// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package document defines the document-store collaborator contract and a
// filesystem-backed implementation for local corpora.
package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Info describes a stored document.
type Info struct {
	ModifiedAt int64
	Size       int64
}

// Store is the external document-store contract. The analysis core never
// touches the filesystem directly; everything goes through a Store.
type Store interface {
	// ListDocuments returns all known document identifiers in a
	// deterministic order.
	ListDocuments(ctx context.Context) ([]string, error)
	// Read returns the full text of a document.
	Read(ctx context.Context, file string) (string, error)
	// Metadata returns size and modification info for a document.
	Metadata(ctx context.Context, file string) (Info, error)
}

// documentExtensions are the source formats the scanner understands.
var documentExtensions = map[string]bool{
	".tex":      true,
	".md":       true,
	".markdown": true,
}

// FSStore serves documents from a directory tree. Paths are reported
// relative to the root with forward slashes so reports stay portable.
type FSStore struct {
	root            string
	excludePatterns []string
}

// NewFSStore creates a store rooted at dir. Exclude patterns are matched
// with filepath.Match against the relative path and each path element.
func NewFSStore(root string, excludePatterns []string) *FSStore {
	return &FSStore{root: root, excludePatterns: excludePatterns}
}

// Root returns the corpus root directory.
func (s *FSStore) Root() string {
	return s.root
}

func (s *FSStore) excluded(relPath string) bool {
	for _, pattern := range s.excludePatterns {
		if ok, _ := filepath.Match(pattern, relPath); ok {
			return true
		}
		for _, part := range strings.Split(relPath, "/") {
			if ok, _ := filepath.Match(pattern, part); ok {
				return true
			}
		}
	}
	return false
}

// ListDocuments walks the root and returns relative paths of all documents,
// sorted for deterministic listing order.
func (s *FSStore) ListDocuments(ctx context.Context) ([]string, error) {
	var files []string
	err := filepath.Walk(s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		rel, relErr := filepath.Rel(s.root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if info.IsDir() {
			if rel != "." && (strings.HasPrefix(filepath.Base(path), ".") || s.excluded(rel)) {
				return filepath.SkipDir
			}
			return nil
		}
		if !documentExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		if s.excluded(rel) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing documents under %s: %w", s.root, err)
	}
	sort.Strings(files)
	return files, nil
}

// Read returns the document contents.
func (s *FSStore) Read(ctx context.Context, file string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(file)))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", file, err)
	}
	return string(data), nil
}

// Metadata returns file size and modification time.
func (s *FSStore) Metadata(ctx context.Context, file string) (Info, error) {
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}
	stat, err := os.Stat(filepath.Join(s.root, filepath.FromSlash(file)))
	if err != nil {
		return Info{}, fmt.Errorf("stat %s: %w", file, err)
	}
	return Info{ModifiedAt: stat.ModTime().Unix(), Size: stat.Size()}, nil
}

// MemStore is a map-backed Store for tests and embedded callers.
type MemStore struct {
	Docs map[string]string
}

// NewMemStore creates a MemStore over the given documents.
func NewMemStore(docs map[string]string) *MemStore {
	return &MemStore{Docs: docs}
}

func (s *MemStore) ListDocuments(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	files := make([]string, 0, len(s.Docs))
	for file := range s.Docs {
		files = append(files, file)
	}
	sort.Strings(files)
	return files, nil
}

func (s *MemStore) Read(ctx context.Context, file string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	content, ok := s.Docs[file]
	if !ok {
		return "", fmt.Errorf("document not found: %s", file)
	}
	return content, nil
}

func (s *MemStore) Metadata(ctx context.Context, file string) (Info, error) {
	content, err := s.Read(ctx, file)
	if err != nil {
		return Info{}, err
	}
	return Info{Size: int64(len(content))}, nil
}
