// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package bib supplies citation keys to the citation rules. The rest of the
// system only sees the Provider contract; how keys are produced (BibTeX
// files, a reference manager API) is the environment's business.
package bib

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

// Provider is the bibliography collaborator contract.
type Provider interface {
	// AllCitationKeys returns every known citation key.
	AllCitationKeys(ctx context.Context) (map[string]struct{}, error)
}

// entryPattern matches BibTeX entry heads: @article{knuth1984, ...
var entryPattern = regexp.MustCompile(`@\w+\s*\{\s*([^,\s{}]+)\s*,`)

// FileProvider extracts citation keys from .bib files under a root
// directory.
type FileProvider struct {
	root string
}

// NewFileProvider creates a provider scanning for .bib files under root.
func NewFileProvider(root string) *FileProvider {
	return &FileProvider{root: root}
}

// AllCitationKeys walks the root and collects entry keys from every .bib
// file. Unreadable files abort the collection; a bibliography that cannot
// be read would otherwise turn every citation into a false positive.
func (p *FileProvider) AllCitationKeys(ctx context.Context) (map[string]struct{}, error) {
	keys := make(map[string]struct{})
	var bibFiles []string
	err := filepath.Walk(p.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !info.IsDir() && filepath.Ext(path) == ".bib" {
			bibFiles = append(bibFiles, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("locating bibliography files under %s: %w", p.root, err)
	}
	sort.Strings(bibFiles)

	for _, path := range bibFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading bibliography %s: %w", path, err)
		}
		for _, m := range entryPattern.FindAllStringSubmatch(string(data), -1) {
			keys[m[1]] = struct{}{}
		}
	}
	return keys, nil
}

// StaticProvider serves a fixed key set. Used by tests and callers that
// already hold the bibliography in memory.
type StaticProvider struct {
	Keys map[string]struct{}
}

// NewStaticProvider creates a provider over the given keys.
func NewStaticProvider(keys ...string) *StaticProvider {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return &StaticProvider{Keys: set}
}

func (p *StaticProvider) AllCitationKeys(ctx context.Context) (map[string]struct{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.Keys, nil
}
