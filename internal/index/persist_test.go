// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package index

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crossref-scan/internal/label"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	idx := New(nil)
	idx.IndexFile("a.tex", "\\section{Intro}\\label{sec:intro}\nSee \\ref{sec:intro}.")
	idx.IndexFile("b.tex", "\\begin{figure}\n\\label{fig:plot}\n\\end{figure}")

	var buf bytes.Buffer
	require.NoError(t, idx.Save(&buf))

	restored := New(nil)
	require.NoError(t, restored.Load(&buf))

	assert.Equal(t, idx.Len(), restored.Len())
	assert.Equal(t, idx.IndexedFiles(), restored.IndexedFiles())

	entry, ok := restored.Get("sec:intro")
	require.True(t, ok)
	assert.Equal(t, label.TypeSection, entry.Type)
	assert.Len(t, entry.References, 1)

	// Key order survives the round trip.
	original := idx.All()
	reloaded := restored.All()
	require.Equal(t, len(original), len(reloaded))
	for i := range original {
		assert.Equal(t, original[i].Key, reloaded[i].Key)
	}
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	idx := New(nil)
	err := idx.Load(strings.NewReader(`{"version": "99.0", "labels": {}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version")
}

func TestLoadFallsBackToSortedOrder(t *testing.T) {
	// A dump without key_order still loads, with keys sorted.
	dump := `{
		"version": "1.0",
		"last_indexed_at": "2026-01-02T03:04:05Z",
		"indexed_files": ["doc.tex"],
		"labels": {
			"sec:b": {"key": "sec:b", "type": "section", "file": "doc.tex"},
			"sec:a": {"key": "sec:a", "type": "section", "file": "doc.tex"}
		}
	}`
	idx := New(nil)
	require.NoError(t, idx.Load(strings.NewReader(dump)))

	all := idx.All()
	require.Len(t, all, 2)
	assert.Equal(t, "sec:a", all[0].Key)
	assert.Equal(t, "sec:b", all[1].Key)
}
