// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package suggest ranks label candidates for reference autocomplete and
// "did you mean" correction of undefined references.
package suggest

import (
	"sort"
	"strings"
	"time"

	"crossref-scan/internal/label"
)

const (
	// MaxSuggestions caps ranked autocomplete results.
	MaxSuggestions = 20
	// MaxFuzzyCandidates caps did-you-mean candidates per undefined key.
	MaxFuzzyCandidates = 3
	// MaxFuzzyDistance is the largest edit distance considered a plausible typo.
	MaxFuzzyDistance = 3
)

// Suggestion is a ranked autocomplete candidate.
type Suggestion struct {
	Key     string     `json:"key"`
	Type    label.Type `json:"type"`
	File    string     `json:"file"`
	Score   int64      `json:"score"`
	Context string     `json:"context,omitempty"`
}

// Matches reports whether the entry qualifies for the given prefix and
// reference kind. \eqref only ever resolves equation labels.
func Matches(entry *label.Entry, prefix string, refKind label.RefKind) bool {
	if refKind == label.RefKindEqRef && entry.Type != label.TypeEquation {
		return false
	}
	return strings.Contains(strings.ToLower(entry.Key), strings.ToLower(prefix))
}

// Score computes the ranking weight of a label for a prefix query:
// 100 for a prefix match, 50 for sharing the caller's file, up to 20 for
// recency (one point lost per hour of age), and 5 per incoming reference.
func Score(entry *label.Entry, prefix, currentFile string, now time.Time) int64 {
	var score int64
	if strings.HasPrefix(strings.ToLower(entry.Key), strings.ToLower(prefix)) {
		score += 100
	}
	if currentFile != "" && entry.File == currentFile {
		score += 50
	}
	ageHours := int64(now.Sub(entry.CreatedAt).Hours())
	if recency := 20 - ageHours; recency > 0 {
		score += recency
	}
	score += 5 * int64(len(entry.References))
	return score
}

// Rank filters and orders entries for an autocomplete query. Ties keep the
// input order; results are truncated to MaxSuggestions.
func Rank(entries []*label.Entry, prefix string, refKind label.RefKind, currentFile string, now time.Time) []Suggestion {
	var ranked []Suggestion
	for _, entry := range entries {
		if !Matches(entry, prefix, refKind) {
			continue
		}
		ranked = append(ranked, Suggestion{
			Key:     entry.Key,
			Type:    entry.Type,
			File:    entry.File,
			Score:   Score(entry, prefix, currentFile, now),
			Context: entry.Context,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > MaxSuggestions {
		ranked = ranked[:MaxSuggestions]
	}
	return ranked
}

// FuzzyCandidates returns the keys within MaxFuzzyDistance of the undefined
// key, closest first, at most MaxFuzzyCandidates. Comparison is
// case-insensitive.
func FuzzyCandidates(key string, entries []*label.Entry) []string {
	type candidate struct {
		key      string
		distance int
	}
	lowered := strings.ToLower(key)
	var candidates []candidate
	for _, entry := range entries {
		d := Levenshtein(lowered, strings.ToLower(entry.Key))
		if d <= MaxFuzzyDistance {
			candidates = append(candidates, candidate{key: entry.Key, distance: d})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})
	if len(candidates) > MaxFuzzyCandidates {
		candidates = candidates[:MaxFuzzyCandidates]
	}
	keys := make([]string, len(candidates))
	for i, c := range candidates {
		keys[i] = c.key
	}
	return keys
}

// Levenshtein computes the classic edit distance between two strings with
// the O(n*m) dynamic program.
func Levenshtein(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
		matrix[i][0] = i
	}
	for j := 0; j <= len(s2); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			deletion := matrix[i-1][j] + 1
			insertion := matrix[i][j-1] + 1
			substitution := matrix[i-1][j-1] + cost
			minimum := deletion
			if insertion < minimum {
				minimum = insertion
			}
			if substitution < minimum {
				minimum = substitution
			}
			matrix[i][j] = minimum
		}
	}

	return matrix[len(s1)][len(s2)]
}
