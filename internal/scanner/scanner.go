// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package scanner extracts label anchors and reference occurrences from
// document text. Extraction is deliberately pattern-based, not a full
// LaTeX/Markdown parser: a small set of pre-compiled regexes over lines,
// with a bounded look-behind window for classifying what a label anchors
// and a bounded look-ahead window for captions.
package scanner

import (
	"regexp"
	"strings"
	"time"

	"crossref-scan/internal/label"
)

const (
	// classifyWindow is how many lines above an anchor are inspected to
	// decide the label type.
	classifyWindow = 3
	// metadataWindow is how many lines below an anchor are inspected for
	// captions and equation content.
	metadataWindow = 5
	// contextLines is the number of lines kept on each side of a match.
	contextLines = 2
	// contextMaxChars truncates context strings; they are display-only.
	contextMaxChars = 200
)

// Result holds everything extracted from a single document.
type Result struct {
	Labels []label.Entry
	// References groups occurrences by target key, input order preserved
	// within each key.
	References map[string][]label.Reference
}

// classifier pairs a line predicate with the label type it implies.
// Evaluated top-to-bottom, first match wins.
type classifier struct {
	matches func(line string) bool
	typ     label.Type
}

// Scanner recognizes label anchors and reference commands.
type Scanner struct {
	labelPattern   *regexp.Regexp
	refPattern     *regexp.Regexp
	captionPattern *regexp.Regexp
	imagePattern   *regexp.Regexp
	sectionTitle   *regexp.Regexp
	headingTitle   *regexp.Regexp
	classifiers    []classifier
}

// New creates a Scanner with all patterns compiled once.
func New() *Scanner {
	heading := regexp.MustCompile(`^\s{0,3}(#{1,6})\s+\S`)
	imageStart := regexp.MustCompile(`!\[[^\]]*\]\(`)
	return &Scanner{
		labelPattern:   regexp.MustCompile(`\\label\{([^}]*)\}`),
		refPattern:     regexp.MustCompile(`\\([cC]ref|eqref|pageref|autoref|ref)\{([^}]*)\}`),
		captionPattern: regexp.MustCompile(`\\caption\{([^}]*)\}`),
		imagePattern:   regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`),
		sectionTitle:   regexp.MustCompile(`\\(?:sub)?section\*?\{([^}]*)\}`),
		headingTitle:   regexp.MustCompile(`^\s{0,3}#{1,6}\s+(.*\S)`),
		classifiers: []classifier{
			{func(l string) bool { return strings.Contains(l, `\subsection`) }, label.TypeSubsection},
			{func(l string) bool { return strings.Contains(l, `\section`) }, label.TypeSection},
			{func(l string) bool {
				return strings.Contains(l, `\begin{figure`) || imageStart.MatchString(l)
			}, label.TypeFigure},
			{func(l string) bool { return strings.Contains(l, `\begin{table`) }, label.TypeTable},
			{func(l string) bool {
				return strings.Contains(l, `\begin{equation`) || strings.Contains(l, `\begin{align`) ||
					strings.Contains(l, "$$")
			}, label.TypeEquation},
			{func(l string) bool {
				return strings.HasPrefix(strings.TrimSpace(l), "```") || strings.Contains(l, `\begin{lstlisting`)
			}, label.TypeListing},
			{func(l string) bool {
				m := heading.FindStringSubmatch(l)
				return m != nil && len(m[1]) >= 2
			}, label.TypeSubsection},
			{func(l string) bool {
				m := heading.FindStringSubmatch(l)
				return m != nil && len(m[1]) == 1
			}, label.TypeSection},
		},
	}
}

// refKindFor maps a matched reference command to its kind.
func refKindFor(command string) label.RefKind {
	switch command {
	case "eqref":
		return label.RefKindEqRef
	case "cref", "Cref":
		return label.RefKindCRef
	case "pageref":
		return label.RefKindPageRef
	case "autoref":
		return label.RefKindAutoRef
	default:
		return label.RefKindRef
	}
}

// Scan extracts all labels and reference occurrences from content.
// Malformed anchors (empty keys) are skipped without aborting the rest of
// the file. No recognized class of label or reference is dropped.
func (s *Scanner) Scan(content, file string) *Result {
	lines := strings.Split(content, "\n")
	result := &Result{
		References: make(map[string][]label.Reference),
	}
	now := time.Now()

	for lineNum, line := range lines {
		for _, m := range s.labelPattern.FindAllStringSubmatchIndex(line, -1) {
			key := line[m[2]:m[3]]
			if strings.TrimSpace(key) == "" {
				continue
			}
			pos := label.Position{Line: lineNum, Column: m[0]}
			labelType := s.classify(lines, lineNum)
			context := extractContext(lines, lineNum)
			entry := label.Entry{
				Key:      key,
				Type:     labelType,
				File:     file,
				Position: pos,
				Context:  context,
				Definitions: []label.Definition{
					{File: file, Position: pos, Context: context},
				},
				Metadata:  s.extractMetadata(lines, lineNum, labelType),
				CreatedAt: now,
			}
			result.Labels = append(result.Labels, entry)
		}

		for _, m := range s.refPattern.FindAllStringSubmatchIndex(line, -1) {
			command := line[m[2]:m[3]]
			target := line[m[4]:m[5]]
			if strings.TrimSpace(target) == "" {
				continue
			}
			// \cref{fig:a,fig:b} carries multiple targets.
			for _, key := range strings.Split(target, ",") {
				key = strings.TrimSpace(key)
				if key == "" {
					continue
				}
				result.References[key] = append(result.References[key], label.Reference{
					File:     file,
					Position: label.Position{Line: lineNum, Column: m[0]},
					Kind:     refKindFor(command),
					Context:  extractContext(lines, lineNum),
				})
			}
		}
	}

	return result
}

// classify inspects the anchor line and up to classifyWindow lines above it.
// The classifier list is ordered; the first predicate matching any line in
// the window decides the type.
func (s *Scanner) classify(lines []string, anchorLine int) label.Type {
	start := anchorLine - classifyWindow
	if start < 0 {
		start = 0
	}
	window := lines[start : anchorLine+1]
	for _, c := range s.classifiers {
		for i := len(window) - 1; i >= 0; i-- {
			if c.matches(window[i]) {
				return c.typ
			}
		}
	}
	return label.TypeOther
}

// extractMetadata scrapes type-specific detail from lines near the anchor,
// stopping at the first match.
func (s *Scanner) extractMetadata(lines []string, anchorLine int, typ label.Type) *label.Metadata {
	switch typ {
	case label.TypeSection, label.TypeSubsection:
		if title := s.findTitle(lines, anchorLine); title != "" {
			return &label.Metadata{SectionTitle: title}
		}
	case label.TypeFigure:
		if caption := s.findCaption(lines, anchorLine); caption != "" {
			return &label.Metadata{FigureCaption: caption}
		}
	case label.TypeTable:
		if caption := s.findCaption(lines, anchorLine); caption != "" {
			return &label.Metadata{TableCaption: caption}
		}
	case label.TypeEquation:
		if content := s.findEquationContent(lines, anchorLine); content != "" {
			return &label.Metadata{EquationContent: content}
		}
	}
	return nil
}

// findTitle looks at the anchor line and the classify window above it for a
// \section/\subsection argument or a Markdown heading.
func (s *Scanner) findTitle(lines []string, anchorLine int) string {
	start := anchorLine - classifyWindow
	if start < 0 {
		start = 0
	}
	for i := anchorLine; i >= start; i-- {
		if m := s.sectionTitle.FindStringSubmatch(lines[i]); m != nil {
			return strings.TrimSpace(m[1])
		}
		if m := s.headingTitle.FindStringSubmatch(lines[i]); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// findCaption looks ahead up to metadataWindow lines (and at the anchor
// line itself) for \caption{} or a Markdown image alt text.
func (s *Scanner) findCaption(lines []string, anchorLine int) string {
	end := anchorLine + metadataWindow
	if end > len(lines)-1 {
		end = len(lines) - 1
	}
	for i := anchorLine; i <= end; i++ {
		if m := s.captionPattern.FindStringSubmatch(lines[i]); m != nil {
			return strings.TrimSpace(m[1])
		}
		if m := s.imagePattern.FindStringSubmatch(lines[i]); m != nil && strings.TrimSpace(m[1]) != "" {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// findEquationContent returns the first non-markup line after the anchor.
func (s *Scanner) findEquationContent(lines []string, anchorLine int) string {
	end := anchorLine + metadataWindow
	if end > len(lines)-1 {
		end = len(lines) - 1
	}
	for i := anchorLine + 1; i <= end; i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" || strings.HasPrefix(trimmed, `\end{`) ||
			strings.HasPrefix(trimmed, `\label{`) || trimmed == "$$" {
			continue
		}
		return trimmed
	}
	return ""
}

// extractContext returns a ±contextLines window around a line, truncated to
// contextMaxChars. Context strings are for display only.
func extractContext(lines []string, lineNum int) string {
	start := lineNum - contextLines
	if start < 0 {
		start = 0
	}
	end := lineNum + contextLines
	if end > len(lines)-1 {
		end = len(lines) - 1
	}
	context := strings.TrimSpace(strings.Join(lines[start:end+1], "\n"))
	if len(context) > contextMaxChars {
		context = context[:contextMaxChars]
	}
	return context
}
