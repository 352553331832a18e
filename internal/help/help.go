// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package help renders rule documentation for the CLI.
package help

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"crossref-scan/internal/rules"

	"github.com/fatih/color"
)

// System renders help content for registered rules
type System struct {
	noColor bool
	colors  map[string]*color.Color
}

// NewSystem creates a new help system
func NewSystem(noColor bool) *System {
	if noColor {
		color.NoColor = true
	}
	return &System{
		noColor: noColor,
		colors: map[string]*color.Color{
			"title":    color.New(color.FgWhite, color.Bold),
			"subtitle": color.New(color.FgCyan, color.Bold),
			"enabled":  color.New(color.FgGreen),
			"disabled": color.New(color.FgRed),
		},
	}
}

// ListRules renders a table of all registered rules
func (s *System) ListRules(infos []rules.RuleInfo) string {
	var b strings.Builder
	b.WriteString(s.colors["title"].Sprint("Available validation rules") + "\n\n")

	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RULE\tCATEGORY\tSEVERITY\tENABLED")
	for _, info := range infos {
		enabled := "yes"
		if !info.Enabled {
			enabled = "no"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", info.ID, info.Category, info.Severity, enabled)
	}
	w.Flush()
	b.WriteString("\nUse -explain <rule> for details on a single rule.\n")
	return b.String()
}

// ExplainRule renders detailed documentation for one rule
func (s *System) ExplainRule(infos []rules.RuleInfo, id string) (string, bool) {
	for _, info := range infos {
		if info.ID != id {
			continue
		}
		var b strings.Builder
		b.WriteString(s.colors["title"].Sprint(info.ID) + "\n\n")
		fmt.Fprintf(&b, "%s %s\n", s.colors["subtitle"].Sprint("Category:"), info.Category)
		fmt.Fprintf(&b, "%s %s\n", s.colors["subtitle"].Sprint("Severity:"), info.Severity)
		status := s.colors["enabled"].Sprint("enabled")
		if !info.Enabled {
			status = s.colors["disabled"].Sprint("disabled")
		}
		fmt.Fprintf(&b, "%s %s\n\n", s.colors["subtitle"].Sprint("Status:"), status)
		fmt.Fprintf(&b, "%s\n", info.Description)
		return b.String(), true
	}
	return "", false
}
