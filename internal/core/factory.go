// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"strings"

	"crossref-scan/internal/bib"
	"crossref-scan/internal/config"
	"crossref-scan/internal/document"
	"crossref-scan/internal/index"
	"crossref-scan/internal/observability"
	"crossref-scan/internal/rules"
	"crossref-scan/internal/rules/citation"
	"crossref-scan/internal/rules/figure"
	"crossref-scan/internal/rules/reference"
	"crossref-scan/internal/rules/structure"
	"crossref-scan/internal/rules/table"
)

// checkCategories are the selectable rule families, in registration order.
var checkCategories = []string{"reference", "citation", "figure", "table", "structure"}

// ParseChecksToRun converts a slice of check names into an enabled-checks
// map. An empty slice or ["all"] enables every category.
func ParseChecksToRun(checks []string) map[string]bool {
	result := make(map[string]bool, len(checkCategories))
	for _, category := range checkCategories {
		result[category] = false
	}

	if len(checks) == 0 || (len(checks) == 1 && strings.EqualFold(checks[0], "all")) {
		for key := range result {
			result[key] = true
		}
		return result
	}

	for _, check := range checks {
		check = strings.ToLower(strings.TrimSpace(check))
		if _, exists := result[check]; exists {
			result[check] = true
		}
	}
	return result
}

// ParseSeverityLevels converts a comma-separated severity string into a
// map. "all" or empty string enables every level.
func ParseSeverityLevels(levels string) map[string]bool {
	result := map[string]bool{
		"critical": false,
		"error":    false,
		"warning":  false,
		"info":     false,
	}

	if levels == "all" || levels == "" {
		for key := range result {
			result[key] = true
		}
		return result
	}

	for _, level := range strings.Split(levels, ",") {
		level = strings.ToLower(strings.TrimSpace(level))
		if _, exists := result[level]; exists {
			result[level] = true
		}
	}
	return result
}

// BuildEngine constructs the rule engine with every family that is enabled
// both by the config's category toggles and the requested checks. Families
// a settings flag turns off are omitted entirely, not registered-disabled.
func BuildEngine(idx *index.Index, store document.Store, provider bib.Provider, observer *observability.StandardObserver, cfg *config.Config, enabledChecks map[string]bool) *rules.Engine {
	engine := rules.NewEngine(idx, store, provider, observer)

	register := func(family []*rules.Rule) {
		for _, rule := range family {
			engine.Register(rule)
		}
	}

	// The cross-reference subsystem toggle gates the whole reference
	// family; the other families read document text directly.
	if enabledChecks["reference"] && cfg.Rules.Reference && cfg.CrossReferences.Enabled {
		register(reference.Rules())
	}
	if enabledChecks["citation"] && cfg.Rules.Citation && provider != nil {
		register(citation.Rules())
	}
	if enabledChecks["figure"] && cfg.Rules.Figure {
		register(figure.Rules())
	}
	if enabledChecks["table"] && cfg.Rules.Table {
		register(table.Rules())
	}
	if enabledChecks["structure"] && cfg.Rules.Structure {
		register(structure.Rules())
	}
	return engine
}
