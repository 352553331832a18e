// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Defaults.Format != "text" {
		t.Errorf("format = %q, want text", cfg.Defaults.Format)
	}
	if cfg.Defaults.SeverityLevels != "all" {
		t.Errorf("severity levels = %q, want all", cfg.Defaults.SeverityLevels)
	}
	if !cfg.CrossReferences.Enabled {
		t.Error("cross references should default to enabled")
	}
	if cfg.CrossReferences.RuleTimeoutSeconds != 30 {
		t.Errorf("rule timeout = %d, want 30", cfg.CrossReferences.RuleTimeoutSeconds)
	}
	if cfg.CrossReferences.MaxFilesToIndex != 0 {
		t.Errorf("max files = %d, want 0 (unlimited)", cfg.CrossReferences.MaxFilesToIndex)
	}
	for name, enabled := range map[string]bool{
		"reference": cfg.Rules.Reference,
		"citation":  cfg.Rules.Citation,
		"figure":    cfg.Rules.Figure,
		"table":     cfg.Rules.Table,
		"structure": cfg.Rules.Structure,
	} {
		if !enabled {
			t.Errorf("rule category %s should default to enabled", name)
		}
	}
	if cfg.GetProfile("ci") == nil {
		t.Error("default ci profile missing")
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
defaults:
  format: json
  severity_levels: critical,error
  exclude_patterns:
    - build
cross_references:
  max_files_to_index: 100
  workers: 4
rules:
  figure: false
bibliography:
  path: refs/
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Defaults.Format != "json" {
		t.Errorf("format = %q, want json", cfg.Defaults.Format)
	}
	if cfg.CrossReferences.MaxFilesToIndex != 100 {
		t.Errorf("max files = %d, want 100", cfg.CrossReferences.MaxFilesToIndex)
	}
	if cfg.Bibliography.Path != "refs/" {
		t.Errorf("bibliography path = %q, want refs/", cfg.Bibliography.Path)
	}
	if cfg.Rules.Figure {
		t.Error("figure rules explicitly disabled, got enabled")
	}
	// Categories the file never mentions keep their default.
	if !cfg.Rules.Reference || !cfg.Rules.Citation || !cfg.Rules.Table || !cfg.Rules.Structure {
		t.Error("unmentioned rule categories should stay enabled")
	}
	if !cfg.CrossReferences.Enabled {
		t.Error("unmentioned cross_references.enabled should stay true")
	}
}

func TestLoadConfigInvalidFormat(t *testing.T) {
	path := writeConfig(t, "defaults:\n  format: xml\n")
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected validation error for unknown format")
	}
}

func TestLoadConfigNegativeValues(t *testing.T) {
	path := writeConfig(t, "cross_references:\n  max_files_to_index: -1\n")
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected validation error for negative max_files_to_index")
	}
}

func TestLoadConfigUnknownSeverity(t *testing.T) {
	path := writeConfig(t, "defaults:\n  severity_levels: critical,bogus\n")
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected validation error for unknown severity level")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadConfigOrDefaultFallsBack(t *testing.T) {
	cfg := LoadConfigOrDefault("/nonexistent/config.yaml")
	if cfg == nil {
		t.Fatal("expected non-nil config")
	}
	if cfg.Defaults.Format != "text" {
		t.Errorf("fallback format = %q, want text", cfg.Defaults.Format)
	}
}

func TestProfiles(t *testing.T) {
	path := writeConfig(t, `
profiles:
  strict:
    format: sarif
    severity_levels: critical,error,warning
    description: strict review profile
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	profile := cfg.GetProfile("strict")
	if profile == nil {
		t.Fatal("strict profile not found")
	}
	if profile.Format != "sarif" {
		t.Errorf("profile format = %q, want sarif", profile.Format)
	}
	if cfg.GetProfile("nope") != nil {
		t.Error("unknown profile should return nil")
	}

	names := cfg.ListProfiles()
	if len(names) == 0 {
		t.Error("ListProfiles returned nothing")
	}
}
