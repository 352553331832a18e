// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package suppressions filters known, accepted issues out of reports via a
// YAML rule file checked into the corpus.
package suppressions

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"crossref-scan/internal/paths"
	"crossref-scan/internal/report"

	"gopkg.in/yaml.v3"
)

// SuppressionRule represents a single suppression rule
type SuppressionRule struct {
	ID        string     `yaml:"id"`
	Hash      string     `yaml:"hash"`
	Reason    string     `yaml:"reason"`
	Enabled   bool       `yaml:"enabled"`
	CreatedBy string     `yaml:"created_by,omitempty"`
	CreatedAt time.Time  `yaml:"created_at"`
	ExpiresAt *time.Time `yaml:"expires_at,omitempty"`
}

// SuppressionConfig represents the suppression configuration file
type SuppressionConfig struct {
	Version string            `yaml:"version"`
	Rules   []SuppressionRule `yaml:"rules"`
}

// Manager handles issue suppressions
type Manager struct {
	configPath string
	config     *SuppressionConfig
	enabled    bool
}

// NewManager creates a suppression manager. An empty path falls back to the
// default suppressions file; a missing or unreadable file yields an empty
// rule set rather than an error.
func NewManager(configPath string) *Manager {
	if configPath == "" {
		configPath = paths.GetSuppressionsFile()
	}
	manager := &Manager{
		configPath: configPath,
		enabled:    true,
	}
	manager.loadConfig()
	return manager
}

func (m *Manager) loadConfig() {
	m.config = &SuppressionConfig{Version: "1.0", Rules: []SuppressionRule{}}
	if m.configPath == "" {
		return
	}
	data, err := os.ReadFile(filepath.Clean(m.configPath))
	if err != nil {
		return
	}
	var config SuppressionConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return
	}
	m.config = &config
}

// SetEnabled toggles suppression application globally.
func (m *Manager) SetEnabled(enabled bool) {
	m.enabled = enabled
}

// IssueHash creates the stable identifying hash for an issue. The file's
// basename is used so moving a corpus directory does not invalidate rules.
func IssueHash(issue report.Issue) string {
	composite := fmt.Sprintf("%s|%s|%s|%d|%s",
		issue.RuleID,
		issue.Category,
		filepath.Base(issue.Location.File),
		issue.Location.Line,
		issue.Message,
	)
	sum := sha256.Sum256([]byte(composite))
	return fmt.Sprintf("%x", sum[:8])
}

// IsSuppressed reports whether an issue matches an active suppression rule.
// Expired rules never match.
func (m *Manager) IsSuppressed(issue report.Issue) (bool, *SuppressionRule) {
	if !m.enabled {
		return false, nil
	}
	hash := IssueHash(issue)
	now := time.Now()
	for i := range m.config.Rules {
		rule := &m.config.Rules[i]
		if !rule.Enabled || rule.Hash != hash {
			continue
		}
		if rule.ExpiresAt != nil && rule.ExpiresAt.Before(now) {
			continue
		}
		return true, rule
	}
	return false, nil
}

// Apply splits issues into kept and suppressed sets.
func (m *Manager) Apply(issues []report.Issue) ([]report.Issue, []report.SuppressedIssue) {
	var kept []report.Issue
	var suppressed []report.SuppressedIssue
	for _, issue := range issues {
		if isSuppressed, rule := m.IsSuppressed(issue); isSuppressed {
			suppressed = append(suppressed, report.SuppressedIssue{
				Issue:        issue,
				SuppressedBy: rule.ID,
				RuleReason:   rule.Reason,
				ExpiresAt:    rule.ExpiresAt,
			})
			continue
		}
		kept = append(kept, issue)
	}
	return kept, suppressed
}

// AddRule appends a suppression rule for the given issue.
func (m *Manager) AddRule(issue report.Issue, reason, createdBy string, expiresAt *time.Time) SuppressionRule {
	rule := SuppressionRule{
		ID:        fmt.Sprintf("suppress-%s", IssueHash(issue)),
		Hash:      IssueHash(issue),
		Reason:    reason,
		Enabled:   true,
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}
	m.config.Rules = append(m.config.Rules, rule)
	return rule
}

// Rules returns the loaded suppression rules.
func (m *Manager) Rules() []SuppressionRule {
	return m.config.Rules
}

// Save writes the suppression configuration back to its file.
func (m *Manager) Save() error {
	if m.configPath == "" {
		return fmt.Errorf("no suppression file path configured")
	}
	data, err := yaml.Marshal(m.config)
	if err != nil {
		return fmt.Errorf("marshaling suppression config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(m.configPath), 0o755); err != nil {
		return fmt.Errorf("creating suppression config dir: %w", err)
	}
	if err := os.WriteFile(m.configPath, data, 0o644); err != nil {
		return fmt.Errorf("writing suppression config: %w", err)
	}
	return nil
}
