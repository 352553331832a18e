// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Command suppress records accepted issues from a JSON report as
// suppression rules so later scans skip them.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/user"
	"strings"
	"time"

	"crossref-scan/internal/report"
	"crossref-scan/internal/suppressions"
)

type jsonReport struct {
	Results    *report.Results          `json:"results"`
	Suppressed []report.SuppressedIssue `json:"suppressed,omitempty"`
}

func main() {
	var (
		resultsFile  = flag.String("results", "", "JSON report produced by crossref-scan -format json (required)")
		reason       = flag.String("reason", "", "Why these issues are acceptable (required)")
		ruleFilter   = flag.String("rule", "", "Only suppress issues from this rule")
		fileFilter   = flag.String("file", "", "Only suppress issues whose file path contains this substring")
		expiresIn    = flag.String("expires-in", "", "Optional expiry duration, e.g. 720h")
		suppressFile = flag.String("suppress-file", "", "Path to suppression rules file")
		list         = flag.Bool("list", false, "List existing suppression rules and exit")
		dryRun       = flag.Bool("dry-run", false, "Show what would be suppressed without saving")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: suppress -results <report.json> -reason <text> [options]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	manager := suppressions.NewManager(*suppressFile)

	if *list {
		listRules(manager)
		return
	}

	if *resultsFile == "" || *reason == "" {
		flag.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(*resultsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading results file: %v\n", err)
		os.Exit(2)
	}
	var doc jsonReport
	if err := json.Unmarshal(data, &doc); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing results file: %v\n", err)
		os.Exit(2)
	}
	if doc.Results == nil {
		fmt.Fprintf(os.Stderr, "Error: results file has no 'results' section\n")
		os.Exit(2)
	}

	var expiresAt *time.Time
	if *expiresIn != "" {
		d, err := time.ParseDuration(*expiresIn)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid -expires-in duration: %v\n", err)
			os.Exit(2)
		}
		t := time.Now().Add(d)
		expiresAt = &t
	}

	createdBy := "unknown"
	if u, err := user.Current(); err == nil {
		createdBy = u.Username
	}

	added := 0
	for _, issue := range doc.Results.Issues {
		if *ruleFilter != "" && issue.RuleID != *ruleFilter {
			continue
		}
		if *fileFilter != "" && !strings.Contains(issue.Location.File, *fileFilter) {
			continue
		}
		if suppressed, _ := manager.IsSuppressed(issue); suppressed {
			continue
		}
		if *dryRun {
			fmt.Printf("would suppress: [%s] %s:%d %s\n",
				issue.RuleID, issue.Location.File, issue.Location.Line, issue.Message)
		} else {
			rule := manager.AddRule(issue, *reason, createdBy, expiresAt)
			fmt.Printf("added %s: [%s] %s:%d %s\n",
				rule.ID, issue.RuleID, issue.Location.File, issue.Location.Line, issue.Message)
		}
		added++
	}

	if added == 0 {
		fmt.Println("No matching issues to suppress.")
		return
	}
	if *dryRun {
		fmt.Printf("%d issue(s) would be suppressed.\n", added)
		return
	}
	if err := manager.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving suppression rules: %v\n", err)
		os.Exit(2)
	}
	fmt.Printf("Saved %d suppression rule(s).\n", added)
}

func listRules(manager *suppressions.Manager) {
	rules := manager.Rules()
	if len(rules) == 0 {
		fmt.Println("No suppression rules configured.")
		return
	}
	for _, rule := range rules {
		status := "enabled"
		if !rule.Enabled {
			status = "disabled"
		}
		expiry := ""
		if rule.ExpiresAt != nil {
			expiry = fmt.Sprintf(" expires %s", rule.ExpiresAt.Format(time.RFC3339))
		}
		fmt.Printf("%s (%s) %s%s\n  reason: %s\n", rule.ID, status, rule.Hash, expiry, rule.Reason)
	}
}
