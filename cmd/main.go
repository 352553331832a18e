// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"crossref-scan/internal/bib"
	"crossref-scan/internal/config"
	"crossref-scan/internal/core"
	"crossref-scan/internal/document"
	"crossref-scan/internal/formatters"
	"crossref-scan/internal/help"
	"crossref-scan/internal/index"
	"crossref-scan/internal/observability"
	"crossref-scan/internal/report"
	"crossref-scan/internal/suppressions"
	"crossref-scan/internal/version"

	_ "crossref-scan/internal/formatters/csv"
	_ "crossref-scan/internal/formatters/json"
	_ "crossref-scan/internal/formatters/sarif"
	_ "crossref-scan/internal/formatters/text"

	"golang.org/x/term"
)

// cliFlags holds command line flag values
type cliFlags struct {
	format       string
	severity     string
	checks       string
	configFile   string
	profile      string
	output       string
	suppressFile string
	noSuppress   bool
	noColor      bool
	verbose      bool
	debug        bool
	showVersion  bool
	listChecks   bool
	explain      string
	failOn       string
	maxFiles     int
	dumpIndex    string
}

func parseFlags() *cliFlags {
	f := &cliFlags{}
	flag.StringVar(&f.format, "format", "", "Output format: text, json, csv, sarif")
	flag.StringVar(&f.severity, "severity", "", "Severity levels to report (comma-separated, or 'all')")
	flag.StringVar(&f.checks, "checks", "", "Rule categories to run: reference,citation,figure,table,structure or 'all'")
	flag.StringVar(&f.configFile, "config", "", "Path to configuration file")
	flag.StringVar(&f.profile, "profile", "", "Configuration profile to apply")
	flag.StringVar(&f.output, "output", "", "Write report to file instead of stdout")
	flag.StringVar(&f.suppressFile, "suppress-file", "", "Path to suppression rules file")
	flag.BoolVar(&f.noSuppress, "no-suppress", false, "Ignore suppression rules")
	flag.BoolVar(&f.noColor, "no-color", false, "Disable colored output")
	flag.BoolVar(&f.verbose, "verbose", false, "Show detailed output")
	flag.BoolVar(&f.debug, "debug", false, "Enable debug output")
	flag.BoolVar(&f.showVersion, "version", false, "Show version information")
	flag.BoolVar(&f.listChecks, "list-checks", false, "List available validation rules")
	flag.StringVar(&f.explain, "explain", "", "Show detailed documentation for one rule")
	flag.StringVar(&f.failOn, "fail-on", "error", "Exit non-zero when issues at or above this severity exist")
	flag.IntVar(&f.maxFiles, "max-files", -1, "Cap the number of files indexed (0 = unlimited)")
	flag.StringVar(&f.dumpIndex, "dump-index", "", "Write a JSON dump of the label index to file")
	flag.Usage = printUsage
	flag.Parse()
	return f
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: crossref-scan [options] <corpus-dir>\n\n")
	fmt.Fprintf(os.Stderr, "Scans a directory of LaTeX/Markdown documents for label, reference,\n")
	fmt.Fprintf(os.Stderr, "citation and structure issues.\n\nOptions:\n")
	flag.PrintDefaults()
}

// resolveSettings merges config defaults, profile overrides and flags, in
// that order of increasing precedence.
func resolveSettings(f *cliFlags, cfg *config.Config) (format, severity, checks string, noColor, verbose bool) {
	format = cfg.Defaults.Format
	severity = cfg.Defaults.SeverityLevels
	checks = cfg.Defaults.Checks
	noColor = cfg.Defaults.NoColor
	verbose = cfg.Defaults.Verbose

	if f.profile != "" {
		if profile := cfg.GetProfile(f.profile); profile != nil {
			if profile.Format != "" {
				format = profile.Format
			}
			if profile.SeverityLevels != "" {
				severity = profile.SeverityLevels
			}
			if profile.Checks != "" {
				checks = profile.Checks
			}
			noColor = noColor || profile.NoColor
			verbose = verbose || profile.Verbose
		} else {
			fmt.Fprintf(os.Stderr, "Warning: profile %q not found in configuration\n", f.profile)
		}
	}

	if f.format != "" {
		format = f.format
	}
	if f.severity != "" {
		severity = f.severity
	}
	if f.checks != "" {
		checks = f.checks
	}
	noColor = noColor || f.noColor
	verbose = verbose || f.verbose
	return format, severity, checks, noColor, verbose
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func main() {
	f := parseFlags()

	if f.showVersion {
		fmt.Println(version.Info())
		return
	}

	cfg := config.LoadConfigOrDefault(f.configFile)
	format, severity, checks, noColor, verbose := resolveSettings(f, cfg)
	if f.maxFiles >= 0 {
		cfg.CrossReferences.MaxFilesToIndex = f.maxFiles
	}

	// Colors only make sense on a terminal writing text.
	if f.output != "" || !isTerminal(os.Stdout) {
		noColor = true
	}

	checksList := strings.Split(checks, ",")

	if f.listChecks || f.explain != "" {
		// Rule metadata needs no corpus; build the engine over empty
		// collaborators.
		engine := core.BuildEngine(index.New(nil), document.NewMemStore(nil),
			bib.NewStaticProvider(), nil, cfg, core.ParseChecksToRun(checksList))
		helpSystem := help.NewSystem(noColor)
		if f.explain != "" {
			text, ok := helpSystem.ExplainRule(engine.Rules(), f.explain)
			if !ok {
				fmt.Fprintf(os.Stderr, "Unknown rule: %s\n", f.explain)
				os.Exit(2)
			}
			fmt.Print(text)
			return
		}
		fmt.Print(helpSystem.ListRules(engine.Rules()))
		return
	}

	if flag.NArg() != 1 {
		printUsage()
		os.Exit(2)
	}
	corpusDir := flag.Arg(0)
	if info, err := os.Stat(corpusDir); err != nil || !info.IsDir() {
		fmt.Fprintf(os.Stderr, "Error: %s is not a directory\n", corpusDir)
		os.Exit(2)
	}

	store := document.NewFSStore(corpusDir, cfg.Defaults.ExcludePatterns)
	bibRoot := cfg.Bibliography.Path
	if bibRoot == "" {
		bibRoot = corpusDir
	}

	observer := observability.NewStandardObserver(observability.ObservabilityMetrics, os.Stderr)
	if f.debug {
		debugObs := observability.NewDebugObserver(os.Stderr)
		observer = debugObs.StandardObserver
		observer.DebugObserver = debugObs
	}

	var suppressionManager *suppressions.Manager
	if !f.noSuppress {
		suppressionManager = suppressions.NewManager(f.suppressFile)
	}

	runResult, err := core.Run(context.Background(), core.RunConfig{
		Store:              store,
		Bib:                bib.NewFileProvider(bibRoot),
		Checks:             checksList,
		Config:             cfg,
		Debug:              f.debug,
		Observer:           observer,
		SuppressionManager: suppressionManager,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if f.dumpIndex != "" {
		if err := dumpIndex(runResult.Index, f.dumpIndex); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	output, err := formatters.Export(format, runResult.Results, runResult.Suppressed, formatters.FormatterOptions{
		SeverityLevels: core.ParseSeverityLevels(severity),
		Verbose:        verbose,
		NoColor:        noColor,
		ShowContext:    verbose,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if f.output != "" {
		if err := os.WriteFile(f.output, []byte(output), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(2)
		}
	} else {
		fmt.Println(output)
	}

	if shouldFail(runResult.Results, f.failOn) {
		os.Exit(1)
	}
}

// dumpIndex writes the label index snapshot to a file.
func dumpIndex(idx *index.Index, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating index dump: %w", err)
	}
	defer file.Close()
	return idx.Save(file)
}

// shouldFail reports whether any issue reaches the fail-on threshold.
func shouldFail(results *report.Results, failOn string) bool {
	threshold := report.Severity(strings.ToLower(strings.TrimSpace(failOn)))
	if !threshold.Valid() {
		threshold = report.SeverityError
	}
	for _, issue := range results.Issues {
		if issue.Severity.Rank() >= threshold.Rank() {
			return true
		}
	}
	return false
}
