// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package sarif

// Minimal SARIF 2.1.0 object model; only the fields this tool emits.

type logFile struct {
	Schema  string `json:"$schema"`
	Version string `json:"version"`
	Runs    []run  `json:"runs"`
}

type run struct {
	Tool    tool          `json:"tool"`
	Results []resultEntry `json:"results"`
}

type tool struct {
	Driver driver `json:"driver"`
}

type driver struct {
	Name    string           `json:"name"`
	Version string           `json:"version,omitempty"`
	Rules   []ruleDescriptor `json:"rules,omitempty"`
}

type ruleDescriptor struct {
	ID               string            `json:"id"`
	ShortDescription textBlock         `json:"shortDescription"`
	Properties       map[string]string `json:"properties,omitempty"`
}

type resultEntry struct {
	RuleID    string     `json:"ruleId"`
	RuleIndex int        `json:"ruleIndex"`
	Level     string     `json:"level"`
	Message   textBlock  `json:"message"`
	Locations []location `json:"locations,omitempty"`
}

type textBlock struct {
	Text string `json:"text"`
}

type location struct {
	PhysicalLocation physicalLocation `json:"physicalLocation"`
}

type physicalLocation struct {
	ArtifactLocation artifactLocation `json:"artifactLocation"`
	Region           *region          `json:"region,omitempty"`
}

type artifactLocation struct {
	URI string `json:"uri"`
}

type region struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
}
