// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package label

import (
	"time"
)

// Position is a 0-based line/column location within a file.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Type classifies what kind of document element a label anchors.
type Type string

const (
	TypeSection    Type = "section"
	TypeSubsection Type = "subsection"
	TypeFigure     Type = "figure"
	TypeTable      Type = "table"
	TypeEquation   Type = "equation"
	TypeListing    Type = "listing"
	TypeOther      Type = "other"
)

// KeyPrefix returns the conventional label key prefix for the type.
func (t Type) KeyPrefix() string {
	switch t {
	case TypeSection:
		return "sec"
	case TypeSubsection:
		return "subsec"
	case TypeFigure:
		return "fig"
	case TypeTable:
		return "tab"
	case TypeEquation:
		return "eq"
	case TypeListing:
		return "lst"
	default:
		return "item"
	}
}

// RefKind identifies which reference command pointed at a label.
type RefKind string

const (
	RefKindRef     RefKind = "ref"
	RefKindEqRef   RefKind = "eqref"
	RefKindCRef    RefKind = "cref"
	RefKindPageRef RefKind = "pageref"
	RefKindAutoRef RefKind = "autoref"
)

// Reference is a single use-site pointing at a label by key.
// Immutable once extracted; owned by the entry it targets.
type Reference struct {
	File     string   `json:"file"`
	Position Position `json:"position"`
	Kind     RefKind  `json:"kind"`
	Context  string   `json:"context"`
}

// Definition records one \label{} site. Entries accumulate one Definition
// per anchor occurrence so duplicate detection can distinguish "defined
// twice" from "referenced from two files".
type Definition struct {
	File     string   `json:"file"`
	Position Position `json:"position"`
	Context  string   `json:"context"`
}

// Metadata holds type-specific detail scraped from lines near the anchor.
type Metadata struct {
	SectionTitle    string `json:"section_title,omitempty"`
	FigureCaption   string `json:"figure_caption,omitempty"`
	TableCaption    string `json:"table_caption,omitempty"`
	EquationContent string `json:"equation_content,omitempty"`
}

// Empty reports whether no metadata field was populated.
func (m Metadata) Empty() bool {
	return m == Metadata{}
}

// Entry is the authoritative record for one label key. File/Position point
// at the first definition encountered; Definitions carries every site.
type Entry struct {
	Key         string       `json:"key"`
	Type        Type         `json:"type"`
	File        string       `json:"file"`
	Position    Position     `json:"position"`
	Context     string       `json:"context"`
	References  []Reference  `json:"references"`
	Definitions []Definition `json:"definitions"`
	Metadata    *Metadata    `json:"metadata,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}
