// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package label

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxKeyLength is the longest accepted label key.
const MaxKeyLength = 50

var (
	nonSlugChars  = regexp.MustCompile(`[^\w\s-]`)
	slugSeparator = regexp.MustCompile(`[\s_]+`)
	whitespace    = regexp.MustCompile(`\s`)
)

// Slugify converts free text into a label key fragment: lowercase, strip
// non-word characters, collapse whitespace/underscore runs to hyphens, trim
// to maxLen.
func Slugify(text string, maxLen int) string {
	slug := strings.ToLower(strings.TrimSpace(text))
	slug = nonSlugChars.ReplaceAllString(slug, "")
	slug = slugSeparator.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if maxLen > 0 && len(slug) > maxLen {
		slug = slug[:maxLen]
		slug = strings.Trim(slug, "-")
	}
	return slug
}

// ValidateKeyFormat checks a label key against the accepted format. Each
// violation has a distinct message so callers can surface it directly.
func ValidateKeyFormat(key string) error {
	if key == "" {
		return fmt.Errorf("label key is empty")
	}
	if whitespace.MatchString(key) {
		return fmt.Errorf("label key contains spaces")
	}
	if strings.ContainsAny(key, `{}\`) {
		return fmt.Errorf(`label key contains invalid characters ({, } or \)`)
	}
	if len(key) > MaxKeyLength {
		return fmt.Errorf("label key is too long (%d chars, max %d)", len(key), MaxKeyLength)
	}
	return nil
}
