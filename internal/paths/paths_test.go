// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"path/filepath"
	"testing"
)

func TestGetConfigDirOverride(t *testing.T) {
	t.Setenv("CROSSREF_SCAN_CONFIG_DIR", "/custom/dir")
	if got := GetConfigDir(); got != "/custom/dir" {
		t.Errorf("GetConfigDir() = %q, want /custom/dir", got)
	}
}

func TestGetConfigDirXDG(t *testing.T) {
	t.Setenv("CROSSREF_SCAN_CONFIG_DIR", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	want := filepath.Join("/xdg", "crossref-scan")
	if got := GetConfigDir(); got != want {
		t.Errorf("GetConfigDir() = %q, want %q", got, want)
	}
}

func TestFilePaths(t *testing.T) {
	t.Setenv("CROSSREF_SCAN_CONFIG_DIR", "/custom/dir")
	if got := GetConfigFile(); got != filepath.Join("/custom/dir", "config.yaml") {
		t.Errorf("GetConfigFile() = %q", got)
	}
	if got := GetSuppressionsFile(); got != filepath.Join("/custom/dir", "suppressions.yaml") {
		t.Errorf("GetSuppressionsFile() = %q", got)
	}
}
