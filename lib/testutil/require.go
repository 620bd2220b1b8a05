// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import "strings"

// RequireIssue fails the test unless issues contains an entry with
// substr as a substring. It reports the full issue list on failure so
// the mismatch is visible without rerunning under -v.
//
//	testutil.RequireIssue(t, doc.Validate(), "unknown child")
func RequireIssue(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, issues []string, substr string) {
	t.Helper()
	for _, issue := range issues {
		if strings.Contains(issue, substr) {
			return
		}
	}
	t.Fatalf("no issue containing %q in %d issue(s):\n%s", substr, len(issues), strings.Join(issues, "\n"))
}

// RequireNoIssues fails the test if issues is non-empty.
//
//	testutil.RequireNoIssues(t, doc.Validate())
func RequireNoIssues(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, issues []string) {
	t.Helper()
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %d:\n%s", len(issues), strings.Join(issues, "\n"))
	}
}
