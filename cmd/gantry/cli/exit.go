// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"
)

// ExitError signals a non-zero exit code without printing an extra
// error message. When a command handler returns an ExitError, the CLI
// framework exits with the specified code without printing the error
// string — the command is expected to have already written its own
// output.
//
// This is useful for commands where a non-zero exit is a valid
// outcome (e.g., the vet commands returning 2 after printing the
// issues they found, or "args format --list" returning 1 when files
// need reformatting) rather than an unexpected error.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the exit code. The CLI framework's main function
// checks for this interface on returned errors to distinguish
// "handled non-zero exit" from "unexpected error to display".
func (e *ExitError) ExitCode() int {
	return e.Code
}

// ReportIssues prints issues one per line to stdout, a count to
// stderr, and returns the exit-2 ExitError the vet family shares.
// Returns nil when issues is empty.
func ReportIssues(issues []string) error {
	if len(issues) == 0 {
		return nil
	}
	for _, issue := range issues {
		fmt.Println(issue)
	}
	fmt.Fprintf(os.Stderr, "%d issue(s)\n", len(issues))
	return &ExitError{Code: 2}
}
