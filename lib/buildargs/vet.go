// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package buildargs

import (
	"fmt"

	"github.com/gantry-build/gantry/lib/gn"
)

// Vet checks declaration files and their overrides without producing
// a resolved set. It reports every issue it can find as a
// human-readable string: parse failures, arguments declared twice,
// declarations missing their doc comment, evaluation failures,
// overrides of undeclared arguments, and flag implication violations.
// An empty slice means the files are clean.
func Vet(files []NamedSource, options Options) []string {
	var issues []string

	var parsedFiles []*gn.File
	parseFailed := false
	for _, file := range files {
		parsed, err := gn.Parse(file.Name, file.Source)
		if err != nil {
			issues = append(issues, err.Error())
			parseFailed = true
			continue
		}
		parsedFiles = append(parsedFiles, parsed)
	}

	// Structural pass over every file that did parse. Duplicates are
	// caught here across files, because evaluation stops at the first
	// error and would hide all but one.
	firstDeclared := make(map[string]gn.Position)
	duplicates := false
	for _, file := range parsedFiles {
		if vetDeclarations(file.Statements, firstDeclared, &issues) {
			duplicates = true
		}
	}

	if parseFailed || duplicates {
		return issues
	}

	// Semantic pass: resolve for real and report what fails.
	overrides, err := collectOverrides(options)
	if err != nil {
		return append(issues, err.Error())
	}

	evaluator := gn.NewEvaluator(gn.EvalOptions{
		Loader:    options.Loader,
		Overrides: overrides,
	})
	for _, file := range parsedFiles {
		if _, err := evaluator.Run(file); err != nil {
			return append(issues, err.Error())
		}
	}

	set := setFromEvaluator(evaluator)
	for _, name := range sortedNames(overrides) {
		if _, ok := set.byName[name]; !ok {
			issues = append(issues, fmt.Sprintf(
				"unknown build argument %q in %s: no declare_args block declares it",
				name, overridesName(options)))
		}
	}
	if err := checkFlagImplications(set); err != nil {
		issues = append(issues, err.Error())
	}
	return issues
}

// vetDeclarations walks statements looking for declare_args blocks,
// recording declarations and reporting duplicates and missing doc
// comments. Returns whether any duplicate was found.
func vetDeclarations(statements []gn.Statement, firstDeclared map[string]gn.Position, issues *[]string) bool {
	duplicates := false
	for _, statement := range statements {
		switch s := statement.(type) {
		case *gn.CallStatement:
			if s.Name != "declare_args" || s.Block == nil {
				continue
			}
			for _, inner := range s.Block.Statements {
				assignment, ok := inner.(*gn.AssignStatement)
				if !ok {
					continue
				}
				if first, seen := firstDeclared[assignment.Name]; seen {
					*issues = append(*issues, fmt.Sprintf(
						"%s: build argument %q declared more than once (first at %s)",
						assignment.NamePos, assignment.Name, first))
					duplicates = true
					continue
				}
				firstDeclared[assignment.Name] = assignment.NamePos
				if missingDocComment(assignment) {
					*issues = append(*issues, fmt.Sprintf(
						"%s: build argument %q has no doc comment",
						assignment.NamePos, assignment.Name))
				}
			}

		case *gn.ConditionStatement:
			for condition := s; condition != nil; condition = condition.ElseCondition {
				if condition.Then != nil {
					if vetDeclarations(condition.Then.Statements, firstDeclared, issues) {
						duplicates = true
					}
				}
				if condition.ElseCondition == nil && condition.ElseBlock != nil {
					if vetDeclarations(condition.ElseBlock.Statements, firstDeclared, issues) {
						duplicates = true
					}
				}
			}
		}
	}
	return duplicates
}

// missingDocComment reports whether a declaration has no comment
// block attached directly above it. A comment separated by a blank
// line is a section banner, not documentation for this argument.
func missingDocComment(assignment *gn.AssignStatement) bool {
	if len(assignment.LeadingComments) == 0 {
		return true
	}
	return assignment.BlankAfterComments
}